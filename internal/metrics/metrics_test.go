package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)

	m.RunDone("complete", 2*time.Second)
	m.RunDone("complete", time.Second)
	m.RunDone("rewriting", time.Second)
	m.StageDone("extracting", 10*time.Millisecond, nil)
	m.StageDone("rewriting", time.Second, errors.New("quota"))
	m.HTTPRequest("POST", "/api/narrations", 200)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.runs.WithLabelValues("complete")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("rewriting")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("POST", "/api/narrations", "200")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.stageDuration))
}

func TestNewDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)

	_, err = New(reg)
	assert.Error(t, err)
}
