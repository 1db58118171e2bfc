package pipeline

import (
	"context"
	"time"

	"github.com/nguyentantai21042004/docnarrator/internal/artifact"
	"github.com/nguyentantai21042004/docnarrator/internal/document"
)

// Pipeline turns one document into one audiobook artifact.
type Pipeline interface {
	Run(ctx context.Context, doc *document.Document) (*Result, error)
}

// Materializer puts finished audio into transient storage.
type Materializer interface {
	Materialize(ctx context.Context, data []byte, format string) (*artifact.Artifact, error)
}

// Observer is told about every state the run enters. err is set only for StateFailed.
type Observer func(ctx context.Context, state State, err error)

// Recorder receives stage and run timings.
type Recorder interface {
	StageDone(stage string, d time.Duration, err error)
	RunDone(outcome string, d time.Duration)
}

// Result of a successful run. The caller owns Artifact and must Close it.
type Result struct {
	Artifact  *artifact.Artifact
	Narration string
	Stats     Stats
}

// Close releases the artifact.
func (r *Result) Close() error {
	if r == nil || r.Artifact == nil {
		return nil
	}
	return r.Artifact.Close()
}
