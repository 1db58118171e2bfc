package pipeline

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/docnarrator/internal/artifact"
	"github.com/nguyentantai21042004/docnarrator/internal/config"
	"github.com/nguyentantai21042004/docnarrator/internal/document"
	"github.com/nguyentantai21042004/docnarrator/internal/extractor"
	"github.com/nguyentantai21042004/docnarrator/internal/logger"
	"github.com/nguyentantai21042004/docnarrator/internal/narrator"
	"github.com/nguyentantai21042004/docnarrator/internal/speech"
)

type mockRewriter struct {
	mock.Mock
}

func (m *mockRewriter) Rewrite(ctx context.Context, text string) (string, error) {
	ret := m.Called(ctx, text)
	return ret.String(0), ret.Error(1)
}

type mockSynthesizer struct {
	mock.Mock
}

func (m *mockSynthesizer) Synthesize(ctx context.Context, text string) (*speech.Audio, error) {
	ret := m.Called(ctx, text)
	audio, _ := ret.Get(0).(*speech.Audio)
	return audio, ret.Error(1)
}

type rewriterFunc func(ctx context.Context, text string) (string, error)

func (f rewriterFunc) Rewrite(ctx context.Context, text string) (string, error) { return f(ctx, text) }

type failingStore struct{}

func (failingStore) Materialize(ctx context.Context, data []byte, format string) (*artifact.Artifact, error) {
	return nil, errors.New("disk full")
}

type recordedRun struct {
	outcome string
	stages  []string
}

func (r *recordedRun) StageDone(stage string, d time.Duration, err error) {
	r.stages = append(r.stages, stage)
}

func (r *recordedRun) RunDone(outcome string, d time.Duration) {
	r.outcome = outcome
}

var audioA1 = []byte("ID3\x03\x00A1-audio-frames")

func newTestPipeline(t *testing.T, rw narrator.Rewriter, syn speech.Synthesizer, opts Options) (Pipeline, string) {
	t.Helper()
	root := t.TempDir()
	ext := extractor.New(config.ExtractorConfig{}, nil, logger.Nop())
	return New(ext, rw, syn, artifact.NewStore(root), opts, logger.Nop()), root
}

func collectStates(states *[]State) Observer {
	return func(ctx context.Context, state State, err error) {
		*states = append(*states, state)
	}
}

func assertNoArtifacts(t *testing.T, root string) {
	t.Helper()
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunProducesArtifact(t *testing.T) {
	rw := &mockRewriter{}
	rw.On("Rewrite", mock.Anything, "The cat sat.").Return("Once upon a time, a cat sat down.", nil)
	syn := &mockSynthesizer{}
	syn.On("Synthesize", mock.Anything, "Once upon a time, a cat sat down.").
		Return(&speech.Audio{Data: audioA1, Format: "mp3"}, nil)

	var states []State
	p, _ := newTestPipeline(t, rw, syn, Options{StageTimeout: time.Second, Observer: collectStates(&states)})

	res, err := p.Run(context.Background(), document.New("cat.txt", []byte("The cat sat."), "txt"))
	require.NoError(t, err)
	defer res.Close()

	assert.True(t, res.Artifact.Equal(audioA1))
	assert.Equal(t, "audiobook.mp3", res.Artifact.Filename())
	assert.Equal(t, "Once upon a time, a cat sat down.", res.Narration)
	assert.Equal(t, 7, res.Stats.Words)
	assert.Equal(t,
		[]State{StateIdle, StateExtracting, StateRewriting, StateSynthesizing, StateComplete},
		states)
	rw.AssertExpectations(t)
	syn.AssertExpectations(t)
}

func TestRunHelloWorld(t *testing.T) {
	rw := &mockRewriter{}
	rw.On("Rewrite", mock.Anything, "Hello world.").
		Return("Once, in a quiet town, a voice said: Hello, world.", nil).Once()
	syn := &mockSynthesizer{}
	syn.On("Synthesize", mock.Anything, "Once, in a quiet town, a voice said: Hello, world.").
		Return(&speech.Audio{Data: []byte("FAKEAUDIO"), Format: "mp3"}, nil).Once()

	var states []State
	p, _ := newTestPipeline(t, rw, syn, Options{Observer: collectStates(&states)})

	res, err := p.Run(context.Background(), document.New("sample.txt", []byte("Hello world."), ""))
	require.NoError(t, err)
	defer res.Close()

	data, err := res.Artifact.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte("FAKEAUDIO"), data)
	assert.Equal(t, "audiobook.mp3", res.Artifact.Filename())
	assert.Equal(t, StateComplete, states[len(states)-1])
	assert.True(t, states[len(states)-1].Terminal())
	rw.AssertExpectations(t)
	syn.AssertExpectations(t)
}

func TestRunPDFWithBlankPage(t *testing.T) {
	content, err := os.ReadFile("testdata/report.pdf")
	require.NoError(t, err)

	rw := &mockRewriter{}
	rw.On("Rewrite", mock.Anything, "Page one text. ").Return("Here is page one.", nil).Once()
	syn := &mockSynthesizer{}
	syn.On("Synthesize", mock.Anything, "Here is page one.").
		Return(&speech.Audio{Data: audioA1, Format: "mp3"}, nil).Once()

	var states []State
	p, _ := newTestPipeline(t, rw, syn, Options{Observer: collectStates(&states)})

	res, err := p.Run(context.Background(), document.New("report.pdf", content, ""))
	require.NoError(t, err)
	defer res.Close()

	assert.True(t, res.Artifact.Equal(audioA1))
	assert.Equal(t,
		[]State{StateIdle, StateExtracting, StateRewriting, StateSynthesizing, StateComplete},
		states)
	rw.AssertExpectations(t)
	syn.AssertExpectations(t)
}

func TestRunEmptyDocument(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
	}{
		{"zero bytes", nil},
		{"whitespace only", []byte("  \n\t \r\n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rw := &mockRewriter{}
			syn := &mockSynthesizer{}
			var states []State
			p, root := newTestPipeline(t, rw, syn, Options{Observer: collectStates(&states)})

			res, err := p.Run(context.Background(), document.New("empty.txt", tt.content, ""))
			assert.Nil(t, res)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrEmptyDocument)
			assert.Equal(t, StateExtracting, StageOf(err))
			assert.Equal(t, StateFailed, states[len(states)-1])
			rw.AssertNotCalled(t, "Rewrite", mock.Anything, mock.Anything)
			syn.AssertNotCalled(t, "Synthesize", mock.Anything, mock.Anything)
			assertNoArtifacts(t, root)
		})
	}
}

func TestRunEmptyDocumentEveryFormat(t *testing.T) {
	for _, name := range []string{"a.pdf", "a.docx", "a.txt"} {
		t.Run(name, func(t *testing.T) {
			p, _ := newTestPipeline(t, &mockRewriter{}, &mockSynthesizer{}, Options{})
			_, err := p.Run(context.Background(), document.New(name, []byte{}, ""))
			assert.ErrorIs(t, err, ErrEmptyDocument)
		})
	}
}

func TestRunUnsupportedFormat(t *testing.T) {
	rw := &mockRewriter{}
	syn := &mockSynthesizer{}
	p, _ := newTestPipeline(t, rw, syn, Options{})

	_, err := p.Run(context.Background(), document.New("sheet.xlsx", []byte("PK\x03\x04"), ""))
	require.Error(t, err)
	assert.ErrorIs(t, err, extractor.ErrUnsupportedFormat)
	assert.Equal(t, StateExtracting, StageOf(err))
	rw.AssertNumberOfCalls(t, "Rewrite", 0)
	syn.AssertNumberOfCalls(t, "Synthesize", 0)
}

func TestRunRewriteFailure(t *testing.T) {
	rw := &mockRewriter{}
	rw.On("Rewrite", mock.Anything, mock.Anything).
		Return("", &narrator.Error{Kind: narrator.KindQuota, Err: errors.New("429 resource exhausted")})
	syn := &mockSynthesizer{}
	p, root := newTestPipeline(t, rw, syn, Options{})

	_, err := p.Run(context.Background(), document.New("notes.txt", []byte("Quarterly numbers."), ""))
	require.Error(t, err)
	assert.ErrorIs(t, err, narrator.ErrRewriteService)
	assert.NotErrorIs(t, err, ErrTimeout)
	assert.Equal(t, narrator.KindQuota, narrator.KindOf(err))
	assert.Equal(t, StateRewriting, StageOf(err))
	assert.True(t, strings.HasPrefix(err.Error(), "rewriting: "), err.Error())
	syn.AssertNumberOfCalls(t, "Synthesize", 0)
	assertNoArtifacts(t, root)
}

func TestRunEmptyNarration(t *testing.T) {
	rw := &mockRewriter{}
	rw.On("Rewrite", mock.Anything, mock.Anything).Return(" \n ", nil)
	syn := &mockSynthesizer{}
	p, _ := newTestPipeline(t, rw, syn, Options{})

	_, err := p.Run(context.Background(), document.New("a.txt", []byte("text"), ""))
	require.Error(t, err)
	assert.Equal(t, narrator.KindEmptyResponse, narrator.KindOf(err))
	assert.Equal(t, StateRewriting, StageOf(err))
	syn.AssertNumberOfCalls(t, "Synthesize", 0)
}

func TestRunSynthesisFailure(t *testing.T) {
	rw := &mockRewriter{}
	rw.On("Rewrite", mock.Anything, mock.Anything).Return("Hello there.", nil)
	syn := &mockSynthesizer{}
	syn.On("Synthesize", mock.Anything, "Hello there.").
		Return(nil, &speech.Error{Kind: speech.KindNetwork, Err: errors.New("connection reset")})

	var states []State
	p, root := newTestPipeline(t, rw, syn, Options{Observer: collectStates(&states)})

	res, err := p.Run(context.Background(), document.New("a.txt", []byte("Hello."), ""))
	assert.Nil(t, res)
	require.Error(t, err)
	assert.ErrorIs(t, err, speech.ErrSynthesisService)
	assert.Equal(t, StateSynthesizing, StageOf(err))
	assert.Equal(t, StateFailed, states[len(states)-1])
	assertNoArtifacts(t, root)
}

func TestRunMaterializeFailure(t *testing.T) {
	rw := &mockRewriter{}
	rw.On("Rewrite", mock.Anything, mock.Anything).Return("Hello.", nil)
	syn := &mockSynthesizer{}
	syn.On("Synthesize", mock.Anything, mock.Anything).Return(&speech.Audio{Data: audioA1, Format: "mp3"}, nil)

	ext := extractor.New(config.ExtractorConfig{}, nil, logger.Nop())
	p := New(ext, rw, syn, failingStore{}, Options{}, logger.Nop())

	_, err := p.Run(context.Background(), document.New("a.txt", []byte("Hello."), ""))
	require.Error(t, err)
	assert.Equal(t, StateSynthesizing, StageOf(err))
	assert.Contains(t, err.Error(), "disk full")
}

func TestRunStageTimeout(t *testing.T) {
	slow := rewriterFunc(func(ctx context.Context, text string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	syn := &mockSynthesizer{}
	p, _ := newTestPipeline(t, slow, syn, Options{StageTimeout: 20 * time.Millisecond})

	_, err := p.Run(context.Background(), document.New("a.txt", []byte("Some text."), ""))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotErrorIs(t, err, narrator.ErrRewriteService)
	assert.Equal(t, StateRewriting, StageOf(err))
	syn.AssertNumberOfCalls(t, "Synthesize", 0)
}

func TestRunCancelled(t *testing.T) {
	t.Run("before start", func(t *testing.T) {
		rw := &mockRewriter{}
		p, _ := newTestPipeline(t, rw, &mockSynthesizer{}, Options{})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := p.Run(ctx, document.New("a.txt", []byte("text"), ""))
		assert.ErrorIs(t, err, context.Canceled)
		assert.NotErrorIs(t, err, ErrTimeout)
		assert.Equal(t, StateExtracting, StageOf(err))
		rw.AssertNumberOfCalls(t, "Rewrite", 0)
	})

	t.Run("between stages", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		rw := rewriterFunc(func(context.Context, string) (string, error) {
			cancel()
			return "narration", nil
		})
		syn := &mockSynthesizer{}
		p, root := newTestPipeline(t, rw, syn, Options{})

		_, err := p.Run(ctx, document.New("a.txt", []byte("text"), ""))
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, StateSynthesizing, StageOf(err))
		syn.AssertNumberOfCalls(t, "Synthesize", 0)
		assertNoArtifacts(t, root)
	})
}

func TestRunIdempotent(t *testing.T) {
	rw := &mockRewriter{}
	rw.On("Rewrite", mock.Anything, "Chapter one.").Return("Let us begin with chapter one.", nil)
	syn := &mockSynthesizer{}
	syn.On("Synthesize", mock.Anything, "Let us begin with chapter one.").
		Return(&speech.Audio{Data: audioA1, Format: "mp3"}, nil)
	p, _ := newTestPipeline(t, rw, syn, Options{})
	doc := document.New("book.txt", []byte("Chapter one."), "")

	first, err := p.Run(context.Background(), doc)
	require.NoError(t, err)
	defer first.Close()
	second, err := p.Run(context.Background(), doc)
	require.NoError(t, err)
	defer second.Close()

	a, err := first.Artifact.Bytes()
	require.NoError(t, err)
	assert.True(t, second.Artifact.Equal(a))
	assert.NotEqual(t, first.Artifact.Path, second.Artifact.Path)
	assert.Equal(t, first.Narration, second.Narration)
}

func TestRunRecorder(t *testing.T) {
	rw := &mockRewriter{}
	rw.On("Rewrite", mock.Anything, mock.Anything).Return("", &narrator.Error{Kind: narrator.KindAuth})
	syn := &mockSynthesizer{}
	rec := &recordedRun{}
	var states []State
	p, root := newTestPipeline(t, rw, syn, Options{Recorder: rec, Observer: collectStates(&states)})

	_, err := p.Run(context.Background(), document.New("a.txt", []byte("text"), ""))
	require.Error(t, err)
	assert.ErrorIs(t, err, narrator.ErrRewriteService)
	assert.Equal(t, narrator.KindAuth, narrator.KindOf(err))
	assert.Equal(t, StateRewriting, StageOf(err))
	syn.AssertNumberOfCalls(t, "Synthesize", 0)
	assert.True(t, states[len(states)-1].Terminal())
	assert.Equal(t, "rewriting", rec.outcome)
	assert.Equal(t, []string{"extracting", "rewriting"}, rec.stages)
	assertNoArtifacts(t, root)
}

func TestRunNilDocument(t *testing.T) {
	rw := &mockRewriter{}
	syn := &mockSynthesizer{}
	var states []State
	p, root := newTestPipeline(t, rw, syn, Options{Observer: collectStates(&states)})

	var res *Result
	var err error
	require.NotPanics(t, func() { res, err = p.Run(context.Background(), nil) })
	assert.Nil(t, res)

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, StateExtracting, perr.Stage)
	assert.ErrorIs(t, err, ErrNilDocument)
	assert.Equal(t, []State{StateFailed}, states)
	rw.AssertNumberOfCalls(t, "Rewrite", 0)
	syn.AssertNumberOfCalls(t, "Synthesize", 0)
	assertNoArtifacts(t, root)
}

func TestRunKeepsCallerRunID(t *testing.T) {
	var seen string
	rw := rewriterFunc(func(ctx context.Context, text string) (string, error) {
		seen = logger.RunID(ctx)
		return "", &narrator.Error{Kind: narrator.KindNetwork}
	})
	p, _ := newTestPipeline(t, rw, &mockSynthesizer{}, Options{})

	ctx := logger.WithRunID(context.Background(), "req-42")
	_, _ = p.Run(ctx, document.New("a.txt", []byte("text"), ""))
	assert.Equal(t, "req-42", seen)
}

func TestComputeStats(t *testing.T) {
	tests := []struct {
		name      string
		narration string
		words     int
		chars     int
		listening time.Duration
	}{
		{"empty", "", 0, 0, 0},
		{"short", "Hello world.", 2, 12, time.Second},
		{"one minute", strings.Repeat("word ", 150), 150, 750, time.Minute},
		{"unicode", "Xin chào bạn", 3, 12, time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := computeStats(tt.narration)
			assert.Equal(t, tt.words, got.Words)
			assert.Equal(t, tt.chars, got.Characters)
			assert.Equal(t, tt.listening, got.ListeningTime)
		})
	}
}
