package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/nguyentantai21042004/docnarrator/internal/artifact"
	"github.com/nguyentantai21042004/docnarrator/internal/document"
	"github.com/nguyentantai21042004/docnarrator/internal/logger"
	"github.com/nguyentantai21042004/docnarrator/internal/narrator"
	"github.com/nguyentantai21042004/docnarrator/internal/speech"
)

// Run drives one document through extraction, rewriting and synthesis.
func (p *implPipeline) Run(ctx context.Context, doc *document.Document) (*Result, error) {
	if logger.RunID(ctx) == "" {
		ctx = logger.WithRunID(ctx, uuid.NewString()[:8])
	}
	if doc == nil {
		return nil, p.fail(ctx, StateExtracting, ErrNilDocument)
	}
	startTime := time.Now()

	ctx, span := p.tracer.Start(ctx, "pipeline.run", trace.WithAttributes(
		attribute.String("document.filename", doc.Filename),
		attribute.String("document.format", string(doc.Format)),
		attribute.Int("document.bytes", len(doc.Content)),
	))
	defer span.End()

	p.logger.Info(ctx, "Starting narration: %s (%s, %d bytes)", doc.Filename, doc.Format, len(doc.Content))
	p.notify(ctx, StateIdle, nil)

	res, err := p.run(ctx, doc)

	duration := time.Since(startTime)
	outcome := string(StateComplete)
	if err != nil {
		outcome = string(StageOf(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		p.logger.Error(ctx, "Narration failed after %s: %v", duration, err)
	} else {
		span.SetAttributes(
			attribute.Int("narration.words", res.Stats.Words),
			attribute.Int64("artifact.bytes", res.Artifact.Size),
		)
		p.logger.Info(ctx, "Narration completed in %s: %d words, ~%s listening time",
			duration, res.Stats.Words, res.Stats.ListeningTime)
	}
	if p.opts.Recorder != nil {
		p.opts.Recorder.RunDone(outcome, duration)
	}
	return res, err
}

func (p *implPipeline) run(ctx context.Context, doc *document.Document) (*Result, error) {
	// Step 1: Extract text
	var text string
	err := p.stage(ctx, StateExtracting, func(ctx context.Context) error {
		var err error
		text, err = p.extractor.Extract(ctx, doc)
		if err != nil {
			return err
		}
		if strings.TrimSpace(text) == "" {
			return ErrEmptyDocument
		}
		p.logger.Debug(ctx, "Extracted %d characters", len(text))
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Step 2: Rewrite into narration
	var narration string
	err = p.stage(ctx, StateRewriting, func(ctx context.Context) error {
		var err error
		narration, err = p.rewriter.Rewrite(ctx, text)
		if err != nil {
			return err
		}
		if strings.TrimSpace(narration) == "" {
			return &narrator.Error{Kind: narrator.KindEmptyResponse}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Step 3: Synthesize and materialize the artifact
	var art *artifact.Artifact
	err = p.stage(ctx, StateSynthesizing, func(ctx context.Context) error {
		audio, err := p.synthesizer.Synthesize(ctx, narration)
		if err != nil {
			return err
		}
		if audio == nil || len(audio.Data) == 0 {
			return &speech.Error{Kind: speech.KindNetwork}
		}
		art, err = p.store.Materialize(ctx, audio.Data, audio.Format)
		return err
	})
	if err != nil {
		if art != nil {
			_ = art.Close()
		}
		return nil, err
	}

	p.notify(ctx, StateComplete, nil)
	return &Result{
		Artifact:  art,
		Narration: narration,
		Stats:     computeStats(narration),
	}, nil
}

// stage runs fn as one state of the machine with its own deadline and span.
func (p *implPipeline) stage(ctx context.Context, state State, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return p.fail(ctx, state, err)
	}
	p.notify(ctx, state, nil)

	stageCtx := ctx
	if p.opts.StageTimeout > 0 {
		var cancel context.CancelFunc
		stageCtx, cancel = context.WithTimeout(ctx, p.opts.StageTimeout)
		defer cancel()
	}
	stageCtx, span := p.tracer.Start(stageCtx, "pipeline."+string(state))
	defer span.End()

	startTime := time.Now()
	err := fn(stageCtx)
	if p.opts.Recorder != nil {
		p.opts.Recorder.StageDone(string(state), time.Since(startTime), err)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return p.fail(ctx, state, err)
	}
	return nil
}

func (p *implPipeline) fail(ctx context.Context, state State, err error) error {
	perr := &Error{Stage: state, Err: err}
	p.notify(ctx, StateFailed, perr)
	return perr
}

func (p *implPipeline) notify(ctx context.Context, state State, err error) {
	if state.Terminal() {
		p.logger.Info(ctx, "State -> %s (final)", state)
	} else {
		p.logger.Debug(ctx, "State -> %s", state)
	}
	if p.opts.Observer != nil {
		p.opts.Observer(ctx, state, err)
	}
}
