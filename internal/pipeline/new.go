package pipeline

import (
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/nguyentantai21042004/docnarrator/internal/extractor"
	"github.com/nguyentantai21042004/docnarrator/internal/logger"
	"github.com/nguyentantai21042004/docnarrator/internal/narrator"
	"github.com/nguyentantai21042004/docnarrator/internal/speech"
)

const tracerName = "github.com/nguyentantai21042004/docnarrator/internal/pipeline"

// Options tune a pipeline. Zero values are valid: no stage timeout, no observer, no recorder.
type Options struct {
	StageTimeout time.Duration
	Observer     Observer
	Recorder     Recorder
}

type implPipeline struct {
	extractor   extractor.Extractor
	rewriter    narrator.Rewriter
	synthesizer speech.Synthesizer
	store       Materializer
	opts        Options
	tracer      trace.Tracer
	logger      logger.Logger
}

func New(ext extractor.Extractor, rw narrator.Rewriter, syn speech.Synthesizer, store Materializer, opts Options, log logger.Logger) Pipeline {
	return &implPipeline{
		extractor:   ext,
		rewriter:    rw,
		synthesizer: syn,
		store:       store,
		opts:        opts,
		tracer:      otel.Tracer(tracerName),
		logger:      log,
	}
}
