package narrator

import (
	"context"

	"github.com/nguyentantai21042004/docnarrator/internal/config"
	"github.com/nguyentantai21042004/docnarrator/internal/logger"
)

type implRewriter struct {
	generator       Generator
	model           string
	instruction     string
	temperature     float32
	maxOutputTokens int32
	logger          logger.Logger
}

// New creates a Rewriter backed by Gemini. When rewriting is disabled it returns Passthrough.
func New(ctx context.Context, gcfg config.GeminiConfig, ncfg config.NarratorConfig, log logger.Logger) (Rewriter, error) {
	if !ncfg.RewriteEnabled() {
		return Passthrough(), nil
	}

	gen, err := NewGemini(ctx, gcfg)
	if err != nil {
		return nil, err
	}
	return NewWithGenerator(gen, gcfg.Model, ncfg, log), nil
}

// NewWithGenerator creates a Rewriter on top of any Generator.
func NewWithGenerator(gen Generator, model string, ncfg config.NarratorConfig, log logger.Logger) Rewriter {
	return &implRewriter{
		generator:       gen,
		model:           model,
		instruction:     SystemInstruction(ncfg.Style),
		temperature:     ncfg.SamplingTemperature(),
		maxOutputTokens: ncfg.MaxOutputTokens,
		logger:          log,
	}
}

type passthrough struct{}

// Passthrough returns a Rewriter that narrates the text as extracted.
func Passthrough() Rewriter { return passthrough{} }

func (passthrough) Rewrite(ctx context.Context, text string) (string, error) {
	return text, nil
}
