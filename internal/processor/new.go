package processor

import (
	"github.com/nguyentantai21042004/docnarrator/internal/config"
	"github.com/nguyentantai21042004/docnarrator/internal/logger"
	"github.com/nguyentantai21042004/docnarrator/internal/pipeline"
	"github.com/nguyentantai21042004/docnarrator/internal/script"
)

type implProcessor struct {
	paths    config.PathsConfig
	maxBytes int64
	pipeline pipeline.Pipeline
	script   script.Writer
	logger   logger.Logger
}

// New creates a Processor that moves files through the processing, output, archived and failed folders.
func New(cfg *config.Config, p pipeline.Pipeline, sw script.Writer, log logger.Logger) Processor {
	return &implProcessor{
		paths:    cfg.Paths,
		maxBytes: cfg.Limits.MaxUploadBytes,
		pipeline: p,
		script:   sw,
		logger:   log,
	}
}
