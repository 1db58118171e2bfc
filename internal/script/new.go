package script

import (
	"github.com/nguyentantai21042004/docnarrator/internal/logger"
)

type implWriter struct {
	logger logger.Logger
}

// New creates a Writer producing .docx files.
func New(log logger.Logger) Writer {
	return &implWriter{logger: log}
}
