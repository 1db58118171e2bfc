package processor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrTooLarge is returned for input files above limits.max_upload_bytes.
var ErrTooLarge = errors.New("document too large")

// moveToProcessing moves the document from input to processing folder
func (p *implProcessor) moveToProcessing(ctx context.Context, path string) (string, error) {
	destPath := filepath.Join(p.paths.Processing, filepath.Base(path))

	p.logger.Info(ctx, "Moving to processing folder: %s -> %s", path, destPath)

	if err := os.Rename(path, destPath); err != nil {
		return "", fmt.Errorf("move to processing: %w", err)
	}

	return destPath, nil
}

// moveToArchived moves a processed document to the archived folder
func (p *implProcessor) moveToArchived(ctx context.Context, path string) error {
	destPath := filepath.Join(p.paths.Archived, filepath.Base(path))

	p.logger.Info(ctx, "Archiving original: %s -> %s", path, destPath)

	if err := os.Rename(path, destPath); err != nil {
		return fmt.Errorf("move to archived: %w", err)
	}

	return nil
}

// moveToFailed parks a document in the failed folder with a <name>.error.txt beside it
func (p *implProcessor) moveToFailed(ctx context.Context, path string, cause error) {
	destPath := filepath.Join(p.paths.Failed, filepath.Base(path))

	if err := os.Rename(path, destPath); err != nil {
		p.logger.Warn(ctx, "Failed to move %s to failed folder: %v", path, err)
		return
	}

	reportPath := destPath + ".error.txt"
	if err := os.WriteFile(reportPath, []byte(cause.Error()+"\n"), 0644); err != nil {
		p.logger.Warn(ctx, "Failed to write error report %s: %v", reportPath, err)
	}

	p.logger.Info(ctx, "Moved to failed folder: %s", destPath)
}
