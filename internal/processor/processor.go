package processor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/nguyentantai21042004/docnarrator/internal/document"
	"github.com/nguyentantai21042004/docnarrator/internal/logger"
	"github.com/nguyentantai21042004/docnarrator/internal/script"
)

// Process runs one file from the input folder through the narration pipeline
func (p *implProcessor) Process(ctx context.Context, path string) error {
	startTime := time.Now()
	ctx = logger.WithRunID(ctx, uuid.NewString()[:8])

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Starting narration: %s", path)
	p.logger.Info(ctx, "========================================")

	// Step 1: Claim the file
	workPath, err := p.moveToProcessing(ctx, path)
	if err != nil && sourceGone(path) {
		p.logger.Warn(ctx, "Document %s is gone, already claimed by another run", path)
		return nil
	}
	if err != nil {
		return err
	}

	// Step 2: Load it within the size limit
	doc, err := p.load(workPath)
	if err != nil {
		p.moveToFailed(ctx, workPath, err)
		return fmt.Errorf("load document: %w", err)
	}

	// Step 3: Narrate
	res, err := p.pipeline.Run(ctx, doc)
	if err != nil {
		p.moveToFailed(ctx, workPath, err)
		return fmt.Errorf("narrate: %w", err)
	}
	defer res.Close()

	// Step 4: Save audio to output folder (named after the document)
	audioPath := filepath.Join(p.paths.Output, doc.Stem()+"."+res.Artifact.Format)
	if err := res.Artifact.SaveAs(audioPath); err != nil {
		p.moveToFailed(ctx, workPath, err)
		return fmt.Errorf("save audio: %w", err)
	}

	// Step 5: Save narration script next to it
	scriptPath := filepath.Join(p.paths.Output, doc.Stem()+".narration.docx")
	if err := p.script.Write(ctx, scriptPath, script.Script{
		Title:         doc.Stem(),
		Narration:     res.Narration,
		Words:         res.Stats.Words,
		ListeningTime: res.Stats.ListeningTime,
		CreatedAt:     time.Now(),
	}); err != nil {
		p.logger.Warn(ctx, "Failed to write narration script: %v", err)
	}

	// Step 6: Archive the original
	if err := p.moveToArchived(ctx, workPath); err != nil {
		p.logger.Warn(ctx, "Failed to move original to archived folder: %v", err)
	}

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Narration completed successfully!")
	p.logger.Info(ctx, "Output audio: %s", audioPath)
	p.logger.Info(ctx, "Output script: %s", scriptPath)
	p.logger.Info(ctx, "Listening time: ~%s (%d words)", res.Stats.ListeningTime, res.Stats.Words)
	p.logger.Info(ctx, "Processing time: %s", time.Since(startTime))
	p.logger.Info(ctx, "========================================")

	return nil
}

func (p *implProcessor) load(path string) (*document.Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if p.maxBytes > 0 && info.Size() > p.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrTooLarge, info.Size(), p.maxBytes)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return document.New(filepath.Base(path), content, ""), nil
}

func sourceGone(path string) bool {
	_, err := os.Stat(path)
	return errors.Is(err, fs.ErrNotExist)
}
