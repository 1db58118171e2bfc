package script

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
)

const (
	fontName = "Georgia"
	fontSize = 12
	grey     = "595959"
	black    = "000000"
)

var (
	reHeading = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	reBold    = regexp.MustCompile(`\*\*(.+?)\*\*`)
)

// Write renders the narration into a docx at path: a title, a summary line, then one
// paragraph per line of narration.
func (w *implWriter) Write(ctx context.Context, path string, s Script) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("new document: %w", err)
	}

	title := strings.TrimSpace(s.Title)
	if title == "" {
		title = "Narration"
	}
	addRun(doc.AddParagraph(""), title, true, 16, black)
	addRun(doc.AddParagraph(""), summaryLine(s), false, 10, grey)

	paragraphs := 0
	for _, line := range strings.Split(s.Narration, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || trimmed == "---" {
			continue
		}
		if m := reHeading.FindStringSubmatch(trimmed); m != nil {
			addRun(doc.AddParagraph(""), m[2], true, headingSize(len(m[1])), black)
			continue
		}
		addRichText(doc.AddParagraph(""), trimmed)
		paragraphs++
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create script dir: %w", err)
	}
	if err := doc.SaveTo(path); err != nil {
		return fmt.Errorf("save script: %w", err)
	}

	w.logger.Debug(ctx, "Wrote narration script %s (%d paragraphs)", path, paragraphs)
	return nil
}

func summaryLine(s Script) string {
	parts := []string{fmt.Sprintf("%d words", s.Words)}
	if s.ListeningTime > 0 {
		parts = append(parts, fmt.Sprintf("about %s of listening", s.ListeningTime))
	}
	if !s.CreatedAt.IsZero() {
		parts = append(parts, s.CreatedAt.Format("2006-01-02 15:04"))
	}
	return strings.Join(parts, " | ")
}

func headingSize(level int) uint64 {
	switch level {
	case 1:
		return 15
	case 2:
		return 14
	default:
		return 13
	}
}

func addRun(p *docx.Paragraph, text string, bold bool, size uint64, color string) {
	run := p.AddText(cleanInline(text)).Font(fontName).Size(size).Color(color)
	if bold {
		run.Bold(true)
	}
}

// addRichText keeps **bold** spans from the model output as bold runs.
func addRichText(p *docx.Paragraph, text string) {
	parts := reBold.Split(text, -1)
	matches := reBold.FindAllStringSubmatch(text, -1)

	for i, part := range parts {
		if part != "" {
			p.AddText(cleanInline(part)).Font(fontName).Size(fontSize).Color(black)
		}
		if i < len(matches) {
			p.AddText(cleanInline(matches[i][1])).Font(fontName).Size(fontSize).Color(black).Bold(true)
		}
	}
}

func cleanInline(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	s = strings.ReplaceAll(s, "`", "")
	return s
}
