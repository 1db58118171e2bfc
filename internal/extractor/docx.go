package extractor

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gomutex/godocx/docx"
	"github.com/gomutex/godocx/packager"
	"github.com/gomutex/godocx/wml/ctypes"
)

const (
	wordNS       = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	docxBodyPath = "word/document.xml"
)

// godocx drops these elements while unmarshalling, so text inside them is only
// reachable through the raw body XML.
var unmodeledMarkers = [][]byte{
	[]byte("<w:hyperlink"),
	[]byte("<w:sdt"),
	[]byte("<w:txbxContent"),
	[]byte("<w:smartTag"),
	[]byte("<w:fldSimple"),
	[]byte("<w:ins "),
	[]byte("<w:cr/>"),
}

// readDOCX emits every non-blank paragraph followed by a newline, in document order.
// Paragraphs inside table cells are included where they appear.
func (e *implExtractor) readDOCX(ctx context.Context, content []byte) (string, error) {
	rd, err := unpackDOCX(content)
	if err != nil {
		return "", corrupt("open docx", err)
	}
	if rd.Document == nil || rd.Document.Body == nil {
		return "", corrupt("docx has no document body", nil)
	}

	if raw, ok := rawBodyWithUnmodeled(content); ok {
		e.logger.Debug(ctx, "DOCX uses elements outside the object model, reading raw XML")
		return paragraphsFromXML(bytes.NewReader(raw))
	}

	var out strings.Builder
	for _, child := range rd.Document.Body.Children {
		switch {
		case child.Para != nil:
			writeParagraph(&out, child.Para.GetCT())
		case child.Table != nil:
			writeTable(&out, child.Table.GetCT())
		}
	}
	return out.String(), nil
}

func unpackDOCX(content []byte) (rd *docx.RootDoc, err error) {
	defer func() {
		if r := recover(); r != nil {
			rd, err = nil, fmt.Errorf("docx parser panic: %v", r)
		}
	}()
	return packager.Unpack(&content)
}

func writeParagraph(out *strings.Builder, p *ctypes.Paragraph) {
	var sb strings.Builder
	for _, child := range p.Children {
		if child.Run != nil {
			writeRun(&sb, child.Run)
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return
	}
	out.WriteString(sb.String())
	out.WriteByte('\n')
}

func writeRun(sb *strings.Builder, r *ctypes.Run) {
	for _, c := range r.Children {
		switch {
		case c.Text != nil:
			sb.WriteString(c.Text.Text)
		case c.Tab != nil:
			sb.WriteByte('\t')
		case c.Break != nil, c.CarrRtn != nil:
			sb.WriteByte('\n')
		}
	}
}

func writeTable(out *strings.Builder, t *ctypes.Table) {
	for _, rc := range t.RowContents {
		if rc.Row == nil {
			continue
		}
		for _, cc := range rc.Row.Contents {
			if cc.Cell == nil {
				continue
			}
			for _, block := range cc.Cell.Contents {
				switch {
				case block.Paragraph != nil:
					writeParagraph(out, block.Paragraph)
				case block.Table != nil:
					writeTable(out, block.Table)
				}
			}
		}
	}
}

// rawBodyWithUnmodeled returns word/document.xml when it contains elements godocx skips.
func rawBodyWithUnmodeled(content []byte) ([]byte, bool) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, false
	}
	for _, f := range zr.File {
		if f.Name != docxBodyPath {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, false
		}
		raw, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, false
		}
		for _, m := range unmodeledMarkers {
			if bytes.Contains(raw, m) {
				return raw, true
			}
		}
		return nil, false
	}
	return nil, false
}

// paragraphsFromXML streams body XML, collecting w:t text per w:p.
func paragraphsFromXML(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)

	var (
		out    strings.Builder
		stack  []*strings.Builder
		inText bool
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", corrupt("parse "+docxBodyPath, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space != wordNS {
				continue
			}
			switch t.Name.Local {
			case "p":
				stack = append(stack, &strings.Builder{})
			case "t":
				inText = true
			case "tab":
				if len(stack) > 0 {
					stack[len(stack)-1].WriteByte('\t')
				}
			case "br", "cr":
				if len(stack) > 0 {
					stack[len(stack)-1].WriteByte('\n')
				}
			}

		case xml.EndElement:
			if t.Name.Space != wordNS {
				continue
			}
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if len(stack) == 0 {
					continue
				}
				para := stack[len(stack)-1].String()
				stack = stack[:len(stack)-1]
				if strings.TrimSpace(para) != "" {
					out.WriteString(para)
					out.WriteByte('\n')
				}
			}

		case xml.CharData:
			if inText && len(stack) > 0 {
				stack[len(stack)-1].Write(t)
			}
		}
	}

	return out.String(), nil
}
