package httpapi

import (
	"fmt"
	"io"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/nguyentantai21042004/docnarrator/internal/document"
	"github.com/nguyentantai21042004/docnarrator/internal/logger"
	"github.com/nguyentantai21042004/docnarrator/internal/pipeline"
	"github.com/nguyentantai21042004/docnarrator/pkg/semaphore"
)

type handler struct {
	pipeline pipeline.Pipeline
	sem      *semaphore.Semaphore
	maxBytes int64
	logger   logger.Logger
}

func (h *handler) healthz(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":      "ok",
		"active_runs": h.sem.InUse(),
		"capacity":    h.sem.Capacity(),
	})
}

// narrate handles POST /api/narrations. The document is the multipart field "file"; the
// optional query "format" overrides the type tag and "download=true" asks for an attachment.
func (h *handler) narrate(c *fiber.Ctx) error {
	ctx := c.UserContext()

	fh, err := c.FormFile("file")
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "MISSING_FILE", "", `multipart field "file" is required`)
	}
	if h.maxBytes > 0 && fh.Size > h.maxBytes {
		return writeError(c, fiber.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "",
			fmt.Sprintf("upload exceeds the %d byte limit", h.maxBytes))
	}

	if !h.sem.TryAcquire() {
		c.Set(fiber.HeaderRetryAfter, "30")
		return writeError(c, fiber.StatusServiceUnavailable, "BUSY", "", "Too many narrations in progress. Try again shortly.")
	}
	defer h.sem.Release()

	f, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	content, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("read upload: %w", err)
	}

	doc := document.New(fh.Filename, content, typeTag(c.Query("format"), fh.Filename, fh.Header.Get(fiber.HeaderContentType)))

	res, err := h.pipeline.Run(ctx, doc)
	if err != nil {
		h.logger.Warn(ctx, "Narration of %s failed: %v", fh.Filename, err)
		ae := classify(err)
		return writeError(c, ae.status, ae.code, string(pipeline.StageOf(err)), ae.message)
	}
	defer res.Close()

	audio, err := res.Artifact.Bytes()
	if err != nil {
		return fmt.Errorf("read artifact: %w", err)
	}

	disposition := "inline"
	if c.QueryBool("download") {
		disposition = "attachment"
	}
	c.Set(fiber.HeaderContentType, res.Artifact.ContentType())
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`%s; filename="%s"`, disposition, res.Artifact.Filename()))
	c.Set("X-Word-Count", strconv.Itoa(res.Stats.Words))
	c.Set("X-Listening-Seconds", strconv.Itoa(int(res.Stats.ListeningTime.Seconds())))
	return c.Status(fiber.StatusOK).Send(audio)
}

// typeTag prefers an explicit format, then a recognised extension, then the part's MIME type.
func typeTag(explicit, filename, contentType string) string {
	if explicit != "" {
		return explicit
	}
	if f := document.FormatFromFilename(filename); f.Supported() {
		return string(f)
	}
	if contentType != "" {
		return contentType
	}
	return string(document.FormatFromFilename(filename))
}
