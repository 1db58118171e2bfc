package httpapi

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/nguyentantai21042004/docnarrator/internal/extractor"
	"github.com/nguyentantai21042004/docnarrator/internal/narrator"
	"github.com/nguyentantai21042004/docnarrator/internal/pipeline"
	"github.com/nguyentantai21042004/docnarrator/internal/speech"
)

type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Stage   string `json:"stage,omitempty"`
	Message string `json:"message"`
}

// apiError is a pipeline failure translated for clients.
type apiError struct {
	status  int
	code    string
	message string
}

func writeError(c *fiber.Ctx, status int, code, stage, message string) error {
	return c.Status(status).JSON(errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Stage:   stage,
			Message: message,
		},
	})
}

// classify maps a run error to a response. Internal details are not leaked.
func classify(err error) apiError {
	switch {
	case errors.Is(err, extractor.ErrUnsupportedFormat):
		return apiError{fiber.StatusUnsupportedMediaType, "UNSUPPORTED_FORMAT", "Unsupported file type. Upload a PDF, DOCX or TXT document."}
	case errors.Is(err, extractor.ErrCorruptDocument):
		return apiError{fiber.StatusUnprocessableEntity, "CORRUPT_DOCUMENT", "The document could not be read. It may be damaged or password protected."}
	case errors.Is(err, pipeline.ErrEmptyDocument):
		return apiError{fiber.StatusUnprocessableEntity, "EMPTY_DOCUMENT", "No readable text was found in the document."}
	case errors.Is(err, pipeline.ErrTimeout):
		return apiError{fiber.StatusGatewayTimeout, "TIMEOUT", "Processing took too long. Try a shorter document."}
	case errors.Is(err, context.Canceled):
		return apiError{fiber.StatusServiceUnavailable, "CANCELLED", "The request was cancelled."}
	}

	switch narrator.KindOf(err) {
	case narrator.KindAuth:
		return apiError{fiber.StatusBadGateway, "REWRITE_AUTH", "The narration service rejected our credentials."}
	case narrator.KindQuota:
		return apiError{fiber.StatusTooManyRequests, "REWRITE_QUOTA", "The narration service quota is exhausted. Try again later."}
	case narrator.KindEmptyResponse:
		return apiError{fiber.StatusBadGateway, "REWRITE_EMPTY", "The narration service returned no text."}
	case narrator.KindNetwork:
		return apiError{fiber.StatusBadGateway, "REWRITE_UNAVAILABLE", "The narration service could not be reached."}
	}

	if errors.Is(err, speech.ErrSynthesisService) {
		return apiError{fiber.StatusBadGateway, "SYNTHESIS_FAILED", "Audio could not be generated."}
	}
	return apiError{fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error"}
}

// ErrorHandler renders errors returned by handlers and fiber itself in the common envelope.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "FILE_TOO_LARGE", "", "upload exceeds the size limit")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "", "internal server error")
		}
	}
}
