package narrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Rewrite sends the whole text as one request and waits for the whole response.
func (r *implRewriter) Rewrite(ctx context.Context, text string) (string, error) {
	r.logger.Info(ctx, "Rewriting %d characters with %s", len(text), r.model)
	start := time.Now()

	out, err := r.generator.Generate(ctx, Request{
		Model:             r.model,
		SystemInstruction: r.instruction,
		UserText:          text,
		Temperature:       r.temperature,
		MaxOutputTokens:   r.maxOutputTokens,
	})
	if err != nil {
		var rerr *Error
		if errors.As(err, &rerr) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return "", err
		}
		return "", &Error{Kind: KindNetwork, Err: err}
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return "", &Error{Kind: KindEmptyResponse, Err: fmt.Errorf("model %s returned no text", r.model)}
	}

	r.logger.Info(ctx, "Rewrite completed in %s (%d characters)", time.Since(start).Round(time.Millisecond), len(out))
	return out, nil
}
