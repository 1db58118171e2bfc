package narrator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/docnarrator/internal/config"
)

type geminiGenerator struct {
	client *genai.Client
}

// NewGemini creates a Generator on the Gemini API. The client is safe for concurrent use.
func NewGemini(ctx context.Context, cfg config.GeminiConfig) (Generator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: cfg.BaseURL,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &geminiGenerator{client: client}, nil
}

func (g *geminiGenerator) Generate(ctx context.Context, req Request) (string, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.SystemInstruction, genai.RoleUser),
		Temperature:       genai.Ptr(req.Temperature),
		MaxOutputTokens:   req.MaxOutputTokens,
	}

	result, err := g.client.Models.GenerateContent(ctx, req.Model, genai.Text(req.UserText), cfg)
	if err != nil {
		return "", classify(err)
	}

	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", &Error{Kind: KindEmptyResponse, Err: errors.New("no candidates in response")}
	}

	var sb strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	return sb.String(), nil
}

// classify maps a genai failure onto a Kind. Context errors are returned as-is so the
// caller can tell a timeout apart from a service failure.
func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("generate content: %w", err)
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden:
			return &Error{Kind: KindAuth, Err: err}
		case apiErr.Code == http.StatusTooManyRequests:
			return &Error{Kind: KindQuota, Err: err}
		case apiErr.Code == http.StatusBadRequest && strings.Contains(strings.ToLower(apiErr.Message), "api key"):
			return &Error{Kind: KindAuth, Err: err}
		}
	}

	errMsg := err.Error()
	switch {
	case strings.Contains(errMsg, "429") || strings.Contains(errMsg, "quota") || strings.Contains(errMsg, "RESOURCE_EXHAUSTED"):
		return &Error{Kind: KindQuota, Err: err}
	case strings.Contains(errMsg, "UNAUTHENTICATED") || strings.Contains(errMsg, "PERMISSION_DENIED") || strings.Contains(errMsg, "API key"):
		return &Error{Kind: KindAuth, Err: err}
	}
	return &Error{Kind: KindNetwork, Err: err}
}
