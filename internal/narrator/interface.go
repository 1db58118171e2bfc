package narrator

import "context"

// Rewriter turns extracted document text into narration prose.
type Rewriter interface {
	Rewrite(ctx context.Context, text string) (string, error)
}

// Request is a single text-generation call: a system instruction plus one user message.
type Request struct {
	Model             string
	SystemInstruction string
	UserText          string
	Temperature       float32
	MaxOutputTokens   int32
}

// Generator is the text-generation service boundary.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}
