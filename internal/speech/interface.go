package speech

import "context"

// Audio is encoded speech.
type Audio struct {
	Data   []byte
	Format string // e.g. "mp3"
}

// Synthesizer converts narration text to encoded audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (*Audio, error)
}
