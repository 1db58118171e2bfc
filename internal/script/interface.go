package script

import (
	"context"
	"time"
)

// Script is the narration text of one run, exported next to the audio.
type Script struct {
	Title         string
	Narration     string
	Words         int
	ListeningTime time.Duration
	CreatedAt     time.Time
}

// Writer saves a Script as a document.
type Writer interface {
	Write(ctx context.Context, path string, s Script) error
}
