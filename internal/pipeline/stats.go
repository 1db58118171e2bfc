package pipeline

import (
	"strings"
	"time"
	"unicode/utf8"
)

// WordsPerMinute is the assumed narration speed.
const WordsPerMinute = 150

// Stats describes the narration that was spoken.
type Stats struct {
	Words         int
	Characters    int
	ListeningTime time.Duration
}

func computeStats(narration string) Stats {
	words := len(strings.Fields(narration))
	return Stats{
		Words:         words,
		Characters:    utf8.RuneCountInString(narration),
		ListeningTime: time.Duration(float64(words) / WordsPerMinute * float64(time.Minute)).Round(time.Second),
	}
}
