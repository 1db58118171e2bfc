package pipeline

// State of a narration run.
type State string

const (
	StateIdle         State = "idle"
	StateExtracting   State = "extracting"
	StateRewriting    State = "rewriting"
	StateSynthesizing State = "synthesizing"
	StateComplete     State = "complete"
	StateFailed       State = "failed"
)

// Terminal reports whether no further transition can happen.
func (s State) Terminal() bool {
	return s == StateComplete || s == StateFailed
}
