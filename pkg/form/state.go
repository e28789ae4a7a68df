package form

import "agentrix/entities"

// Phase is the request lifecycle of one form.
type Phase int

const (
	Idle Phase = iota
	Loading
	Succeeded
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// State is what the form shows. Result is set only in Succeeded and Failed.
// Seq identifies the submit that produced the state (0 before the first one).
type State struct {
	Phase  Phase
	Result *entities.Advice
	Seq    uint64
}

func (s State) Busy() bool { return s.Phase == Loading }
