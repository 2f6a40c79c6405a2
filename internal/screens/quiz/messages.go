package quiz

import (
	"github.com/quizadv/quizadv/internal/mcq"
)

// questionMsg carries the raw generator outcome back to the update loop,
// where it is applied to the session state.
type questionMsg struct {
	Input   mcq.GenerateInput
	Payload mcq.Payload
	Err     error
}

// clockTickMsg refreshes the per-question clock. Ticks from an earlier
// question carry a stale ID and are dropped.
type clockTickMsg struct {
	ID int
}
