package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/quizadv/quizadv/internal/mcq"
)

// Presenter is the player-facing side of Run.
type Presenter interface {
	// Start announces the session.
	Start(st *State)

	// Ask shows q and blocks until the player answers. The raw answer is
	// parsed with ParseChoice.
	Ask(ctx context.Context, round int, q *mcq.Question) (string, error)

	// Feedback reports the outcome of an answered question.
	Feedback(fb Feedback)

	// Skipped reports a round that produced no usable question.
	Skipped(round int, reason string)
}

// Run plays a whole session through p. It always returns a result; the
// error is non-nil when the session ended early.
func (c *Controller) Run(ctx context.Context, setup Setup, p Presenter) (*Result, error) {
	st := c.Begin(ctx, setup)
	p.Start(st)

	for !st.Done() {
		q, err := c.Next(ctx, st)
		if err != nil {
			switch {
			case ctx.Err() != nil:
				return c.Finish(ctx, st), ctx.Err()
			case IsSkip(err):
				p.Skipped(st.Round, SkipReason(err))
				continue
			case c.policy == SkipOnGenerationError:
				p.Skipped(st.Round, err.Error())
				continue
			default:
				return c.Finish(ctx, st), fmt.Errorf("round %d: %w", st.Round, err)
			}
		}

		asked := c.now()
		raw, err := p.Ask(ctx, st.Round, q)
		elapsed := c.now().Sub(asked)
		if err != nil {
			return c.Finish(ctx, st), fmt.Errorf("round %d: read answer: %w", st.Round, err)
		}

		p.Feedback(c.Answer(ctx, st, q, ParseChoice(raw), elapsed))
	}

	return c.Finish(ctx, st), nil
}

// SkipReason returns the text shown to the player for a skipped round.
func SkipReason(err error) string {
	var verr *mcq.ValidationError
	if errors.As(err, &verr) {
		return verr.Reason
	}
	return err.Error()
}
