package llm

import (
	"context"
	"sync"
)

// Reply is a canned outcome for a Fake.
type Reply struct {
	Text  string
	Usage Usage
	Err   error
}

// Fake is a scripted Provider for tests and offline runs. It answers
// with its replies in order and remembers every request. With no
// replies left it reports the provider as unavailable.
type Fake struct {
	mu       sync.Mutex
	replies  []Reply
	requests []Request
}

// NewFake returns a Fake that answers with replies in order.
func NewFake(replies ...Reply) *Fake {
	return &Fake{replies: replies}
}

func (f *Fake) Complete(_ context.Context, req Request) (*Completion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, req)
	if len(f.replies) == 0 {
		return nil, &ErrProviderUnavailable{}
	}
	r := f.replies[0]
	f.replies = f.replies[1:]
	if r.Err != nil {
		return nil, r.Err
	}
	return &Completion{Text: r.Text, Usage: r.Usage, Model: "fake", Stop: StopEnd}, nil
}

func (f *Fake) Model() string { return "fake" }

// Push queues another reply.
func (f *Fake) Push(r Reply) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies = append(f.replies, r)
}

// Requests returns a copy of the requests received so far.
func (f *Fake) Requests() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Request(nil), f.requests...)
}
