package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/quizadv/quizadv/internal/store"
)

// Middleware decorates a Provider.
type Middleware func(Provider) Provider

// Chain applies mw to p so that mw[0] is the outermost layer.
func Chain(p Provider, mw ...Middleware) Provider {
	for i := len(mw) - 1; i >= 0; i-- {
		p = mw[i](p)
	}
	return p
}

// Timeout bounds every Complete call, retries included when it sits
// outside Retry.
func Timeout(d time.Duration) Middleware {
	return func(next Provider) Provider {
		return &timeoutProvider{next: next, d: d}
	}
}

type timeoutProvider struct {
	next Provider
	d    time.Duration
}

func (t *timeoutProvider) Complete(ctx context.Context, req Request) (*Completion, error) {
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()
	return t.next.Complete(ctx, req)
}

func (t *timeoutProvider) Model() string { return t.next.Model() }

// Record appends every request to the audit log as an LLM request event.
// A failure to record is logged and never fails the request.
func Record(providerName string, repo store.EventRepo) Middleware {
	return func(next Provider) Provider {
		return &recordingProvider{next: next, name: providerName, repo: repo}
	}
}

type recordingProvider struct {
	next Provider
	name string
	repo store.EventRepo
}

func (r *recordingProvider) Complete(ctx context.Context, req Request) (*Completion, error) {
	start := time.Now()
	c, err := r.next.Complete(ctx, req)

	data := store.LLMRequestEventData{
		Provider:    r.name,
		Model:       r.next.Model(),
		Purpose:     req.Purpose,
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: transcript(req),
	}
	if data.Purpose == "" {
		data.Purpose = "unknown"
	}
	if c != nil {
		data.InputTokens = c.Usage.InputTokens
		data.OutputTokens = c.Usage.OutputTokens
		data.ResponseBody = c.Text
		if c.Model != "" {
			data.Model = c.Model
		}
	}
	if err != nil {
		data.ErrorMessage = err.Error()
		data.ResponseBody = failedText(err)
	}

	if logErr := r.repo.AppendLLMRequest(context.WithoutCancel(ctx), data); logErr != nil {
		slog.Warn("failed to record LLM request", "purpose", data.Purpose, "err", logErr)
	}
	return c, err
}

func (r *recordingProvider) Model() string { return r.next.Model() }

// transcript renders req the way it is shown by `llm view`.
func transcript(req Request) string {
	var b strings.Builder
	if req.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", req.System)
	}
	fmt.Fprintf(&b, "[user]\n%s\n", req.Prompt)
	if req.Schema != nil {
		if def, err := req.Schema.JSON(); err == nil {
			fmt.Fprintf(&b, "\n[schema: %s]\n%s\n", req.Schema.Name, def)
		}
	}
	return b.String()
}

// failedText recovers the raw reply carried by a rejected response.
func failedText(err error) string {
	if inv, ok := asInvalid(err); ok {
		return inv.Text
	}
	if mt, ok := asMaxTokens(err); ok {
		return mt.Text
	}
	return ""
}
