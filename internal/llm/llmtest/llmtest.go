// Package llmtest provides scripted gateways for tests.
package llmtest

import (
	"context"
	"strings"
	"sync"

	"resumepanel/internal/llm"
)

// Call records one Invoke.
type Call struct {
	Prompt string
	Params llm.Params
}

// Gateway answers every call with Reply or Err. Respond, when set, takes
// precedence.
type Gateway struct {
	Reply   string
	Err     error
	Respond func(prompt string, params llm.Params) (string, error)

	mu    sync.Mutex
	calls []Call
}

func (g *Gateway) Invoke(ctx context.Context, prompt string, params llm.Params) (string, *llm.TokenUsage, error) {
	g.mu.Lock()
	g.calls = append(g.calls, Call{Prompt: prompt, Params: params})
	g.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", nil, err
	}
	if g.Respond != nil {
		text, err := g.Respond(prompt, params)
		if err != nil {
			return "", nil, err
		}
		return text, &llm.TokenUsage{InputTokens: int64(len(prompt)), OutputTokens: int64(len(text)), TotalTokens: int64(len(prompt) + len(text))}, nil
	}
	if g.Err != nil {
		return "", nil, g.Err
	}
	return g.Reply, &llm.TokenUsage{InputTokens: 10, OutputTokens: 20, TotalTokens: 30}, nil
}

// Calls returns a copy of the recorded calls.
func (g *Gateway) Calls() []Call {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Call(nil), g.calls...)
}

// LastPrompt returns the most recent prompt, or "".
func (g *Gateway) LastPrompt() string {
	calls := g.Calls()
	if len(calls) == 0 {
		return ""
	}
	return calls[len(calls)-1].Prompt
}

// PromptContains reports whether any recorded prompt contains s.
func (g *Gateway) PromptContains(s string) bool {
	for _, c := range g.Calls() {
		if strings.Contains(c.Prompt, s) {
			return true
		}
	}
	return false
}
