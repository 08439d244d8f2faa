package llm

import (
	"context"

	"resumepanel/internal/config"
	"resumepanel/internal/errors"
	"resumepanel/internal/types"
)

// SummaryOperation names the gateway used for the narrative summary.
const SummaryOperation = "summary"

// Set holds one gateway per expert plus the summary gateway.
type Set struct {
	Experts map[types.Dimension]Gateway
	Summary Gateway
}

// Expert returns the gateway for d, or nil.
func (s *Set) Expert(d types.Dimension) Gateway {
	if s == nil {
		return nil
	}
	return s.Experts[d]
}

// NewGeminiSet builds independent Gemini gateways for every operation.
func NewGeminiSet(cfg *config.Config, logger *errors.Logger) (*Set, error) {
	set := &Set{Experts: make(map[types.Dimension]Gateway, len(types.AllDimensions))}
	for _, d := range types.AllDimensions {
		gw, err := NewGeminiGateway(cfg.GetExpertConfig(d), string(d), logger)
		if err != nil {
			return nil, err
		}
		gw.SetModelCheckTimeout(cfg.Observability.HealthCheck.AIModelCheckTimeout)
		set.Experts[d] = gw
	}
	summary, err := NewGeminiGateway(cfg.GetSummaryConfig(), SummaryOperation, logger)
	if err != nil {
		return nil, err
	}
	summary.SetModelCheckTimeout(cfg.Observability.HealthCheck.AIModelCheckTimeout)
	set.Summary = summary
	return set, nil
}

// Wrap returns a copy of the set with every gateway passed through fn.
func (s *Set) Wrap(fn func(op string, gw Gateway) Gateway) *Set {
	out := &Set{Experts: make(map[types.Dimension]Gateway, len(s.Experts))}
	for d, gw := range s.Experts {
		out.Experts[d] = fn(string(d), gw)
	}
	if s.Summary != nil {
		out.Summary = fn(SummaryOperation, s.Summary)
	}
	return out
}

// ModelInfo reports model availability for every gateway that supports it.
func (s *Set) ModelInfo(ctx context.Context) map[string]*ModelInfo {
	out := map[string]*ModelInfo{}
	s.each(func(op string, hr HealthReporter) {
		out[op] = hr.GetModelInfo(ctx)
	})
	return out
}

// Stats collects breaker statistics keyed by operation.
func (s *Set) Stats() map[string]any {
	out := map[string]any{}
	s.each(func(op string, hr HealthReporter) {
		out[op] = hr.Stats()
	})
	return out
}

func (s *Set) each(fn func(op string, hr HealthReporter)) {
	for _, d := range types.AllDimensions {
		if hr, ok := unwrap(s.Experts[d]).(HealthReporter); ok {
			fn(string(d), hr)
		}
	}
	if hr, ok := unwrap(s.Summary).(HealthReporter); ok {
		fn(SummaryOperation, hr)
	}
}

// Unwrapper is implemented by gateway decorators.
type Unwrapper interface {
	Unwrap() Gateway
}

func unwrap(gw Gateway) Gateway {
	for {
		u, ok := gw.(Unwrapper)
		if !ok {
			return gw
		}
		gw = u.Unwrap()
	}
}
