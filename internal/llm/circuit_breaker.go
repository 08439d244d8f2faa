package llm

import (
	"fmt"

	"resumepanel/internal/config"
	"resumepanel/internal/errors"

	"github.com/sony/gobreaker/v2"
	"google.golang.org/genai"
)

// CircuitBreaker guards generate calls for one operation. A nil breaker
// passes calls straight through.
type CircuitBreaker struct {
	cb *gobreaker.CircuitBreaker[*genai.GenerateContentResponse]
}

// ModelCircuitBreaker guards model metadata lookups.
type ModelCircuitBreaker struct {
	cb *gobreaker.CircuitBreaker[*genai.Model]
}

func breakerSettings(name string, cfg config.CircuitBreakerConfig, logger *errors.Logger, trip func(gobreaker.Counts) bool) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: trip,
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("Circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
				"failure_threshold", cfg.FailureThreshold)
		},
	}
}

// NewCircuitBreaker returns nil when breaking is disabled for the operation.
func NewCircuitBreaker(op string, cfg *config.CircuitBreakerConfig, logger *errors.Logger) *CircuitBreaker {
	if cfg == nil || !cfg.Enabled {
		return nil
	}
	if logger == nil {
		logger = errors.Discard()
	}
	c := *cfg
	settings := breakerSettings(fmt.Sprintf("AI-%s", op), c, logger, func(counts gobreaker.Counts) bool {
		if counts.Requests == 0 {
			return false
		}
		failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
		return counts.Requests >= c.MinRequests && failureRatio >= c.FailureThreshold
	})
	return &CircuitBreaker{cb: gobreaker.NewCircuitBreaker[*genai.GenerateContentResponse](settings)}
}

// NewModelCircuitBreaker uses a more lenient trip rule than generate calls.
func NewModelCircuitBreaker(op string, cfg *config.CircuitBreakerConfig, logger *errors.Logger) *ModelCircuitBreaker {
	if cfg == nil || !cfg.Enabled {
		return nil
	}
	if logger == nil {
		logger = errors.Discard()
	}
	settings := breakerSettings(fmt.Sprintf("AI-Model-%s", op), *cfg, logger, func(counts gobreaker.Counts) bool {
		if counts.Requests == 0 {
			return false
		}
		return counts.Requests >= 5 && float64(counts.TotalFailures)/float64(counts.Requests) >= 0.8
	})
	return &ModelCircuitBreaker{cb: gobreaker.NewCircuitBreaker[*genai.Model](settings)}
}

func (b *CircuitBreaker) Execute(fn func() (*genai.GenerateContentResponse, error)) (*genai.GenerateContentResponse, error) {
	if b == nil {
		return fn()
	}
	return b.cb.Execute(fn)
}

func (b *ModelCircuitBreaker) Execute(fn func() (*genai.Model, error)) (*genai.Model, error) {
	if b == nil {
		return fn()
	}
	return b.cb.Execute(fn)
}

// Stats returns breaker state for health endpoints.
func (b *CircuitBreaker) Stats() map[string]any {
	if b == nil {
		return map[string]any{"enabled": false}
	}
	return map[string]any{
		"name":    b.cb.Name(),
		"state":   b.cb.State().String(),
		"counts":  b.cb.Counts(),
		"enabled": true,
	}
}

// IsHealthy returns true if the breaker is closed or disabled.
func (b *CircuitBreaker) IsHealthy() bool {
	return b == nil || b.cb.State() == gobreaker.StateClosed
}

func (b *ModelCircuitBreaker) IsHealthy() bool {
	return b == nil || b.cb.State() == gobreaker.StateClosed
}
