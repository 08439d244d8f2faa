// Package llm is the language model gateway used by the analysis experts.
package llm

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"

	"resumepanel/internal/errors"

	"github.com/sony/gobreaker/v2"
	"google.golang.org/api/googleapi"
)

// Params are the per-call generation settings.
type Params struct {
	// System is sent as a system instruction when the gateway allows it.
	System string
	// Temperature overrides the configured temperature when set.
	Temperature *float32
	// JSONResponse asks the model for an application/json body.
	JSONResponse    bool
	MaxOutputTokens int32
}

// TokenUsage represents token usage information from model responses
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// ModelInfo represents information about the configured model
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Error       string `json:"error,omitempty"`
}

// Gateway sends one prompt and returns the raw completion text. Every
// failure is a *errors.GatewayError.
type Gateway interface {
	Invoke(ctx context.Context, prompt string, params Params) (string, *TokenUsage, error)
}

// HealthReporter is implemented by gateways that can describe their model
// and breaker state.
type HealthReporter interface {
	GetModelInfo(ctx context.Context) *ModelInfo
	Stats() map[string]any
}

// classify maps a transport failure onto a gateway error kind.
func classify(op string, err error) *errors.GatewayError {
	var gwErr *errors.GatewayError
	if stderrors.As(err, &gwErr) {
		return gwErr
	}

	if stderrors.Is(err, gobreaker.ErrOpenState) || stderrors.Is(err, gobreaker.ErrTooManyRequests) {
		return errors.NewGatewayError(errors.GatewayUnavailable, op, err)
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.NewGatewayError(errors.GatewayTimeout, op, err)
	}

	var apiErr *googleapi.Error
	if stderrors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden:
			return errors.NewGatewayError(errors.GatewayAuthentication, op, err)
		case apiErr.Code == http.StatusTooManyRequests:
			return errors.NewGatewayError(errors.GatewayRateLimit, op, err)
		case apiErr.Code == http.StatusRequestTimeout || apiErr.Code == http.StatusGatewayTimeout:
			return errors.NewGatewayError(errors.GatewayTimeout, op, err)
		}
		return errors.NewGatewayError(errors.GatewayTransport, op, err)
	}

	var netErr net.Error
	if stderrors.As(err, &netErr) && netErr.Timeout() {
		return errors.NewGatewayError(errors.GatewayTimeout, op, err)
	}
	return errors.NewGatewayError(errors.GatewayTransport, op, err)
}

// isRetryableError determines if an error should trigger a retry
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	var netErr net.Error
	if stderrors.As(err, &netErr) {
		return true
	}
	var apiErr *googleapi.Error
	if stderrors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}
	return false
}
