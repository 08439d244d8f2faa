package observability

import (
	"context"
	"time"

	"resumepanel/internal/llm"
	"resumepanel/internal/types"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// AIOperationResult holds the result of a model call including token usage
type AIOperationResult struct {
	Error      error
	TokenUsage *llm.TokenUsage
}

// TrackAIOperationWithTokens instruments a model call with tracing, metrics,
// and token usage.
func (m *Metrics) TrackAIOperationWithTokens(ctx context.Context, operation string, fn func(context.Context) *AIOperationResult) error {
	if m.AIProcessingTime == nil {
		if result := fn(ctx); result != nil {
			return result.Error
		}
		return nil
	}

	ctx, span := otel.Tracer("resumepanel.ai").Start(ctx, "ai."+operation)
	defer span.End()

	start := time.Now()
	result := fn(ctx)
	duration := time.Since(start).Seconds()

	var err error
	if result != nil {
		err = result.Error
	}

	attrs := []attribute.KeyValue{
		attribute.String("operation", operation),
		attribute.Bool("success", err == nil),
	}
	m.AIProcessingTime.Record(ctx, duration, metric.WithAttributes(attrs...))
	m.AIRequestCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	if err != nil {
		m.AIErrorCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
	m.recordTokenUsage(ctx, result, attrs, span)
	span.SetAttributes(attrs...)

	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("error", true))
	}
	return err
}

func (m *Metrics) recordTokenUsage(ctx context.Context, result *AIOperationResult, attrs []attribute.KeyValue, span oteltrace.Span) {
	if result == nil || result.TokenUsage == nil || m.AITokenUsage == nil {
		return
	}
	usage := result.TokenUsage

	tokenTypes := []struct {
		tokenType string
		value     int64
	}{
		{"input", usage.InputTokens},
		{"output", usage.OutputTokens},
		{"total", usage.TotalTokens},
	}
	for _, tt := range tokenTypes {
		tokenAttrs := append(attrs[:len(attrs):len(attrs)], attribute.String("token_type", tt.tokenType))
		m.AITokenUsage.Record(ctx, tt.value, metric.WithAttributes(tokenAttrs...))
	}

	span.SetAttributes(
		attribute.Int64("ai.tokens.input", usage.InputTokens),
		attribute.Int64("ai.tokens.output", usage.OutputTokens),
		attribute.Int64("ai.tokens.total", usage.TotalTokens),
	)
}

// RecordRateLimitHit counts one rejected request.
func (m *Metrics) RecordRateLimitHit(ctx context.Context, keyKind string) {
	if m.RateLimitHits != nil {
		m.RateLimitHits.Add(ctx, 1, metric.WithAttributes(attribute.String("key_kind", keyKind)))
	}
}

// ExpertCompleted records one expert evaluation.
func (om *ObservabilityManager) ExpertCompleted(ctx context.Context, d types.Dimension, duration time.Duration, stage string, usage *llm.TokenUsage, err error) {
	m := om.GetMetrics()
	if m.ExpertCalls == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("dimension", string(d)),
		attribute.Bool("success", err == nil),
	)
	m.ExpertCalls.Add(ctx, 1, attrs)
	m.ExpertDuration.Record(ctx, duration.Seconds(), attrs)
	if stage != "" {
		m.ExtractionStages.Add(ctx, 1, metric.WithAttributes(
			attribute.String("dimension", string(d)),
			attribute.String("stage", stage),
		))
	}
}

// AnalysisCompleted records one aggregate analysis and its degraded
// dimensions.
func (om *ObservabilityManager) AnalysisCompleted(ctx context.Context, profile string, overall int, degraded []types.Dimension, duration time.Duration) {
	m := om.GetMetrics()
	if m.AnalysesTotal == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("profile", profile),
		attribute.Bool("degraded", len(degraded) > 0),
	)
	m.AnalysesTotal.Add(ctx, 1, attrs)
	m.AnalysisDuration.Record(ctx, duration.Seconds(), attrs)
	m.OverallScore.Record(ctx, int64(overall), metric.WithAttributes(attribute.String("profile", profile)))
	for _, d := range degraded {
		m.DegradedDimensions.Add(ctx, 1, metric.WithAttributes(attribute.String("dimension", string(d))))
	}
}

// TrackedGateway records metrics for every call of the wrapped gateway.
type TrackedGateway struct {
	next      llm.Gateway
	operation string
	metrics   *Metrics
}

// WrapGateway is shaped for llm.Set.Wrap.
func (om *ObservabilityManager) WrapGateway(operation string, gw llm.Gateway) llm.Gateway {
	if gw == nil {
		return nil
	}
	return &TrackedGateway{next: gw, operation: operation, metrics: om.GetMetrics()}
}

func (g *TrackedGateway) Invoke(ctx context.Context, prompt string, params llm.Params) (string, *llm.TokenUsage, error) {
	var text string
	var usage *llm.TokenUsage
	err := g.metrics.TrackAIOperationWithTokens(ctx, g.operation, func(ctx context.Context) *AIOperationResult {
		var err error
		text, usage, err = g.next.Invoke(ctx, prompt, params)
		return &AIOperationResult{Error: err, TokenUsage: usage}
	})
	return text, usage, err
}

func (g *TrackedGateway) Unwrap() llm.Gateway {
	return g.next
}
