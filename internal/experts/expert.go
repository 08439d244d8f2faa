// Package experts implements the seven dimension analyzers. Each one
// builds a prompt from the shared analysis context, calls its gateway and
// normalizes whatever the model returned into a complete ExpertResult.
package experts

import (
	"context"
	"fmt"
	"time"

	"resumepanel/internal/errors"
	"resumepanel/internal/extract"
	"resumepanel/internal/llm"
	"resumepanel/internal/types"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Observer receives one event per expert evaluation.
type Observer interface {
	ExpertCompleted(ctx context.Context, d types.Dimension, duration time.Duration, stage string, usage *llm.TokenUsage, err error)
}

// Expert evaluates one dimension. Evaluate returns an error on any failure;
// callers convert it with Fallback.
type Expert interface {
	Dimension() types.Dimension
	Evaluate(ctx context.Context, actx *types.AnalysisContext) (*types.ExpertResult, error)
}

// Option configures an Analyzer.
type Option func(*Analyzer)

func WithLogger(l *errors.Logger) Option {
	return func(a *Analyzer) { a.logger = l }
}

func WithExtractor(e *extract.Extractor) Option {
	return func(a *Analyzer) { a.extractor = e }
}

// WithTextLimit bounds the raw resume text embedded in prompts.
func WithTextLimit(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.textLimit = n
		}
	}
}

func WithObserver(o Observer) Option {
	return func(a *Analyzer) { a.observer = o }
}

// Analyzer is the prompt-driven Expert shared by all dimensions.
type Analyzer struct {
	dimension types.Dimension
	gateway   llm.Gateway
	extractor *extract.Extractor
	logger    *errors.Logger
	textLimit int
	observer  Observer
}

// New creates the analyzer for d on top of gw.
func New(d types.Dimension, gw llm.Gateway, opts ...Option) *Analyzer {
	a := &Analyzer{
		dimension: d,
		gateway:   gw,
		extractor: extract.Default(),
		logger:    errors.Discard(),
		textLimit: DefaultTextLimit,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewAll creates one analyzer per dimension from the gateway set, in
// canonical dimension order.
func NewAll(set *llm.Set, opts ...Option) []Expert {
	out := make([]Expert, 0, len(types.AllDimensions))
	for _, d := range types.AllDimensions {
		out = append(out, New(d, set.Expert(d), opts...))
	}
	return out
}

func (a *Analyzer) Dimension() types.Dimension { return a.dimension }

// Evaluate runs one model call and the completeness pass.
func (a *Analyzer) Evaluate(ctx context.Context, actx *types.AnalysisContext) (result *types.ExpertResult, err error) {
	tracer := otel.Tracer("resumepanel.experts")
	ctx, span := tracer.Start(ctx, "expert."+string(a.dimension))
	defer span.End()
	span.SetAttributes(attribute.String("expert.dimension", string(a.dimension)))

	start := time.Now()
	var (
		stage string
		usage *llm.TokenUsage
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.SetAttributes(attribute.Bool("success", err == nil))
		if a.observer != nil {
			a.observer.ExpertCompleted(ctx, a.dimension, time.Since(start), stage, usage, err)
		}
	}()

	if a.gateway == nil {
		return nil, errors.NewGatewayError(errors.GatewayUnavailable, string(a.dimension), fmt.Errorf("no gateway configured"))
	}
	if actx == nil {
		return nil, errors.NewValidationError(errors.ErrCodeMissingResume, "analysis context is required", nil)
	}

	prompt := BuildPrompt(a.dimension, actx, a.textLimit)
	span.SetAttributes(attribute.Int("expert.prompt_length", len(prompt)))

	raw, usage, err := a.gateway.Invoke(ctx, prompt, llm.Params{
		System:       SystemPrompt(a.dimension),
		JSONResponse: true,
	})
	if err != nil {
		return nil, err
	}

	obj, stage, err := a.extractor.ExtractWithStage(raw)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("extract.stage", stage))

	result, err = Complete(a.dimension, obj)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("Expert analysis completed",
		"dimension", a.dimension,
		"score", result.Score,
		"extract_stage", stage)
	span.SetAttributes(attribute.Int("expert.score", result.Score))
	return result, nil
}
