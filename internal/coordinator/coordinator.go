// Package coordinator fans an analysis out to the seven experts and
// combines their results into one weighted assessment.
package coordinator

import (
	"context"
	"fmt"
	"math"
	"time"

	"resumepanel/internal/errors"
	"resumepanel/internal/experts"
	"resumepanel/internal/llm"
	"resumepanel/internal/types"
	"resumepanel/internal/weights"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// AllFailedError is reported when every dimension degraded.
const AllFailedError = "所有维度分析均失败"

const (
	DefaultMaxRecommendations   = 7
	DefaultRecommendationMaxLen = 100
)

// Observer receives one event per completed aggregate analysis.
type Observer interface {
	AnalysisCompleted(ctx context.Context, profile string, overall int, degraded []types.Dimension, duration time.Duration)
}

// Option configures a Coordinator.
type Option func(*Coordinator)

func WithLogger(l *errors.Logger) Option {
	return func(c *Coordinator) { c.logger = l }
}

// WithSummary toggles the narrative summary call.
func WithSummary(enabled bool) Option {
	return func(c *Coordinator) { c.summaryEnabled = enabled }
}

// WithRecommendationLimits sets the list cap and per-entry rune limit.
func WithRecommendationLimits(maxCount, maxLen int) Option {
	return func(c *Coordinator) {
		if maxCount > 0 {
			c.maxRecommendations = maxCount
		}
		if maxLen > 0 {
			c.recommendationMaxLen = maxLen
		}
	}
}

func WithTextLimit(n int) Option {
	return func(c *Coordinator) {
		if n > 0 {
			c.textLimit = n
		}
	}
}

func WithObserver(o Observer) Option {
	return func(c *Coordinator) { c.observer = o }
}

// Coordinator runs aggregate and single-dimension analyses. It is safe for
// concurrent use.
type Coordinator struct {
	experts  map[types.Dimension]experts.Expert
	summary  llm.Gateway
	registry *weights.Registry
	logger   *errors.Logger
	observer Observer

	summaryEnabled       bool
	maxRecommendations   int
	recommendationMaxLen int
	textLimit            int

	now   func() time.Time
	newID func() string
}

// New creates a coordinator over one expert per dimension. Missing
// dimensions always degrade.
func New(all []experts.Expert, summary llm.Gateway, registry *weights.Registry, opts ...Option) *Coordinator {
	c := &Coordinator{
		experts:              make(map[types.Dimension]experts.Expert, len(all)),
		summary:              summary,
		registry:             registry,
		logger:               errors.Discard(),
		summaryEnabled:       true,
		maxRecommendations:   DefaultMaxRecommendations,
		recommendationMaxLen: DefaultRecommendationMaxLen,
		textLimit:            experts.DefaultTextLimit,
		now:                  time.Now,
		newID:                uuid.NewString,
	}
	if c.registry == nil {
		c.registry = weights.NewRegistry()
	}
	for _, e := range all {
		c.experts[e.Dimension()] = e
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Registry exposes the weight profiles in use.
func (c *Coordinator) Registry() *weights.Registry { return c.registry }

// AnalyzeRequest builds the analysis context from an input envelope and
// runs Analyze.
func (c *Coordinator) AnalyzeRequest(ctx context.Context, req types.AnalysisRequest) *types.AggregateResult {
	actx := types.NewAnalysisContext(req.Resume, req.JobRequirements)
	return c.Analyze(ctx, actx, req.WeightProfileName)
}

// Analyze evaluates all seven dimensions and aggregates them with the
// named weight profile. Unknown profile names resolve to the default. It
// never fails: degraded dimensions carry their fallback results.
func (c *Coordinator) Analyze(ctx context.Context, actx *types.AnalysisContext, profileName string) *types.AggregateResult {
	tracer := otel.Tracer("resumepanel.coordinator")
	ctx, span := tracer.Start(ctx, "coordinator.analyze")
	defer span.End()

	start := time.Now()
	profile := c.registry.Resolve(profileName)
	span.SetAttributes(attribute.String("analysis.profile", profile.Name))

	results := collectAll(ctx, c.ordered(), actx, c.logger)

	agg := &types.AggregateResult{
		AnalysisID:      c.newID(),
		CreatedAt:       c.now().UTC(),
		AnalysisVersion: types.AnalysisVersion,
		DimensionCount:  len(types.AllDimensions),
		WeightsUsed:     profile.AsMap(),
		Profile:         profile.Name,
	}
	for _, d := range types.AllDimensions {
		r := results[d]
		*agg.Result(d) = *r
		if r.Degraded {
			agg.DegradedDimensions = append(agg.DegradedDimensions, d)
		}
	}

	if len(agg.DegradedDimensions) == len(types.AllDimensions) {
		agg.OverallScore = 0
		agg.Error = AllFailedError
		agg.Summary = "分析过程出错"
		agg.Recommendations = []string{"请重试或联系技术支持"}
		c.logger.Warn("All dimensions degraded", "profile", profile.Name)
	} else {
		agg.OverallScore = OverallScore(agg, profile)
		agg.Summary = c.summarize(ctx, actx, agg)
		agg.Recommendations = buildRecommendations(agg, c.recommendationMaxLen, c.maxRecommendations)
	}
	promoteSkills(agg)

	span.SetAttributes(
		attribute.Int("analysis.overall_score", agg.OverallScore),
		attribute.Int("analysis.degraded", len(agg.DegradedDimensions)),
	)
	c.logger.Info("Analysis completed",
		"analysis_id", agg.AnalysisID,
		"profile", profile.Name,
		"overall_score", agg.OverallScore,
		"degraded", len(agg.DegradedDimensions))
	if c.observer != nil {
		c.observer.AnalysisCompleted(ctx, profile.Name, agg.OverallScore, agg.DegradedDimensions, time.Since(start))
	}
	return agg
}

// AnalyzeDimension runs a single expert with the same isolation as
// Analyze. It fails only for an unknown dimension.
func (c *Coordinator) AnalyzeDimension(ctx context.Context, d types.Dimension, actx *types.AnalysisContext) (*types.ExpertResult, error) {
	if !d.Valid() {
		return nil, errors.NewValidationError(errors.ErrCodeUnknownDimension,
			fmt.Sprintf("unknown dimension %q", d), nil)
	}
	results := collectAll(ctx, []experts.Expert{c.expert(d)}, actx, c.logger)
	return results[d], nil
}

// OverallScore is the floor of the weighted mean of effective scores.
func OverallScore(agg *types.AggregateResult, profile weights.Profile) int {
	var sum float64
	for _, d := range types.AllDimensions {
		sum += float64(agg.Result(d).EffectiveScore()) * profile.Weight(d)
	}
	return int(math.Floor(sum/100 + 1e-9))
}

func (c *Coordinator) ordered() []experts.Expert {
	out := make([]experts.Expert, 0, len(types.AllDimensions))
	for _, d := range types.AllDimensions {
		out = append(out, c.expert(d))
	}
	return out
}

func (c *Coordinator) expert(d types.Dimension) experts.Expert {
	if e, ok := c.experts[d]; ok {
		return e
	}
	return experts.New(d, nil)
}

// promoteSkills copies the skills verification fields to the top level.
func promoteSkills(agg *types.AggregateResult) {
	s := &agg.Skills
	agg.CredibilityScore = s.CredibilityScore
	agg.RiskLevel = s.RiskLevel
	agg.VerifiedClaims = s.VerifiedClaims
	agg.QuestionableClaims = s.QuestionableClaims
	agg.LogicalInconsistencies = s.LogicalInconsistencies
	agg.ExaggerationIndicators = s.ExaggerationIndicators
	agg.InterviewQuestions = s.InterviewQuestions
	agg.ConstructiveFeedback = s.ConstructiveFeedback
}
