package router

import (
	"context"
	"strings"

	"resumepanel/internal/errors"
	"resumepanel/internal/formatters"
	"resumepanel/internal/types"
)

// Analyzer runs full and single-dimension analyses.
type Analyzer interface {
	Analyze(ctx context.Context, actx *types.AnalysisContext, profileName string) *types.AggregateResult
	AnalyzeDimension(ctx context.Context, d types.Dimension, actx *types.AnalysisContext) (*types.ExpertResult, error)
}

// Outcome is the result of routing one message to an expert.
type Outcome struct {
	Intent     types.Intent           `json:"intent"`
	Confidence float64                `json:"confidence"`
	Expert     string                 `json:"expert"`
	Aggregate  *types.AggregateResult `json:"aggregate,omitempty"`
	Result     *types.ExpertResult    `json:"result,omitempty"`
	Report     string                 `json:"report"`
}

var expertNames = map[types.Intent]string{
	types.IntentSkills:       "技能匹配度专家",
	types.IntentExperience:   "工作经验评估专家",
	types.IntentEducation:    "教育背景分析专家",
	types.IntentSoftSkills:   "软技能评估专家",
	types.IntentStability:    "稳定性/忠诚度专家",
	types.IntentAttitude:     "工作态度/抗压专家",
	types.IntentPotential:    "发展潜力专家",
	types.IntentFullAnalysis: "多智能体协调系统",
}

// Router dispatches chat messages to the analyzer.
type Router struct {
	analyzer   Analyzer
	formatters *formatters.FormatterRegistry
	profile    string
	logger     *errors.Logger
}

// New creates a router. profile names the weight profile used for full
// analyses.
func New(analyzer Analyzer, profile string, logger *errors.Logger) *Router {
	if logger == nil {
		logger = errors.Discard()
	}
	return &Router{
		analyzer:   analyzer,
		formatters: formatters.NewFormatterRegistry(),
		profile:    profile,
		logger:     logger,
	}
}

// Route classifies message and, when it warrants an expert and resume
// data is present, runs the matching analysis. It returns nil when no
// expert call is made.
func (r *Router) Route(ctx context.Context, message string, resume *types.Resume, job *types.JobRequirements) (*Outcome, error) {
	intent, confidence := Classify(message)
	r.logger.Debug("Message classified", "intent", intent, "confidence", confidence)

	if resume == nil || resume.IsEmpty() {
		r.logger.Debug("No resume data, skipping expert call")
		return nil, nil
	}
	if !shouldInvoke(intent, confidence) {
		return nil, nil
	}

	actx := types.NewAnalysisContext(PrepareResume(*resume), job)
	out := &Outcome{Intent: intent, Confidence: confidence, Expert: expertNames[intent]}

	if intent == types.IntentFullAnalysis {
		out.Aggregate = r.analyzer.Analyze(ctx, actx, r.profile)
		report, err := r.formatters.Format(out.Aggregate, formatters.FormatMarkdown)
		if err != nil {
			return nil, err
		}
		out.Report = report
		return out, nil
	}

	d, _ := intent.Dimension()
	result, err := r.analyzer.AnalyzeDimension(ctx, d, actx)
	if err != nil {
		return nil, err
	}
	out.Result = result
	out.Report, err = r.formatters.Format(result, formatters.FormatMarkdown)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// PrepareResume folds flat contact fields into extracted text when the
// resume carries neither text nor structured sections.
func PrepareResume(resume types.Resume) types.Resume {
	if resume.ExtractedText != "" || resume.HasStructured() {
		return resume
	}
	var parts []string
	if resume.CandidateName != "" {
		parts = append(parts, "姓名: "+resume.CandidateName.String())
	}
	if resume.Email != "" {
		parts = append(parts, "邮箱: "+resume.Email.String())
	}
	if resume.Phone != "" {
		parts = append(parts, "电话: "+resume.Phone.String())
	}
	resume.ExtractedText = strings.Join(parts, "\n")
	return resume
}
