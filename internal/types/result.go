package types

import (
	"encoding/json"
	"time"
)

// Claim is a statement from the resume with either its supporting evidence
// or the reason it needs verification.
type Claim struct {
	Claim    string `json:"claim"`
	Evidence string `json:"evidence,omitempty"`
	Concern  string `json:"concern,omitempty"`
}

func (c *Claim) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		*c = Claim{}
		return nil
	}
	obj, ok := v.(map[string]any)
	if !ok {
		*c = Claim{Claim: Stringify(v)}
		return nil
	}
	*c = Claim{
		Claim:    firstString(obj, "claim", "statement", "content", "description"),
		Evidence: firstString(obj, "evidence", "support"),
		Concern:  firstString(obj, "concern", "reason", "issue"),
	}
	return nil
}

func firstString(obj map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := Stringify(obj[k]); s != "" {
			return s
		}
	}
	return ""
}

// ClaimList accepts a single claim or an array of claims.
type ClaimList []Claim

func (l *ClaimList) UnmarshalJSON(b []byte) error {
	var items []Claim
	if err := json.Unmarshal(b, &items); err == nil {
		*l = dropEmptyClaims(items)
		return nil
	}
	var single Claim
	_ = json.Unmarshal(b, &single)
	*l = dropEmptyClaims([]Claim{single})
	return nil
}

func dropEmptyClaims(in []Claim) ClaimList {
	out := make(ClaimList, 0, len(in))
	for _, c := range in {
		if c.Claim != "" {
			out = append(out, c)
		}
	}
	return out
}

// StabilityIndicator is either a named indicator with its assessment or
// one employer entry in the tenure breakdown.
type StabilityIndicator struct {
	Indicator    Text    `json:"indicator,omitempty"`
	Value        Text    `json:"value,omitempty"`
	Assessment   Text    `json:"assessment,omitempty"`
	Company      Text    `json:"company,omitempty"`
	TenureMonths *Number `json:"tenure_months,omitempty"`
	Reason       Text    `json:"reason,omitempty"`
}

// StabilityIndicators accepts objects or plain strings.
type StabilityIndicators []StabilityIndicator

func (l *StabilityIndicators) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		*l = nil
		return nil
	}
	out := make(StabilityIndicators, 0, len(raw))
	for _, item := range raw {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			out = append(out, StabilityIndicator{Indicator: Text(s)})
			continue
		}
		var ind StabilityIndicator
		if err := json.Unmarshal(item, &ind); err == nil {
			out = append(out, ind)
		}
	}
	*l = out
	return nil
}

// Details is the union of dimension-specific fields. Each analyzer fills
// the subset belonging to its dimension; the rest stay empty and are
// omitted from JSON.
type Details struct {
	// skills, experience
	ExaggerationIndicators TextList `json:"exaggeration_indicators,omitempty"`

	// experience
	TotalYears        *Number  `json:"total_years,omitempty"`
	RelevantYears     *Number  `json:"relevant_years,omitempty"`
	TimelineIssues    TextList `json:"timeline_issues,omitempty"`
	ProjectHighlights TextList `json:"project_highlights,omitempty"`

	// experience, soft_skills, attitude
	Strengths TextList `json:"strengths,omitempty"`
	Concerns  TextList `json:"concerns,omitempty"`

	// education
	HighestDegree      Text     `json:"highest_degree,omitempty"`
	UniversityTier     Text     `json:"university_tier,omitempty"`
	MajorRelevance     Text     `json:"major_relevance,omitempty"`
	GPA                Text     `json:"gpa,omitempty"`
	Honors             TextList `json:"honors,omitempty"`
	Certifications     TextList `json:"certifications,omitempty"`
	AcademicStrengths  TextList `json:"academic_strengths,omitempty"`
	LearningCapability Text     `json:"learning_capability,omitempty"`

	// soft_skills
	Communication       Text     `json:"communication,omitempty"`
	Teamwork            Text     `json:"teamwork,omitempty"`
	Leadership          Text     `json:"leadership,omitempty"`
	ProblemSolving      Text     `json:"problem_solving,omitempty"`
	Innovation          Text     `json:"innovation,omitempty"`
	Adaptability        Text     `json:"adaptability,omitempty"`
	Responsibility      Text     `json:"responsibility,omitempty"`
	AreasForImprovement TextList `json:"areas_for_improvement,omitempty"`

	// stability
	JobTenureAvg           *Number             `json:"job_tenure_avg,omitempty"`
	JobChangesCount        *Number             `json:"job_changes_count,omitempty"`
	FrequentHopperFlag     *Flag               `json:"frequent_hopper_flag,omitempty"`
	CareerProgressionScore *Number             `json:"career_progression_score,omitempty"`
	PromotionHistory       TextList            `json:"promotion_history,omitempty"`
	RoleEvolution          Text                `json:"role_evolution,omitempty"`
	LeavingReasonsQuality  Text                `json:"leaving_reasons_quality,omitempty"`
	ReasonFlags            TextList            `json:"reason_flags,omitempty"`
	StabilityIndicators    StabilityIndicators `json:"stability_indicators,omitempty"`
	RiskFactors            TextList            `json:"risk_factors,omitempty"`
	PositiveIndicators     TextList            `json:"positive_indicators,omitempty"`

	// attitude
	StressResistance       Text     `json:"stress_resistance,omitempty"`
	StressHandlingExamples TextList `json:"stress_handling_examples,omitempty"`
	ResponsibilityLevel    Text     `json:"responsibility_level,omitempty"`
	OwnershipExamples      TextList `json:"ownership_examples,omitempty"`
	DedicationIndicators   TextList `json:"dedication_indicators,omitempty"`
	OvertimeWillingness    Text     `json:"overtime_willingness,omitempty"`
	EmotionalIntelligence  Text     `json:"emotional_intelligence,omitempty"`
	ConflictHandling       Text     `json:"conflict_handling,omitempty"`
	StressScore            *Number  `json:"stress_score,omitempty"`
	ResponsibilityScore    *Number  `json:"responsibility_score,omitempty"`
	DedicationScore        *Number  `json:"dedication_score,omitempty"`
	EmotionalScore         *Number  `json:"emotional_score,omitempty"`

	// potential
	LearningAbility          Text     `json:"learning_ability,omitempty"`
	LearningSpeed            Text     `json:"learning_speed,omitempty"`
	KnowledgeAcquisition     TextList `json:"knowledge_acquisition,omitempty"`
	InnovationCapability     Text     `json:"innovation_capability,omitempty"`
	InnovativeProjects       TextList `json:"innovative_projects,omitempty"`
	ProblemSolvingCreativity Text     `json:"problem_solving_creativity,omitempty"`
	GrowthMindset            Text     `json:"growth_mindset,omitempty"`
	SelfDevelopment          TextList `json:"self_development,omitempty"`
	CareerGoalsAlignment     Text     `json:"career_goals_alignment,omitempty"`
	AdaptabilityScore        *Number  `json:"adaptability_score,omitempty"`
	ChangeManagement         Text     `json:"change_management,omitempty"`
	TechStackEvolution       TextList `json:"tech_stack_evolution,omitempty"`
	HighPotentialFlags       TextList `json:"high_potential_flags,omitempty"`
	GrowthTrajectory         Text     `json:"growth_trajectory,omitempty"`
}

// ExpertResult is one dimension's assessment. Common fields are always
// populated, including on degraded results.
type ExpertResult struct {
	Dimension              Dimension `json:"dimension"`
	Score                  int       `json:"score"`
	CredibilityScore       *int      `json:"credibility_score,omitempty"`
	RiskLevel              string    `json:"risk_level,omitempty"`
	ScoreReason            string    `json:"score_reason"`
	VerifiedClaims         []Claim   `json:"verified_claims"`
	QuestionableClaims     []Claim   `json:"questionable_claims"`
	LogicalInconsistencies []string  `json:"logical_inconsistencies"`
	InterviewQuestions     []string  `json:"interview_questions"`
	ConstructiveFeedback   []string  `json:"constructive_feedback"`
	Recommendation         string    `json:"recommendations"`
	Degraded               bool      `json:"degraded,omitempty"`
	Error                  string    `json:"error,omitempty"`

	Details
}

// EffectiveScore prefers the credibility score when the analyzer emitted one.
func (r *ExpertResult) EffectiveScore() int {
	if r.CredibilityScore != nil {
		return *r.CredibilityScore
	}
	return r.Score
}

// AnalysisVersion is stamped on every aggregate result.
const AnalysisVersion = "2.0"

// AggregateResult combines all seven dimension results.
type AggregateResult struct {
	AnalysisID   string    `json:"analysis_id"`
	OverallScore int       `json:"overall_score"`
	CreatedAt    time.Time `json:"created_at"`

	Skills               ExpertResult `json:"skills"`
	Experience           ExpertResult `json:"experience"`
	Education            ExpertResult `json:"education"`
	SoftSkills           ExpertResult `json:"soft_skills"`
	Stability            ExpertResult `json:"stability"`
	WorkAttitude         ExpertResult `json:"work_attitude"`
	DevelopmentPotential ExpertResult `json:"development_potential"`

	Summary         string             `json:"summary"`
	Recommendations []string           `json:"recommendations"`
	AnalysisVersion string             `json:"analysis_version"`
	DimensionCount  int                `json:"dimension_count"`
	WeightsUsed     map[string]float64 `json:"weights_used"`
	Profile         string             `json:"profile"`

	DegradedDimensions []Dimension `json:"degraded_dimensions,omitempty"`
	Error              string      `json:"error,omitempty"`

	// Promoted from the skills result.
	CredibilityScore       *int     `json:"credibility_score,omitempty"`
	RiskLevel              string   `json:"risk_level,omitempty"`
	VerifiedClaims         []Claim  `json:"verified_claims,omitempty"`
	QuestionableClaims     []Claim  `json:"questionable_claims,omitempty"`
	LogicalInconsistencies []string `json:"logical_inconsistencies,omitempty"`
	ExaggerationIndicators []string `json:"exaggeration_indicators,omitempty"`
	InterviewQuestions     []string `json:"interview_questions,omitempty"`
	ConstructiveFeedback   []string `json:"constructive_feedback,omitempty"`
}

// Result returns the slot holding the given dimension's result.
func (a *AggregateResult) Result(d Dimension) *ExpertResult {
	switch d {
	case DimensionSkills:
		return &a.Skills
	case DimensionExperience:
		return &a.Experience
	case DimensionEducation:
		return &a.Education
	case DimensionSoftSkills:
		return &a.SoftSkills
	case DimensionStability:
		return &a.Stability
	case DimensionAttitude:
		return &a.WorkAttitude
	case DimensionPotential:
		return &a.DevelopmentPotential
	}
	return nil
}
