package experts

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"resumepanel/internal/errors"
	"resumepanel/internal/extract"
	"resumepanel/internal/types"
)

// payload mirrors ExpertResult with lenient field types so whatever the
// model emitted decodes without error.
type payload struct {
	RiskLevel              types.Text      `json:"risk_level"`
	ScoreReason            types.Text      `json:"score_reason"`
	VerifiedClaims         types.ClaimList `json:"verified_claims"`
	QuestionableClaims     types.ClaimList `json:"questionable_claims"`
	LogicalInconsistencies types.TextList  `json:"logical_inconsistencies"`
	InterviewQuestions     types.TextList  `json:"interview_questions"`
	ConstructiveFeedback   types.TextList  `json:"constructive_feedback"`
	Recommendations        types.Text      `json:"recommendations"`
	Recommendation         types.Text      `json:"recommendation"`

	types.Details
}

// credibilityDimensions emit claim verification results and always carry
// a credibility score.
var credibilityDimensions = map[types.Dimension]bool{
	types.DimensionSkills:     true,
	types.DimensionExperience: true,
}

var rationale = map[types.Dimension]string{
	types.DimensionSkills:     "基于候选人技术栈与职位要求的匹配程度、技术深度和广度综合评估。",
	types.DimensionExperience: "基于工作年限、项目经验、职业发展轨迹和成果量化情况综合评估。",
	types.DimensionEducation:  "基于学历层次、专业匹配度、学校声誉和持续学习能力综合评估。",
	types.DimensionSoftSkills: "基于沟通能力、团队协作、领导力、问题解决能力等综合素质评估。",
	types.DimensionStability:  "基于工作稳定性、跳槽频率、职业发展连贯性综合评估。",
	types.DimensionAttitude:   "基于责任心、抗压能力、工作投入度和情绪管理能力综合评估。",
	types.DimensionPotential:  "基于学习能力、创新能力、成长意愿和适应变化能力综合评估。",
}

// Complete turns an extracted object into a fully populated result. It
// fails only when the object carries neither score nor credibility_score.
func Complete(d types.Dimension, obj extract.Object) (*types.ExpertResult, error) {
	score, hasScore := readScore(obj, "score")
	credibility, hasCredibility := readScore(obj, "credibility_score")
	if !hasScore && !hasCredibility {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("%s result has no score", d), nil)
	}
	if !hasScore {
		score = credibility
	}

	raw, err := json.Marshal(obj)
	if err != nil {
		return nil, errors.NewInternalError(errors.ErrCodeInvalidFormat, "failed to re-encode model object", err)
	}
	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidFormat, "failed to decode model object", err)
	}

	result := &types.ExpertResult{
		Dimension:              d,
		Score:                  score,
		RiskLevel:              normalizeRisk(p.RiskLevel.String()),
		ScoreReason:            p.ScoreReason.String(),
		VerifiedClaims:         nonNilClaims(p.VerifiedClaims),
		QuestionableClaims:     nonNilClaims(p.QuestionableClaims),
		LogicalInconsistencies: nonNilStrings(p.LogicalInconsistencies),
		InterviewQuestions:     nonNilStrings(p.InterviewQuestions),
		ConstructiveFeedback:   nonNilStrings(p.ConstructiveFeedback),
		Recommendation:         p.Recommendations.String(),
		Details:                p.Details,
	}
	if result.Recommendation == "" {
		result.Recommendation = p.Recommendation.String()
	}

	switch {
	case hasCredibility:
		result.CredibilityScore = &credibility
	case credibilityDimensions[d]:
		mirrored := score
		result.CredibilityScore = &mirrored
	}

	if result.ScoreReason == "" {
		result.ScoreReason = ScoreReason(d, result.EffectiveScore(), len(result.VerifiedClaims), len(result.QuestionableClaims))
	}
	return result, nil
}

// ScoreReason synthesizes the explanation used when the model gave none.
func ScoreReason(d types.Dimension, score, verified, questionable int) string {
	name := d.DisplayName()
	var b strings.Builder
	switch {
	case score >= 90:
		b.WriteString(name + "表现优秀")
	case score >= 70:
		b.WriteString(name + "表现良好")
	case score >= 50:
		b.WriteString(name + "表现一般")
	default:
		b.WriteString(name + "需要提升")
	}
	if verified > 0 {
		fmt.Fprintf(&b, "，有%d项可信技能陈述", verified)
	}
	if questionable > 0 {
		fmt.Fprintf(&b, "，%d项需要验证", questionable)
	}
	b.WriteString("。")
	b.WriteString(rationale[d])
	return b.String()
}

func readScore(obj extract.Object, key string) (int, bool) {
	v, ok := obj[key]
	if !ok {
		return 0, false
	}
	f, ok := types.ParseNumber(v)
	if !ok || math.IsNaN(f) {
		return 0, false
	}
	return ClampScore(f), true
}

// ClampScore truncates to an integer in [0, 100].
func ClampScore(f float64) int {
	switch {
	case f < 0:
		return 0
	case f > 100:
		return 100
	}
	return int(f)
}

func normalizeRisk(s string) string {
	s = strings.TrimSpace(s)
	if u := strings.ToUpper(s); len(u) == 1 && u >= "A" && u <= "D" {
		return u
	}
	return s
}

func nonNilClaims(in types.ClaimList) []types.Claim {
	if in == nil {
		return []types.Claim{}
	}
	return in
}

func nonNilStrings(in types.TextList) []string {
	if in == nil {
		return []string{}
	}
	return in
}
