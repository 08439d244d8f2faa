package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"resumepanel/internal/types"
	"resumepanel/internal/weights"
)

// Display limits per dimension.
const (
	maxClaims    = 3
	maxQuestions = 3
	maxFeedback  = 2
)

// style switches between markdown emphasis and plain text.
type style struct {
	markdown bool
}

var (
	markdownStyle = style{markdown: true}
	textStyle     = style{markdown: false}
)

func (s style) heading(level int, text string) string {
	if s.markdown {
		return strings.Repeat("#", level) + " " + text
	}
	if level == 1 {
		return "=== " + text + " ==="
	}
	return "【" + text + "】"
}

func (s style) bold(text string) string {
	if s.markdown {
		return "**" + text + "**"
	}
	return text
}

// jsonBlock appends the untruncated result for downstream consumers.
func (s style) jsonBlock(lines []string, data any) ([]string, error) {
	body, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, err
	}
	if s.markdown {
		return append(lines, "---", "", "```json", string(body), "```"), nil
	}
	return append(lines, "---", "", string(body)), nil
}

// AggregateFormatter renders the full seven-dimension report.
type AggregateFormatter struct {
	style style
}

func (f *AggregateFormatter) SupportedType() string { return "AggregateResult" }

func (f *AggregateFormatter) Format(data any) (string, error) {
	var agg *types.AggregateResult
	switch v := data.(type) {
	case *types.AggregateResult:
		agg = v
	case types.AggregateResult:
		agg = &v
	default:
		return "", fmt.Errorf("expected AggregateResult, got %T", data)
	}
	s := f.style

	letter, label := Grade(agg.OverallScore)
	lines := []string{
		s.heading(1, "📊 综合评估报告 (7维度分析)"),
		"",
		s.heading(2, fmt.Sprintf("综合评分: %s (%s级 - %s)", s.bold(fmt.Sprintf("%d/100", agg.OverallScore)), letter, label)),
		"",
	}
	if agg.Error != "" {
		lines = append(lines, "⚠️ "+agg.Error, "")
	}
	if agg.Summary != "" {
		lines = append(lines, agg.Summary, "")
	}
	lines = append(lines, s.heading(2, "🎯 各维度评分"), "")

	for _, d := range types.AllDimensions {
		r := agg.Result(d)
		letter, label := Grade(r.Score)
		lines = append(lines, fmt.Sprintf("%s %s: %d/100 (%s级 - %s)", d.Emoji(), s.bold(d.DisplayName()), r.Score, letter, label))
		if r.ScoreReason != "" {
			lines = append(lines, fmt.Sprintf("- %s: %s", s.bold("评分依据"), r.ScoreReason))
		}
		lines = append(lines, f.dimensionDetails(r)...)
		lines = append(lines, "")
	}

	if len(agg.Recommendations) > 0 {
		lines = append(lines, s.heading(2, "📝 综合建议"), "")
		for _, rec := range agg.Recommendations {
			lines = append(lines, "- "+rec)
		}
		lines = append(lines, "")
	}

	lines, err := s.jsonBlock(lines, agg)
	if err != nil {
		return "", err
	}
	return strings.Join(lines, "\n"), nil
}

func (f *AggregateFormatter) dimensionDetails(r *types.ExpertResult) []string {
	s := f.style
	var lines []string
	if len(r.VerifiedClaims) > 0 {
		lines = append(lines, "- ✅ "+s.bold("可信陈述")+":")
		for _, c := range r.VerifiedClaims[:min(len(r.VerifiedClaims), maxClaims)] {
			if c.Evidence != "" {
				lines = append(lines, fmt.Sprintf("  - %s (证据: %s)", c.Claim, c.Evidence))
			} else {
				lines = append(lines, "  - "+c.Claim)
			}
		}
	}
	if len(r.QuestionableClaims) > 0 {
		lines = append(lines, "- ⚠️ "+s.bold("需要验证")+":")
		for _, c := range r.QuestionableClaims[:min(len(r.QuestionableClaims), maxClaims)] {
			if c.Concern != "" {
				lines = append(lines, fmt.Sprintf("  - %s (⚠️ %s)", c.Claim, c.Concern))
			} else {
				lines = append(lines, "  - "+c.Claim)
			}
		}
	}
	if len(r.InterviewQuestions) > 0 {
		lines = append(lines, "- 🔍 "+s.bold("建议面试问题")+":")
		for i, q := range r.InterviewQuestions[:min(len(r.InterviewQuestions), maxQuestions)] {
			lines = append(lines, fmt.Sprintf("  %d. %s", i+1, q))
		}
	}
	if len(r.ConstructiveFeedback) > 0 {
		lines = append(lines, "- 💡 "+s.bold("改进建议")+":")
		for _, fb := range r.ConstructiveFeedback[:min(len(r.ConstructiveFeedback), maxFeedback)] {
			lines = append(lines, "  - "+fb)
		}
	}
	return lines
}

// ExpertFormatter renders one dimension's report.
type ExpertFormatter struct {
	style style
}

func (f *ExpertFormatter) SupportedType() string { return "ExpertResult" }

func (f *ExpertFormatter) Format(data any) (string, error) {
	var r *types.ExpertResult
	switch v := data.(type) {
	case *types.ExpertResult:
		r = v
	case types.ExpertResult:
		r = &v
	default:
		return "", fmt.Errorf("expected ExpertResult, got %T", data)
	}
	s := f.style

	name := r.Dimension.DisplayName()
	if name == "" {
		name = string(r.Dimension)
	}
	letter, label := Grade(r.Score)
	lines := []string{
		s.heading(2, fmt.Sprintf("🎯 %s (评分: %d/100 | %s级 - %s)", name, r.Score, letter, label)),
		"",
	}
	if r.RiskLevel != "" {
		lines = append(lines, fmt.Sprintf("%s: %s级", s.bold("风险等级"), r.RiskLevel), "")
	}
	if r.ScoreReason != "" {
		lines = append(lines, fmt.Sprintf("%s: %s", s.bold("评分依据"), r.ScoreReason), "")
	}

	section := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		lines = append(lines, s.heading(3, title))
		lines = append(lines, items...)
		lines = append(lines, "")
	}

	var verified, questionable, questions, feedback []string
	for _, c := range r.VerifiedClaims[:min(len(r.VerifiedClaims), maxClaims)] {
		if c.Evidence != "" {
			verified = append(verified, fmt.Sprintf("- %s (%s)", s.bold(c.Claim), c.Evidence))
		} else {
			verified = append(verified, "- "+s.bold(c.Claim))
		}
	}
	for _, c := range r.QuestionableClaims[:min(len(r.QuestionableClaims), maxClaims)] {
		if c.Concern != "" {
			questionable = append(questionable, fmt.Sprintf("- %s - %s", s.bold(c.Claim), c.Concern))
		} else {
			questionable = append(questionable, "- "+s.bold(c.Claim))
		}
	}
	for i, q := range r.InterviewQuestions[:min(len(r.InterviewQuestions), maxQuestions)] {
		questions = append(questions, fmt.Sprintf("%d. %s", i+1, q))
	}
	for _, fb := range r.ConstructiveFeedback[:min(len(r.ConstructiveFeedback), maxFeedback)] {
		feedback = append(feedback, "- "+fb)
	}

	section("✅ 可信陈述", verified)
	section("⚠️ 需要验证", questionable)
	section("🔍 建议面试问题", questions)
	section("💡 改进建议", feedback)
	if r.Recommendation != "" {
		section("📋 综合建议", []string{r.Recommendation})
	}

	lines, err := s.jsonBlock(lines, r)
	if err != nil {
		return "", err
	}
	return strings.Join(lines, "\n"), nil
}

// ProfilesFormatter renders the weight profile table.
type ProfilesFormatter struct {
	style style
}

func (f *ProfilesFormatter) SupportedType() string { return "Profiles" }

func (f *ProfilesFormatter) Format(data any) (string, error) {
	profiles, ok := data.([]weights.Profile)
	if !ok {
		return "", fmt.Errorf("expected []weights.Profile, got %T", data)
	}

	header := []string{"profile"}
	for _, d := range types.AllDimensions {
		header = append(header, string(d))
	}

	var b strings.Builder
	if f.style.markdown {
		b.WriteString("| " + strings.Join(header, " | ") + " |\n")
		b.WriteString("|" + strings.Repeat("---|", len(header)) + "\n")
	} else {
		b.WriteString(strings.Join(header, "\t") + "\n")
	}
	for _, p := range profiles {
		row := []string{p.Name}
		for _, d := range types.AllDimensions {
			row = append(row, fmt.Sprintf("%g", p.Weight(d)))
		}
		if f.style.markdown {
			b.WriteString("| " + strings.Join(row, " | ") + " |\n")
		} else {
			b.WriteString(strings.Join(row, "\t") + "\n")
		}
	}
	return b.String(), nil
}
