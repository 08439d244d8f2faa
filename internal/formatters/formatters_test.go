package formatters

import (
	"encoding/json"
	"strings"
	"testing"

	"resumepanel/internal/types"
	"resumepanel/internal/weights"
)

func sampleExpert(d types.Dimension, score int) types.ExpertResult {
	return types.ExpertResult{
		Dimension:   d,
		Score:       score,
		ScoreReason: "理由",
		VerifiedClaims: []types.Claim{
			{Claim: "c1", Evidence: "e1"}, {Claim: "c2"}, {Claim: "c3"}, {Claim: "c4"},
		},
		QuestionableClaims:     []types.Claim{{Claim: "q1", Concern: "疑点"}},
		LogicalInconsistencies: []string{},
		InterviewQuestions:     []string{"i1", "i2", "i3", "i4"},
		ConstructiveFeedback:   []string{"f1", "f2", "f3"},
		Recommendation:         "建议面试",
	}
}

func sampleAggregate() *types.AggregateResult {
	agg := &types.AggregateResult{
		AnalysisID:      "id-1",
		OverallScore:    72,
		Summary:         "整体良好。",
		Recommendations: []string{"r1", "r2"},
	}
	for _, d := range types.AllDimensions {
		*agg.Result(d) = sampleExpert(d, 75)
	}
	return agg
}

func TestGrade(t *testing.T) {
	tests := []struct {
		score  int
		letter string
	}{
		{100, "A"}, {90, "A"}, {89, "B"}, {70, "B"}, {69, "C"}, {50, "C"}, {49, "D"}, {0, "D"},
	}
	for _, tt := range tests {
		if got, _ := Grade(tt.score); got != tt.letter {
			t.Errorf("Grade(%d) = %s, want %s", tt.score, got, tt.letter)
		}
	}
}

func TestAggregateMarkdown(t *testing.T) {
	registry := NewFormatterRegistry()
	out, err := registry.Format(sampleAggregate(), FormatMarkdown)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	for _, want := range []string{
		"# 📊 综合评估报告 (7维度分析)",
		"## 综合评分: **72/100** (B级 - 良好)",
		"## 🎯 各维度评分",
		"💻 **技能匹配度**: 75/100",
		"🚀 **发展潜力**: 75/100",
		"  - c1 (证据: e1)",
		"  - q1 (⚠️ 疑点)",
		"  3. i3",
		"## 📝 综合建议",
		"- r2",
		"```json",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
	for _, absent := range []string{"  - c4", "  4. i4", "  - f3"} {
		if strings.Contains(out, absent) {
			t.Errorf("markdown should cap lists, found %q", absent)
		}
	}

	block := out[strings.Index(out, "```json\n")+len("```json\n") : strings.LastIndex(out, "\n```")]
	var decoded types.AggregateResult
	if err := json.Unmarshal([]byte(block), &decoded); err != nil {
		t.Fatalf("embedded JSON does not parse: %v", err)
	}
	if len(decoded.Skills.VerifiedClaims) != 4 {
		t.Errorf("embedded JSON should be untruncated, got %d claims", len(decoded.Skills.VerifiedClaims))
	}
}

func TestAggregateText(t *testing.T) {
	out, err := NewFormatterRegistry().Format(*sampleAggregate(), FormatText)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if strings.Contains(out, "**") || strings.Contains(out, "```") {
		t.Error("text output contains markdown markup")
	}
	if !strings.Contains(out, "=== 📊 综合评估报告 (7维度分析) ===") {
		t.Errorf("text heading missing:\n%s", out)
	}
}

func TestExpertMarkdown(t *testing.T) {
	r := sampleExpert(types.DimensionSkills, 45)
	r.RiskLevel = "C"

	out, err := NewFormatterRegistry().Format(&r, FormatMarkdown)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	for _, want := range []string{
		"## 🎯 技能匹配度 (评分: 45/100 | D级 - 较差)",
		"**风险等级**: C级",
		"### ✅ 可信陈述",
		"- **c1** (e1)",
		"- **q1** - 疑点",
		"### 📋 综合建议\n建议面试",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expert markdown missing %q in:\n%s", want, out)
		}
	}
}

func TestFormatJSONAndUnknown(t *testing.T) {
	registry := NewFormatterRegistry()

	out, err := registry.Format(map[string]int{"a": 1}, FormatJSON)
	if err != nil || !strings.Contains(out, `"a": 1`) {
		t.Errorf("json Format() = %q, %v", out, err)
	}
	if _, err := registry.Format(map[string]int{}, FormatMarkdown); err == nil {
		t.Error("markdown of unknown type should fail")
	}
	if _, err := registry.Format(sampleAggregate(), "yaml"); err == nil {
		t.Error("unknown format should fail")
	}
	if got := strings.Join(registry.GetSupportedFormats(), ","); got != "json,markdown,text" {
		t.Errorf("GetSupportedFormats() = %s", got)
	}
}

func TestProfilesFormatter(t *testing.T) {
	out, err := NewFormatterRegistry().Format(weights.NewRegistry().Profiles(), FormatMarkdown)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.Contains(out, "| standard | 20 | 20 | 15 | 15 | 15 | 10 | 5 |") {
		t.Errorf("profiles table:\n%s", out)
	}
}
