package experts

import (
	"fmt"
	"strings"
	"testing"

	"resumepanel/internal/types"
)

func TestFallback(t *testing.T) {
	wantScores := map[types.Dimension]int{
		types.DimensionSkills:     50,
		types.DimensionExperience: 50,
		types.DimensionEducation:  60,
		types.DimensionSoftSkills: 60,
		types.DimensionStability:  50,
		types.DimensionAttitude:   50,
		types.DimensionPotential:  50,
	}
	err := fmt.Errorf("gateway timeout")

	for _, d := range types.AllDimensions {
		t.Run(string(d), func(t *testing.T) {
			r := Fallback(d, err)
			if r.Score != wantScores[d] {
				t.Errorf("Score = %d, want %d", r.Score, wantScores[d])
			}
			if !r.Degraded {
				t.Error("Degraded = false")
			}
			if r.Recommendation == "" || !strings.Contains(r.Recommendation, "gateway timeout") {
				t.Errorf("Recommendation = %q, want error text", r.Recommendation)
			}
			assertCommonFields(t, r)
		})
	}
}

func TestFallbackCredibilityDimensions(t *testing.T) {
	for _, d := range []types.Dimension{types.DimensionSkills, types.DimensionExperience} {
		r := Fallback(d, nil)
		if r.CredibilityScore == nil || *r.CredibilityScore != 50 {
			t.Errorf("%s CredibilityScore = %v, want 50", d, r.CredibilityScore)
		}
		if r.RiskLevel != "C" {
			t.Errorf("%s RiskLevel = %q, want C", d, r.RiskLevel)
		}
	}
	if r := Fallback(types.DimensionEducation, nil); r.CredibilityScore != nil {
		t.Errorf("education CredibilityScore = %d, want nil", *r.CredibilityScore)
	}
}

func TestFallbackTruncatesError(t *testing.T) {
	long := strings.Repeat("错", 150)
	r := Fallback(types.DimensionStability, fmt.Errorf("%s", long))

	if got := len([]rune(r.Error)); got != fallbackErrorLimit {
		t.Errorf("error length = %d runes, want %d", got, fallbackErrorLimit)
	}
	if !strings.HasPrefix(r.Recommendation, "稳定性分析失败: ") {
		t.Errorf("Recommendation = %q", r.Recommendation)
	}
}
