package coordinator

import (
	"resumepanel/internal/types"
)

// weakDimensionAdvice applies to any dimension scoring below weakScore.
var weakDimensionAdvice = map[types.Dimension]string{
	types.DimensionSkills:     "建议重点考察候选人的技术能力，可通过在线编程测试或技术面试进一步评估",
	types.DimensionExperience: "建议详细了解候选人的项目经历，评估其实际工作能力和项目贡献度",
	types.DimensionEducation:  "建议核实候选人的学历背景，关注其学习能力和专业发展潜力",
	types.DimensionSoftSkills: "建议通过行为面试问题评估候选人的沟通能力、团队协作和问题解决能力",
	types.DimensionStability:  "建议关注候选人的工作稳定性，了解过往离职原因和职业规划",
	types.DimensionAttitude:   "建议通过面试评估候选人的工作态度、责任心和抗压能力",
	types.DimensionPotential:  "建议评估候选人的学习能力和发展潜力，判断是否符合团队长期发展需求",
}

const weakScore = 60

func overallAdvice(overall int) string {
	switch {
	case overall >= 80:
		return "候选人整体匹配度较高，建议优先安排面试"
	case overall >= 60:
		return "候选人基本符合要求，可考虑安排面试进一步了解"
	default:
		return "候选人匹配度较低，建议谨慎考虑或重新评估招聘需求"
	}
}

// buildRecommendations emits weak-dimension rules, the overall band, then
// each expert's own advice cut to maxLen runes. Duplicates are dropped and
// the list is capped at limit entries.
func buildRecommendations(agg *types.AggregateResult, maxLen, limit int) []string {
	var recs []string
	for _, d := range types.AllDimensions {
		if agg.Result(d).Score < weakScore {
			recs = append(recs, weakDimensionAdvice[d])
		}
	}
	recs = append(recs, overallAdvice(agg.OverallScore))
	for _, d := range types.AllDimensions {
		if rec := agg.Result(d).Recommendation; rec != "" {
			recs = append(recs, truncateRunes(rec, maxLen))
		}
	}

	seen := make(map[string]bool, len(recs))
	out := make([]string, 0, limit)
	for _, rec := range recs {
		if seen[rec] {
			continue
		}
		seen[rec] = true
		out = append(out, rec)
		if len(out) >= limit {
			break
		}
	}
	return out
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	if r := []rune(s); len(r) > n {
		return string(r[:n])
	}
	return s
}
