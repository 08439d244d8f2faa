package coordinator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"resumepanel/internal/experts"
	"resumepanel/internal/llm"
	"resumepanel/internal/types"
)

var summaryHeadings = map[types.Dimension]string{
	types.DimensionSkills:     "技能分析",
	types.DimensionExperience: "经验分析",
	types.DimensionEducation:  "教育分析",
	types.DimensionSoftSkills: "软技能分析",
	types.DimensionStability:  "稳定性分析",
	types.DimensionAttitude:   "工作态度分析",
	types.DimensionPotential:  "发展潜力分析",
}

func buildSummaryPrompt(actx *types.AnalysisContext, agg *types.AggregateResult, textLimit int) string {
	var b strings.Builder
	b.WriteString("请基于以下七个专家的分析结果，生成一份3-5句话的综合评估摘要：\n\n")
	b.WriteString("## 候选人信息\n")
	b.WriteString(experts.FormatResume(&actx.Resume, textLimit))
	b.WriteString("\n\n## 目标职位要求\n")
	b.WriteString(experts.FormatJobRequirements(actx.Job))
	b.WriteString("\n\n## 专家分析结果\n")
	for _, d := range types.AllDimensions {
		r := agg.Result(d)
		body, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			body = []byte("{}")
		}
		fmt.Fprintf(&b, "### %s（评分：%d）\n%s\n\n", summaryHeadings[d], r.Score, body)
	}
	fmt.Fprintf(&b, "## 综合评分: %d/100\n\n", agg.OverallScore)
	b.WriteString("请生成一份简洁、客观的综合评估摘要（3-5句话），包含：\n1. 候选人整体匹配度\n2. 主要优势\n3. 需要注意的方面\n\n摘要：")
	return b.String()
}

// fallbackSummary lists every dimension score in a fixed sentence.
func fallbackSummary(agg *types.AggregateResult) string {
	return fmt.Sprintf("综合评分为%d分。技能匹配度%d分，工作经验%d分，教育背景%d分，软技能%d分，稳定性%d分，工作态度%d分，发展潜力%d分。",
		agg.OverallScore,
		agg.Skills.Score,
		agg.Experience.Score,
		agg.Education.Score,
		agg.SoftSkills.Score,
		agg.Stability.Score,
		agg.WorkAttitude.Score,
		agg.DevelopmentPotential.Score)
}

// summarize asks the summary gateway for a short narrative and falls back
// to the template on any failure.
func (c *Coordinator) summarize(ctx context.Context, actx *types.AnalysisContext, agg *types.AggregateResult) string {
	if !c.summaryEnabled || c.summary == nil {
		return fallbackSummary(agg)
	}

	prompt := buildSummaryPrompt(actx, agg, c.textLimit)
	text, _, err := c.summary.Invoke(ctx, prompt, llm.Params{})
	if err != nil {
		c.logger.Warn("Summary generation failed, using template", "error", err.Error())
		return fallbackSummary(agg)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return fallbackSummary(agg)
	}
	return text
}
