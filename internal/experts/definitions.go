package experts

import (
	"fmt"

	"resumepanel/internal/types"
)

// promptBuilder renders the user prompt for one dimension.
type promptBuilder func(actx *types.AnalysisContext, textLimit int) string

var promptBuilders = map[types.Dimension]promptBuilder{
	types.DimensionSkills:     genericPrompt(types.DimensionSkills, "重点核查技能陈述的可信度，区分有证据支撑的技能与需要验证的技能。"),
	types.DimensionExperience: genericPrompt(types.DimensionExperience, "重点核查时间线的合理性和成果的量化程度。"),
	types.DimensionEducation:  genericPrompt(types.DimensionEducation, "重点关注学历与专业和目标职位的匹配程度。"),
	types.DimensionSoftSkills: genericPrompt(types.DimensionSoftSkills, "请从工作经历和项目描述中寻找软技能的具体证据。"),
	types.DimensionStability:  stabilityPrompt,
	types.DimensionAttitude:   attitudePrompt,
	types.DimensionPotential:  potentialPrompt,
}

// BuildPrompt renders the user prompt for d.
func BuildPrompt(d types.Dimension, actx *types.AnalysisContext, textLimit int) string {
	build, ok := promptBuilders[d]
	if !ok {
		return ""
	}
	return build(actx, textLimit)
}

func genericPrompt(d types.Dimension, focus string) promptBuilder {
	return func(actx *types.AnalysisContext, textLimit int) string {
		return fmt.Sprintf("## 目标职位要求\n%s\n\n## 候选人简历\n%s\n\n请基于以上信息进行%s分析。%s\n返回JSON格式结果。注意：如果简历中相关信息不足，请明确指出需要通过面试进一步评估。",
			FormatJobRequirements(actx.Job),
			FormatResume(&actx.Resume, textLimit),
			d.DisplayName(),
			focus)
	}
}

func stabilityPrompt(actx *types.AnalysisContext, textLimit int) string {
	body := resumeSections(&actx.Resume, textLimit,
		basicInfoBlock("name", "work_years", "job_status"),
		tenureBlock,
	)
	return body + `
请基于以上信息进行稳定性分析，返回JSON格式结果。
如果简历中缺少工作经历数据，请明确说明"数据不足，无法评估"，并给出默认评分50分。`
}

func attitudePrompt(actx *types.AnalysisContext, textLimit int) string {
	body := resumeSections(&actx.Resume, textLimit,
		basicInfoBlock("name", "target_position"),
		dutiesBlock,
		projectsBlock(false),
	)
	return body + `
请基于以上信息进行工作态度和抗压能力分析，返回JSON格式结果。
注意：如果简历中相关信息不足，请明确指出需要通过面试进一步评估，并给出合理的默认评分（50-60分）。`
}

func potentialPrompt(actx *types.AnalysisContext, textLimit int) string {
	body := resumeSections(&actx.Resume, textLimit,
		basicInfoBlock("name", "work_years", "target_position"),
		skillsBlock,
		achievementsBlock,
		projectsBlock(true),
		educationBlock,
		certificatesBlock,
	)
	return body + `
请基于以上信息进行发展潜力分析，重点关注：
1. 技术栈演进和更新速度
2. 学习新技术的证据
3. 创新和改进的案例
4. 职业规划的清晰度

返回JSON格式结果。注意：如果简历中相关信息不足，请明确指出需要通过面试进一步评估，并给出合理的默认评分（50-60分）。`
}
