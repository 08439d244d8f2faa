// Package router classifies chat messages by intent and dispatches them
// to a single expert or the full analysis.
package router

import (
	"strings"

	"resumepanel/internal/types"
)

// Confidence thresholds.
const (
	MinConfidence    = 0.1
	InvokeConfidence = 0.15
	// SpecificRatio is the share of the full-analysis score a specific
	// dimension needs to take precedence over it.
	SpecificRatio = 0.8
)

type bucket struct {
	intent   types.Intent
	keywords []string
}

// buckets are evaluated in order; ties keep the earlier bucket.
var buckets = []bucket{
	{types.IntentSkills, dedupe(
		"技能", "技术栈", "编程", "语言", "框架", "工具", "技术能力",
		"programming", "skill", "tech stack", "framework", "技术")},
	{types.IntentExperience, dedupe(
		"经验", "工作", "项目", "履历", "职业", "公司", "年限", "晋升",
		"work experience", "project", "job", "career", "公司")},
	{types.IntentEducation, dedupe(
		"学历", "学位", "学校", "专业", "毕业", "教育背景", "证书", "认证",
		"education", "degree", "university", "major", "证书")},
	{types.IntentSoftSkills, dedupe(
		"沟通", "团队", "领导", "协作", "能力", "素质", "软技能", "性格",
		"communication", "teamwork", "leadership", "软技能")},
	{types.IntentStability, dedupe(
		"稳定", "忠诚", "跳槽", "离职", " tenure", "稳定性",
		"stability", "loyal", "job hopping", "工作稳定")},
	{types.IntentAttitude, dedupe(
		"态度", "抗压", "责任心", "敬业", "情绪", "压力",
		"attitude", "stress", "responsibility", "dedication", "抗压")},
	{types.IntentPotential, dedupe(
		"潜力", "学习", "创新", "成长", "发展", "适应",
		"potential", "learning", "innovation", "growth", "发展潜力")},
	{types.IntentFullAnalysis, dedupe(
		"分析", "评估", "匹配", "推荐", "面试", "候选人", "简历",
		"综合", "评分", "建议", "总", "全面", "评价", "总结", "报告",
		"analyze", "evaluation", "match", "recommend", "分析", "score", "suggestion", "report")},
}

// dedupe lowercases keywords and drops repeats. Surrounding spaces are kept:
// " tenure" only matches after a word break.
func dedupe(words ...string) []string {
	seen := make(map[string]bool, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(w)
		if strings.TrimSpace(w) == "" || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

// Classify returns the message intent and its confidence, the winning
// keyword count divided by the whitespace word count.
func Classify(message string) (types.Intent, float64) {
	lower := strings.ToLower(message)
	words := len(strings.Fields(message))
	if words == 0 {
		words = 1
	}

	scores := make(map[types.Intent]int, len(buckets))
	var top types.Intent
	topScore := 0
	for _, b := range buckets {
		n := 0
		for _, kw := range b.keywords {
			if strings.Contains(lower, kw) {
				n++
			}
		}
		if n == 0 {
			continue
		}
		scores[b.intent] = n
		if n > topScore {
			top, topScore = b.intent, n
		}
	}
	if topScore == 0 {
		return types.IntentGeneral, 0
	}

	confidence := float64(topScore) / float64(words)
	if confidence < MinConfidence {
		return types.IntentGeneral, confidence
	}

	if top == types.IntentFullAnalysis {
		full := float64(scores[types.IntentFullAnalysis])
		for _, b := range buckets {
			n, ok := scores[b.intent]
			if !ok || b.intent == types.IntentFullAnalysis {
				continue
			}
			if float64(n) >= full*SpecificRatio {
				return b.intent, float64(n) / float64(words)
			}
		}
	}
	return top, confidence
}

// ShouldInvokeExpert reports whether the message warrants an expert call
// rather than a plain conversational reply.
func ShouldInvokeExpert(message string) bool {
	intent, confidence := Classify(message)
	return shouldInvoke(intent, confidence)
}

func shouldInvoke(intent types.Intent, confidence float64) bool {
	if intent == types.IntentFullAnalysis {
		return true
	}
	return intent.IsSpecific() && confidence > InvokeConfidence
}
