package experts

import (
	"resumepanel/internal/types"
)

// fallbackErrorLimit bounds the error text quoted in degraded results.
const fallbackErrorLimit = 100

const (
	needInterview  = "需面试评估"
	notEnoughInfo  = "信息不足"
	notEnoughData  = "数据不足"
	analysisFailed = "分析失败，数据不足"
)

// Fallback builds the degraded result for a dimension whose analysis
// failed. Scores are mid-range so infrastructure failures never zero out
// a candidate.
func Fallback(d types.Dimension, err error) *types.ExpertResult {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
		if runes := []rune(msg); len(runes) > fallbackErrorLimit {
			msg = string(runes[:fallbackErrorLimit])
		}
	}

	r := &types.ExpertResult{
		Dimension:              d,
		Score:                  50,
		VerifiedClaims:         []types.Claim{},
		QuestionableClaims:     []types.Claim{},
		LogicalInconsistencies: []string{},
		InterviewQuestions:     []string{},
		ConstructiveFeedback:   []string{},
		Degraded:               true,
		Error:                  msg,
	}

	switch d {
	case types.DimensionSkills:
		r.CredibilityScore = intPtr(50)
		r.RiskLevel = "C"
		r.InterviewQuestions = []string{"请提供详细的技能信息"}
		r.ConstructiveFeedback = []string{"简历中技能信息不足"}
		r.ExaggerationIndicators = types.TextList{}
		r.Recommendation = "简历中技能信息不足，无法进行准确评估。建议通过面试或技能测试核实技术能力。错误: " + msg

	case types.DimensionExperience:
		r.CredibilityScore = intPtr(50)
		r.RiskLevel = "C"
		r.TimelineIssues = types.TextList{}
		r.InterviewQuestions = []string{"请提供详细的工作经验信息"}
		r.ConstructiveFeedback = []string{"简历中工作经验信息不足"}
		r.Recommendation = "简历中工作经验信息不足，无法进行准确评估。建议通过面试详细了解工作经历和项目经验。错误: " + msg

	case types.DimensionEducation:
		r.Score = 60
		r.HighestDegree = "无法确定"
		r.UniversityTier = "无法评估"
		r.MajorRelevance = "信息不足"
		r.GPA = "未提供"
		r.AcademicStrengths = types.TextList{"需要面试进一步评估"}
		r.LearningCapability = "需要面试进一步评估"
		r.Recommendation = "简历中教育信息不足，建议通过面试核实学历背景和专业能力。错误: " + msg

	case types.DimensionSoftSkills:
		r.Score = 60
		r.Communication = needInterview
		r.Teamwork = needInterview
		r.Leadership = needInterview
		r.ProblemSolving = needInterview
		r.Innovation = needInterview
		r.Adaptability = needInterview
		r.Responsibility = needInterview
		r.Strengths = types.TextList{"需要通过面试进一步评估"}
		r.AreasForImprovement = types.TextList{"简历信息不足，无法判断"}
		r.Recommendation = "简历中软技能信息不足，建议通过行为面试问题评估沟通能力、团队协作和问题解决能力。错误: " + msg

	case types.DimensionStability:
		r.JobTenureAvg = types.NumberPtr(0)
		r.JobChangesCount = types.NumberPtr(0)
		r.FrequentHopperFlag = types.FlagPtr(false)
		r.CareerProgressionScore = types.NumberPtr(50)
		r.PromotionHistory = types.TextList{}
		r.RoleEvolution = notEnoughData
		r.LeavingReasonsQuality = "无法评估"
		r.ReasonFlags = types.TextList{analysisFailed}
		r.StabilityIndicators = types.StabilityIndicators{}
		r.RiskFactors = types.TextList{"分析过程出错"}
		r.PositiveIndicators = types.TextList{}
		r.Recommendation = "稳定性分析失败: " + msg

	case types.DimensionAttitude:
		r.StressResistance = notEnoughInfo
		r.ResponsibilityLevel = notEnoughInfo
		r.OvertimeWillingness = notEnoughInfo
		r.EmotionalIntelligence = notEnoughInfo
		r.ConflictHandling = notEnoughInfo
		r.StressHandlingExamples = types.TextList{}
		r.OwnershipExamples = types.TextList{}
		r.DedicationIndicators = types.TextList{}
		r.StressScore = types.NumberPtr(50)
		r.ResponsibilityScore = types.NumberPtr(50)
		r.DedicationScore = types.NumberPtr(50)
		r.EmotionalScore = types.NumberPtr(50)
		r.Strengths = types.TextList{}
		r.Concerns = types.TextList{analysisFailed}
		r.Recommendation = "工作态度分析失败: " + msg

	case types.DimensionPotential:
		r.LearningAbility = notEnoughInfo
		r.LearningSpeed = notEnoughInfo
		r.InnovationCapability = notEnoughInfo
		r.ProblemSolvingCreativity = notEnoughInfo
		r.GrowthMindset = notEnoughInfo
		r.CareerGoalsAlignment = notEnoughInfo
		r.ChangeManagement = notEnoughInfo
		r.KnowledgeAcquisition = types.TextList{}
		r.InnovativeProjects = types.TextList{}
		r.SelfDevelopment = types.TextList{}
		r.TechStackEvolution = types.TextList{}
		r.HighPotentialFlags = types.TextList{}
		r.AdaptabilityScore = types.NumberPtr(50)
		r.GrowthTrajectory = notEnoughData
		r.Recommendation = "发展潜力分析失败: " + msg
	}

	r.ScoreReason = ScoreReason(d, r.EffectiveScore(), 0, 0) + "（分析失败，使用默认评估）"
	return r
}

func intPtr(v int) *int { return &v }
