package types

import "strings"

// Dimension is one of the seven evaluation axes.
type Dimension string

const (
	DimensionSkills     Dimension = "skills"
	DimensionExperience Dimension = "experience"
	DimensionEducation  Dimension = "education"
	DimensionSoftSkills Dimension = "soft_skills"
	DimensionStability  Dimension = "stability"
	DimensionAttitude   Dimension = "attitude"
	DimensionPotential  Dimension = "potential"
)

// AllDimensions is the canonical dimension order used for prompts,
// reports and recommendation rules.
var AllDimensions = []Dimension{
	DimensionSkills,
	DimensionExperience,
	DimensionEducation,
	DimensionSoftSkills,
	DimensionStability,
	DimensionAttitude,
	DimensionPotential,
}

type dimensionInfo struct {
	resultKey string
	name      string
	emoji     string
}

var dimensionTable = map[Dimension]dimensionInfo{
	DimensionSkills:     {"skills", "技能匹配度", "💻"},
	DimensionExperience: {"experience", "工作经验", "💼"},
	DimensionEducation:  {"education", "教育背景", "🎓"},
	DimensionSoftSkills: {"soft_skills", "软技能", "🤝"},
	DimensionStability:  {"stability", "稳定性/忠诚度", "⚖️"},
	DimensionAttitude:   {"work_attitude", "工作态度/抗压", "💪"},
	DimensionPotential:  {"development_potential", "发展潜力", "🚀"},
}

// ResultKey is the key the dimension's result uses in the output envelope.
func (d Dimension) ResultKey() string {
	return dimensionTable[d].resultKey
}

// DisplayName is the Chinese label used in prompts and reports.
func (d Dimension) DisplayName() string {
	return dimensionTable[d].name
}

func (d Dimension) Emoji() string {
	return dimensionTable[d].emoji
}

func (d Dimension) Valid() bool {
	_, ok := dimensionTable[d]
	return ok
}

// ParseDimension accepts weight keys ("attitude") and result keys
// ("work_attitude"), case-insensitively.
func ParseDimension(s string) (Dimension, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.ReplaceAll(key, "-", "_")
	for d, info := range dimensionTable {
		if key == string(d) || key == info.resultKey {
			return d, true
		}
	}
	return "", false
}

// Intent is the router's classification of a user message.
type Intent string

const (
	IntentSkills       Intent = "skills"
	IntentExperience   Intent = "experience"
	IntentEducation    Intent = "education"
	IntentSoftSkills   Intent = "soft_skills"
	IntentStability    Intent = "stability"
	IntentAttitude     Intent = "attitude"
	IntentPotential    Intent = "potential"
	IntentFullAnalysis Intent = "full_analysis"
	IntentGeneral      Intent = "general"
)

// Dimension returns the dimension a specific intent targets.
func (i Intent) Dimension() (Dimension, bool) {
	d := Dimension(i)
	if d.Valid() {
		return d, true
	}
	return "", false
}

// IsSpecific reports whether the intent names a single dimension.
func (i Intent) IsSpecific() bool {
	_, ok := i.Dimension()
	return ok
}
