package types

import (
	"encoding/json"
	"slices"
)

// BasicInfo holds the candidate header section of a parsed resume.
type BasicInfo struct {
	Name           Text `json:"name,omitempty"`
	Email          Text `json:"email,omitempty"`
	Phone          Text `json:"phone,omitempty"`
	TargetPosition Text `json:"target_position,omitempty"`
	WorkYears      Text `json:"work_years,omitempty"`
	JobStatus      Text `json:"job_status,omitempty"`
	Location       Text `json:"location,omitempty"`
}

type WorkExperience struct {
	Company          Text     `json:"company,omitempty"`
	Position         Text     `json:"position,omitempty"`
	Duration         Text     `json:"duration,omitempty"`
	StartDate        Text     `json:"start_date,omitempty"`
	EndDate          Text     `json:"end_date,omitempty"`
	Description      Text     `json:"description,omitempty"`
	Responsibilities TextList `json:"responsibilities,omitempty"`
	Achievements     TextList `json:"achievements,omitempty"`
	LeavingReason    Text     `json:"leaving_reason,omitempty"`
}

type Education struct {
	School   Text     `json:"school,omitempty"`
	Degree   Text     `json:"degree,omitempty"`
	Major    Text     `json:"major,omitempty"`
	Duration Text     `json:"duration,omitempty"`
	GPA      Text     `json:"gpa,omitempty"`
	Honors   TextList `json:"honors,omitempty"`
}

// Skill accepts either {"name": ...} or a bare string.
type Skill struct {
	Name        Text `json:"name,omitempty"`
	Proficiency Text `json:"proficiency,omitempty"`
	Years       Text `json:"years,omitempty"`
}

func (s *Skill) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err == nil {
		*s = Skill{Name: Text(name)}
		return nil
	}
	type plain Skill
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		*s = Skill{}
		return nil
	}
	*s = Skill(p)
	return nil
}

type Project struct {
	Name         Text     `json:"name,omitempty"`
	Role         Text     `json:"role,omitempty"`
	Description  Text     `json:"description,omitempty"`
	TechStack    TextList `json:"tech_stack,omitempty"`
	Achievements TextList `json:"achievements,omitempty"`
}

// Certificate accepts either {"name": ...} or a bare string.
type Certificate struct {
	Name   Text `json:"name,omitempty"`
	Issuer Text `json:"issuer,omitempty"`
	Date   Text `json:"date,omitempty"`
}

func (c *Certificate) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err == nil {
		*c = Certificate{Name: Text(name)}
		return nil
	}
	type plain Certificate
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		*c = Certificate{}
		return nil
	}
	*c = Certificate(p)
	return nil
}

// Resume is the candidate representation analyzers read from. Any subset
// of the sections may be present.
type Resume struct {
	ExtractedText  string           `json:"extracted_text,omitempty"`
	BasicInfo      *BasicInfo       `json:"basic_info,omitempty"`
	WorkExperience []WorkExperience `json:"work_experience,omitempty"`
	Education      []Education      `json:"education,omitempty"`
	Skills         []Skill          `json:"skills,omitempty"`
	Projects       []Project        `json:"projects,omitempty"`
	Certificates   []Certificate    `json:"certificates,omitempty"`

	// Flat contact fields sent by chat clients without a parsed resume.
	CandidateName Text `json:"candidate_name,omitempty"`
	Email         Text `json:"email,omitempty"`
	Phone         Text `json:"phone,omitempty"`
}

// HasStructured reports whether any parsed section is present.
func (r *Resume) HasStructured() bool {
	return r.BasicInfo != nil || len(r.WorkExperience) > 0 || len(r.Education) > 0 ||
		len(r.Skills) > 0 || len(r.Projects) > 0
}

// IsEmpty reports whether the resume carries nothing an analyzer can use.
func (r *Resume) IsEmpty() bool {
	return !r.HasStructured() && r.ExtractedText == "" && len(r.Certificates) == 0 &&
		r.CandidateName == "" && r.Email == "" && r.Phone == ""
}

// JobRequirements describes the target position.
type JobRequirements struct {
	Title        Text     `json:"title,omitempty"`
	Description  Text     `json:"description,omitempty"`
	Requirements Text     `json:"requirements,omitempty"`
	Skills       TextList `json:"skills,omitempty"`
}

func (j *JobRequirements) IsEmpty() bool {
	return j == nil || (j.Title == "" && j.Description == "" && j.Requirements == "" && len(j.Skills) == 0)
}

// AnalysisContext is built once per request and shared read-only by every
// analyzer invocation.
type AnalysisContext struct {
	Resume Resume
	Job    *JobRequirements
}

// NewAnalysisContext copies the request inputs so later mutation by the
// caller cannot reach running analyzers.
func NewAnalysisContext(resume Resume, job *JobRequirements) *AnalysisContext {
	ctx := &AnalysisContext{Resume: resume}
	ctx.Resume.WorkExperience = slices.Clone(resume.WorkExperience)
	ctx.Resume.Education = slices.Clone(resume.Education)
	ctx.Resume.Skills = slices.Clone(resume.Skills)
	ctx.Resume.Projects = slices.Clone(resume.Projects)
	ctx.Resume.Certificates = slices.Clone(resume.Certificates)
	if job != nil {
		j := *job
		j.Skills = slices.Clone(job.Skills)
		ctx.Job = &j
	}
	if resume.BasicInfo != nil {
		b := *resume.BasicInfo
		ctx.Resume.BasicInfo = &b
	}
	return ctx
}

// AnalysisRequest is the input envelope accepted by the coordinator surfaces.
type AnalysisRequest struct {
	Resume            Resume           `json:"resume"`
	JobRequirements   *JobRequirements `json:"job_requirements,omitempty"`
	WeightProfileName string           `json:"weight_profile_name,omitempty"`
}
