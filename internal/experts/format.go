package experts

import (
	"fmt"
	"strconv"
	"strings"

	"resumepanel/internal/types"
	"resumepanel/internal/weights"
)

// DefaultTextLimit bounds extracted text embedded in prompts, in runes.
const DefaultTextLimit = 2000

// maxProjects is the number of projects rendered into prompts.
const maxProjects = 5

// NoJobRequirements is rendered when the caller supplied no target role.
const NoJobRequirements = "未提供具体职位要求"

// FormatJobRequirements renders the target role for prompts.
func FormatJobRequirements(job *types.JobRequirements) string {
	if job.IsEmpty() {
		return NoJobRequirements
	}
	var lines []string
	if job.Title != "" {
		lines = append(lines, "职位名称: "+job.Title.String())
	}
	if job.Description != "" {
		lines = append(lines, "\n职位描述:\n"+job.Description.String())
	}
	if job.Requirements != "" {
		lines = append(lines, "\n任职要求:\n"+job.Requirements.String())
	}
	if len(job.Skills) > 0 {
		lines = append(lines, "\n技能要求:\n"+strings.Join(job.Skills, ", "))
	}
	return strings.Join(lines, "\n")
}

// FormatResume renders the generic resume view shared by the skills,
// experience, education and soft skills prompts and the summary.
func FormatResume(r *types.Resume, textLimit int) string {
	if !r.HasStructured() {
		if r.ExtractedText == "" {
			return "简历数据格式未知"
		}
		return "简历内容:\n" + truncateText(r.ExtractedText, textLimit)
	}

	var lines []string
	if b := r.BasicInfo; b != nil {
		if b.Name != "" {
			lines = append(lines, "姓名: "+b.Name.String())
		}
		if b.TargetPosition != "" {
			lines = append(lines, "目标职位: "+b.TargetPosition.String())
		}
	}
	if len(r.Skills) > 0 {
		lines = append(lines, "\n技能:")
		for _, s := range r.Skills {
			lines = append(lines, "  - "+s.Name.String())
		}
	}
	if len(r.WorkExperience) > 0 {
		lines = append(lines, "\n工作经验:")
		for _, w := range r.WorkExperience {
			lines = append(lines, fmt.Sprintf("  - %s: %s (%s)", w.Company, w.Position, w.Duration))
		}
	}
	if len(r.Education) > 0 {
		lines = append(lines, "\n教育背景:")
		for _, e := range r.Education {
			lines = append(lines, fmt.Sprintf("  - %s: %s (%s)", e.School, e.Degree, e.Major))
		}
	}
	if len(r.Projects) > 0 {
		lines = append(lines, "\n项目经验:")
		for _, p := range r.Projects[:min(len(r.Projects), maxProjects)] {
			lines = append(lines, fmt.Sprintf("  - %s: %s", p.Name, p.Description))
		}
	}
	return strings.Join(lines, "\n")
}

// truncateText cuts s to limit runes and marks the cut with "...".
func truncateText(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}

// section collects "## title" blocks for the dimension-specific prompts.
type section struct {
	b strings.Builder
}

func (s *section) heading(title string) {
	fmt.Fprintf(&s.b, "\n## %s\n", title)
}

func (s *section) line(format string, args ...any) {
	fmt.Fprintf(&s.b, format+"\n", args...)
}

func (s *section) String() string { return s.b.String() }

func (s *section) empty() bool { return s.b.Len() == 0 }

// resumeSections renders the requested structured blocks. When none of
// them has data the raw extracted text is used instead.
func resumeSections(r *types.Resume, textLimit int, blocks ...func(*section, *types.Resume)) string {
	var s section
	for _, render := range blocks {
		render(&s, r)
	}
	if s.empty() {
		text := r.ExtractedText
		if text == "" {
			text = "简历数据格式未知"
		}
		return "\n## 简历内容\n" + truncateText(text, textLimit) + "\n"
	}
	return s.String()
}

func basicInfoBlock(fields ...string) func(*section, *types.Resume) {
	return func(s *section, r *types.Resume) {
		b := r.BasicInfo
		if b == nil {
			return
		}
		s.heading("基本信息")
		for _, f := range fields {
			switch f {
			case "name":
				s.line("- 姓名: %s", b.Name)
			case "work_years":
				s.line("- 工作年限: %s", b.WorkYears)
			case "job_status":
				s.line("- 求职状态: %s", b.JobStatus)
			case "target_position":
				s.line("- 目标职位: %s", b.TargetPosition)
			}
		}
	}
}

func tenureBlock(s *section, r *types.Resume) {
	if len(r.WorkExperience) == 0 {
		return
	}
	s.heading("工作经历")
	for _, w := range r.WorkExperience {
		s.line("\n- %s | %s | %s", w.Company, w.Position, periodOf(w))
		if w.LeavingReason != "" {
			s.line("  离职原因: %s", w.LeavingReason)
		}
	}
}

func dutiesBlock(s *section, r *types.Resume) {
	if len(r.WorkExperience) == 0 {
		return
	}
	s.heading("工作经历")
	for _, w := range r.WorkExperience {
		s.line("\n- %s | %s | %s", w.Company, w.Position, periodOf(w))
		if duties := describeDuties(w); duties != "" {
			s.line("  职责: %s", duties)
		}
		if len(w.Achievements) > 0 {
			s.line("  成果: %s", strings.Join(w.Achievements, "；"))
		}
	}
}

func achievementsBlock(s *section, r *types.Resume) {
	if len(r.WorkExperience) == 0 {
		return
	}
	s.heading("工作经历")
	for _, w := range r.WorkExperience {
		s.line("\n- %s | %s | %s", w.Company, w.Position, periodOf(w))
		if len(w.Achievements) > 0 {
			s.line("  成果: %s", strings.Join(w.Achievements, "；"))
		}
	}
}

func projectsBlock(withStack bool) func(*section, *types.Resume) {
	return func(s *section, r *types.Resume) {
		if len(r.Projects) == 0 {
			return
		}
		s.heading("项目经验")
		for _, p := range r.Projects[:min(len(r.Projects), maxProjects)] {
			s.line("\n- %s | 角色: %s", p.Name, p.Role)
			if p.Description != "" {
				s.line("  描述: %s", p.Description)
			}
			if withStack && len(p.TechStack) > 0 {
				s.line("  技术栈: %s", strings.Join(p.TechStack, ", "))
			}
		}
	}
}

func skillsBlock(s *section, r *types.Resume) {
	if len(r.Skills) == 0 {
		return
	}
	s.heading("技能列表")
	for _, sk := range r.Skills {
		entry := "- " + sk.Name.String()
		if sk.Proficiency != "" {
			entry += " | 熟练度: " + proficiencyText(sk.Proficiency)
		}
		if sk.Years != "" {
			entry += " | 经验: " + sk.Years.String()
		}
		s.line("%s", entry)
	}
}

func educationBlock(s *section, r *types.Resume) {
	if len(r.Education) == 0 {
		return
	}
	s.heading("教育背景")
	for _, e := range r.Education {
		s.line("\n- %s | %s | %s", e.School, e.Degree, e.Major)
		if len(e.Honors) > 0 {
			s.line("  荣誉: %s", strings.Join(e.Honors, "；"))
		}
	}
}

func certificatesBlock(s *section, r *types.Resume) {
	if len(r.Certificates) == 0 {
		return
	}
	s.heading("证书和培训")
	for _, c := range r.Certificates {
		entry := "- " + c.Name.String()
		if c.Date != "" {
			entry += " | " + c.Date.String()
		}
		s.line("%s", entry)
	}
}

// proficiencyText turns a 1-5 level into its label and keeps free text.
func proficiencyText(p types.Text) string {
	if level, err := strconv.Atoi(strings.TrimSpace(p.String())); err == nil && level >= 1 && level <= 5 {
		return weights.ProficiencyLabel(level)
	}
	return p.String()
}

func periodOf(w types.WorkExperience) string {
	if w.Duration != "" {
		return w.Duration.String()
	}
	if w.StartDate != "" || w.EndDate != "" {
		return fmt.Sprintf("%s - %s", w.StartDate, w.EndDate)
	}
	return ""
}

func describeDuties(w types.WorkExperience) string {
	if w.Description != "" {
		return w.Description.String()
	}
	return strings.Join(w.Responsibilities, "；")
}
