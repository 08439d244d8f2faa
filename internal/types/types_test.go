package types

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestLenientScalars(t *testing.T) {
	var got struct {
		Years  Text     `json:"years"`
		Skills TextList `json:"skills"`
		One    TextList `json:"one"`
		Score  Number   `json:"score"`
		Hopper Flag     `json:"hopper"`
		Bad    Number   `json:"bad"`
	}
	raw := `{"years": 5.5, "skills": ["Go", 3, null, ""], "one": "Kafka", "score": "85分", "hopper": "是", "bad": "high"}`
	if err := json.Unmarshal([]byte(raw), &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if got.Years != "5.5" {
		t.Errorf("Years = %q", got.Years)
	}
	if !reflect.DeepEqual(got.Skills, TextList{"Go", "3"}) {
		t.Errorf("Skills = %v", got.Skills)
	}
	if !reflect.DeepEqual(got.One, TextList{"Kafka"}) {
		t.Errorf("One = %v", got.One)
	}
	if got.Score != 85 {
		t.Errorf("Score = %v", got.Score)
	}
	if !got.Hopper {
		t.Error("Hopper should be true")
	}
	if got.Bad != 0 {
		t.Errorf("Bad = %v, want 0", got.Bad)
	}
}

func TestClaimListAcceptsMixedShapes(t *testing.T) {
	var claims ClaimList
	raw := `[{"claim": "5年Go经验", "evidence": "项目描述"}, "熟悉Kubernetes", {"statement": "带队10人", "concern": "无细节"}, {"evidence": "orphan"}]`
	if err := json.Unmarshal([]byte(raw), &claims); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	want := ClaimList{
		{Claim: "5年Go经验", Evidence: "项目描述"},
		{Claim: "熟悉Kubernetes"},
		{Claim: "带队10人", Concern: "无细节"},
	}
	if !reflect.DeepEqual(claims, want) {
		t.Errorf("claims = %+v, want %+v", claims, want)
	}

	var single ClaimList
	if err := json.Unmarshal([]byte(`"只有一条"`), &single); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(single) != 1 || single[0].Claim != "只有一条" {
		t.Errorf("single = %+v", single)
	}
}

func TestResumeSectionsAcceptStrings(t *testing.T) {
	var r Resume
	raw := `{"skills": ["Go", {"name": "Python", "proficiency": 4}], "certificates": ["PMP"], "basic_info": {"name": "张三", "work_years": 6}}`
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(r.Skills) != 2 || r.Skills[0].Name != "Go" || r.Skills[1].Proficiency != "4" {
		t.Errorf("skills = %+v", r.Skills)
	}
	if len(r.Certificates) != 1 || r.Certificates[0].Name != "PMP" {
		t.Errorf("certificates = %+v", r.Certificates)
	}
	if r.BasicInfo.WorkYears != "6" {
		t.Errorf("work_years = %q", r.BasicInfo.WorkYears)
	}
	if !r.HasStructured() || r.IsEmpty() {
		t.Error("resume should be structured and non-empty")
	}
}

func TestParseDimension(t *testing.T) {
	tests := []struct {
		in   string
		want Dimension
		ok   bool
	}{
		{"skills", DimensionSkills, true},
		{"work_attitude", DimensionAttitude, true},
		{"Development-Potential", DimensionPotential, true},
		{"soft_skills", DimensionSoftSkills, true},
		{"salary", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDimension(tt.in)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ParseDimension(%q) = %q, %v", tt.in, got, ok)
			}
		})
	}
}

func TestExpertResultJSONFlattensDetails(t *testing.T) {
	r := ExpertResult{
		Dimension: DimensionStability,
		Score:     50,
		Details: Details{
			JobTenureAvg:       NumberPtr(0),
			FrequentHopperFlag: FlagPtr(false),
			RiskFactors:        TextList{"分析过程出错"},
		},
	}
	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	out := string(b)
	for _, want := range []string{`"job_tenure_avg":0`, `"frequent_hopper_flag":false`, `"risk_factors":["分析过程出错"]`} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %s in %s", want, out)
		}
	}
	if strings.Contains(out, "learning_ability") {
		t.Errorf("unrelated detail leaked: %s", out)
	}
}

func TestEffectiveScore(t *testing.T) {
	cred := 72
	r := ExpertResult{Score: 90, CredibilityScore: &cred}
	if got := r.EffectiveScore(); got != 72 {
		t.Errorf("EffectiveScore() = %d, want 72", got)
	}
	r.CredibilityScore = nil
	if got := r.EffectiveScore(); got != 90 {
		t.Errorf("EffectiveScore() = %d, want 90", got)
	}
}

func TestNewAnalysisContextIsolatesCaller(t *testing.T) {
	resume := Resume{
		BasicInfo:      &BasicInfo{Name: "Li Wei"},
		WorkExperience: []WorkExperience{{Company: "Acme"}},
		Education:      []Education{{School: "Tsinghua"}},
		Skills:         []Skill{{Name: "Go"}},
		Projects:       []Project{{Name: "Ledger"}},
		Certificates:   []Certificate{{Name: "CKA"}},
	}
	job := &JobRequirements{Title: "Backend", Skills: TextList{"Go"}}

	actx := NewAnalysisContext(resume, job)
	want := Resume{
		BasicInfo:      &BasicInfo{Name: "Li Wei"},
		WorkExperience: []WorkExperience{{Company: "Acme"}},
		Education:      []Education{{School: "Tsinghua"}},
		Skills:         []Skill{{Name: "Go"}},
		Projects:       []Project{{Name: "Ledger"}},
		Certificates:   []Certificate{{Name: "CKA"}},
	}

	resume.BasicInfo.Name = "changed"
	resume.WorkExperience[0].Company = "changed"
	resume.Education[0].School = "changed"
	resume.Skills[0].Name = "changed"
	resume.Projects[0].Name = "changed"
	resume.Certificates[0].Name = "changed"
	job.Title = "changed"
	job.Skills[0] = "changed"

	if !reflect.DeepEqual(actx.Resume, want) {
		t.Errorf("Resume = %+v, want %+v", actx.Resume, want)
	}
	if actx.Job.Title != "Backend" || !reflect.DeepEqual(actx.Job.Skills, TextList{"Go"}) {
		t.Errorf("Job = %+v, want title Backend with skills [Go]", actx.Job)
	}
}
