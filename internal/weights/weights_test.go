package weights

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"resumepanel/internal/errors"
	"resumepanel/internal/types"
)

func TestBuiltinProfilesSumTo100(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{Standard, TechFocused, Leadership, Junior, Senior} {
		t.Run(name, func(t *testing.T) {
			p, ok := r.Lookup(name)
			if !ok {
				t.Fatalf("profile %s missing", name)
			}
			if math.Abs(p.Sum()-100) >= SumTolerance {
				t.Errorf("sum = %v", p.Sum())
			}
			if err := p.Validate(); err != nil {
				t.Errorf("Validate() error = %v", err)
			}
		})
	}
}

func TestStandardTable(t *testing.T) {
	p := NewRegistry().Resolve(Standard)
	want := map[types.Dimension]float64{
		types.DimensionSkills:     20,
		types.DimensionExperience: 20,
		types.DimensionEducation:  15,
		types.DimensionSoftSkills: 15,
		types.DimensionStability:  15,
		types.DimensionAttitude:   10,
		types.DimensionPotential:  5,
	}
	for d, w := range want {
		if got := p.Weight(d); got != w {
			t.Errorf("%s weight = %v, want %v", d, got, w)
		}
	}
}

func TestResolveFallsBackToStandard(t *testing.T) {
	r := NewRegistry()
	tests := []struct {
		name string
		want string
	}{
		{"senior", Senior},
		{"Tech-Focused", TechFocused},
		{"", Standard},
		{"unknown", Standard},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Resolve(tt.name).Name; got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestValidateRejects(t *testing.T) {
	base := func() Profile { return newProfile("x", 20, 20, 15, 15, 15, 10, 5) }

	short := base()
	short.Weights[types.DimensionSkills] = 10

	missing := base()
	delete(missing.Weights, types.DimensionPotential)

	negative := newProfile("x", 30, 20, 15, 15, 15, 10, -5)

	tests := []struct {
		name string
		p    Profile
	}{
		{"sum 90", short},
		{"missing dimension", missing},
		{"negative", negative},
		{"no name", Profile{Weights: base().Weights}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.p.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestParseFileAndApply(t *testing.T) {
	data := []byte(`
default: data_platform
profiles:
  data_platform:
    skills: 30
    experience: 25
    education: 10
    soft_skills: 10
    stability: 10
    work_attitude: 10
    development_potential: 5
`)
	fc, err := ParseFile(data)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}

	r := NewRegistry()
	if err := r.Apply(fc); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if got := r.Resolve("nope").Name; got != "data_platform" {
		t.Errorf("default = %q, want data_platform", got)
	}
	if got := r.Resolve("data_platform").Weight(types.DimensionAttitude); got != 10 {
		t.Errorf("attitude weight = %v", got)
	}
	if len(r.Names()) != 6 {
		t.Errorf("names = %v", r.Names())
	}
}

func TestParseFileRejectsBadProfiles(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad sum", "profiles:\n  x:\n    skills: 50\n    experience: 20\n    education: 15\n    soft_skills: 15\n    stability: 15\n    attitude: 10\n    potential: 5\n"},
		{"unknown key", "profiles:\n  x:\n    salary: 100\n"},
		{"not yaml", "profiles: [unclosed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseFile([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestReplaceRejectsBuiltinRedefinition(t *testing.T) {
	r := NewRegistry()
	err := r.Replace(map[string]Profile{Standard: newProfile(Standard, 100, 0, 0, 0, 0, 0, 0)})
	if err == nil {
		t.Fatal("expected error")
	}
	if got := r.Resolve(Standard).Weight(types.DimensionSkills); got != 20 {
		t.Errorf("standard skills weight changed to %v", got)
	}
}

func TestProficiencyLabel(t *testing.T) {
	tests := []struct {
		level int
		want  string
	}{
		{1, "基础"}, {3, "高级"}, {5, "大师级"}, {0, "基础"}, {9, "基础"},
	}
	for _, tt := range tests {
		if got := ProficiencyLabel(tt.level); got != tt.want {
			t.Errorf("ProficiencyLabel(%d) = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestWatcherReloadsProfiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profiles.yaml")
	if err := os.WriteFile(path, []byte("profiles: {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewRegistry()
	reloaded := make(chan error, 4)
	w := NewWatcher(path, r, 20*time.Millisecond, errors.Discard(), func(err error) { reloaded <- err })
	if err := w.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer func() { _ = w.Stop() }()

	// Ensure the mtime moves even on coarse-grained filesystems.
	time.Sleep(20 * time.Millisecond)
	content := "profiles:\n  ops:\n    skills: 10\n    experience: 30\n    education: 10\n    soft_skills: 20\n    stability: 20\n    attitude: 5\n    potential: 5\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	future := time.Now().Add(2 * time.Second)
	_ = os.Chtimes(path, future, future)

	select {
	case err := <-reloaded:
		if err != nil {
			t.Fatalf("reload error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not reload")
	}

	if _, ok := r.Lookup("ops"); !ok {
		t.Error("ops profile not installed")
	}
}
