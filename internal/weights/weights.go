// Package weights holds the named weight profiles used to combine the
// seven dimension scores into an overall score.
package weights

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"
	"sync"

	"resumepanel/internal/errors"
	"resumepanel/internal/types"
)

// Built-in profile names.
const (
	Standard    = "standard"
	TechFocused = "tech_focused"
	Leadership  = "leadership"
	Junior      = "junior"
	Senior      = "senior"
)

// SumTolerance is the allowed distance of a profile's total from 100.
const SumTolerance = 0.01

// Profile maps each dimension to a percentage weight.
type Profile struct {
	Name    string
	Weights map[types.Dimension]float64
}

func newProfile(name string, skills, experience, education, softSkills, stability, attitude, potential float64) Profile {
	return Profile{
		Name: name,
		Weights: map[types.Dimension]float64{
			types.DimensionSkills:     skills,
			types.DimensionExperience: experience,
			types.DimensionEducation:  education,
			types.DimensionSoftSkills: softSkills,
			types.DimensionStability:  stability,
			types.DimensionAttitude:   attitude,
			types.DimensionPotential:  potential,
		},
	}
}

func builtinProfiles() map[string]Profile {
	return map[string]Profile{
		Standard:    newProfile(Standard, 20, 20, 15, 15, 15, 10, 5),
		TechFocused: newProfile(TechFocused, 25, 25, 15, 10, 10, 10, 5),
		Leadership:  newProfile(Leadership, 15, 20, 15, 20, 15, 10, 5),
		Junior:      newProfile(Junior, 15, 10, 20, 15, 10, 15, 15),
		Senior:      newProfile(Senior, 20, 25, 10, 20, 15, 5, 5),
	}
}

// Weight returns the percentage for d.
func (p Profile) Weight(d types.Dimension) float64 {
	return p.Weights[d]
}

// Sum returns the total of all weights.
func (p Profile) Sum() float64 {
	var total float64
	for _, w := range p.Weights {
		total += w
	}
	return total
}

// Validate checks that the profile covers exactly the seven dimensions with
// non-negative weights summing to 100.
func (p Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.NewValidationError(errors.ErrCodeInvalidProfile, "profile name is empty", nil)
	}
	for _, d := range types.AllDimensions {
		w, ok := p.Weights[d]
		if !ok {
			return errors.NewValidationError(errors.ErrCodeInvalidProfile,
				fmt.Sprintf("profile %q is missing weight for %s", p.Name, d), nil).
				WithContext("profile", p.Name)
		}
		if w < 0 || math.IsNaN(w) {
			return errors.NewValidationError(errors.ErrCodeInvalidProfile,
				fmt.Sprintf("profile %q has invalid weight %v for %s", p.Name, w, d), nil).
				WithContext("profile", p.Name)
		}
	}
	if len(p.Weights) != len(types.AllDimensions) {
		return errors.NewValidationError(errors.ErrCodeInvalidProfile,
			fmt.Sprintf("profile %q has unknown dimensions", p.Name), nil).
			WithContext("profile", p.Name)
	}
	if sum := p.Sum(); math.Abs(sum-100) >= SumTolerance {
		return errors.NewValidationError(errors.ErrCodeInvalidProfile,
			fmt.Sprintf("profile %q weights sum to %.2f, want 100", p.Name, sum), nil).
			WithContext("profile", p.Name)
	}
	return nil
}

// AsMap returns the weights keyed by dimension name for output envelopes.
func (p Profile) AsMap() map[string]float64 {
	out := make(map[string]float64, len(p.Weights))
	for d, w := range p.Weights {
		out[string(d)] = w
	}
	return out
}

// Registry is the validated set of profiles in use. It is safe for
// concurrent use; Replace swaps the whole table atomically.
type Registry struct {
	mu          sync.RWMutex
	profiles    map[string]Profile
	defaultName string
}

// NewRegistry returns a registry holding the built-in profiles.
func NewRegistry() *Registry {
	profiles := builtinProfiles()
	for _, p := range profiles {
		if err := p.Validate(); err != nil {
			panic(err)
		}
	}
	return &Registry{profiles: profiles, defaultName: Standard}
}

// SetDefault changes the profile used for unknown names.
func (r *Registry) SetDefault(name string) error {
	name = normalizeName(name)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[name]; !ok {
		return errors.NewConfigError(errors.ErrCodeInvalidProfile,
			fmt.Sprintf("default profile %q does not exist", name), nil)
	}
	r.defaultName = name
	return nil
}

// DefaultName reports the profile used for unknown names.
func (r *Registry) DefaultName() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaultName
}

// Lookup returns the named profile without falling back.
func (r *Registry) Lookup(name string) (Profile, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[normalizeName(name)]
	return p, ok
}

// Resolve returns the named profile, or the default profile when the name
// is empty or unknown.
func (r *Registry) Resolve(name string) Profile {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.profiles[normalizeName(name)]; ok {
		return p
	}
	return r.profiles[r.defaultName]
}

// Names lists profile names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.profiles))
	for name := range r.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Profiles returns a snapshot of all profiles.
func (r *Registry) Profiles() []Profile {
	names := r.Names()
	out := make([]Profile, 0, len(names))
	for _, name := range names {
		if p, ok := r.Lookup(name); ok {
			out = append(out, p)
		}
	}
	return out
}

// Replace validates the extra profiles and installs them next to the
// built-ins, which cannot be redefined. Nothing changes if any profile is invalid.
func (r *Registry) Replace(extra map[string]Profile) error {
	next := builtinProfiles()
	for name, p := range extra {
		p.Name = normalizeName(name)
		if IsBuiltin(p.Name) {
			return errors.NewValidationError(errors.ErrCodeInvalidProfile,
				fmt.Sprintf("profile %q is built in and cannot be redefined", p.Name), nil)
		}
		if err := p.Validate(); err != nil {
			return err
		}
		next[p.Name] = p
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := next[r.defaultName]; !ok {
		r.defaultName = Standard
	}
	r.profiles = next
	return nil
}

func normalizeName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	return strings.ReplaceAll(n, "-", "_")
}

// StabilityThresholds are the tenure cut-offs the stability analyzer is
// told to apply.
type StabilityThresholds struct {
	FrequentHopperMonths float64
	GoodTenureYears      float64
	ExcellentTenureYears float64
}

var Stability = StabilityThresholds{
	FrequentHopperMonths: 12,
	GoodTenureYears:      2.5,
	ExcellentTenureYears: 3.5,
}

var proficiencyLabels = []string{"基础", "中级", "高级", "专家级", "大师级"}

// ProficiencyLabel maps a 1-5 level to its label; out-of-range levels map
// to the lowest label.
func ProficiencyLabel(level int) string {
	if level < 1 || level > len(proficiencyLabels) {
		return proficiencyLabels[0]
	}
	return proficiencyLabels[level-1]
}

// IsBuiltin reports whether name is one of the fixed profiles.
func IsBuiltin(name string) bool {
	return slices.Contains([]string{Standard, TechFocused, Leadership, Junior, Senior}, normalizeName(name))
}
