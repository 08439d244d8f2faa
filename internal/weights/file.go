package weights

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"resumepanel/internal/errors"
	"resumepanel/internal/types"
)

// profileFile is the on-disk layout:
//
//	profiles:
//	  data_platform:
//	    skills: 30
//	    experience: 25
//	    ...
type profileFile struct {
	Default  string                        `yaml:"default"`
	Profiles map[string]map[string]float64 `yaml:"profiles"`
}

// FileContents is a decoded profiles file.
type FileContents struct {
	Default  string
	Profiles map[string]Profile
}

// LoadFile reads and validates a YAML profiles file.
func LoadFile(path string) (*FileContents, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("cannot read profiles file %s", path), err)
	}
	return ParseFile(data)
}

// ParseFile decodes profiles from YAML bytes. Dimension keys may use the
// weight names (attitude) or the result names (work_attitude).
func ParseFile(data []byte) (*FileContents, error) {
	var raw profileFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidFormat, "invalid profiles YAML", err)
	}

	out := &FileContents{
		Default:  normalizeName(raw.Default),
		Profiles: make(map[string]Profile, len(raw.Profiles)),
	}
	for name, table := range raw.Profiles {
		p := Profile{Name: normalizeName(name), Weights: make(map[types.Dimension]float64, len(table))}
		for key, w := range table {
			d, ok := types.ParseDimension(key)
			if !ok {
				return nil, errors.NewValidationError(errors.ErrCodeInvalidProfile,
					fmt.Sprintf("profile %q: unknown dimension %q", name, key), nil)
			}
			p.Weights[d] = w
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		out.Profiles[p.Name] = p
	}
	return out, nil
}

// Apply installs the file's profiles and default into r.
func (r *Registry) Apply(fc *FileContents) error {
	if fc.Default != "" && !IsBuiltin(fc.Default) {
		if _, ok := fc.Profiles[fc.Default]; !ok {
			return errors.NewValidationError(errors.ErrCodeInvalidProfile,
				fmt.Sprintf("default profile %q is not defined", fc.Default), nil)
		}
	}
	if err := r.Replace(fc.Profiles); err != nil {
		return err
	}
	if fc.Default != "" {
		return r.SetDefault(fc.Default)
	}
	return nil
}
