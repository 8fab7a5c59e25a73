package seed

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed presets/*.yml
var builtinPresets embed.FS

// GroupPreset is a group created by a preset.
type GroupPreset struct {
	Slug        string `yaml:"slug"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// Preset describes how much demo data to generate.
type Preset struct {
	Name           string        `yaml:"name"`
	Users          int           `yaml:"users"`
	Password       string        `yaml:"password"`
	PostsPerUser   int           `yaml:"posts_per_user"`
	FollowsPerUser int           `yaml:"follows_per_user"`
	MaxDays        int           `yaml:"max_days"`
	Groups         []GroupPreset `yaml:"groups"`
}

// ParsePreset decodes a YAML preset and validates it.
func ParsePreset(data []byte) (*Preset, error) {
	var p Preset
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse preset: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// LoadPreset reads ref as a file path, or as the name of a built-in preset.
func LoadPreset(ref string) (*Preset, error) {
	data, err := os.ReadFile(ref)
	if errors.Is(err, os.ErrNotExist) {
		data, err = builtinPresets.ReadFile("presets/" + strings.TrimSuffix(ref, ".yml") + ".yml")
		if err != nil {
			return nil, fmt.Errorf("unknown preset %q", ref)
		}
	} else if err != nil {
		return nil, fmt.Errorf("read preset: %w", err)
	}
	return ParsePreset(data)
}

// Validate rejects negative counts and groups without a slug.
func (p *Preset) Validate() error {
	if p.Users < 0 || p.PostsPerUser < 0 || p.FollowsPerUser < 0 || p.MaxDays < 0 {
		return errors.New("preset counts must not be negative")
	}
	seen := make(map[string]bool, len(p.Groups))
	for _, g := range p.Groups {
		if g.Slug == "" {
			return errors.New("preset group without slug")
		}
		if seen[g.Slug] {
			return fmt.Errorf("duplicate group slug %q", g.Slug)
		}
		seen[g.Slug] = true
	}
	if p.Password == "" {
		p.Password = "password123"
	}
	if p.MaxDays == 0 {
		p.MaxDays = 30
	}
	return nil
}
