package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mdtanveer0786/roommate-expense-tracker/internal/models"
)

// DefaultCategories is the category set used when no profile overrides it.
// "Settlement" is always appended if missing; recorded settlements land
// there.
var DefaultCategories = []string{
	"Groceries",
	"Rent",
	"Utilities",
	"Household",
	"Fun",
	"Other",
	models.CategorySettlement,
}

// SeedMember describes a roster member the profile seeds on first run.
type SeedMember struct {
	Name   string `yaml:"name"`
	Color  string `yaml:"color"`
	Avatar string `yaml:"avatar"`
}

// Profile is the optional household profile: display settings, category
// labels and members to seed into an empty store.
type Profile struct {
	Name       string       `yaml:"name"`
	Currency   string       `yaml:"currency"`
	Categories []string     `yaml:"categories"`
	Members    []SeedMember `yaml:"members"`
}

// LoadProfile parses the household profile YAML at path. An empty path
// yields the default profile.
func LoadProfile(path string) (*Profile, error) {
	profile := &Profile{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read household profile: %w", err)
		}
		if err := yaml.Unmarshal(data, profile); err != nil {
			return nil, fmt.Errorf("failed to parse household profile: %w", err)
		}
	}
	profile.applyDefaults()
	return profile, nil
}

func (p *Profile) applyDefaults() {
	if p.Name == "" {
		p.Name = "Household"
	}
	if p.Currency == "" {
		p.Currency = "€"
	}
	if len(p.Categories) == 0 {
		p.Categories = append([]string(nil), DefaultCategories...)
		return
	}
	for _, c := range p.Categories {
		if c == models.CategorySettlement {
			return
		}
	}
	p.Categories = append(p.Categories, models.CategorySettlement)
}
