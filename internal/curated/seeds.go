// Package curated builds the hand-seeded, algorithmically-enriched reading
// lists: leveled recommendations, the transcription-practice list, and the
// day-seeded daily picks.
package curated

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"bookcrawl/pkg/models"
)

// Levels enumerates the reading levels in presentation order.
var Levels = []string{"beginner", "intermediate", "advanced"}

// DifficultyTiers groups authors by how demanding their prose is to
// transcribe. Membership is a substring check against the seed's author.
// Only easy and hard are consulted; medium is the default tier, and its
// list documents which authors the curators placed there on purpose.
type DifficultyTiers struct {
	Easy   []string `yaml:"easy"`
	Medium []string `yaml:"medium"`
	Hard   []string `yaml:"hard"`
}

// Seeds holds every static table the builder runs on. The tables live in a
// YAML file rather than in code so curators can edit them without a
// rebuild.
type Seeds struct {
	EnglishLevels   map[string][]models.SeedEntry `yaml:"english_levels"`
	Transcription   []models.SeedEntry            `yaml:"transcription"`
	DifficultyTiers DifficultyTiers               `yaml:"difficulty_tiers"`
	Quotes          map[string][]string           `yaml:"quotes"` // lower-case title fragment -> quotes
}

// LoadSeeds reads and validates the seed tables.
func LoadSeeds(path string) (*Seeds, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seeds: %w", err)
	}

	var seeds Seeds
	if err := yaml.Unmarshal(data, &seeds); err != nil {
		return nil, fmt.Errorf("parse seeds: %w", err)
	}

	for _, level := range Levels {
		if len(seeds.EnglishLevels[level]) == 0 {
			return nil, fmt.Errorf("seeds: english_levels.%s is empty", level)
		}
	}
	if len(seeds.Transcription) == 0 {
		return nil, fmt.Errorf("seeds: transcription list is empty")
	}
	return &seeds, nil
}
