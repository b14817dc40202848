package service

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"anoa.com/arcadecalculator/internal/entity"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var ErrMalformedTierTable = errors.New("malformed milestone tier table")

// ClassificationRule maps any of its keywords to a category.
// Rules are evaluated in order and the first match wins.
type ClassificationRule struct {
	Category entity.BadgeCategory `yaml:"category" json:"category" validate:"required,badge_category"`
	Keywords []string             `yaml:"keywords" json:"keywords" validate:"required,min=1,dive,required"`
}

// MilestoneTier is one rung of the facilitator milestone ladder.
type MilestoneTier struct {
	Tier         int                          `yaml:"tier" json:"tier" validate:"gte=1"`
	Name         string                       `yaml:"name" json:"name" validate:"required"`
	Requirements map[entity.BadgeCategory]int `yaml:"requirements" json:"requirements" validate:"required,min=1,dive,keys,badge_category,endkeys,gte=0"`
	BonusPoints  float64                      `yaml:"bonus_points" json:"bonusPoints" validate:"gte=0"`
}

// Rules holds every program policy table used by the calculator.
type Rules struct {
	Classification []ClassificationRule             `yaml:"classification" json:"classification" validate:"dive"`
	Weights        map[entity.BadgeCategory]float64 `yaml:"weights" json:"weights" validate:"dive,keys,badge_category,endkeys,gte=0"`
	Milestones     []MilestoneTier                  `yaml:"milestones" json:"milestones" validate:"dive"`
}

// DefaultRules returns the built-in placeholder policy. Deployments override it
// with a YAML file whenever the program changes its naming, points or tiers.
func DefaultRules() Rules {
	return Rules{
		Classification: []ClassificationRule{
			{Category: entity.BadgeTrivia, Keywords: []string{"trivia"}},
			{Category: entity.BadgeSpecial, Keywords: []string{"special game", "certification zone", "arcade special"}},
			{Category: entity.BadgeGame, Keywords: []string{"skills boost", "arcade", "base camp", "level 1", "level 2", "level 3", "game"}},
			{Category: entity.BadgeSkill, Keywords: []string{
				"get started with", "analyze", "build", "create", "deploy", "develop", "implement",
				"manage", "monitor", "prepare", "secure", "set up", "configure", "integrate", "perform",
				"optimize", "engineer", "automate", "migrate", "protect", "streaming", "bigquery",
				"kubernetes", "vertex ai", "cloud",
			}},
		},
		Weights: map[entity.BadgeCategory]float64{
			entity.BadgeGame:    1,
			entity.BadgeTrivia:  1,
			entity.BadgeSkill:   0.5,
			entity.BadgeSpecial: 2,
		},
		Milestones: []MilestoneTier{
			{Tier: 1, Name: "Milestone 1", BonusPoints: 2, Requirements: map[entity.BadgeCategory]int{
				entity.BadgeGame: 6, entity.BadgeTrivia: 5, entity.BadgeSkill: 14,
			}},
			{Tier: 2, Name: "Milestone 2", BonusPoints: 8, Requirements: map[entity.BadgeCategory]int{
				entity.BadgeGame: 8, entity.BadgeTrivia: 6, entity.BadgeSkill: 28,
			}},
			{Tier: 3, Name: "Milestone 3", BonusPoints: 15, Requirements: map[entity.BadgeCategory]int{
				entity.BadgeGame: 10, entity.BadgeTrivia: 7, entity.BadgeSkill: 38,
			}},
			{Tier: 4, Name: "Ultimate Milestone", BonusPoints: 25, Requirements: map[entity.BadgeCategory]int{
				entity.BadgeGame: 12, entity.BadgeTrivia: 8, entity.BadgeSkill: 52,
			}},
		},
	}
}

// LoadRules reads a YAML rule file. An empty path yields DefaultRules.
// Tables missing from the file keep their default values.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	if path == "" {
		return rules, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("failed to read rules file: %w", err)
	}

	// Unknown keys are rejected so a misspelled table name cannot silently
	// leave the defaults in place.
	var override Rules
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&override); err != nil && !errors.Is(err, io.EOF) {
		return Rules{}, fmt.Errorf("failed to parse rules file %s: %w", path, err)
	}

	if override.Classification != nil {
		rules.Classification = override.Classification
	}
	if override.Weights != nil {
		rules.Weights = override.Weights
	}
	if override.Milestones != nil {
		rules.Milestones = override.Milestones
	}

	if err := rules.Validate(); err != nil {
		return Rules{}, err
	}

	return rules, nil
}

var rulesValidate = newRulesValidator()

func newRulesValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("badge_category", func(fl validator.FieldLevel) bool {
		return entity.BadgeCategory(fl.Field().String()).IsValid()
	}); err != nil {
		panic(fmt.Sprintf("register badge_category validation: %v", err))
	}
	return v
}

// Validate checks field constraints and that milestone tiers form an
// ascending ladder: numbered 1..N and never requiring fewer badges than the
// tier below.
func (r Rules) Validate() error {
	if err := rulesValidate.Struct(r); err != nil {
		return fmt.Errorf("invalid rules: %w", err)
	}

	for i, tier := range r.Milestones {
		if tier.Tier != i+1 {
			return fmt.Errorf("%w: tier %q is numbered %d, expected %d", ErrMalformedTierTable, tier.Name, tier.Tier, i+1)
		}
		if i == 0 {
			continue
		}

		prev := r.Milestones[i-1]
		for category, required := range prev.Requirements {
			if tier.Requirements[category] < required {
				return fmt.Errorf("%w: tier %d requires %d %s badges, fewer than tier %d (%d)",
					ErrMalformedTierTable, tier.Tier, tier.Requirements[category], category, prev.Tier, required)
			}
		}
	}

	return nil
}
