package service

import "anoa.com/arcadecalculator/internal/entity"

// CalculationResult is the response envelope. MilestoneProgress is set only
// for facilitator calculations.
type CalculationResult struct {
	Points            float64            `json:"points"`
	MilestoneProgress *MilestoneProgress `json:"milestoneProgress,omitempty"`
}

// Calculator composes classification, scoring and milestone evaluation over
// a fixed rule set. It holds no mutable state.
type Calculator struct {
	rules      Rules
	classifier *Classifier
	scorer     *Scorer
	milestones *MilestoneEngine
}

func NewCalculator(rules Rules) (*Calculator, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}

	return &Calculator{
		rules:      rules,
		classifier: NewClassifier(rules.Classification),
		scorer:     NewScorer(rules.Weights),
		milestones: NewMilestoneEngine(rules.Milestones),
	}, nil
}

func (c *Calculator) Rules() Rules {
	return c.rules
}

func (c *Calculator) DetermineBadgeType(name string) entity.BadgeCategory {
	return c.classifier.DetermineBadgeType(name)
}

func (c *Calculator) CalculatePoints(badges []entity.Badge) float64 {
	return c.scorer.CalculatePoints(badges)
}

func (c *Calculator) CalculateMilestoneProgress(badges []entity.Badge) MilestoneProgress {
	return c.milestones.CalculateMilestoneProgress(badges)
}

// CalculateArcadePoints always scores the badges and evaluates milestones
// only when isFacilitator is set.
func (c *Calculator) CalculateArcadePoints(badges []entity.Badge, isFacilitator bool) CalculationResult {
	result := CalculationResult{Points: c.CalculatePoints(badges)}
	if isFacilitator {
		progress := c.CalculateMilestoneProgress(badges)
		result.MilestoneProgress = &progress
	}
	return result
}

// UserBadges is one participant in a batch calculation.
type UserBadges struct {
	Name          string         `json:"name"`
	Badges        []entity.Badge `json:"badges"`
	IsFacilitator bool           `json:"isFacilitator"`
}

type UserResult struct {
	Name   string            `json:"name"`
	Result CalculationResult `json:"result"`
}

// CalculateForUsers runs CalculateArcadePoints for each user, keeping input order.
func (c *Calculator) CalculateForUsers(users []UserBadges) []UserResult {
	results := make([]UserResult, 0, len(users))
	for _, user := range users {
		results = append(results, UserResult{
			Name:   user.Name,
			Result: c.CalculateArcadePoints(user.Badges, user.IsFacilitator),
		})
	}
	return results
}
