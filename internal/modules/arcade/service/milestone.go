package service

import "anoa.com/arcadecalculator/internal/entity"

// TierProgress reports a single milestone tier against the badge tally.
type TierProgress struct {
	Tier         int                          `json:"tier"`
	Name         string                       `json:"name"`
	Requirements map[entity.BadgeCategory]int `json:"requirements"`
	Reached      bool                         `json:"reached"`
	Missing      map[entity.BadgeCategory]int `json:"missing,omitempty"` // only set for unreached tiers
	BonusPoints  float64                      `json:"bonusPoints"`
}

// MilestoneProgress is the facilitator milestone report.
type MilestoneProgress struct {
	Counts      map[entity.BadgeCategory]int `json:"counts"`
	CurrentTier int                          `json:"currentTier"` // 0 when no tier is reached
	BonusPoints float64                      `json:"bonusPoints"` // bonus of the current tier
	Tiers       []TierProgress               `json:"tiers"`
}

// MilestoneEngine compares badge tallies with an ascending tier table.
type MilestoneEngine struct {
	tiers []MilestoneTier
}

// NewMilestoneEngine expects tiers already checked by Rules.Validate.
func NewMilestoneEngine(tiers []MilestoneTier) *MilestoneEngine {
	copied := make([]MilestoneTier, len(tiers))
	for i, tier := range tiers {
		reqs := make(map[entity.BadgeCategory]int, len(tier.Requirements))
		for category, count := range tier.Requirements {
			reqs[category] = count
		}
		tier.Requirements = reqs
		copied[i] = tier
	}
	return &MilestoneEngine{tiers: copied}
}

func (e *MilestoneEngine) CalculateMilestoneProgress(badges []entity.Badge) MilestoneProgress {
	counts := tallyBadges(badges)

	progress := MilestoneProgress{
		Counts: make(map[entity.BadgeCategory]int, len(entity.BadgeCategories)),
		Tiers:  make([]TierProgress, 0, len(e.tiers)),
	}
	for _, category := range entity.BadgeCategories {
		progress.Counts[category] = counts[category]
	}

	for _, tier := range e.tiers {
		tp := TierProgress{
			Tier:         tier.Tier,
			Name:         tier.Name,
			Requirements: make(map[entity.BadgeCategory]int, len(tier.Requirements)),
			Reached:      true,
			BonusPoints:  tier.BonusPoints,
		}

		missing := make(map[entity.BadgeCategory]int, len(tier.Requirements))
		for category, required := range tier.Requirements {
			tp.Requirements[category] = required

			deficit := required - counts[category]
			if deficit > 0 {
				tp.Reached = false
			} else {
				deficit = 0
			}
			missing[category] = deficit
		}

		if !tp.Reached {
			tp.Missing = missing
		} else {
			progress.CurrentTier = tier.Tier
			progress.BonusPoints = tier.BonusPoints
		}

		progress.Tiers = append(progress.Tiers, tp)
	}

	return progress
}
