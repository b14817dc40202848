package service

import "anoa.com/arcadecalculator/internal/entity"

// Scorer sums per-category badge weights.
type Scorer struct {
	weights map[entity.BadgeCategory]float64
}

func NewScorer(weights map[entity.BadgeCategory]float64) *Scorer {
	copied := make(map[entity.BadgeCategory]float64, len(weights))
	for category, weight := range weights {
		if weight > 0 {
			copied[category] = weight
		}
	}
	return &Scorer{weights: copied}
}

// CalculatePoints returns the weighted sum over badges. Every entry counts,
// duplicates included; categories without a weight add nothing.
//
// Badges are tallied first and multiplied in a fixed category order so the
// float result does not depend on input order.
func (s *Scorer) CalculatePoints(badges []entity.Badge) float64 {
	counts := tallyBadges(badges)

	var total float64
	for _, category := range entity.BadgeCategories {
		total += float64(counts[category]) * s.weights[category]
	}
	return total
}

func tallyBadges(badges []entity.Badge) map[entity.BadgeCategory]int {
	counts := make(map[entity.BadgeCategory]int, len(entity.BadgeCategories))
	for _, badge := range badges {
		counts[badge.Type]++
	}
	return counts
}
