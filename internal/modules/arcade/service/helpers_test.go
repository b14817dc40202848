package service

import (
	"testing"
	"time"

	"anoa.com/arcadecalculator/internal/entity"
	"github.com/stretchr/testify/require"
)

func newTestCalculator(t *testing.T) *Calculator {
	t.Helper()
	calc, err := NewCalculator(DefaultRules())
	require.NoError(t, err)
	return calc
}

// sampleBadges is one game, one trivia and two skill badges.
func sampleBadges(calc *Calculator) []entity.Badge {
	names := []string{
		"Skills Boost Love Beyond",
		"Skills Boost Trivia Challenge",
		"Analyze BigQuery Data in Connected Sheets",
		"Get Started with Cloud Storage",
	}
	start := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	badges := make([]entity.Badge, 0, len(names))
	for i, name := range names {
		badges = append(badges, entity.Badge{
			Name:       name,
			Type:       calc.DetermineBadgeType(name),
			EarnedDate: start.AddDate(0, 0, 5*i),
		})
	}
	return badges
}

func badgesOf(category entity.BadgeCategory, n int) []entity.Badge {
	badges := make([]entity.Badge, n)
	for i := range badges {
		badges[i] = entity.Badge{Name: string(category), Type: category}
	}
	return badges
}
