package entity

import "time"

// BadgeCategory is the closed set of badge classifications.
type BadgeCategory string

const (
	BadgeGame    BadgeCategory = "game"
	BadgeTrivia  BadgeCategory = "trivia"
	BadgeSkill   BadgeCategory = "skill"
	BadgeSpecial BadgeCategory = "special"
	BadgeUnknown BadgeCategory = "unknown" // fallback, never worth points
)

// BadgeCategories lists every category in display order.
var BadgeCategories = []BadgeCategory{BadgeGame, BadgeTrivia, BadgeSkill, BadgeSpecial, BadgeUnknown}

// IsValid reports whether c is one of the known categories.
func (c BadgeCategory) IsValid() bool {
	for _, known := range BadgeCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Badge is a single achievement earned on a learner's public profile.
// Type is always derived from Name.
type Badge struct {
	Name       string        `json:"name"`
	Type       BadgeCategory `json:"type"`
	EarnedDate time.Time     `json:"earnedDate"`
}
