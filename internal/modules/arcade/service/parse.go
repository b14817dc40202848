package service

import (
	"regexp"
	"strings"
	"time"

	"anoa.com/arcadecalculator/internal/entity"
	"anoa.com/arcadecalculator/internal/modules/arcade/provider"
)

// earnedPattern matches profile texts like "Earned Dec 17, 2024 EST".
var earnedPattern = regexp.MustCompile(`^Earned\s+(.+?)(?:\s+[A-Z]{2,5})?$`)

var earnedLayouts = []string{"Jan 2, 2006", "January 2, 2006", "Jan 02, 2006", "2 Jan 2006"}

// ParseEarnedDate extracts the date from a profile "Earned ..." text.
// The calendar date is kept as midnight UTC.
func ParseEarnedDate(text string) (time.Time, bool) {
	text = strings.Join(strings.Fields(text), " ")
	match := earnedPattern.FindStringSubmatch(text)
	if match == nil {
		return time.Time{}, false
	}

	for _, layout := range earnedLayouts {
		if t, err := time.Parse(layout, match[1]); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// ParseRawBadges narrows scraped records into classified badges. Records
// with an empty name or an unreadable date are dropped and counted.
func ParseRawBadges(raw []provider.RawBadge, classify func(string) entity.BadgeCategory) ([]entity.Badge, int) {
	badges := make([]entity.Badge, 0, len(raw))
	dropped := 0

	for _, r := range raw {
		name := strings.TrimSpace(r.Name)
		earned, ok := ParseEarnedDate(r.EarnedText)
		if name == "" || !ok {
			dropped++
			continue
		}

		badges = append(badges, entity.Badge{
			Name:       name,
			Type:       classify(name),
			EarnedDate: earned,
		})
	}

	return badges, dropped
}
