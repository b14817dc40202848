package service

import (
	"strings"

	"anoa.com/arcadecalculator/internal/entity"
)

type compiledRule struct {
	category entity.BadgeCategory
	keywords []string
}

// Classifier resolves badge names to categories using an ordered rule table.
// It is immutable once built and safe for concurrent use.
type Classifier struct {
	rules []compiledRule
}

func NewClassifier(rules []ClassificationRule) *Classifier {
	compiled := make([]compiledRule, 0, len(rules))
	for _, rule := range rules {
		cr := compiledRule{category: rule.Category}
		for _, keyword := range rule.Keywords {
			if k := normalizeName(keyword); k != "" {
				cr.keywords = append(cr.keywords, k)
			}
		}
		if len(cr.keywords) > 0 {
			compiled = append(compiled, cr)
		}
	}

	return &Classifier{rules: compiled}
}

// DetermineBadgeType returns the category of the first rule with a keyword
// contained in name, or BadgeUnknown when nothing matches.
func (c *Classifier) DetermineBadgeType(name string) entity.BadgeCategory {
	normalized := normalizeName(name)
	if normalized == "" {
		return entity.BadgeUnknown
	}

	for _, rule := range c.rules {
		for _, keyword := range rule.keywords {
			if strings.Contains(normalized, keyword) {
				return rule.category
			}
		}
	}

	return entity.BadgeUnknown
}

// normalizeName lowercases and collapses runs of whitespace.
func normalizeName(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
