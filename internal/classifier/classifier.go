// Package classifier scores submitted scanner source against the known
// archetype rule table. Classification is purely textual: malformed Python
// never fails here, it just scores low and falls back to Custom.
package classifier

import (
	"strings"

	"github.com/edgedev/renata/pkg/models"
)

// Rule contributes Weight points to Archetype when every pattern in
// Patterns appears in the source (case-insensitive substring containment).
// Compound rules exist because single keywords are ambiguous: "gap" appears
// in several archetypes, while a compound like adv20_min_usd+abs_ is a
// strong unique signal.
type Rule struct {
	Archetype models.Archetype `koanf:"archetype"`
	Patterns  []string         `koanf:"patterns"`
	Weight    int              `koanf:"weight"`
}

// Classifier scores source text against a fixed rule table.
type Classifier struct {
	rules []Rule
}

// New creates a classifier with the given rule table. An empty table falls
// back to the built-in defaults.
func New(rules []Rule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Classifier{rules: rules}
}

// Classify scores the source against every rule and picks the archetype with
// the strictly highest total. Ties resolve by the fixed priority order in
// models.ArchetypePriority; an all-zero score resolves to Custom with
// confidence 0. Same input always yields the same result.
func (c *Classifier) Classify(source string) models.ClassificationResult {
	result := models.ClassificationResult{
		Archetype: models.ArchetypeCustom,
		Scores:    make(map[models.Archetype]int, len(models.ArchetypePriority)),
	}
	if strings.TrimSpace(source) == "" {
		return result
	}

	lowered := strings.ToLower(source)

	for _, rule := range c.rules {
		if ruleMatches(lowered, rule) {
			result.Scores[rule.Archetype] += rule.Weight
			result.Hits = append(result.Hits, models.RuleHit{
				Archetype: rule.Archetype,
				Patterns:  rule.Patterns,
				Weight:    rule.Weight,
			})
		}
	}

	// Winner selection walks the priority order so that equal scores always
	// resolve to the same archetype.
	winner := models.ArchetypeCustom
	winningScore := 0
	total := 0
	for _, archetype := range models.ArchetypePriority {
		score := result.Scores[archetype]
		total += score
		if score > winningScore {
			winner = archetype
			winningScore = score
		}
	}

	if winningScore == 0 {
		return result
	}

	result.Archetype = winner
	result.Confidence = float64(winningScore) / float64(total)
	return result
}

// ruleMatches reports whether all of the rule's patterns occur in the
// lowercased source.
func ruleMatches(lowered string, rule Rule) bool {
	if len(rule.Patterns) == 0 {
		return false
	}
	for _, pattern := range rule.Patterns {
		if !strings.Contains(lowered, strings.ToLower(pattern)) {
			return false
		}
	}
	return true
}

var defaultClassifier = New(nil)

// Classify scores source text using the built-in rule table.
func Classify(source string) models.ClassificationResult {
	return defaultClassifier.Classify(source)
}
