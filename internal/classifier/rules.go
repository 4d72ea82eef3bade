package classifier

import (
	"fmt"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/edgedev/renata/pkg/models"
)

// DefaultRules returns the built-in archetype rule table. Unique structural
// signals (compound parameter names, indicator filters specific to one
// template) carry heavier weights than generic vocabulary so that shared
// tokens like "gap" never decide a classification on their own.
func DefaultRules() []Rule {
	return []Rule{
		// Backside B: absolute-dollar-volume floor plus abs_* parameter family.
		{Archetype: models.ArchetypeBacksideB, Patterns: []string{"adv20_min_usd", "abs_"}, Weight: 50},
		{Archetype: models.ArchetypeBacksideB, Patterns: []string{"abs_lookback_days"}, Weight: 30},
		{Archetype: models.ArchetypeBacksideB, Patterns: []string{"backside"}, Weight: 40},
		{Archetype: models.ArchetypeBacksideB, Patterns: []string{"fbo_"}, Weight: 15},

		// A+ Para: parabolic extension scanner.
		{Archetype: models.ArchetypeAPlusPara, Patterns: []string{"a_plus"}, Weight: 50},
		{Archetype: models.ArchetypeAPlusPara, Patterns: []string{"parabolic"}, Weight: 30},
		{Archetype: models.ArchetypeAPlusPara, Patterns: []string{"para_ext"}, Weight: 30},

		// Half A+: relaxed A+ thresholds.
		{Archetype: models.ArchetypeHalfAPlus, Patterns: []string{"half_a_plus"}, Weight: 60},
		{Archetype: models.ArchetypeHalfAPlus, Patterns: []string{"half_apl"}, Weight: 40},

		// LC D2: large-cap day-two continuation; lc_ prefix convention.
		{Archetype: models.ArchetypeLcD2, Patterns: []string{"lc_d2"}, Weight: 60},
		{Archetype: models.ArchetypeLcD2, Patterns: []string{"lc_"}, Weight: 40},
		{Archetype: models.ArchetypeLcD2, Patterns: []string{"d2_red"}, Weight: 25},

		// LC 3d Gap: large-cap three-day gap structure.
		{Archetype: models.ArchetypeLc3dGap, Patterns: []string{"lc_3d_gap"}, Weight: 60},
		{Archetype: models.ArchetypeLc3dGap, Patterns: []string{"three_day_gap"}, Weight: 40},
		{Archetype: models.ArchetypeLc3dGap, Patterns: []string{"lc_", "gap"}, Weight: 25},

		// D1 Gap: the ema200 trend filter is unique to this template.
		{Archetype: models.ArchetypeD1Gap, Patterns: []string{"ema200"}, Weight: 50},
		{Archetype: models.ArchetypeD1Gap, Patterns: []string{"d1_gap"}, Weight: 60},
		{Archetype: models.ArchetypeD1Gap, Patterns: []string{"d2 == 0"}, Weight: 20},
		{Archetype: models.ArchetypeD1Gap, Patterns: []string{"gap"}, Weight: 15},
		{Archetype: models.ArchetypeD1Gap, Patterns: []string{"pm_high"}, Weight: 10},
		{Archetype: models.ArchetypeD1Gap, Patterns: []string{"pm_vol"}, Weight: 10},

		// Extended Gap: multi-day extension above range.
		{Archetype: models.ArchetypeExtendedGap, Patterns: []string{"extended_gap"}, Weight: 60},
		{Archetype: models.ArchetypeExtendedGap, Patterns: []string{"ext_gap"}, Weight: 40},
		{Archetype: models.ArchetypeExtendedGap, Patterns: []string{"gap", "atr_mult"}, Weight: 30},

		// SC DMR: small-cap multi-day runner.
		{Archetype: models.ArchetypeScDmr, Patterns: []string{"sc_dmr"}, Weight: 60},
		{Archetype: models.ArchetypeScDmr, Patterns: []string{"dmr_"}, Weight: 40},
		{Archetype: models.ArchetypeScDmr, Patterns: []string{"multi_day_runner"}, Weight: 35},
	}
}

// ruleFile is the TOML shape of an external rule table override.
type ruleFile struct {
	Rules []Rule `koanf:"rule"`
}

// LoadRules reads a rule table from a TOML file. The file fully replaces the
// defaults; weights are tunable configuration, not hard invariants.
func LoadRules(path string) ([]Rule, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return nil, fmt.Errorf("error loading rules file: %w", err)
	}

	var rf ruleFile
	if err := k.Unmarshal("", &rf); err != nil {
		return nil, fmt.Errorf("error unmarshalling rules file: %w", err)
	}
	if len(rf.Rules) == 0 {
		return nil, fmt.Errorf("rules file %s contains no [[rule]] entries", path)
	}

	for i, r := range rf.Rules {
		if len(r.Patterns) == 0 {
			return nil, fmt.Errorf("rule %d has no patterns", i)
		}
		if r.Weight <= 0 {
			return nil, fmt.Errorf("rule %d has non-positive weight %d", i, r.Weight)
		}
		valid := false
		for _, a := range models.ArchetypePriority {
			if r.Archetype == a {
				valid = true
				break
			}
		}
		if !valid {
			return nil, fmt.Errorf("rule %d has unknown archetype %q", i, r.Archetype)
		}
	}

	return rf.Rules, nil
}
