// Package templates holds the static EdgeDev reference corpus: one example
// per archetype with its architecture summary, canonical parameter names,
// and a short code excerpt for few-shot prompting. The corpus is read-only
// after init and safe for concurrent use.
package templates

import (
	"github.com/edgedev/renata/pkg/models"
)

var registry = map[models.Archetype]models.TemplateExample{
	models.ArchetypeBacksideB: {
		Archetype: models.ArchetypeBacksideB,
		ArchitectureSummary: "Backside B: fade setup on day 2+ after a large move. " +
			"Universe filtered by 20-day average dollar volume, absolute-high lookback " +
			"window marks the front-side peak, signal fires when price reclaims toward " +
			"the backside of the move.",
		ParameterNames: []string{"adv20_min_usd", "abs_lookback_days", "abs_dist_min", "d1_vol_min"},
		CodeSnippet: `PARAMS = {
    "adv20_min_usd": 30_000_000,
    "abs_lookback_days": 60,
    "abs_dist_min": 0.5,
}

def fetch_data(client, tickers, start, end):
    return client.daily_bars(tickers, start, end)

def apply_filters(df, params):
    df["adv20_usd"] = (df["close"] * df["volume"]).rolling(20).mean()
    df["abs_high"] = df["high"].rolling(params["abs_lookback_days"]).max()
    df["abs_dist"] = df["abs_high"] / df["close"] - 1
    return df[df["adv20_usd"] >= params["adv20_min_usd"]]

def detect_signals(df, params):
    return df[df["abs_dist"] >= params["abs_dist_min"]]

def run_scanner(client, tickers, start, end, params=PARAMS):
    df = fetch_data(client, tickers, start, end)
    df = apply_filters(df, params)
    return detect_signals(df, params)
`,
	},
	models.ArchetypeAPlusPara: {
		Archetype: models.ArchetypeAPlusPara,
		ArchitectureSummary: "A+ Para: parabolic extension short setup. Consecutive green " +
			"days with expanding range, extension measured against a rolling mean, " +
			"signal on the strongest extension day.",
		ParameterNames: []string{"a_plus_min_ext", "para_days_min", "range_expansion_min"},
		CodeSnippet: `PARAMS = {"a_plus_min_ext": 1.0, "para_days_min": 3}

def apply_filters(df, params):
    df["ext"] = df["close"] / df["close"].rolling(20).mean() - 1
    df["green"] = (df["close"] > df["open"]).astype(int)
    df["green_streak"] = df["green"].rolling(params["para_days_min"]).sum()
    return df

def detect_signals(df, params):
    return df[(df["ext"] >= params["a_plus_min_ext"]) & (df["green_streak"] >= params["para_days_min"])]
`,
	},
	models.ArchetypeHalfAPlus: {
		Archetype: models.ArchetypeHalfAPlus,
		ArchitectureSummary: "Half A+: relaxed A+ Para thresholds for earlier entries. Same " +
			"pipeline shape as A+ Para with halved extension and streak minimums.",
		ParameterNames: []string{"half_a_plus_min_ext", "para_days_min"},
		CodeSnippet: `PARAMS = {"half_a_plus_min_ext": 0.5, "para_days_min": 2}
`,
	},
	models.ArchetypeLcD2: {
		Archetype: models.ArchetypeLcD2,
		ArchitectureSummary: "LC D2: large-cap day-two continuation. lc_ parameter prefix " +
			"convention, day-one gap and volume qualify the name, day-two red open " +
			"triggers the signal.",
		ParameterNames: []string{"lc_min_mcap", "lc_d1_gap_min", "lc_d2_open_max"},
		CodeSnippet: `PARAMS = {"lc_min_mcap": 10_000_000_000, "lc_d1_gap_min": 0.04}

def apply_filters(df, params):
    df["lc_d1_gap"] = df["open"] / df["close"].shift(1) - 1
    return df[df["mcap"] >= params["lc_min_mcap"]]

def detect_signals(df, params):
    return df[df["lc_d1_gap"] >= params["lc_d1_gap_min"]]
`,
	},
	models.ArchetypeLc3dGap: {
		Archetype: models.ArchetypeLc3dGap,
		ArchitectureSummary: "LC 3d Gap: large-cap three-day gap structure. Three consecutive " +
			"daily gaps in the same direction, cumulative extension measured from the " +
			"first gap day.",
		ParameterNames: []string{"lc_3d_gap_min", "three_day_gap_cum_min"},
		CodeSnippet: `PARAMS = {"lc_3d_gap_min": 0.02, "three_day_gap_cum_min": 0.10}
`,
	},
	models.ArchetypeD1Gap: {
		Archetype: models.ArchetypeD1Gap,
		ArchitectureSummary: "D1 Gap: day-one gap scanner. Premarket high/volume qualify the " +
			"gap, the ema200 trend filter keeps only names gapping above long-term " +
			"trend, d2 == 0 restricts to the first day of the move.",
		ParameterNames: []string{"d1_gap_min", "pm_vol_min", "pm_high_break", "ema200_filter"},
		CodeSnippet: `PARAMS = {"d1_gap_min": 0.3, "pm_vol_min": 1_000_000}

def apply_filters(df, params):
    df["ema200"] = df["close"].ewm(span=200).mean()
    df["gap_pct"] = df["open"] / df["close"].shift(1) - 1
    return df[df["close"] > df["ema200"]]

def detect_signals(df, params):
    return df[(df["gap_pct"] >= params["d1_gap_min"]) & (df["d2"] == 0)]
`,
	},
	models.ArchetypeExtendedGap: {
		Archetype: models.ArchetypeExtendedGap,
		ArchitectureSummary: "Extended Gap: gap on an already extended name. ATR-multiple " +
			"extension from a rolling base qualifies the name before the gap check.",
		ParameterNames: []string{"extended_gap_min", "atr_mult_min", "base_lookback_days"},
		CodeSnippet: `PARAMS = {"extended_gap_min": 0.15, "atr_mult_min": 4.0}
`,
	},
	models.ArchetypeScDmr: {
		Archetype: models.ArchetypeScDmr,
		ArchitectureSummary: "SC DMR: small-cap multi-day runner. Cumulative multi-day gain " +
			"and elevated volume versus float qualify the runner, signal on the " +
			"continuation day.",
		ParameterNames: []string{"sc_dmr_days", "dmr_cum_gain_min", "float_rotation_min"},
		CodeSnippet: `PARAMS = {"sc_dmr_days": 3, "dmr_cum_gain_min": 0.5}
`,
	},
}

// ForArchetype returns the reference example for an archetype. Custom has no
// example of its own.
func ForArchetype(a models.Archetype) (models.TemplateExample, bool) {
	example, ok := registry[a]
	return example, ok
}

// ForClassification selects the examples to include in a prompt. A direct
// archetype match yields its example. Custom with a nonzero confidence falls
// back to the closest-scoring archetype as a loose structural reference;
// Custom with zero confidence yields nothing.
func ForClassification(cls models.ClassificationResult) []models.TemplateExample {
	if cls.Archetype != models.ArchetypeCustom {
		if example, ok := ForArchetype(cls.Archetype); ok {
			return []models.TemplateExample{example}
		}
		return nil
	}
	if cls.Confidence == 0 {
		return nil
	}

	closest := models.ArchetypeCustom
	best := 0
	for _, archetype := range models.ArchetypePriority {
		if score := cls.Scores[archetype]; score > best {
			closest = archetype
			best = score
		}
	}
	if closest == models.ArchetypeCustom {
		return nil
	}
	example, ok := ForArchetype(closest)
	if !ok {
		return nil
	}
	return []models.TemplateExample{example}
}

// All returns every registered example in priority order.
func All() []models.TemplateExample {
	out := make([]models.TemplateExample, 0, len(registry))
	for _, archetype := range models.ArchetypePriority {
		if example, ok := registry[archetype]; ok {
			out = append(out, example)
		}
	}
	return out
}
