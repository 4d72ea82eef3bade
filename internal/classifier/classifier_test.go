package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgedev/renata/pkg/models"
)

const backsideSource = `
params = {
    "adv20_min_usd": 50_000_000,
    "abs_lookback_days": 60,
}
df["abs_high"] = df["high"].rolling(params["abs_lookback_days"]).max()
`

const gapSource = `
# premarket gap screen
params = {"pm_vol_min": 1_000_000}
df["ema200"] = df["close"].ewm(span=200).mean()
df["pm_high"] = pm["high"].max()
df["pm_vol"] = pm["volume"].sum()
candidates = df[(df["gap_pct"] > 0.3) & (df["d2"] == 0)]
`

func TestClassify_BacksideB(t *testing.T) {
	result := Classify(backsideSource)

	assert.Equal(t, models.ArchetypeBacksideB, result.Archetype)
	assert.Greater(t, result.Scores[models.ArchetypeBacksideB], 0)
	for archetype, score := range result.Scores {
		if archetype == models.ArchetypeBacksideB {
			continue
		}
		assert.Less(t, score, result.Scores[models.ArchetypeBacksideB],
			"archetype %s should score below the winner", archetype)
	}
}

func TestClassify_GapArchetypeViaUniqueSignal(t *testing.T) {
	// Generic gap vocabulary plus the ema200 filter, which is unique to the
	// D1 Gap template, must outweigh every other archetype.
	result := Classify(gapSource)

	assert.Equal(t, models.ArchetypeD1Gap, result.Archetype)
	assert.GreaterOrEqual(t, result.Scores[models.ArchetypeD1Gap], 75)
	assert.NotEqual(t, models.ArchetypeBacksideB, result.Archetype)
}

func TestClassify_Deterministic(t *testing.T) {
	first := Classify(backsideSource)
	second := Classify(backsideSource)

	assert.Equal(t, first.Archetype, second.Archetype)
	assert.Equal(t, first.Scores, second.Scores)
	assert.Equal(t, first.Confidence, second.Confidence)
}

func TestClassify_TieBreakByPriority(t *testing.T) {
	// "backside" scores 40 for Backside B; "half_apl" scores 40 for Half A+.
	// The priority order must always resolve the tie to Backside B.
	source := "backside half_apl"
	for i := 0; i < 10; i++ {
		result := Classify(source)
		require.Equal(t, result.Scores[models.ArchetypeBacksideB], result.Scores[models.ArchetypeHalfAPlus])
		assert.Equal(t, models.ArchetypeBacksideB, result.Archetype)
	}
}

func TestClassify_EmptyInput(t *testing.T) {
	result := Classify("")

	assert.Equal(t, models.ArchetypeCustom, result.Archetype)
	assert.Equal(t, 0.0, result.Confidence)
}

func TestClassify_NoMatchesFallsBackToCustom(t *testing.T) {
	result := Classify("print('hello world')")

	assert.Equal(t, models.ArchetypeCustom, result.Archetype)
	assert.Equal(t, 0.0, result.Confidence)
	assert.Empty(t, result.Hits)
}

func TestClassify_ConfidenceIsShareOfTotal(t *testing.T) {
	result := Classify(backsideSource)

	total := 0
	for _, score := range result.Scores {
		total += score
	}
	require.Greater(t, total, 0)
	assert.InDelta(t, float64(result.Scores[result.Archetype])/float64(total), result.Confidence, 1e-9)
}

func TestClassify_MalformedPythonDoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		Classify("def broken(:\n  adv20_min_usd abs_ ]]]")
	})
}

func TestClassify_CompoundRuleRequiresAllPatterns(t *testing.T) {
	// adv20_min_usd without any abs_ token must not trigger the compound rule.
	result := Classify("params = {'adv20_min_usd': 1}")

	for _, hit := range result.Hits {
		assert.NotEqual(t, []string{"adv20_min_usd", "abs_"}, hit.Patterns)
	}
}

func TestClassify_RecordsHits(t *testing.T) {
	result := Classify(backsideSource)

	require.NotEmpty(t, result.Hits)
	seen := 0
	for _, hit := range result.Hits {
		if hit.Archetype == models.ArchetypeBacksideB {
			seen += hit.Weight
		}
	}
	assert.Equal(t, result.Scores[models.ArchetypeBacksideB], seen)
}
