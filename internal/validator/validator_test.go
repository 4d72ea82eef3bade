package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgedev/renata/pkg/models"
)

const goodScanner = `import pandas as pd

PARAMS = {
    "adv20_min_usd": 30_000_000,
    "abs_lookback_days": 60,
}

def fetch_data(client, tickers, start, end):
    return client.daily_bars(tickers, start, end)

def apply_filters(df, params):
    df["adv20_usd"] = (df["close"] * df["volume"]).rolling(20).mean()
    df["abs_high"] = df["high"].rolling(params["abs_lookback_days"]).max()
    return df[df["adv20_usd"] >= params["adv20_min_usd"]]

def detect_signals(df, params):
    return df[df["abs_high"] > df["close"]]

def run_scanner(client, tickers, start, end, params=PARAMS):
    df = fetch_data(client, tickers, start, end)
    df = apply_filters(df, params)
    return detect_signals(df, params)
`

func backsideClassification() models.ClassificationResult {
	return models.ClassificationResult{Archetype: models.ArchetypeBacksideB, Confidence: 0.8}
}

func TestValidateCleanScanner(t *testing.T) {
	v := New(DefaultWeights())
	report := v.Validate(goodScanner, backsideClassification())

	assert.Empty(t, report.Issues)
	assert.Equal(t, 100, report.StructureScore)
	assert.Equal(t, 100, report.SyntaxScore)
	assert.Equal(t, 100, report.LogicScore)
	assert.Equal(t, 100, report.OverallScore)
	assert.Equal(t, models.StatusExcellent, report.Status)
	assert.True(t, report.CanDeploy)
}

func TestValidateMissingStageFunction(t *testing.T) {
	code := strings.Replace(goodScanner, "def detect_signals", "def find_signals", 1)
	v := New(DefaultWeights())
	report := v.Validate(code, backsideClassification())

	require.NotEmpty(t, report.Issues)
	assert.Equal(t, models.SeverityCritical, report.Issues[0].Severity)
	assert.Contains(t, report.Issues[0].Message, "detect_signals")
	assert.Equal(t, 60, report.StructureScore)
	assert.Equal(t, 88, report.OverallScore)
	assert.Equal(t, models.StatusGood, report.Status)
	assert.False(t, report.CanDeploy)
}

func TestValidateParseFailureZeroesSyntax(t *testing.T) {
	code := "def fetch_data(:\n    pass\n"
	v := New(DefaultWeights())
	report := v.Validate(code, backsideClassification())

	assert.Equal(t, 0, report.SyntaxScore)
	assert.False(t, report.CanDeploy)
	assert.Less(t, report.OverallScore, DeployThreshold)
}

func TestValidateParseFailureCapsDeployUnderAnyWeights(t *testing.T) {
	// A weight split that barely counts syntax must not let invalid
	// Python reach the deployable threshold.
	code := goodScanner + "\ndef trailing_broken(:\n"
	v := New(Weights{Structure: 60, Syntax: 5, Logic: 35})
	report := v.Validate(code, backsideClassification())

	assert.Equal(t, 0, report.SyntaxScore)
	assert.Less(t, report.OverallScore, DeployThreshold)
	assert.False(t, report.CanDeploy)
}

func TestValidateLookaheadIsCritical(t *testing.T) {
	code := strings.Replace(goodScanner,
		`df["abs_high"] = df["high"].rolling(params["abs_lookback_days"]).max()`,
		`df["abs_high"] = df["high"].shift(-1)`, 1)
	v := New(DefaultWeights())
	report := v.Validate(code, backsideClassification())

	require.Len(t, report.Issues, 1)
	assert.Equal(t, "lookahead", report.Issues[0].Category)
	assert.Equal(t, models.SeverityCritical, report.Issues[0].Severity)
	assert.Equal(t, 60, report.LogicScore)
	assert.False(t, report.CanDeploy)
}

func TestValidateDerivedColumnFilteredBeforeAssignment(t *testing.T) {
	code := `import pandas as pd

PARAMS = {"adv20_min_usd": 1}

def fetch_data(client, tickers, start, end):
    return client.daily_bars(tickers, start, end)

def apply_filters(df, params):
    df = df[df["gap_pct"] > 0]
    df["gap_pct"] = df["open"] / df["close"].shift(1) - 1
    return df

def detect_signals(df, params):
    return df

def run_scanner(client, tickers, start, end, params=PARAMS):
    return detect_signals(apply_filters(fetch_data(client, tickers, start, end), params), params)
`
	v := New(DefaultWeights())
	report := v.Validate(code, backsideClassification())

	var found bool
	for _, issue := range report.Issues {
		if issue.Category == "rule5" {
			found = true
			assert.Contains(t, issue.Message, "gap_pct")
		}
	}
	assert.True(t, found, "expected a rule5 ordering issue")
}

func TestValidateNetworkCallInLoop(t *testing.T) {
	code := strings.Replace(goodScanner,
		"    return client.daily_bars(tickers, start, end)",
		"    rows = []\n    for t in tickers:\n        rows.append(requests.get(url + t))\n    return rows", 1)
	v := New(DefaultWeights())
	report := v.Validate(code, backsideClassification())

	var found bool
	for _, issue := range report.Issues {
		if issue.Category == "structure" && strings.Contains(issue.Message, "network call inside a loop") {
			found = true
		}
	}
	assert.True(t, found)
	assert.False(t, report.CanDeploy)
}

func TestValidateResidualFenceArtifacts(t *testing.T) {
	v := New(DefaultWeights())
	report := v.Validate(goodScanner+"\n```\n", backsideClassification())

	var found bool
	for _, issue := range report.Issues {
		if strings.Contains(issue.Message, "residual markdown") {
			found = true
		}
	}
	assert.True(t, found)
	assert.False(t, report.CanDeploy)
}

func TestValidateNeverPanicsOnGarbage(t *testing.T) {
	v := New(DefaultWeights())
	assert.NotPanics(t, func() {
		report := v.Validate("\x00\xfe{{{ not python at all", models.ClassificationResult{Archetype: models.ArchetypeCustom})
		assert.False(t, report.CanDeploy)
	})
}

func TestStatusThresholdBoundaries(t *testing.T) {
	cases := []struct {
		overall int
		status  models.ReportStatus
	}{
		{100, models.StatusExcellent},
		{90, models.StatusExcellent},
		{89, models.StatusGood},
		{75, models.StatusGood},
		{74, models.StatusFair},
		{60, models.StatusFair},
		{59, models.StatusPoor},
		{40, models.StatusPoor},
		{39, models.StatusCritical},
		{0, models.StatusCritical},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, statusFor(tc.overall), "overall=%d", tc.overall)
	}
}

func TestLayerScoreFloorsAtZero(t *testing.T) {
	issues := []models.ValidationIssue{
		{Severity: models.SeverityCritical},
		{Severity: models.SeverityCritical},
		{Severity: models.SeverityCritical},
	}
	assert.Equal(t, 0, layerScore(issues))
}

func TestNewRejectsUnbalancedWeights(t *testing.T) {
	v := New(Weights{Structure: 50, Syntax: 50, Logic: 50})
	assert.Equal(t, DefaultWeights(), v.weights)
}

func TestExtractionFailureReport(t *testing.T) {
	report := ExtractionFailureReport("no code found in response")

	assert.Equal(t, 0, report.OverallScore)
	assert.Equal(t, models.StatusCritical, report.Status)
	assert.False(t, report.CanDeploy)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, models.SeverityCritical, report.Issues[0].Severity)
	assert.Equal(t, "no code found in response", report.Issues[0].Message)
}
