package validator

import "github.com/edgedev/renata/pkg/models"

// Weights controls how the three layer scores combine into the overall
// score. The three values must sum to 100.
type Weights struct {
	Structure int
	Syntax    int
	Logic     int
}

// DefaultWeights returns the published scoring weights.
func DefaultWeights() Weights {
	return Weights{Structure: 30, Syntax: 30, Logic: 40}
}

// Score deductions per issue severity.
const (
	criticalDeduction = 40
	errorDeduction    = 15
	warningDeduction  = 5
)

// layerScore starts each layer at 100 and deducts per issue, floored at 0.
func layerScore(issues []models.ValidationIssue) int {
	score := 100
	for _, issue := range issues {
		switch issue.Severity {
		case models.SeverityCritical:
			score -= criticalDeduction
		case models.SeverityError:
			score -= errorDeduction
		case models.SeverityWarning:
			score -= warningDeduction
		}
	}
	if score < 0 {
		return 0
	}
	return score
}

// overallScore is the fixed weighted combination of the layer scores.
func overallScore(structure, syntax, logic int, w Weights) int {
	return (structure*w.Structure + syntax*w.Syntax + logic*w.Logic) / 100
}

// DeployThreshold is the minimum overall score for deployable code.
const DeployThreshold = 90

// statusFor maps an overall score onto the published status buckets.
func statusFor(overall int) models.ReportStatus {
	switch {
	case overall >= 90:
		return models.StatusExcellent
	case overall >= 75:
		return models.StatusGood
	case overall >= 60:
		return models.StatusFair
	case overall >= 40:
		return models.StatusPoor
	default:
		return models.StatusCritical
	}
}

// buildReport combines the three layers. A parse failure zeroes the syntax
// score outright and caps the overall score below DeployThreshold, no matter
// how the other layers are weighted.
func buildReport(structure, syntax, logic []models.ValidationIssue, parseFailed bool, w Weights) models.ValidationReport {
	structureScore := layerScore(structure)
	syntaxScore := layerScore(syntax)
	if parseFailed {
		syntaxScore = 0
	}
	logicScore := layerScore(logic)
	overall := overallScore(structureScore, syntaxScore, logicScore, w)
	if parseFailed && overall >= DeployThreshold {
		overall = DeployThreshold - 1
	}

	issues := make([]models.ValidationIssue, 0, len(structure)+len(syntax)+len(logic))
	issues = append(issues, structure...)
	issues = append(issues, syntax...)
	issues = append(issues, logic...)

	return models.ValidationReport{
		StructureScore: structureScore,
		SyntaxScore:    syntaxScore,
		LogicScore:     logicScore,
		OverallScore:   overall,
		Status:         statusFor(overall),
		Issues:         issues,
		CanDeploy:      overall >= DeployThreshold,
	}
}
