// Package validator scores candidate scanner code across three layers:
// structure (required skeleton), syntax (real Python parse), and logic
// (ordering and naming rules). It never fails on bad code; defects come
// back as issues inside the report.
package validator

import (
	"github.com/edgedev/renata/pkg/models"
)

// Validator runs the three check layers with fixed weights.
type Validator struct {
	weights Weights
}

// New creates a validator. Invalid weights (not summing to 100) fall back
// to the defaults.
func New(w Weights) *Validator {
	if w.Structure+w.Syntax+w.Logic != 100 {
		w = DefaultWeights()
	}
	return &Validator{weights: w}
}

// Validate scores the candidate. Pure: same inputs always produce the
// same report, and it is safe to call from concurrent coordinators.
func (v *Validator) Validate(code string, cls models.ClassificationResult) models.ValidationReport {
	structureIssues := checkStructure(code)
	syntaxIssues, parseFailed := checkSyntax(code)
	logicIssues := checkLogic(code, cls)
	return buildReport(structureIssues, syntaxIssues, logicIssues, parseFailed, v.weights)
}

// ExtractionFailureReport builds the report used when no code could be
// recovered from a response: every layer zeroed, one synthetic critical
// issue carrying the given message.
func ExtractionFailureReport(message string) models.ValidationReport {
	return models.ValidationReport{
		Status: models.StatusCritical,
		Issues: []models.ValidationIssue{{
			Severity:   models.SeverityCritical,
			Category:   "extraction",
			Message:    message,
			Suggestion: "return the full script inside a single fenced code block",
		}},
	}
}
