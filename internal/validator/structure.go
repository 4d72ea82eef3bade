package validator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/edgedev/renata/pkg/models"
)

// requiredFunctions are the stage entry points every formatted scanner
// must define: the three pipeline stages plus the orchestration wrapper.
var requiredFunctions = []string{
	"fetch_data",
	"apply_filters",
	"detect_signals",
	"run_scanner",
}

var (
	defRe        = regexp.MustCompile(`(?m)^\s*def\s+(\w+)\s*\(`)
	importRe     = regexp.MustCompile(`(?m)^\s*(?:import|from)\s+pandas\b`)
	paramsRe     = regexp.MustCompile(`(?m)^PARAMS\s*=\s*\{`)
	networkRe    = regexp.MustCompile(`requests\.(get|post)|urllib\.request|http\.client`)
	loopHeaderRe = regexp.MustCompile(`^(\s*)(for|while)\s`)
)

// checkStructure verifies the standard scanner skeleton: required stage
// functions, the pandas import, the module-level PARAMS dict, and the
// absence of forbidden constructs (per-row network calls, residual
// extraction artifacts).
func checkStructure(code string) []models.ValidationIssue {
	var issues []models.ValidationIssue

	defined := make(map[string]bool)
	for _, m := range defRe.FindAllStringSubmatch(code, -1) {
		defined[m[1]] = true
	}
	for _, name := range requiredFunctions {
		if !defined[name] {
			issues = append(issues, models.ValidationIssue{
				Severity:   models.SeverityCritical,
				Category:   "structure",
				Message:    fmt.Sprintf("missing required function %q", name),
				Suggestion: fmt.Sprintf("define %s() as part of the standard scanner stages", name),
			})
		}
	}

	if !importRe.MatchString(code) {
		issues = append(issues, models.ValidationIssue{
			Severity:   models.SeverityError,
			Category:   "structure",
			Message:    "missing pandas import",
			Suggestion: "add `import pandas as pd` at the top of the script",
		})
	}

	if !paramsRe.MatchString(code) {
		issues = append(issues, models.ValidationIssue{
			Severity:   models.SeverityError,
			Category:   "structure",
			Message:    "missing module-level PARAMS dict",
			Suggestion: "collect all tunable thresholds into a top-level PARAMS dictionary",
		})
	}

	if strings.Contains(code, "```") || strings.Contains(code, "<think") {
		issues = append(issues, models.ValidationIssue{
			Severity:   models.SeverityCritical,
			Category:   "structure",
			Message:    "residual markdown or tag artifacts in code",
			Suggestion: "output must be plain Python with no fences or tags",
		})
	}

	issues = append(issues, checkNetworkInLoop(code)...)
	return issues
}

// checkNetworkInLoop flags network calls nested inside a for/while body.
// Indentation tracking is enough here: a network call indented deeper than
// an open loop header is inside that loop.
func checkNetworkInLoop(code string) []models.ValidationIssue {
	var issues []models.ValidationIssue
	loopIndents := []int{}

	for i, line := range strings.Split(code, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " \t"))

		// Close loops the current line has dedented past.
		for len(loopIndents) > 0 && indent <= loopIndents[len(loopIndents)-1] {
			loopIndents = loopIndents[:len(loopIndents)-1]
		}

		if len(loopIndents) > 0 && networkRe.MatchString(line) {
			issues = append(issues, models.ValidationIssue{
				Severity:   models.SeverityCritical,
				Category:   "structure",
				Message:    fmt.Sprintf("network call inside a loop at line %d", i+1),
				Suggestion: "fetch all data once in fetch_data(), never per row",
			})
		}

		if m := loopHeaderRe.FindStringSubmatch(line); m != nil {
			loopIndents = append(loopIndents, len(m[1]))
		}
	}
	return issues
}
