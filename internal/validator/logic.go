package validator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/edgedev/renata/internal/templates"
	"github.com/edgedev/renata/pkg/models"
)

var (
	colAssignRe  = regexp.MustCompile(`(?m)^\s*df\[["'](\w+)["']\]\s*=`)
	colRefRe     = regexp.MustCompile(`df\[["'](\w+)["']\]`)
	filterRe     = regexp.MustCompile(`df\s*=\s*df\[|\.dropna\(|\.drop\(`)
	shiftAheadRe = regexp.MustCompile(`\.shift\(\s*-\d+\s*\)`)
	snakeCaseRe  = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
)

// checkLogic enforces the ordering and naming rules the standard template
// depends on: derived columns assigned before any filter that reads them,
// no references to data after the signal day, snake_case derived column
// names, and the expected tunable parameters for the classified archetype.
func checkLogic(code string, cls models.ClassificationResult) []models.ValidationIssue {
	var issues []models.ValidationIssue
	lines := strings.Split(code, "\n")

	// First assignment line per derived column.
	firstAssign := make(map[string]int)
	for i, line := range lines {
		if m := colAssignRe.FindStringSubmatch(line); m != nil {
			if _, seen := firstAssign[m[1]]; !seen {
				firstAssign[m[1]] = i
			}
		}
	}

	for i, line := range lines {
		if !filterRe.MatchString(line) {
			continue
		}
		for _, m := range colRefRe.FindAllStringSubmatch(line, -1) {
			col := m[1]
			assignedAt, derived := firstAssign[col]
			if derived && assignedAt > i {
				issues = append(issues, models.ValidationIssue{
					Severity:   models.SeverityError,
					Category:   "rule5",
					Message:    fmt.Sprintf("derived column %q used in a filter at line %d before its assignment at line %d", col, i+1, assignedAt+1),
					Suggestion: "compute all derived columns before any filtering or row drops",
				})
			}
		}
	}

	for i, line := range lines {
		if shiftAheadRe.MatchString(line) || strings.Contains(line, "next_day") {
			issues = append(issues, models.ValidationIssue{
				Severity:   models.SeverityCritical,
				Category:   "lookahead",
				Message:    fmt.Sprintf("reference to future data at line %d", i+1),
				Suggestion: "signals may only use data available on or before the signal day",
			})
		}
	}

	for col := range firstAssign {
		if !snakeCaseRe.MatchString(col) {
			issues = append(issues, models.ValidationIssue{
				Severity:   models.SeverityWarning,
				Category:   "naming",
				Message:    fmt.Sprintf("derived column %q is not snake_case", col),
				Suggestion: "name derived columns in lower snake_case",
			})
		}
	}

	issues = append(issues, checkExpectedParams(code, cls)...)
	return issues
}

// checkExpectedParams warns when none of the classified archetype's
// characteristic parameters survive into the candidate.
func checkExpectedParams(code string, cls models.ClassificationResult) []models.ValidationIssue {
	if cls.Archetype == models.ArchetypeCustom || cls.Archetype == "" {
		return nil
	}
	example, ok := templates.ForArchetype(cls.Archetype)
	if !ok || len(example.ParameterNames) == 0 {
		return nil
	}
	for _, name := range example.ParameterNames {
		if strings.Contains(code, name) {
			return nil
		}
	}
	return []models.ValidationIssue{{
		Severity:   models.SeverityWarning,
		Category:   "params",
		Message:    fmt.Sprintf("none of the expected %s parameters appear in the candidate", cls.Archetype),
		Suggestion: "carry the source scanner's thresholds into the PARAMS dict",
	}}
}
