package models

import (
	"time"
)

// Task identifies what the caller wants done with the submitted source.
type Task string

const (
	TaskFormat           Task = "format"
	TaskBuildFromScratch Task = "build"
	TaskModify           Task = "modify"
)

// ParseTask converts a string into a Task, rejecting unknown values.
func ParseTask(s string) (Task, bool) {
	switch Task(s) {
	case TaskFormat, TaskBuildFromScratch, TaskModify:
		return Task(s), true
	}
	return "", false
}

// Archetype is one of the known scanner shapes the classifier recognizes.
type Archetype string

const (
	ArchetypeBacksideB   Archetype = "backside_b"
	ArchetypeAPlusPara   Archetype = "a_plus_para"
	ArchetypeHalfAPlus   Archetype = "half_a_plus"
	ArchetypeLcD2        Archetype = "lc_d2"
	ArchetypeLc3dGap     Archetype = "lc_3d_gap"
	ArchetypeD1Gap       Archetype = "d1_gap"
	ArchetypeExtendedGap Archetype = "extended_gap"
	ArchetypeScDmr       Archetype = "sc_dmr"
	ArchetypeCustom      Archetype = "custom"
)

// ArchetypePriority is the fixed tie-break order. When two archetypes score
// equally, the one appearing earlier in this list wins. Custom is never
// listed: it is the fallback for all-zero scores, not a scored contender.
var ArchetypePriority = []Archetype{
	ArchetypeBacksideB,
	ArchetypeAPlusPara,
	ArchetypeHalfAPlus,
	ArchetypeLcD2,
	ArchetypeLc3dGap,
	ArchetypeD1Gap,
	ArchetypeExtendedGap,
	ArchetypeScDmr,
}

// RuleHit records a single classification rule that matched, for
// explainability in the UI and logs.
type RuleHit struct {
	Archetype Archetype `json:"archetype"`
	Patterns  []string  `json:"patterns"`
	Weight    int       `json:"weight"`
}

// ClassificationResult is the outcome of scoring source text against the
// archetype rule table. It is a pure function of the input text and the rule
// table: the same text always yields the same result.
type ClassificationResult struct {
	Archetype  Archetype         `json:"archetype"`
	Scores     map[Archetype]int `json:"scores"`
	Confidence float64           `json:"confidence"`
	Hits       []RuleHit         `json:"hits,omitempty"`
}

// TemplateExample is static reference data for one archetype: a summary of
// its architecture, its canonical parameter names, and a short code excerpt
// used as a few-shot example in prompts. Loaded once, never mutated.
type TemplateExample struct {
	Archetype           Archetype `json:"archetype"`
	ArchitectureSummary string    `json:"architecture_summary"`
	ParameterNames      []string  `json:"parameter_names"`
	CodeSnippet         string    `json:"code_snippet"`
}

// IssueSeverity grades a validation issue.
type IssueSeverity string

const (
	SeverityCritical IssueSeverity = "critical"
	SeverityError    IssueSeverity = "error"
	SeverityWarning  IssueSeverity = "warning"
)

// ValidationIssue is one defect found in candidate code. Issues are data,
// not errors: bad generated code is an expected, recoverable outcome.
type ValidationIssue struct {
	Severity   IssueSeverity `json:"severity"`
	Category   string        `json:"category"` // e.g. "structure", "syntax", "rule5", "naming", "lookahead"
	Message    string        `json:"message"`
	Suggestion string        `json:"suggestion,omitempty"`
}

// ReportStatus buckets an overall validation score.
type ReportStatus string

const (
	StatusExcellent ReportStatus = "excellent"
	StatusGood      ReportStatus = "good"
	StatusFair      ReportStatus = "fair"
	StatusPoor      ReportStatus = "poor"
	StatusCritical  ReportStatus = "critical"
)

// ValidationReport is the full validation outcome for one candidate.
// OverallScore is a fixed weighted combination of the three layer scores;
// Status and CanDeploy are threshold functions of OverallScore.
type ValidationReport struct {
	StructureScore int               `json:"structure_score"`
	SyntaxScore    int               `json:"syntax_score"`
	LogicScore     int               `json:"logic_score"`
	OverallScore   int               `json:"overall_score"`
	Status         ReportStatus      `json:"status"`
	Issues         []ValidationIssue `json:"issues"`
	CanDeploy      bool              `json:"can_deploy"`
}

// CriticalIssues returns only the critical-severity issues.
func (r ValidationReport) CriticalIssues() []ValidationIssue {
	var out []ValidationIssue
	for _, issue := range r.Issues {
		if issue.Severity == SeverityCritical {
			out = append(out, issue)
		}
	}
	return out
}

// GenerationAttempt captures one full generate/extract/validate iteration.
type GenerationAttempt struct {
	AttemptNumber int              `json:"attempt_number"`
	Prompt        string           `json:"-"` // full prompt text; kept out of JSON payloads
	RawResponse   string           `json:"-"`
	ExtractedCode string           `json:"extracted_code"`
	Report        ValidationReport `json:"report"`
	Duration      time.Duration    `json:"duration"`
}

// TransformRequest is the inbound call from the UI/API layer. MaxAttempts
// and Strictness override the configured defaults when set.
type TransformRequest struct {
	Source       string `json:"source"`
	Task         Task   `json:"task"`
	Instructions string `json:"instructions,omitempty"`
	MaxAttempts  int    `json:"max_attempts,omitempty"`
	Strictness   string `json:"strictness,omitempty"`
}

// TransformResult is what the caller always receives: some code plus an
// honest quality report. FullyValidated is false when the retry budget was
// exhausted and the best-scoring attempt was returned instead.
type TransformResult struct {
	Code           string               `json:"code"`
	Report         ValidationReport     `json:"report"`
	Attempts       int                  `json:"attempts"`
	Classification ClassificationResult `json:"classification"`
	FullyValidated bool                 `json:"fully_validated"`
}
