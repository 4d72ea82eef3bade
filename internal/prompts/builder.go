// Package prompts assembles LLM prompts for the transform pipeline. Assembly
// is deterministic: identical inputs produce identical prompt text.
package prompts

import (
	"fmt"
	"strings"

	"github.com/edgedev/renata/pkg/models"
)

// BuildRequest carries everything the builder needs for one prompt.
type BuildRequest struct {
	Task         models.Task
	Source       string // submitted scanner code (or description for build task)
	Instructions string // free-form user instructions
	Examples     []models.TemplateExample
	PriorIssues  []models.ValidationIssue // empty on the first attempt
	JSONMode     bool
}

// Builder assembles prompts from static template text and reference examples.
type Builder struct{}

// NewBuilder creates a prompt builder instance.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build assembles the prompt in fixed order: system role and architecture
// rules, reference examples, task instructions, corrective section (retries
// only), then the submitted source.
func (b *Builder) Build(req BuildRequest) string {
	var sb strings.Builder

	sb.WriteString(ScannerFormatterRole)
	sb.WriteString("\n\n")
	sb.WriteString(ArchitectureRules)
	sb.WriteString("\n\n")

	if req.JSONMode {
		sb.WriteString(JSONOutputInstructions)
		sb.WriteString("\n\n")
	}

	for _, example := range req.Examples {
		b.addExample(&sb, example)
	}

	switch req.Task {
	case models.TaskBuildFromScratch:
		sb.WriteString(BuildInstructions)
	case models.TaskModify:
		sb.WriteString(ModifyInstructions)
	default:
		sb.WriteString(FormatInstructions)
	}
	sb.WriteString("\n\n")

	if req.Instructions != "" {
		sb.WriteString("ADDITIONAL INSTRUCTIONS FROM THE USER:\n")
		sb.WriteString(req.Instructions)
		sb.WriteString("\n\n")
	}

	if len(req.PriorIssues) > 0 {
		b.addCorrectiveSection(&sb, req.PriorIssues)
	}

	switch req.Task {
	case models.TaskBuildFromScratch:
		sb.WriteString("# Scanner Description\n\n")
	default:
		sb.WriteString("# Scanner Source\n\n")
	}
	sb.WriteString(req.Source)
	sb.WriteString("\n")

	return sb.String()
}

// addExample renders one reference example block.
func (b *Builder) addExample(sb *strings.Builder, example models.TemplateExample) {
	fmt.Fprintf(sb, "REFERENCE TEMPLATE (%s):\n", example.Archetype)
	sb.WriteString(example.ArchitectureSummary)
	sb.WriteString("\n")
	if len(example.ParameterNames) > 0 {
		fmt.Fprintf(sb, "Canonical parameters: %s\n", strings.Join(example.ParameterNames, ", "))
	}
	if example.CodeSnippet != "" {
		sb.WriteString("Example structure:\n")
		sb.WriteString(example.CodeSnippet)
	}
	sb.WriteString("\n")
}

// addCorrectiveSection enumerates prior validation issues as hard
// constraints. The exact category and message text is included verbatim so
// corrections stay traceable to the defect that prompted them.
func (b *Builder) addCorrectiveSection(sb *strings.Builder, issues []models.ValidationIssue) {
	sb.WriteString(CorrectiveHeader)
	sb.WriteString("\n")
	for _, issue := range issues {
		fmt.Fprintf(sb, "- [%s/%s] %s", issue.Severity, issue.Category, issue.Message)
		if issue.Suggestion != "" {
			fmt.Fprintf(sb, " Fix: %s", issue.Suggestion)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
}
