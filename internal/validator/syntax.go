package validator

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/edgedev/renata/pkg/models"
)

// checkSyntax parses the candidate as Python and reports every error or
// missing node the parser finds. Returns the issues and whether the parse
// failed at all; a failed parse zeroes the syntax layer.
func checkSyntax(code string) ([]models.ValidationIssue, bool) {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, []byte(code))
	if err != nil {
		return []models.ValidationIssue{{
			Severity: models.SeverityCritical,
			Category: "syntax",
			Message:  fmt.Sprintf("failed to parse candidate: %v", err),
		}}, true
	}
	defer tree.Close()

	root := tree.RootNode()
	if !root.HasError() {
		return nil, false
	}

	var issues []models.ValidationIssue
	collectErrorNodes(root, &issues)
	if len(issues) == 0 {
		// HasError with no locatable node still counts as a failure.
		issues = append(issues, models.ValidationIssue{
			Severity: models.SeverityCritical,
			Category: "syntax",
			Message:  "candidate is not valid Python",
		})
	}
	return issues, true
}

func collectErrorNodes(node *sitter.Node, issues *[]models.ValidationIssue) {
	if node.IsError() || node.IsMissing() {
		line := node.StartPoint().Row + 1
		msg := fmt.Sprintf("syntax error at line %d", line)
		if node.IsMissing() {
			msg = fmt.Sprintf("incomplete statement at line %d", line)
		}
		*issues = append(*issues, models.ValidationIssue{
			Severity:   models.SeverityCritical,
			Category:   "syntax",
			Message:    msg,
			Suggestion: "emit complete, runnable Python",
		})
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		collectErrorNodes(node.Child(i), issues)
	}
}
