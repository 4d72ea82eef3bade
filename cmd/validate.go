package cmd

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/edgedev/renata/internal/classifier"
	"github.com/edgedev/renata/internal/validator"
)

// ValidateCommand returns the validate command
func ValidateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Score a scanner script against the EdgeDev template rules",
		ArgsUsage: "SCANNER_FILE",
		Action:    runValidate,
	}
}

func runValidate(c *cli.Context) error {
	if c.NArg() < 1 {
		return fmt.Errorf("missing required argument: scanner file")
	}

	source, err := os.ReadFile(c.Args().Get(0))
	if err != nil {
		return fmt.Errorf("failed to read scanner file: %w", err)
	}

	code := string(source)
	cls := classifier.Classify(code)
	report := validator.New(validator.DefaultWeights()).Validate(code, cls)

	fmt.Printf("Structure: %d  Syntax: %d  Logic: %d\n", report.StructureScore, report.SyntaxScore, report.LogicScore)
	fmt.Printf("Overall:   %d/100 (%s)\n", report.OverallScore, report.Status)
	fmt.Printf("Deployable: %v\n", report.CanDeploy)
	for _, issue := range report.Issues {
		fmt.Printf("  [%s/%s] %s\n", issue.Severity, issue.Category, issue.Message)
		if issue.Suggestion != "" {
			fmt.Printf("      fix: %s\n", issue.Suggestion)
		}
	}
	return nil
}
