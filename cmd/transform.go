package cmd

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/edgedev/renata/pkg/models"
)

// TransformCommand returns the transform command
func TransformCommand() *cli.Command {
	return &cli.Command{
		Name:  "transform",
		Usage: "Run a scanner script through the full reformat pipeline",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "task",
				Aliases: []string{"t"},
				Usage:   "Task to perform: format, build, or modify",
				Value:   "format",
			},
			&cli.StringFlag{
				Name:    "instructions",
				Aliases: []string{"i"},
				Usage:   "Free-form instructions passed to the model",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the formatted scanner to `FILE` instead of stdout",
			},
			&cli.IntFlag{
				Name:  "max-attempts",
				Usage: "Override the configured generation attempt budget",
			},
			&cli.StringFlag{
				Name:  "strictness",
				Usage: "Acceptance bar: \"deploy\" (90+) or \"good\" (75+)",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable verbose output for this command",
			},
		},
		ArgsUsage: "SCANNER_FILE",
		Action:    runTransform,
	}
}

func runTransform(c *cli.Context) error {
	if c.NArg() < 1 {
		return fmt.Errorf("missing required argument: scanner file")
	}

	task, ok := models.ParseTask(c.String("task"))
	if !ok {
		return fmt.Errorf("unknown task %q (expected format, build, or modify)", c.String("task"))
	}

	source, err := os.ReadFile(c.Args().Get(0))
	if err != nil {
		return fmt.Errorf("failed to read scanner file: %w", err)
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	service, err := buildService(cfg)
	if err != nil {
		return err
	}

	sessionID := uuid.New().String()
	result, _, err := service.Run(c.Context, models.TransformRequest{
		Source:       string(source),
		Task:         task,
		Instructions: c.String("instructions"),
		MaxAttempts:  c.Int("max-attempts"),
		Strictness:   c.String("strictness"),
	}, sessionID)
	if err != nil {
		return err
	}

	fmt.Printf("Archetype: %s (confidence %.2f)\n", result.Classification.Archetype, result.Classification.Confidence)
	fmt.Printf("Score: %d/100 (%s) after %d attempt(s)\n", result.Report.OverallScore, result.Report.Status, result.Attempts)
	if !result.FullyValidated {
		fmt.Println("Warning: returning best attempt; validation did not fully pass")
		for _, issue := range result.Report.Issues {
			fmt.Printf("  [%s/%s] %s\n", issue.Severity, issue.Category, issue.Message)
		}
	}

	if output := c.String("output"); output != "" {
		if err := os.WriteFile(output, []byte(result.Code), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Printf("Wrote formatted scanner to %s\n", output)
		return nil
	}
	fmt.Println(result.Code)
	return nil
}
