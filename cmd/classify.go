package cmd

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/edgedev/renata/internal/classifier"
	"github.com/edgedev/renata/internal/config"
)

// ClassifyCommand returns the classify command
func ClassifyCommand() *cli.Command {
	return &cli.Command{
		Name:      "classify",
		Usage:     "Classify a scanner script without calling the model",
		ArgsUsage: "SCANNER_FILE",
		Action:    runClassify,
	}
}

func runClassify(c *cli.Context) error {
	if c.NArg() < 1 {
		return fmt.Errorf("missing required argument: scanner file")
	}

	source, err := os.ReadFile(c.Args().Get(0))
	if err != nil {
		return fmt.Errorf("failed to read scanner file: %w", err)
	}

	rules := classifier.DefaultRules()
	if cfg, err := config.LoadConfig(c.String("config")); err == nil && cfg.General.RulesFile != "" {
		if loaded, err := classifier.LoadRules(cfg.General.RulesFile); err == nil {
			rules = loaded
		}
	}

	result := classifier.New(rules).Classify(string(source))
	fmt.Printf("Archetype:  %s\n", result.Archetype)
	fmt.Printf("Confidence: %.2f\n", result.Confidence)
	if len(result.Scores) > 0 {
		fmt.Println("Scores:")
		for archetype, score := range result.Scores {
			fmt.Printf("  %-14s %d\n", archetype, score)
		}
	}
	for _, hit := range result.Hits {
		fmt.Printf("  matched %v (+%d for %s)\n", hit.Patterns, hit.Weight, hit.Archetype)
	}
	return nil
}
