package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/edgedev/renata/cmd"
)

const (
	version = "0.1.0"
)

func main() {
	app := &cli.App{
		Name:    "renata",
		Usage:   "Reformat trading-scanner scripts into the standard EdgeDev template",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Load configuration from `FILE`",
				Value:   "renata.toml",
			},
		},
		Commands: []*cli.Command{
			cmd.TransformCommand(),
			cmd.ClassifyCommand(),
			cmd.ValidateCommand(),
			cmd.ServeCommand(),
			cmd.ConfigCommand(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
