package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/edgedev/renata/internal/api"
	"github.com/edgedev/renata/internal/store"
)

// ServeCommand returns the CLI command for starting the API server
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the Renata API server",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port for the API server (overrides config)",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable verbose output for this command",
			},
		},
		Action: runServe,
	}
}

func runServe(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	service, err := buildService(cfg)
	if err != nil {
		return err
	}

	sessions, err := openStore(c.Context, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer sessions.Close()

	port := cfg.Server.Port
	if c.Int("port") > 0 {
		port = c.Int("port")
	}

	fmt.Printf("Starting Renata API server on port %d...\n", port)
	server := api.NewServer(service, sessions, port, cfg.Server.APIKey)
	return server.Start()
}

// openStore picks PostgreSQL when a database URL is configured, otherwise
// an in-memory store.
func openStore(ctx context.Context, databaseURL string) (store.Store, error) {
	if databaseURL == "" {
		fmt.Println("No database configured; session history is in-memory only")
		return store.NewMemoryStore(), nil
	}
	return store.NewPostgresStore(ctx, databaseURL)
}
