package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/goodneighbor/internal/app"
	"github.com/MrSnakeDoc/goodneighbor/internal/config"
	"github.com/MrSnakeDoc/goodneighbor/internal/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "goodneighbor",
		Short: "Self-hosted homepage with widgets",
		Long: `goodneighbor serves a personal homepage API: homepages, their widgets
and a favicon discovery service. Without a subcommand it runs the server.`,
		SilenceUsage: true,
		RunE:         runServe,
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP server",
			Args:  cobra.NoArgs,
			RunE:  runServe,
		},
		newCheckCmd(),
		newImportCmd(),
		newVersionCmd(),
	)
	return root
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.PrettyLog)
	defer func() { _ = log.Sync() }()

	a, err := app.New(cmd.Context(), cfg, log)
	if err != nil {
		log.Errorf("❌ goodneighbor failed to start: %v", err)
		return fmt.Errorf("start: %w", err)
	}
	return a.Run()
}
