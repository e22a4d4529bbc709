package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/goodneighbor/internal/config"
	"github.com/MrSnakeDoc/goodneighbor/internal/logger"
	"github.com/MrSnakeDoc/goodneighbor/internal/storage"
)

var errInconsistent = errors.New("storage file has inconsistencies")

func newCheckCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the storage file without starting the server",
		Long: `Loads the storage file read-only and reports entity counts and
references that point nowhere. Exits non-zero when anything is found.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if path == "" {
				path = config.Load().StoragePath
			}
			return runCheck(cmd.OutOrStdout(), path)
		},
	}
	cmd.Flags().StringVarP(&path, "path", "p", "", "storage file (default: $GN_STORAGE_PATH or storage.yaml)")
	return cmd
}

func runCheck(out io.Writer, path string) error {
	// Load would create a missing file.
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("storage file %s: %w", path, err)
	}

	engine := storage.New(path, logger.Nop())
	if err := engine.Load(); err != nil {
		return err
	}
	r, err := engine.Check()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s: %d users, %d homepages, %d widgets\n",
		path, r.Stats.Users, r.Stats.Homepages, r.Stats.Widgets)
	for _, id := range r.OrphanHomepages {
		fmt.Fprintf(out, "  homepage %s: owner does not exist\n", id)
	}
	for _, id := range r.OrphanWidgets {
		fmt.Fprintf(out, "  widget %s: homepage does not exist\n", id)
	}
	for _, id := range r.MultipleDefaults {
		fmt.Fprintf(out, "  user %s: more than one default homepage\n", id)
	}
	for _, id := range r.DanglingDefaults {
		fmt.Fprintf(out, "  user %s: default homepage does not exist\n", id)
	}

	if !r.Clean() {
		return errInconsistent
	}
	fmt.Fprintln(out, "ok")
	return nil
}
