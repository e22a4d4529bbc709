package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/goodneighbor/internal/config"
	"github.com/MrSnakeDoc/goodneighbor/internal/logger"
	"github.com/MrSnakeDoc/goodneighbor/internal/repository"
	"github.com/MrSnakeDoc/goodneighbor/internal/service"
	"github.com/MrSnakeDoc/goodneighbor/internal/sources/homepage"
	"github.com/MrSnakeDoc/goodneighbor/internal/storage"
	"github.com/MrSnakeDoc/goodneighbor/internal/validation"
)

type importOptions struct {
	path      string
	services  string
	bookmarks string
}

func newImportCmd() *cobra.Command {
	var opts importOptions
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import gethomepage services and bookmarks as shortcut widgets",
		Long: `Reads gethomepage services.yaml and/or bookmarks.yaml and appends one
shortcut widget per link to the default homepage. Links already present
are skipped, so the command can be run repeatedly.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.path == "" {
				opts.path = config.Load().StoragePath
			}
			return runImport(cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().StringVarP(&opts.path, "path", "p", "", "storage file (default: $GN_STORAGE_PATH or storage.yaml)")
	cmd.Flags().StringVar(&opts.services, "services", "", "gethomepage services.yaml")
	cmd.Flags().StringVar(&opts.bookmarks, "bookmarks", "", "gethomepage bookmarks.yaml")
	cmd.MarkFlagsOneRequired("services", "bookmarks")
	return cmd
}

func runImport(out io.Writer, opts importOptions) error {
	var entries []homepage.Entry
	if opts.services != "" {
		cfg, err := homepage.LoadServices(opts.services)
		if err != nil {
			return err
		}
		entries = append(entries, homepage.ServiceEntries(cfg)...)
	}
	if opts.bookmarks != "" {
		cfg, err := homepage.LoadBookmarks(opts.bookmarks)
		if err != nil {
			return err
		}
		entries = append(entries, homepage.BookmarkEntries(cfg)...)
	}
	if len(entries) == 0 {
		return errors.New("no importable links found")
	}

	engine := storage.New(opts.path, logger.Nop())
	if err := engine.Load(); err != nil {
		return err
	}
	svc := service.New(repository.NewRepositories(engine))
	res, err := homepage.NewImporter(svc, validation.Default(), logger.Nop()).Import(entries)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "homepage %s: %d created, %d already present, %d invalid\n",
		res.HomepageID, res.Created, res.Skipped, res.Invalid)
	return engine.Close()
}
