package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rpggio/arranger/internal/config"
	"github.com/rpggio/arranger/internal/domain/project"
	"github.com/rpggio/arranger/internal/logging"
	"github.com/rpggio/arranger/internal/sqlite"
	"github.com/spf13/cobra"
)

var Version = "dev"

// options holds the persistent flags and the store opened from them.
type options struct {
	dbPath   string
	tenant   string
	logLevel string

	db       *sqlite.DB
	projects *project.Service
	keys     *sqlite.APIKeyRepository
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	defaults := config.Default()
	if cfg, err := config.Load(); err == nil {
		defaults = cfg
	}

	rootCmd := &cobra.Command{
		Use:   "arrangectl",
		Short: "Inspect and move arranger projects",
		Long: `arrangectl works directly on the arranger database.

It lists projects, prints their track layout, and moves arrangement
documents in and out as YAML.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.open(cmd.ErrOrStderr())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return opts.close()
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.dbPath, "db", defaults.DB.Path,
		"Path to the arranger SQLite database")
	rootCmd.PersistentFlags().StringVarP(&opts.tenant, "tenant", "t", "default",
		"Tenant owning the projects")
	rootCmd.PersistentFlags().StringVarP(&opts.logLevel, "log-level", "l", "warn",
		"Log level written to stderr (debug, info, warn, error)")

	rootCmd.AddCommand(
		newProjectsCmd(opts),
		newCreateCmd(opts),
		newShowCmd(opts),
		newExportCmd(opts),
		newImportCmd(opts),
		newKeysCmd(opts),
	)
	return rootCmd
}

func (o *options) open(logOut io.Writer) error {
	db, err := sqlite.New(o.dbPath)
	if err != nil {
		return err
	}
	if err := db.RunMigrations(); err != nil {
		db.Close()
		return err
	}
	logger := logging.New(logOut, o.logLevel)
	o.db = db
	o.projects = project.NewService(sqlite.NewProjectRepository(db), logger)
	o.keys = sqlite.NewAPIKeyRepository(db)
	return nil
}

func (o *options) close() error {
	if o.db == nil {
		return nil
	}
	return o.db.Close()
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
