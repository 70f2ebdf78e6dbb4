package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/tbourn/go-wellbeing-backend/internal/config"
	"github.com/tbourn/go-wellbeing-backend/internal/repo"
	"github.com/tbourn/go-wellbeing-backend/internal/sysutil"
)

type globalOpts struct {
	driver string
	dsn    string
	json   bool
	level  string
}

func newRootCmd() *cobra.Command {
	g := &globalOpts{}
	root := &cobra.Command{
		Use:          "wellbeingctl",
		Short:        "Operate the wellbeing backend",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			sysutil.SetupLogging(g.level, true, "wellbeingctl", cmd.ErrOrStderr())
		},
	}

	root.PersistentFlags().StringVar(&g.driver, "driver", "", "database driver (sqlite|postgres); defaults to DB_DRIVER")
	root.PersistentFlags().StringVar(&g.dsn, "dsn", "", "SQLite path or Postgres URL; defaults to DB_PATH / DATABASE_URL")
	root.PersistentFlags().BoolVar(&g.json, "json", false, "print JSON instead of text")
	root.PersistentFlags().StringVar(&g.level, "log-level", "warn", "log level")

	root.AddCommand(
		migrateCmd(g),
		blacklistCmd(g),
		applicationsCmd(g),
		checkCmd(g),
		scoreCmd(g),
		tokenCmd(g),
		purgeCmd(g),
	)
	return root
}

// openDB resolves the database from flags, falling back to configuration,
// and migrates the schema.
func (g *globalOpts) openDB() (*gorm.DB, error) {
	driver, dsn := g.driver, g.dsn
	if driver == "" || dsn == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		if driver == "" {
			driver = cfg.DB.Driver
		}
		if dsn == "" {
			if driver == cfg.DB.Driver {
				dsn = cfg.DB.DSN()
			} else {
				dsn = (config.DBConfig{Driver: driver, Path: cfg.DB.Path, URL: cfg.DB.URL}).DSN()
			}
		}
	}
	db, err := repo.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// emit prints v as indented JSON when --json is set, otherwise calls text.
func (g *globalOpts) emit(w io.Writer, v any, text func(io.Writer)) error {
	if g.json {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(w)
	return nil
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
