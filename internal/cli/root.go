// Package cli is the sinfopers command line: the API server plus the
// one-shot maintenance commands an operator or scheduler runs.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"sinfopers/internal/config"
	"sinfopers/internal/infrastructure/db"
	"sinfopers/internal/logger"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// runtime carries what every command needs once flags are parsed.
type runtime struct {
	configPath string
	cfg        *config.Config
	out        io.Writer
	// openDB is swapped in tests for an in-memory database.
	openDB func(*config.Config) (*gorm.DB, func(), error)
}

func openMySQL(c *config.Config) (*gorm.DB, func(), error) {
	gdb, err := db.OpenGorm(c.MySQLDSN())
	if err != nil {
		return nil, nil, err
	}
	return gdb, func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}, nil
}

// NewRootCmd builds the command tree. Output goes to out.
func NewRootCmd(out io.Writer) *cobra.Command {
	return newRootCmd(&runtime{out: out, openDB: openMySQL})
}

func newRootCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "sinfopers",
		Short:         "Personnel, staffing and request workflow service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load(rt.configPath)
			if err != nil {
				return err
			}
			if err := c.Validate(); err != nil {
				return fmt.Errorf("config: %w", err)
			}
			rt.cfg = c
			logger.Init(c.LogLevel, c.LogFormat, os.Stderr)
			return nil
		},
	}
	cmd.SetOut(rt.out)
	cmd.PersistentFlags().StringVarP(&rt.configPath, "config", "c", "", "config file (yaml, json or toml); SINFOPERS_* env vars override it")

	cmd.AddCommand(
		newServeCmd(rt),
		newMigrateCmd(rt),
		newSweepCmd(rt),
		newImportCmd(rt),
		newTokenCmd(rt),
	)
	return cmd
}

func (rt *runtime) database() (*gorm.DB, func(), error) {
	gdb, closeFn, err := rt.openDB(rt.cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	return gdb, closeFn, nil
}

// Execute runs the CLI and exits non-zero on error.
func Execute(ctx context.Context) {
	if err := NewRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
