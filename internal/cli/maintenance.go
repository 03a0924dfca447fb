package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"sinfopers/internal/adapter/xlsx"
	"sinfopers/internal/app"
	"sinfopers/internal/domain/identity"
	"sinfopers/internal/infrastructure/auth"
	"sinfopers/internal/infrastructure/db"
	"sinfopers/internal/logger"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func migrateAndSeed(ctx context.Context, gdb *gorm.DB, seed bool) error {
	log := logger.WithComponent("migrate")
	if err := db.Migrate(gdb.WithContext(ctx)); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	log.Info("schema up to date", "tables", len(db.Models()))
	if !seed {
		return nil
	}
	if err := db.Seed(ctx, gdb); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	log.Info("reference data seeded", "units", len(db.DefaultUnits), "ranks", len(db.DefaultRanks))
	return nil
}

func newMigrateCmd(rt *runtime) *cobra.Command {
	var seed bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, closeDB, err := rt.database()
			if err != nil {
				return err
			}
			defer closeDB()
			return migrateAndSeed(cmd.Context(), gdb, seed)
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "also insert the default units and ranks")
	return cmd
}

func newSweepCmd(rt *runtime) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Expire requests left pending past the review window",
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, closeDB, err := rt.database()
			if err != nil {
				return err
			}
			defer closeDB()
			wf := app.NewServices(gdb, app.Options{LeaveEntitlement: rt.cfg.LeaveEntitlement}).Workflow

			now := time.Now()
			if dryRun {
				n, err := wf.CountExpirable(cmd.Context(), now)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d request(s) would expire\n", n)
				return nil
			}
			n, err := wf.SweepExpired(cmd.Context(), now)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d request(s) expired\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "only count what would expire")
	return cmd
}

func newImportCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load data from spreadsheets",
	}
	cmd.AddCommand(newImportPersonnelCmd(rt))
	return cmd
}

func newImportPersonnelCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "personnel <file.xlsx>",
		Short: "Bulk-admit personnel from a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			rows, err := xlsx.ReadPersonnel(f)
			if err != nil {
				return err
			}

			gdb, closeDB, err := rt.database()
			if err != nil {
				return err
			}
			defer closeDB()
			reg := app.NewServices(gdb, app.Options{LeaveEntitlement: rt.cfg.LeaveEntitlement}).Registry

			rep := reg.BulkImport(cmd.Context(), rows)
			out := cmd.OutOrStdout()
			for _, e := range rep.Errors {
				fmt.Fprintf(out, "row %d (NRP %s): %s\n", e.Row, e.NRP, e.Message)
			}
			fmt.Fprintf(out, "%d rows: %d imported, %d failed\n", rep.Total, rep.Succeeded, rep.Failed)
			if rep.Failed > 0 {
				return errors.New("some rows were not imported")
			}
			return nil
		},
	}
	return cmd
}

func newTokenCmd(rt *runtime) *cobra.Command {
	var create string
	cmd := &cobra.Command{
		Use:   "token <username>",
		Short: "Issue an API token for an identity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, closeDB, err := rt.database()
			if err != nil {
				return err
			}
			defer closeDB()
			users := app.NewServices(gdb, app.Options{LeaveEntitlement: rt.cfg.LeaveEntitlement}).Users
			ctx := cmd.Context()

			u, err := users.GetByUsername(ctx, args[0])
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound) && create != "":
				role := identity.Role(create)
				if !role.IsValid() {
					return fmt.Errorf("unknown role %q", create)
				}
				u = &identity.User{Username: args[0], Role: role}
				if err := users.Create(ctx, u); err != nil {
					return err
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				return fmt.Errorf("no identity named %q (use --create <role>)", args[0])
			case err != nil:
				return err
			}

			tok, exp, err := auth.NewJWTService(rt.cfg.JWTSecret, rt.cfg.TokenTTL()).Generate(u)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			logger.WithComponent("token").Info("token issued", "user", u.Username, "role", u.Role, "expires_at", exp)
			return nil
		},
	}
	cmd.Flags().StringVar(&create, "create", "", "create the identity with this role if it does not exist")
	return cmd
}
