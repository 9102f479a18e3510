// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/PEswaran/tether-tasks-management-sub000/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [up|down|status|check] [version]",
	Short: "Run database migrations",
	Long:  `Apply, roll back or inspect the embedded schema migrations`,
	Args:  validateMigrateArgs,
	Run:   runMigrate,
}

func validateMigrateArgs(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return nil
	}
	if err := cobra.RangeArgs(0, 2)(cmd, args); err != nil {
		return err
	}

	switch args[0] {
	case "up", "down", "status", "check":
	default:
		return fmt.Errorf("unknown migration command: %q", args[0])
	}

	// A target version is only meaningful for "down".
	if len(args) == 2 {
		if args[0] != "down" {
			return fmt.Errorf("%q does not take a version argument", args[0])
		}
		if version, err := strconv.Atoi(args[1]); err != nil || version < 0 {
			return fmt.Errorf("invalid target version: %q", args[1])
		}
	}

	return nil
}

func runMigrate(cmd *cobra.Command, args []string) {
	command := "up"
	if len(args) > 0 {
		command = args[0]
	}

	targetVersion := -1
	if len(args) > 1 {
		targetVersion, _ = strconv.Atoi(args[1])
	}

	dsn, _ := cmd.Flags().GetString("dsn")
	format, _ := cmd.Flags().GetString("format")

	if err := migrate(cmd, dsn, command, format, targetVersion); err != nil {
		cmd.PrintErr(err)
		os.Exit(1)
	}
}

func init() {
	migrateCmd.Flags().String("dsn", "", "PostgreSQL DSN connection string")
	migrateCmd.Flags().StringP("format", "f", "text", "Output format (text or json)")
	_ = migrateCmd.MarkFlagRequired("dsn")

	rootCmd.AddCommand(migrateCmd)
}

func migrate(cmd *cobra.Command, dsn, command, format string, targetVersion int) error {
	config, err := pgx.ParseConfig(dsn)
	if err != nil {
		return fmt.Errorf("invalid dsn: %v", err)
	}

	db := stdlib.OpenDB(*config)
	if err := db.PingContext(cmd.Context()); err != nil {
		return fmt.Errorf("database unreachable: %v", err)
	}

	var opts []goose.ProviderOption
	if format == "json" {
		opts = append(opts, goose.WithLogger(goose.NopLogger()))
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.EmbedMigrations, opts...)
	if err != nil {
		return fmt.Errorf("failed to create goose provider: %w", err)
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	switch command {
	case "up":
		return migrateUp(ctx, provider, format, out)
	case "down":
		return migrateDown(ctx, provider, targetVersion, format, out)
	case "status":
		return migrateStatus(ctx, provider, format, out)
	case "check":
		return migrateCheck(ctx, provider, format, out)
	}

	return nil
}

func migrateUp(ctx context.Context, provider *goose.Provider, format string, out io.Writer) error {
	results, err := provider.Up(ctx)
	if err != nil {
		return err
	}
	return printResults(results, format, out)
}

func migrateDown(ctx context.Context, provider *goose.Provider, targetVersion int, format string, out io.Writer) error {
	var results []*goose.MigrationResult
	var err error

	// Without a target the rollback undoes a single migration.
	if targetVersion == -1 {
		var result *goose.MigrationResult
		result, err = provider.Down(ctx)
		if err == nil {
			results = append(results, result)
		}
	} else {
		results, err = provider.DownTo(ctx, int64(targetVersion))
	}
	if err != nil {
		return err
	}

	return printResults(results, format, out)
}

func printResults(results []*goose.MigrationResult, format string, out io.Writer) error {
	if format != "json" {
		return nil
	}
	if results == nil {
		results = []*goose.MigrationResult{}
	}
	return json.NewEncoder(out).Encode(map[string]interface{}{
		"applied": results,
	})
}

func migrateStatus(ctx context.Context, provider *goose.Provider, format string, out io.Writer) error {
	statuses, err := provider.Status(ctx)
	if err != nil {
		return err
	}
	if format == "json" {
		return json.NewEncoder(out).Encode(statuses)
	}

	log.Println("    Applied At                  Migration")
	log.Println("    =======================================")
	for _, s := range statuses {
		appliedAt := "Pending"
		if s.State == goose.StateApplied {
			appliedAt = s.AppliedAt.Format(time.RFC3339)
		}
		log.Printf("    %-24s -- %s\n", appliedAt, s.Source.Path)
	}
	return nil
}

// migrateCheck exits non-zero when migrations are pending, for use as a
// deployment gate.
func migrateCheck(ctx context.Context, provider *goose.Provider, format string, out io.Writer) error {
	hasPending, err := provider.HasPending(ctx)
	if err != nil {
		return fmt.Errorf("failed to check pending migrations: %w", err)
	}

	current, versionErr := provider.GetDBVersion(ctx)

	if hasPending {
		if versionErr != nil {
			return fmt.Errorf("migrations are pending (failed to get current version: %v)", versionErr)
		}
		if format == "json" {
			return json.NewEncoder(out).Encode(map[string]interface{}{
				"status":  "pending",
				"version": current,
			})
		}
		return fmt.Errorf("migrations are pending: current version %d", current)
	}

	if format == "json" {
		status := "ok"
		if versionErr != nil {
			status = "unknown"
		}
		return json.NewEncoder(out).Encode(map[string]interface{}{
			"status":  status,
			"version": current,
		})
	}

	if versionErr != nil {
		fmt.Fprintln(out, "Database is up to date")
	} else {
		fmt.Fprintf(out, "Database is up to date (version %d)\n", current)
	}
	return nil
}
