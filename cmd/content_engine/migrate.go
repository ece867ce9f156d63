package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kdjkdj1234567890-bit/content-engine/internal/db"
)

var migratePurgeDays int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	Long: `Create the usage and generations tables in DATABASE_URL if they do not exist.
With --purge-days, usage counters older than that many days are deleted afterwards.`,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().IntVar(&migratePurgeDays, "purge-days", 0, "Delete usage counters older than this many days")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	if migratePurgeDays < 0 {
		return fmt.Errorf("--purge-days must not be negative")
	}
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	ctx := cmd.Context()
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.Migrate(ctx); err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Schema is up to date")

	if migratePurgeDays > 0 {
		cutoff := db.UTCDay(time.Now()).AddDate(0, 0, -migratePurgeDays)
		n, err := database.PurgeUsageBefore(ctx, cutoff)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Purged %d usage rows before %s\n", n, db.DayKey(cutoff))
	}
	return nil
}
