package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/talgya/contagion/internal/report"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List archived sessions",
	Args:  cobra.NoArgs,
	RunE:  runRuns,
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 20, "number of sessions to show")
}

func runRuns(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.Archive.Enabled {
		return errors.New("the run archive is disabled (archive.enabled)")
	}
	db, err := openArchive(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	rows, err := db.Sessions(runsLimit)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), report.Runs(rows, time.Now()))
	return nil
}
