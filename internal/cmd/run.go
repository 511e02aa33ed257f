package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/talgya/contagion/internal/report"
	"github.com/talgya/contagion/internal/steward"
)

var (
	runDays      int
	runAutopilot bool
	runQuiet     bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Play a session headlessly",
	Long: `Run advances a session day by day in the terminal until it is won,
lost, or the day limit is reached. With --autopilot the rule-based steward
picks one intervention before each day.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().IntVar(&runDays, "days", 0, "stop after this many days (0 plays to the end)")
	runCmd.Flags().BoolVar(&runAutopilot, "autopilot", false, "let the steward choose interventions")
	runCmd.Flags().BoolVarP(&runQuiet, "quiet", "q", false, "print only the final report")
}

func runRun(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("days") {
		cfg.Game.MaxDays = runDays
	}
	if runAutopilot {
		cfg.Steward.Enabled = true
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess, db, err := startSession(cfg)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	var st *steward.Steward
	if cfg.Steward.Enabled {
		st = steward.NewLocal(sess)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, report.Regions(sess.AllRegionStats()))

	for !sess.CheckEndCondition().Over() {
		if cfg.Game.MaxDays > 0 && sess.Day() > cfg.Game.MaxDays {
			break
		}
		if ctx.Err() != nil {
			slog.Info("run interrupted", "day", sess.Day())
			break
		}
		if st != nil {
			if _, err := st.Cycle(ctx); err != nil {
				slog.Warn("steward cycle failed", "day", sess.Day(), "error", err)
			}
		}
		snap, err := sess.AdvanceDay()
		if err != nil {
			return err
		}
		if !runQuiet {
			fmt.Fprintln(out, report.Day(snap, firedOn(sess, snap.Day-1)))
		}
	}

	history := sess.History()
	fmt.Fprintln(out, report.Regions(sess.AllRegionStats()))
	fmt.Fprintln(out, report.Outcome(sess.CheckEndCondition(), history[len(history)-1]))
	if st != nil {
		fmt.Fprintln(out, st.Memory.Summary())
	}
	return nil
}
