package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/talgya/contagion/internal/engine"
	"github.com/talgya/contagion/internal/events"
	"github.com/talgya/contagion/internal/report"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List every intervention and event",
	Long: `Catalog prints the intervention catalog with costs scaled for the
configured difficulty, followed by the random event catalog.`,
	Args: cobra.NoArgs,
	RunE: runCatalog,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}

func runCatalog(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, report.Interventions(engine.CatalogFor(cfg.Difficulty())))
	fmt.Fprintln(out)
	fmt.Fprintln(out, report.Events(events.Catalog()))
	return nil
}
