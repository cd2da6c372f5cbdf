package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tilebox/internal/platform/tui"
	"github.com/vovakirdan/tilebox/internal/storage"
)

var (
	flagRunsLimit int
	flagRunsTable bool
	flagRunsClear bool
)

var runsCmd = &cobra.Command{
	Use:   "runs [scenario]",
	Short: "Show recorded runs",
	Long: `Show the most recent headless runs, newest first. Without a scenario,
runs of every scenario are listed.

Examples:
  tilebox runs
  tilebox runs freefall --limit 5
  tilebox runs --table
  tilebox runs ledge --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&flagRunsLimit, "limit", 20, "Number of runs to show")
	runsCmd.Flags().BoolVar(&flagRunsTable, "table", false, "Open the interactive run browser")
	runsCmd.Flags().BoolVar(&flagRunsClear, "clear", false, "Delete the recorded runs instead of showing them")
}

func runRuns(cmd *cobra.Command, args []string) error {
	scenario := ""
	if len(args) == 1 {
		scenario = args[0]
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if flagRunsClear {
		n, err := store.ClearRuns(scenario)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d runs.\n", n)
		return nil
	}

	if flagRunsTable {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width = w
			height = h
		}
		_, err := tui.RunRuns(store, width, height)
		return err
	}

	runs, err := store.RecentRuns(scenario, flagRunsLimit)
	if err != nil {
		return err
	}
	return printRuns(cmd, store, scenario, runs)
}

// printRuns writes the run list and, for one scenario, its statistics.
func printRuns(cmd *cobra.Command, store *storage.Store, scenario string, runs []storage.RunRecord) error {
	out := cmd.OutOrStdout()

	title := "Recent runs"
	if scenario != "" {
		title = fmt.Sprintf("Recent runs - %s", scenario)
	}
	fmt.Fprintln(out, title)
	fmt.Fprintln(out)

	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded yet.")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Use 'tilebox run <scenario>' to record one.")
		return nil
	}

	fmt.Fprintf(out, "  %-5s  %-16s  %-7s  %-8s  %-20s  %s\n", "ID", "Scenario", "Frames", "Settled", "Final", "Date")
	fmt.Fprintf(out, "  %-5s  %-16s  %-7s  %-8s  %-20s  %s\n", "--", "--------", "------", "-------", "-----", "----")
	for _, r := range runs {
		settled := "-"
		if r.Settled() {
			settled = fmt.Sprintf("%d", r.SettledFrame)
		}
		final := fmt.Sprintf("(%.3f,%.3f)", r.FinalX, r.FinalY)
		fmt.Fprintf(out, "  %-5d  %-16s  %-7d  %-8s  %-20s  %s\n",
			r.ID, r.Scenario, r.Frames, settled, final, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	if scenario == "" {
		return nil
	}
	stats, err := store.ScenarioStats(scenario)
	if err != nil {
		return err
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Runs: %d  Settled: %d", stats.Runs, stats.SettledRuns)
	if stats.SettledRuns > 0 {
		fmt.Fprintf(out, "  Avg settle frame: %.1f", stats.AvgSettled)
	}
	fmt.Fprintln(out)
	return nil
}
