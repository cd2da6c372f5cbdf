package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tilebox/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all registered scenarios",
	Long: `Shows every scenario registered with tilebox, including one per built-in
level and one per level file under --levels.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, _ []string) {
	out := cmd.OutOrStdout()
	infos := registry.List()

	if len(infos) == 0 {
		fmt.Fprintln(out, "No scenarios available.")
		return
	}

	fmt.Fprintln(out, "Available scenarios:")
	fmt.Fprintln(out)

	maxIDLen := 2 // "ID" header
	for _, info := range infos {
		maxIDLen = max(maxIDLen, len(info.ID))
	}

	fmt.Fprintf(out, "  %-*s  %s\n", maxIDLen, "ID", "Title")
	fmt.Fprintf(out, "  %-*s  %s\n", maxIDLen, "--", "-----")
	for _, info := range infos {
		fmt.Fprintf(out, "  %-*s  %s\n", maxIDLen, info.ID, info.Title)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Run 'tilebox run <id>' or 'tilebox view <id>'.")
}
