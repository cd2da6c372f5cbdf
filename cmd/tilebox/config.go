package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tilebox/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective config",
	Long: `Print the configuration tilebox would run with, as YAML: the config
file (or the defaults) with --preset applied. The output is a valid
--config file.

Examples:
  tilebox config
  tilebox config --preset moon > moon.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := loadEnv()
		if err != nil {
			return err
		}
		return printConfig(cmd.OutOrStdout(), env.Config)
	},
}

func printConfig(w io.Writer, cfg config.Config) error {
	data, err := config.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, string(data))
	return err
}
