// tilebox runs rectangle physics scenarios headless or in a terminal viewer.
//
// Usage:
//
//	tilebox list                 - List registered scenarios
//	tilebox run <scenario>       - Simulate a scenario headless and record the run
//	tilebox run --level f.yaml   - Simulate a level file
//	tilebox view [scenario]      - Watch a scenario live (menu when omitted)
//	tilebox runs [scenario]      - Show recorded runs
//	tilebox config               - Print the effective config
//
// Global flags:
//
//	--config <path>     - Config YAML (default: ~/.tilebox/config.yaml, ./configs/tilebox.yaml)
//	--db <path>         - Run history database (default: ~/.tilebox/runs.db)
//	--log-level <lvl>   - debug, info, warn or error
//	--preset <name>     - Physics preset applied over the config
//	--levels <dir>      - Also register every level file under dir as level/<id>
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tilebox/internal/config"
	"github.com/vovakirdan/tilebox/internal/registry"
	"github.com/vovakirdan/tilebox/internal/scenarios"
)

var (
	// Global flags
	flagConfig   string
	flagDBPath   string
	flagLogLevel string
	flagPreset   string
	flagLevelDir string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tilebox",
	Short: "tilebox - rectangle physics on a chunked tile grid",
	Long: `tilebox simulates axis-aligned bodies moving through tile grids and
rectangle colliders, either headless or in a live terminal viewer.

Available commands:
  list   - Show all registered scenarios
  run    - Simulate a scenario headless and record the run
  view   - Watch a scenario in the terminal
  runs   - Show recorded runs
  config - Print the effective config

Examples:
  tilebox list
  tilebox run freefall --frames 120
  tilebox run --level ./levels/cave.yaml --dump
  tilebox view wall --preset ice
  tilebox runs freefall --table
  tilebox list --levels ./levels`,
	SilenceUsage: true,
	PersistentPreRunE: func(*cobra.Command, []string) error {
		return registerLevelDir()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.tilebox/runs.db", "Path to run history database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagPreset, "preset", "", "Physics preset: default, moon, heavy, ice, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLevelDir, "levels", "", "Directory of level files to register as level/<id>")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(configCmd)
}

// registerLevelDir adds the levels under --levels to the registry.
func registerLevelDir() error {
	if flagLevelDir == "" {
		return nil
	}
	if _, err := scenarios.RegisterDir(flagLevelDir); err != nil {
		return fmt.Errorf("--levels: %w", err)
	}
	return nil
}

// newLogger builds the process logger from --log-level.
func newLogger() (*log.Logger, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "tilebox",
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level: %w", err)
	}
	logger.SetLevel(level)
	return logger, nil
}

// loadEnv loads configuration, applies --preset and builds the scenario environment.
func loadEnv() (registry.Env, error) {
	logger, err := newLogger()
	if err != nil {
		return registry.Env{}, err
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return registry.Env{}, err
	}

	if flagPreset != "" {
		preset, err := config.ParsePreset(flagPreset)
		if err != nil {
			return registry.Env{}, err
		}
		config.ApplyPreset(&cfg, preset)
		if err := cfg.Validate(); err != nil {
			return registry.Env{}, err
		}
	}

	logger.Debug("config loaded", "path", flagConfig, "preset", flagPreset, "tie_break", cfg.Physics.TieBreak)
	return registry.Env{Config: cfg, Logger: logger}, nil
}

// lookupScenario creates a registered scenario or explains how to find one.
func lookupScenario(id string) (registry.Scenario, error) {
	if !registry.Exists(id) {
		return nil, fmt.Errorf("unknown scenario %q; run 'tilebox list' to see available scenarios", id)
	}
	return registry.Create(id)
}
