package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tilebox/internal/core"
	"github.com/vovakirdan/tilebox/internal/platform/tui"
	"github.com/vovakirdan/tilebox/internal/registry"
	"github.com/vovakirdan/tilebox/internal/storage"
)

var flagFPS int

var viewCmd = &cobra.Command{
	Use:   "view [scenario]",
	Short: "Watch a scenario in the terminal",
	Long: `Run a scenario live in the terminal. Without a scenario, a menu lists
every registered scenario; leaving the viewer returns to it.

Controls:
  Left/Right, A/D  - Push the focus body
  Space/Up/W       - Jump (only when standing on something)
  P                - Pause / resume
  N                - Advance one frame while paused
  R                - Rebuild the scenario
  Esc/B            - Back to menu
  Q/Ctrl+C         - Quit

Examples:
  tilebox view
  tilebox view ledge
  tilebox view level/tower --fps 30`,
	Args: cobra.MaximumNArgs(1),
	Run:  runView,
}

func init() {
	viewCmd.Flags().IntVar(&flagFPS, "fps", 0, "Tick rate (0 = config viewer.tick_rate)")
}

func runView(_ *cobra.Command, args []string) {
	env, err := loadEnv()
	exitOnError(err)

	// Get terminal size
	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	tickRate := flagFPS
	if tickRate <= 0 {
		tickRate = env.Config.Viewer.TickRate
	}
	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: tickRate,
	}
	palette := tui.DefaultPalette()

	// Direct mode: one scenario, menu only if the user backs out
	if len(args) == 1 {
		sc, err := lookupScenario(args[0])
		exitOnError(err)

		goBack, err := tui.RunViewer(sc, env, palette, cfg)
		exitOnError(err)
		if !goBack {
			return
		}
	}

	// Menu loop
	for {
		menuResult, err := tui.RunMenu(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}
		cfg = menuResult.Config

		if menuResult.Quit {
			break
		}

		if menuResult.WantsRuns {
			store, err := storage.Open(flagDBPath)
			if err != nil {
				env.Logger.Warn("could not open run history", "err", err)
				store = nil
			}
			goBack, runsErr := tui.RunRuns(store, cfg.ScreenW, cfg.ScreenH)
			if store != nil {
				store.Close()
			}
			if runsErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", runsErr)
			}
			if goBack {
				continue
			}
			break
		}

		sc, err := registry.Create(menuResult.ScenarioID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating scenario: %v\n", err)
			continue
		}

		goBack, err := tui.RunViewer(sc, env, palette, cfg)
		if err != nil {
			// The viewer already showed the error; keep it visible after the alt screen closes.
			env.Logger.Error("simulation stopped", "scenario", sc.ID(), "err", err)
		}
		if !goBack {
			break
		}
	}
}
