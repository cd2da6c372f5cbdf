package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tilebox/internal/levels"
	"github.com/vovakirdan/tilebox/internal/registry"
	"github.com/vovakirdan/tilebox/internal/scenarios"
	"github.com/vovakirdan/tilebox/internal/scene"
	"github.com/vovakirdan/tilebox/internal/storage"
)

var (
	flagFrames int
	flagDelta  float64
	flagDump   bool
	flagLevel  string
	flagNoSave bool
)

var runCmd = &cobra.Command{
	Use:   "run [scenario]",
	Short: "Simulate a scenario headless",
	Long: `Step a scenario for a fixed number of frames without a terminal UI,
print the final state of every body and record a run summary.

The frame delta defaults to physics.delta_time from the config. A body that
is missing a capability stops the run with an error naming the entity.

Examples:
  tilebox run freefall
  tilebox run ledge --frames 600 --dt 0.005
  tilebox run wall --preset ice --dump
  tilebox run --level ./levels/cave.yaml
  tilebox run --level tower
  tilebox run --level cave --levels ./levels`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().IntVar(&flagFrames, "frames", 300, "Number of frames to simulate")
	runCmd.Flags().Float64Var(&flagDelta, "dt", 0, "Seconds per frame (0 = config delta_time)")
	runCmd.Flags().BoolVar(&flagDump, "dump", false, "Dump full body state after the run")
	runCmd.Flags().StringVar(&flagLevel, "level", "", "Simulate a level file or level ID instead of a registered scenario")
	runCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "Do not record the run")
}

func runRun(cmd *cobra.Command, args []string) error {
	env, err := loadEnv()
	if err != nil {
		return err
	}

	sc, err := scenarioFromArgs(args)
	if err != nil {
		return err
	}

	dt := flagDelta
	if dt <= 0 {
		dt = env.Config.Physics.DeltaTime
	}
	if flagFrames <= 0 {
		return fmt.Errorf("--frames must be positive, got %d", flagFrames)
	}

	sum, err := simulate(sc, env, flagFrames, dt)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d frames at dt=%g (%s)\n", sc.Title(), sum.Frames, dt, sum.Duration.Round(time.Microsecond))
	if sum.SettledFrame >= 0 {
		fmt.Fprintf(out, "settled after frame %d\n", sum.SettledFrame)
	} else {
		fmt.Fprintln(out, "still moving on the last frame")
	}
	if len(sum.Triggers) > 0 {
		fmt.Fprintf(out, "triggers touched: %d\n", len(sum.Triggers))
	}
	fmt.Fprintln(out)
	printBodies(cmd, sum.Bodies)

	if flagDump {
		fmt.Fprintln(out)
		spew.Fdump(out, sum.Bodies)
	}

	if flagNoSave {
		return nil
	}
	store, err := storage.Open(flagDBPath)
	if err != nil {
		env.Logger.Warn("run not recorded", "err", err)
		return nil
	}
	defer store.Close()

	id, err := store.SaveRun(sum.Record(sc.ID(), dt))
	if err != nil {
		env.Logger.Warn("run not recorded", "err", err)
		return nil
	}
	env.Logger.Debug("run recorded", "id", id, "scenario", sc.ID())
	return nil
}

// scenarioFromArgs resolves the scenario named on the command line or by --level.
func scenarioFromArgs(args []string) (registry.Scenario, error) {
	switch {
	case flagLevel != "" && len(args) > 0:
		return nil, fmt.Errorf("give either a scenario or --level, not both")
	case flagLevel != "":
		lvl, err := loadLevel(flagLevel)
		if err != nil {
			return nil, err
		}
		return scenarios.FromLevel(lvl), nil
	case len(args) == 1:
		return lookupScenario(args[0])
	default:
		return nil, fmt.Errorf("no scenario given; run 'tilebox list' to see available scenarios")
	}
}

// loadLevel resolves --level as a file path, then as a level ID under
// --levels, then as a built-in level ID.
func loadLevel(ref string) (levels.Level, error) {
	if _, err := os.Stat(ref); err == nil {
		return levels.LoadFile(ref)
	}
	if flagLevelDir != "" {
		loader := levels.NewLoader(flagLevelDir)
		if lvl, err := loader.LoadByID(ref); err == nil {
			return lvl, nil
		}
		if lvl, err := levels.BuiltinByID(ref); err == nil {
			return lvl, nil
		}
		ids, err := loader.ListIDs()
		if err != nil {
			return levels.Level{}, err
		}
		return levels.Level{}, fmt.Errorf("level %q not found; %s holds: %s", ref, flagLevelDir, strings.Join(ids, ", "))
	}
	lvl, err := levels.BuiltinByID(ref)
	if err != nil {
		return levels.Level{}, fmt.Errorf("%q is neither a level file nor a built-in level ID: %w", ref, err)
	}
	return lvl, nil
}

// runSummary is the outcome of a headless run.
type runSummary struct {
	Frames       int
	SettledFrame int // first frame after which no body moved; -1 if the last frame moved
	Bodies       []scene.BodyState
	Focus        *scene.BodyState
	Triggers     []scene.Trigger
	Duration     time.Duration
}

// Record converts the summary into a run history row.
func (s runSummary) Record(scenarioID string, dt float64) storage.RunRecord {
	r := storage.RunRecord{
		Scenario:     scenarioID,
		Frames:       s.Frames,
		Delta:        dt,
		Bodies:       len(s.Bodies),
		SettledFrame: s.SettledFrame,
		Duration:     s.Duration,
	}
	if s.Focus != nil {
		r.FinalX, r.FinalY = s.Focus.Rect.X, s.Focus.Rect.Y
	}
	return r
}

// simulate builds the scenario and steps it for the given number of frames.
func simulate(sc registry.Scenario, env registry.Env, frames int, dt float64) (runSummary, error) {
	s, err := sc.Build(env)
	if err != nil {
		return runSummary{}, fmt.Errorf("build %s: %w", sc.ID(), err)
	}

	start := time.Now()
	lastMoved := 0
	seen := make(map[scene.Trigger]bool)
	var triggers []scene.Trigger

	for frame := 1; frame <= frames; frame++ {
		res, err := s.Step(dt)
		if err != nil {
			return runSummary{}, fmt.Errorf("frame %d: %w", frame, err)
		}
		if res.Moved {
			lastMoved = frame
		}
		for _, tr := range res.Triggers {
			if !seen[tr] {
				seen[tr] = true
				triggers = append(triggers, tr)
			}
		}
	}

	sum := runSummary{
		Frames:       frames,
		SettledFrame: lastMoved,
		Bodies:       s.Bodies(),
		Triggers:     triggers,
		Duration:     time.Since(start),
	}
	if lastMoved == frames {
		sum.SettledFrame = -1
	}

	for i := range sum.Bodies {
		if sum.Bodies[i].Name == sc.Focus() {
			sum.Focus = &sum.Bodies[i]
		}
	}
	if sum.Focus == nil && len(sum.Bodies) > 0 {
		sum.Focus = &sum.Bodies[0]
	}
	return sum, nil
}

// printBodies writes one line per body.
func printBodies(cmd *cobra.Command, bodies []scene.BodyState) {
	out := cmd.OutOrStdout()
	if len(bodies) == 0 {
		fmt.Fprintln(out, "No bodies in scene.")
		return
	}

	maxName := 4 // "Name" header
	for _, b := range bodies {
		maxName = max(maxName, len(b.Name))
	}

	fmt.Fprintf(out, "  %-*s  %-20s  %-20s  %-10s  %s\n", maxName, "Name", "Position", "Velocity", "Contact", "Grounded")
	fmt.Fprintf(out, "  %-*s  %-20s  %-20s  %-10s  %s\n", maxName, "----", "--------", "--------", "-------", "--------")
	for _, b := range bodies {
		pos := fmt.Sprintf("(%.3f,%.3f)", b.Rect.X, b.Rect.Y)
		fmt.Fprintf(out, "  %-*s  %-20s  %-20s  %-10s  %v\n", maxName, b.Name, pos, b.Velocity, b.Contact, b.Grounded)
	}
}

// exitOnError is used by commands that drive a full-screen program.
func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
