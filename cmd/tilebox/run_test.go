package main

import (
	"bytes"
	"io"
	"math"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tilebox/internal/config"
	"github.com/vovakirdan/tilebox/internal/registry"
	"github.com/vovakirdan/tilebox/internal/scenarios"
	"github.com/vovakirdan/tilebox/internal/storage"
)

func testEnv() registry.Env {
	return registry.Env{Config: config.DefaultConfig(), Logger: log.New(io.Discard)}
}

func TestSimulateFreefall(t *testing.T) {
	sc, err := lookupScenario("freefall")
	if err != nil {
		t.Fatalf("lookupScenario: %v", err)
	}

	sum, err := simulate(sc, testEnv(), 50, 0.1)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if sum.Focus == nil || sum.Focus.Name != scenarios.PlayerName {
		t.Fatalf("focus = %+v", sum.Focus)
	}

	rest := scenarios.FloorTop - config.DefaultConfig().Player.Height
	if math.Abs(sum.Focus.Rect.Y-rest) > 1e-9 {
		t.Errorf("final y = %v, expected %v", sum.Focus.Rect.Y, rest)
	}
	if sum.SettledFrame <= 0 || sum.SettledFrame >= 50 {
		t.Errorf("SettledFrame = %d, expected a frame inside the run", sum.SettledFrame)
	}

	rec := sum.Record(sc.ID(), 0.1)
	if rec.Scenario != "freefall" || rec.Frames != 50 || rec.Bodies != 1 || rec.FinalY != sum.Focus.Rect.Y {
		t.Errorf("Record() = %+v", rec)
	}
}

func TestSimulateStillMoving(t *testing.T) {
	sc, _ := lookupScenario("freefall")
	sum, err := simulate(sc, testEnv(), 3, 0.1)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if sum.SettledFrame != -1 {
		t.Errorf("SettledFrame = %d while still falling, expected -1", sum.SettledFrame)
	}
}

func TestSimulateIntroTriggers(t *testing.T) {
	sc, err := lookupScenario(scenarios.LevelID("intro"))
	if err != nil {
		t.Fatalf("lookupScenario: %v", err)
	}
	sum, err := simulate(sc, testEnv(), 10, 1.0/60)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if len(sum.Bodies) < 2 {
		t.Errorf("intro bodies = %d, expected player and coins", len(sum.Bodies))
	}
}

func TestLookupUnknownScenario(t *testing.T) {
	if _, err := lookupScenario("no-such-thing"); err == nil || !strings.Contains(err.Error(), "tilebox list") {
		t.Errorf("lookupScenario error = %v", err)
	}
}

func TestScenarioFromArgs(t *testing.T) {
	dir := levelTestdata()
	levelFile := filepath.Join(dir, "a_flat.yaml")

	tests := []struct {
		name     string
		level    string
		levelDir string
		args     []string
		wantID   string
		wantErr  bool
	}{
		{"registered", "", "", []string{"ledge"}, "ledge", false},
		{"level file", levelFile, "", nil, scenarios.LevelID("flat"), false},
		{"built-in level id", "tower", "", nil, scenarios.LevelID("tower"), false},
		{"level id under --levels", "box", dir, nil, scenarios.LevelID("box"), false},
		{"built-in id with --levels", "intro", dir, nil, scenarios.LevelID("intro"), false},
		{"unknown id under --levels", "cave", dir, nil, "", true},
		{"both", levelFile, "", []string{"ledge"}, "", true},
		{"neither", "", "", nil, "", true},
		{"missing file", "does-not-exist.yaml", "", nil, "", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			flagLevel, flagLevelDir = tc.level, tc.levelDir
			defer func() { flagLevel, flagLevelDir = "", "" }()

			sc, err := scenarioFromArgs(tc.args)
			if tc.wantErr {
				if err == nil {
					t.Error("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("scenarioFromArgs: %v", err)
			}
			if sc.ID() != tc.wantID {
				t.Errorf("ID() = %q, expected %q", sc.ID(), tc.wantID)
			}
		})
	}
}

func TestLoadLevelNamesKnownIDs(t *testing.T) {
	flagLevelDir = levelTestdata()
	defer func() { flagLevelDir = "" }()

	_, err := loadLevel("cave")
	if err == nil {
		t.Fatal("expected an error for an unknown level ID")
	}
	for _, id := range []string{"box", "flat"} {
		if !strings.Contains(err.Error(), id) {
			t.Errorf("error %q should list %s", err, id)
		}
	}
}

func TestRegisterLevelDir(t *testing.T) {
	flagLevelDir = levelTestdata()
	defer func() { flagLevelDir = "" }()

	if err := registerLevelDir(); err != nil {
		t.Fatalf("registerLevelDir: %v", err)
	}
	// A second pass keeps the first registrations.
	if err := registerLevelDir(); err != nil {
		t.Fatalf("second registerLevelDir: %v", err)
	}

	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	runList(cmd, nil)
	for _, id := range []string{scenarios.LevelID("flat"), scenarios.LevelID("box")} {
		if !strings.Contains(buf.String(), id) {
			t.Errorf("list output missing %s", id)
		}
	}

	sc, err := lookupScenario(scenarios.LevelID("box"))
	if err != nil {
		t.Fatalf("lookupScenario: %v", err)
	}
	if _, err := simulate(sc, testEnv(), 5, 1.0/60); err != nil {
		t.Errorf("simulate: %v", err)
	}
}

func TestRegisterLevelDirMissing(t *testing.T) {
	flagLevelDir = filepath.Join(t.TempDir(), "nope")
	defer func() { flagLevelDir = "" }()

	if err := registerLevelDir(); err == nil || !strings.Contains(err.Error(), "--levels") {
		t.Errorf("registerLevelDir error = %v", err)
	}
}

func TestPrintConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	config.ApplyPreset(&cfg, config.PresetMoon)

	var buf bytes.Buffer
	if err := printConfig(&buf, cfg); err != nil {
		t.Fatalf("printConfig: %v", err)
	}
	if !strings.Contains(buf.String(), "physics:") {
		t.Errorf("output is not config YAML:\n%s", buf.String())
	}

	back, err := config.Parse(buf.Bytes())
	if err != nil {
		t.Fatalf("Parse(printConfig output): %v", err)
	}
	if back.Physics.Gravity != cfg.Physics.Gravity || back.Physics.TieBreak != cfg.Physics.TieBreak {
		t.Errorf("physics = %+v, expected %+v", back.Physics, cfg.Physics)
	}
}

// levelTestdata returns the level fixtures of the levels package.
func levelTestdata() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "internal", "levels", "testdata", "levels")
}

func TestPrintRuns(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	defer store.Close()

	if _, err := store.SaveRun(storage.RunRecord{Scenario: "freefall", Frames: 50, SettledFrame: 9, FinalY: 8.4}); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	runs, err := store.RecentRuns("freefall", 10)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}

	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	if err := printRuns(cmd, store, "freefall", runs); err != nil {
		t.Fatalf("printRuns: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Recent runs - freefall", "(0.000,8.400)", "Runs: 1  Settled: 1", "Avg settle frame: 9.0"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestListOutput(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	runList(cmd, nil)

	for _, id := range []string{"freefall", "ledge", "wall", "level/intro"} {
		if !strings.Contains(buf.String(), id) {
			t.Errorf("list output missing %s", id)
		}
	}
}
