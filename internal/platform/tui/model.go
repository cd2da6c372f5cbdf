package tui

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/yohamta/donburi"

	"github.com/vovakirdan/tilebox/internal/core"
	"github.com/vovakirdan/tilebox/internal/registry"
	"github.com/vovakirdan/tilebox/internal/scene"
)

// maxFrameDelta caps the wall-clock delta of one viewer frame, in seconds.
const maxFrameDelta = 0.25

// ViewerModel is the Bubble Tea model that runs a scenario live.
type ViewerModel struct {
	scenario registry.Scenario
	env      registry.Env
	scene    *scene.Scene
	focus    donburi.Entity
	hasFocus bool

	screen  *core.Screen
	camera  Camera
	palette *Palette
	config  core.RuntimeConfig
	keys    ViewerKeyMap
	help    help.Model
	input   core.InputFrame

	lastTick time.Time
	last     scene.StepResult
	paused   bool
	stepOnce bool
	err      error
	quitting bool
	back     bool
}

// NewViewerModel builds the scenario and returns a viewer for it.
func NewViewerModel(sc registry.Scenario, env registry.Env, pal *Palette, cfg core.RuntimeConfig) (ViewerModel, error) {
	if pal == nil {
		pal = DefaultPalette()
	}
	m := ViewerModel{
		scenario: sc,
		env:      env,
		screen:   core.NewScreen(cfg.ScreenW, viewHeight(cfg.ScreenH)),
		camera: NewCamera(env.Config.Viewer.ColsPerUnit, env.Config.Viewer.RowsPerUnit,
			cfg.ScreenW, viewHeight(cfg.ScreenH)),
		palette: pal,
		config:  cfg,
		keys:    DefaultViewerKeyMap(),
		help:    help.New(),
		input:   core.NewInputFrame(),
	}
	m.help.Width = cfg.ScreenW
	if err := m.rebuild(); err != nil {
		return m, err
	}
	return m, nil
}

// viewHeight leaves the last terminal row for the help line.
func viewHeight(h int) int {
	return max(h-1, 1)
}

// rebuild creates a fresh scene from the scenario.
func (m *ViewerModel) rebuild() error {
	s, err := m.scenario.Build(m.env)
	if err != nil {
		return fmt.Errorf("tui: build %s: %w", m.scenario.ID(), err)
	}
	m.scene = s
	m.focus, m.hasFocus = s.Find(m.scenario.Focus())
	m.last = scene.StepResult{}
	m.lastTick = time.Time{}
	m.err = nil
	m.follow()
	return nil
}

// follow centers the camera on the focus body, or on the tile layers when
// there is none.
func (m *ViewerModel) follow() {
	if m.hasFocus {
		if r, ok := m.scene.RectOf(m.focus); ok {
			m.camera.Follow(r)
			return
		}
	}
	for _, g := range m.scene.Grids() {
		if b, ok := g.Bounds(); ok {
			m.camera.Follow(b)
			return
		}
	}
}

// Init starts the tick loop.
func (m ViewerModel) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m ViewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, viewHeight(msg.Height))
		m.camera.Resize(msg.Width, viewHeight(msg.Height))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

// handleKey processes keyboard input. Movement is queued for the next tick;
// viewer controls act immediately.
func (m ViewerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch action := m.keys.MapKey(msg); action {
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit
	case core.ActionBack:
		m.back = true
		return m, tea.Quit
	case core.ActionPause:
		m.paused = !m.paused
		m.lastTick = time.Time{}
		m.scene.ResetClock()
	case core.ActionStep:
		if m.paused {
			m.stepOnce = true
		}
	case core.ActionRestart:
		wasStopped := m.err != nil
		if err := m.rebuild(); err != nil {
			m.err = err
			return m, nil
		}
		if wasStopped {
			return m, tickCmd(m.config.TickRate)
		}
	case core.ActionNone:
	default:
		m.input.Set(action)
	}
	return m, nil
}

// handleTick advances the scene by the time elapsed since the previous tick.
// The loop stops once the scene reports an error.
func (m ViewerModel) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	if m.err != nil {
		return m, nil
	}

	dt := m.config.FrameDelta()
	if !m.lastTick.IsZero() {
		dt = min(now.Sub(m.lastTick).Seconds(), maxFrameDelta)
	}
	m.lastTick = now

	if m.paused && !m.stepOnce {
		m.input.Clear()
		return m, tickCmd(m.config.TickRate)
	}
	if m.stepOnce {
		dt = m.config.FrameDelta()
		m.stepOnce = false
	}

	if err := m.advance(dt); err != nil {
		m.err = err
		return m, nil
	}
	return m, tickCmd(m.config.TickRate)
}

// advance applies queued input to the focus body and steps the scene once.
func (m *ViewerModel) advance(dt float64) error {
	m.steer()
	m.input.Clear()

	res, err := m.scene.Step(dt)
	if err != nil {
		return err
	}
	m.last = res
	m.follow()
	return nil
}

// steer turns movement actions into velocity changes on the focus body.
func (m *ViewerModel) steer() {
	if !m.hasFocus {
		return
	}
	b, ok := m.scene.Body(m.focus)
	if !ok {
		return
	}
	speed := m.env.Config.Player.MoveSpeed
	switch {
	case m.input.Has(core.ActionLeft):
		b.Velocity.X = -speed
	case m.input.Has(core.ActionRight):
		b.Velocity.X = speed
	}
	if m.input.Has(core.ActionJump) && b.Grounded() {
		b.Velocity.Y = -m.env.Config.Player.JumpSpeed
	}
}

var (
	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("9")).
			Padding(1, 2)
	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// View renders the current state to a string for display.
func (m ViewerModel) View() string {
	if m.quitting || m.back {
		return ""
	}

	if m.err != nil {
		return errorStyle.Render(describeError(m.err)) + "\n" +
			helpStyle.Render("r restart  q quit")
	}

	DrawScene(m.screen, m.scene, m.camera, m.palette)
	DrawHUD(m.screen, m.hud()...)

	return RenderScreen(m.screen) + "\n" + helpStyle.Render(m.help.View(m.keys))
}

// hud returns the header lines: scenario title, clock state and focus body.
func (m ViewerModel) hud() []string {
	state := "running"
	if m.Paused() {
		state = "paused"
	}
	lines := []string{fmt.Sprintf("%s [%s]  tie-break %s", m.scenario.Title(), state, m.scene.TieBreak())}
	if !m.hasFocus {
		return lines
	}
	r, ok := m.scene.RectOf(m.focus)
	b, okBody := m.scene.Body(m.focus)
	if ok && okBody {
		lines = append(lines, fmt.Sprintf("pos %.2f,%.2f  vel %s  contact %s", r.X, r.Y, b.Velocity, b.Contact()))
	}
	return lines
}

// describeError renders an error for the stopped viewer.
func describeError(err error) string {
	var cfgErr *scene.ConfigError
	if errors.As(err, &cfgErr) {
		return fmt.Sprintf("Simulation stopped: entity %q (%s) has no %s capability.",
			cfgErr.Name, cfgErr.Role, cfgErr.Missing)
	}
	return "Simulation stopped: " + err.Error()
}

// Err returns the error that stopped the viewer, if any.
func (m ViewerModel) Err() error {
	return m.err
}

// Scene returns the scene being viewed.
func (m ViewerModel) Scene() *scene.Scene {
	return m.scene
}

// Paused reports whether the simulation clock is stopped.
func (m ViewerModel) Paused() bool {
	return m.paused
}

// IsGoingBack returns true if user wants to go back to the menu.
func (m ViewerModel) IsGoingBack() bool {
	return m.back
}

// RunViewer runs the viewer for a scenario until the user leaves.
// Returns whether the user asked to go back to the menu, and the error that
// stopped the simulation, if any.
func RunViewer(sc registry.Scenario, env registry.Env, pal *Palette, cfg core.RuntimeConfig) (goBack bool, err error) {
	model, err := NewViewerModel(sc, env, pal, cfg)
	if err != nil {
		return false, err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(ViewerModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), m.Err()
}
