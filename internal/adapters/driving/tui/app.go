package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/meshdrop/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/meshdrop/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/meshdrop/internal/adapters/driving/tui/components/slider"
	"github.com/custodia-labs/meshdrop/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/meshdrop/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/meshdrop/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/meshdrop/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/meshdrop/internal/core/domain"
)

// PollInterval is how often the app refreshes the viewer status.
const PollInterval = 250 * time.Millisecond

// App is the control panel following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	slider    *slider.Slider
	assets    *list.AssetList
	prompt    *input.PathInput
	statusBar *status.Bar
	help      help.Model

	mode    messages.Mode
	status  domain.ViewerStatus
	modelID string
	err     error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:     ports,
		ctx:       context.Background(),
		styles:    s,
		keymap:    km,
		slider:    slider.New(s, ports.Viewer.ScaleBounds()),
		assets:    list.NewAssetList(s),
		prompt:    input.NewPathInput(s),
		statusBar: status.NewBar(s, km),
		help:      help.New(),
		mode:      messages.ModeScale,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("meshdrop"),
		a.fetchStatus(),
		tick(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.mode == messages.ModePrompt {
			return a.updatePrompt(msg)
		}
		return a.updateScale(msg)

	case messages.Tick:
		return a, tea.Batch(a.fetchStatus(), tick())

	case messages.StatusUpdated:
		a.applyStatus(msg.Status)
		return a, nil

	case messages.RescaleCompleted:
		if msg.Err != nil {
			a.err = msg.Err
			a.statusBar.SetError(msg.Err)
		}
		return a, nil

	case messages.SelectionStarted:
		if msg.Err != nil {
			a.err = msg.Err
			a.statusBar.SetError(msg.Err)
			return a, nil
		}
		a.statusBar.SetMessage("Loading " + msg.Dir + "...")
		return a, waitOutcome(msg.Outcomes)

	case messages.LoadCompleted:
		return a, a.applyOutcome(msg.Outcome)
	}

	if a.mode == messages.ModePrompt {
		var cmd tea.Cmd
		a.prompt, cmd = a.prompt.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) updateScale(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	km := a.keymap
	switch {
	case key.Matches(msg, km.Quit):
		return a, tea.Quit
	case key.Matches(msg, km.Help):
		a.help.ShowAll = !a.help.ShowAll
	case key.Matches(msg, km.DecreaseFast):
		return a, a.rescale(a.slider.Step(-keymap.FastMultiplier))
	case key.Matches(msg, km.IncreaseFast):
		return a, a.rescale(a.slider.Step(keymap.FastMultiplier))
	case key.Matches(msg, km.Decrease):
		return a, a.rescale(a.slider.Step(-1))
	case key.Matches(msg, km.Increase):
		return a, a.rescale(a.slider.Step(1))
	case key.Matches(msg, km.Reset):
		return a, a.rescale(a.slider.Reset())
	case key.Matches(msg, km.Up):
		a.assets.MoveUp()
	case key.Matches(msg, km.Down):
		a.assets.MoveDown()
	case key.Matches(msg, km.Open):
		a.mode = messages.ModePrompt
		a.statusBar.SetBindings(km.PromptHelp())
		return a, a.prompt.Focus()
	}
	return a, nil
}

func (a *App) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keymap.Cancel):
		a.closePrompt()
		return a, nil
	case key.Matches(msg, a.keymap.Confirm):
		dir := a.prompt.Value()
		a.closePrompt()
		if dir == "" {
			return a, nil
		}
		return a, a.selectFolder(dir)
	}

	var cmd tea.Cmd
	a.prompt, cmd = a.prompt.Update(msg)
	return a, cmd
}

func (a *App) closePrompt() {
	a.mode = messages.ModeScale
	a.prompt.Blur()
	a.prompt.Reset()
	a.statusBar.SetBindings(a.keymap.ShortHelp())
}

// applyStatus syncs the panel with a viewer snapshot. The slider follows
// the model only when a different model becomes the latest.
func (a *App) applyStatus(s domain.ViewerStatus) {
	a.status = s
	a.statusBar.SetStatus(s)
	if s.Model == nil || s.Model.ID == a.modelID {
		return
	}
	a.modelID = s.Model.ID
	a.assets.SetAssets(s.Model.Assets)
	a.slider.Set(s.Model.Scale[0])
}

func (a *App) applyOutcome(outcome domain.LoadOutcome) tea.Cmd {
	switch {
	case outcome.Stale:
		return nil
	case outcome.Err != nil:
		a.err = outcome.Err
		a.statusBar.SetError(outcome.Err)
		return nil
	default:
		a.err = nil
		a.statusBar.Clear()
		return a.fetchStatus()
	}
}

func (a *App) fetchStatus() tea.Cmd {
	viewer := a.ports.Viewer
	return func() tea.Msg {
		return messages.StatusUpdated{Status: viewer.Status()}
	}
}

func (a *App) rescale(factor float64) tea.Cmd {
	viewer := a.ports.Viewer
	return func() tea.Msg {
		return messages.RescaleCompleted{Factor: factor, Err: viewer.Rescale(factor)}
	}
}

func (a *App) selectFolder(dir string) tea.Cmd {
	ctx, viewer := a.ctx, a.ports.Viewer
	return func() tea.Msg {
		outcomes, err := viewer.SelectFolder(ctx, dir)
		return messages.SelectionStarted{Dir: dir, Outcomes: outcomes, Err: err}
	}
}

func waitOutcome(outcomes <-chan domain.LoadOutcome) tea.Cmd {
	return func() tea.Msg {
		return messages.LoadCompleted{Outcome: <-outcomes}
	}
}

func tick() tea.Cmd {
	return tea.Tick(PollInterval, func(t time.Time) tea.Msg {
		return messages.Tick{At: t}
	})
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	sections := []string{
		a.styles.Title.Render("meshdrop"),
		a.viewModel(),
		a.styles.Panel.Render(a.styles.Subtitle.Render("Scale") + "\n" + a.slider.View()),
	}
	if a.mode == messages.ModePrompt {
		sections = append(sections, a.prompt.View())
	}
	sections = append(sections, a.assets.View())
	if a.help.ShowAll {
		sections = append(sections, a.help.View(a.keymap))
	}

	body := lipgloss.JoinVertical(lipgloss.Left, sections...)
	gap := a.height - lipgloss.Height(body) - 1
	if gap < 1 {
		gap = 1
	}
	return body + strings.Repeat("\n", gap) + a.statusBar.View()
}

func (a *App) viewModel() string {
	m := a.status.Model
	if m == nil {
		return a.styles.Muted.Render("No model loaded. Press o to open a folder.")
	}
	sum := m.Summary
	return a.styles.Normal.Render(m.Name) + a.styles.Muted.Render(fmt.Sprintf(
		"  glTF %s · %d meshes · %d materials · %d textures · %d animations",
		sum.Version, sum.Meshes, sum.Materials, sum.Textures, sum.Animations,
	))
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// Mode returns what the keyboard currently drives.
func (a *App) Mode() messages.Mode {
	return a.mode
}

// Scale returns the slider value.
func (a *App) Scale() float64 {
	return a.slider.Value()
}

// Status returns the last viewer snapshot.
func (a *App) Status() domain.ViewerStatus {
	return a.status
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been sized.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.slider.SetWidth(width - 4)
	a.prompt.SetWidth(width)
	a.statusBar.SetWidth(width)
	a.help.Width = width
	listHeight := height - 12
	if listHeight < 3 {
		listHeight = 3
	}
	a.assets.SetDimensions(width, listHeight)
}
