package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/statebox/internal/demo"
	"github.com/five82/statebox/internal/prefs"
)

// Options configures the UI.
type Options struct {
	Store     *demo.Store
	ThemeName string
	Focus     string
	PrefsPath string
	Ticks     <-chan time.Time // external writes; nil disables the ticker pane updates
	Logger    *slog.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	store     *demo.Store
	panes     *panes
	keys      keyMap
	prefsPath string
	logger    *slog.Logger

	theme    Theme
	width    int
	height   int
	ready    bool
	showHelp bool

	// Todo entry
	inputMode bool
	input     textinput.Model

	// Write sequence; a pane whose last refresh happened at the current
	// write is drawn with the fresh border.
	writes int
	status string
}

// New binds every pane to the store and returns the model.
func New(opts Options) (Model, error) {
	if opts.Store == nil {
		return Model{}, fmt.Errorf("ui requires a store")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = prefs.Defaults().Theme
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	p, err := bindPanes(opts.Store, opts.Focus)
	if err != nil {
		return Model{}, fmt.Errorf("bind panes: %w", err)
	}

	input := textinput.New()
	input.Placeholder = "todo title"
	input.CharLimit = 64
	input.Prompt = "new todo> "

	return Model{
		store:     opts.Store,
		panes:     p,
		keys:      DefaultKeyMap(),
		prefsPath: prefsPath,
		logger:    logger,
		theme:     GetTheme(themeName),
		input:     input,
	}, nil
}

// Close releases every pane binding.
func (m Model) Close() {
	if m.panes != nil {
		m.panes.close()
	}
}

// Refreshes reports how many times each pane was refreshed by store writes.
func (m Model) Refreshes() map[string]int {
	return m.panes.refreshes()
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case TickMsg:
		m.write(demo.Tick())
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.inputMode {
		return m.handleInputKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Increment):
		m.write(demo.Add(1))
		return m, nil

	case key.Matches(msg, m.keys.Decrement):
		m.write(demo.Add(-1))
		return m, nil

	case key.Matches(msg, m.keys.PushHistory):
		m.write(demo.PushHistory("a"))
		return m, nil

	case key.Matches(msg, m.keys.CompleteOne):
		m.write(demo.CompleteFirst())
		return m, nil

	case key.Matches(msg, m.keys.Reset):
		m.writes++
		m.panes.markWrite(m.writes)
		m.store.Reset()
		m.status = "store reset"
		return m, nil

	case key.Matches(msg, m.keys.AddTodo):
		m.inputMode = true
		m.input.Reset()
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.CycleFocus):
		m.writes++
		m.panes.markWrite(m.writes)
		m.panes.cycleFocus()
		m.status = "focus: " + m.panes.focusKey
		m.savePrefs()
		return m, nil
	}

	return m, nil
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		title := m.input.Value()
		m.inputMode = false
		m.input.Blur()
		if title != "" {
			m.write(demo.AddTodo(title))
		}
		return m, nil

	case key.Matches(msg, m.keys.Cancel):
		m.inputMode = false
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// write applies updater on the UI goroutine. Bindings refresh synchronously
// during the broadcast; the single View call that follows renders them all.
func (m *Model) write(updater func(demo.Doc) demo.Doc) {
	m.writes++
	m.panes.markWrite(m.writes)
	m.store.SetState(updater)
	m.status = fmt.Sprintf("version %d", m.store.Snapshot().Version)
}

func (m Model) savePrefs() {
	p := prefs.Prefs{Theme: m.theme.Name, Focus: m.panes.focusKey}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn("save prefs failed", slog.String("path", m.prefsPath), slog.Any("error", err))
	}
}

// TickMsg is an external write delivered through the program loop.
type TickMsg time.Time

// Run starts the Bubble Tea program and blocks until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, opts Options) error {
	m, err := New(opts)
	if err != nil {
		return err
	}
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if opts.Ticks != nil {
		go forwardTicks(ctx, p, opts.Ticks)
	}

	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func forwardTicks(ctx context.Context, p *tea.Program, ticks <-chan time.Time) {
	for {
		select {
		case <-ctx.Done():
			return
		case t, ok := <-ticks:
			if !ok {
				return
			}
			p.Send(TickMsg(t))
		}
	}
}
