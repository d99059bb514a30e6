package ui

import (
	"context"
	"errors"
	"image"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/lookout/internal/frame"
	"github.com/five82/lookout/internal/navigator"
	"github.com/five82/lookout/internal/prefs"
	"github.com/five82/lookout/internal/resolve"
	"github.com/five82/lookout/internal/timeline"
)

// focus names the component that receives key input.
type focus int

const (
	focusViewer focus = iota
	focusURLInput
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Store     *timeline.Store
	Navigator *navigator.Navigator
	Days      timeline.DaySource
	Resolver  *resolve.Resolver
	Fetcher   *frame.Fetcher
	PollTick  time.Duration
	ThemeName string
	Preview   bool
	PrefsPath string
	LogFile   string

	// StartURL is the manifest the session was started with.
	StartURL string
	// LoadErr is the failure of the initial load, if any.
	LoadErr error
}

// frameState is the image currently on screen.
type frameState struct {
	key      string
	url      string
	img      image.Image
	err      error
	rendered string
	cols     int
	rows     int
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	store     *timeline.Store
	nav       *navigator.Navigator
	days      timeline.DaySource
	resolver  *resolve.Resolver
	fetcher   *frame.Fetcher
	prefsPath string
	logFile   string
	pollTick  time.Duration
	keys      keyMap

	// UI state
	theme    Theme
	width    int
	height   int
	ready    bool
	focus    focus
	helpOpen bool
	// helpReturn is where focus goes when help closes.
	helpReturn focus
	urlInput   textinput.Model
	preview    bool
	logs       logState

	// Data state
	snapshot timeline.Snapshot
	loadURL  string
	loadErr  error
	navErr   error
	busy     bool // a navigation or load is running

	// Display state
	slot  *resolve.Slot
	frame frameState
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick == 0 {
		pollTick = DefaultUIInterval
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = prefs.Defaults().Theme
	}

	input := textinput.New()
	input.Prompt = "manifest › "
	input.Placeholder = "https://archive.example/2024/03/01/camera.json"
	input.CharLimit = URLInputLimit

	return Model{
		ctx:       ctx,
		store:     opts.Store,
		nav:       opts.Navigator,
		days:      opts.Days,
		resolver:  opts.Resolver,
		fetcher:   opts.Fetcher,
		prefsPath: opts.PrefsPath,
		logFile:   opts.LogFile,
		pollTick:  pollTick,
		keys:      DefaultKeyMap(),
		theme:     GetTheme(themeName),
		urlInput:  input,
		preview:   opts.Preview,
		loadURL:   opts.StartURL,
		loadErr:   opts.LoadErr,
		slot:      &resolve.Slot{},
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
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
		m.urlInput.Width = max(m.width-lenPrompt(m.urlInput.Prompt)-4, 10)
		m.rerender()
		m.refreshLogView()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		return m.handleSnapshot(timeline.Snapshot(msg))

	case frameMsg:
		if !m.slot.Current(msg.token) {
			return m, nil
		}
		m.frame = frameState{key: msg.key, url: msg.url, img: msg.img, err: msg.err}
		m.rerender()
		return m, nil

	case logLoadedMsg:
		m.applyLogs(msg)
		return m, nil

	case navDoneMsg:
		m.busy = false
		m.navErr = msg.err
		return m, m.refreshSnapshot()

	case loadDoneMsg:
		m.busy = false
		m.loadURL = msg.url
		m.loadErr = msg.err
		if msg.err == nil {
			m.navErr = nil
		}
		return m, m.refreshSnapshot()
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.helpOpen {
		return m.renderHelp()
	}

	if m.logs.open {
		return m.renderLogs()
	}

	return m.renderMain()
}

// handleKey routes key input to whichever component holds focus. The help
// dialog owns all input while open.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.helpOpen {
		if key.Matches(msg, m.keys.Escape, m.keys.Help) {
			m.closeHelp()
		}
		return m, nil
	}

	if m.logs.open {
		return m.handleLogKey(msg)
	}

	if m.focus == focusURLInput {
		return m.handleURLInputKey(msg)
	}
	return m.handleViewerKey(msg)
}

func (m *Model) openHelp() {
	m.helpReturn = m.focus
	m.helpOpen = true
	if m.focus == focusURLInput {
		m.urlInput.Blur()
	}
}

func (m *Model) closeHelp() {
	m.helpOpen = false
	m.focus = m.helpReturn
	if m.focus == focusURLInput {
		m.urlInput.Focus()
	}
}

func (m Model) handleURLInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit

	case key.Matches(msg, m.keys.HelpFromInput):
		m.openHelp()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.focus = focusViewer
		m.urlInput.Blur()
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		url := strings.TrimSpace(m.urlInput.Value())
		if url == "" || m.busy {
			return m, nil
		}
		m.focus = focusViewer
		m.urlInput.Blur()
		cmd := m.load(url)
		return m, cmd
	}

	var cmd tea.Cmd
	m.urlInput, cmd = m.urlInput.Update(msg)
	return m, cmd
}

func (m Model) handleViewerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.openHelp()
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.TogglePreview):
		m.preview = !m.preview
		m.savePrefs()
		// Force the current frame to be displayed again in the new mode.
		m.frame = frameState{}
		return m, m.refreshSnapshot()

	case key.Matches(msg, m.keys.Logs):
		cmd := m.openLogs()
		return m, cmd

	case key.Matches(msg, m.keys.OpenURL):
		m.focus = focusURLInput
		m.urlInput.SetValue(m.currentURL())
		m.urlInput.CursorEnd()
		cmd := m.urlInput.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Reload):
		if url := m.currentURL(); url != "" && !m.busy {
			cmd := m.load(url)
			return m, cmd
		}
		return m, nil
	}

	if m.nav == nil || m.busy {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Prev):
		return m.navigate(m.nav.Previous)
	case key.Matches(msg, m.keys.Next):
		return m.navigate(m.nav.Next)
	case key.Matches(msg, m.keys.Oldest):
		return m.navigate(m.nav.Oldest)
	case key.Matches(msg, m.keys.Newest):
		return m.navigate(m.nav.Newest)
	case key.Matches(msg, m.keys.Back12h):
		return m.navigate(m.jump(timeline.Backward, timeline.Mode12h))
	case key.Matches(msg, m.keys.Forward12h):
		return m.navigate(m.jump(timeline.Forward, timeline.Mode12h))
	case key.Matches(msg, m.keys.Back24h):
		return m.navigate(m.jump(timeline.Backward, timeline.Mode24h))
	case key.Matches(msg, m.keys.Forward24h):
		return m.navigate(m.jump(timeline.Forward, timeline.Mode24h))
	}

	return m, nil
}

func (m Model) jump(dir timeline.Direction, mode timeline.Mode) func(context.Context) error {
	return func(ctx context.Context) error {
		_, err := m.nav.Jump(ctx, dir, mode)
		return err
	}
}

func (m Model) navigate(action func(context.Context) error) (tea.Model, tea.Cmd) {
	m.busy = true
	ctx := m.ctx
	return m, func() tea.Msg {
		return navDoneMsg{err: action(ctx)}
	}
}

func (m *Model) load(url string) tea.Cmd {
	if m.store == nil || m.days == nil {
		return nil
	}
	m.busy = true
	m.frame = frameState{}
	store, days, ctx := m.store, m.days, m.ctx
	return func() tea.Msg {
		return loadDoneMsg{url: url, err: store.Load(ctx, days, url)}
	}
}

func (m Model) currentURL() string {
	if m.snapshot.ManifestURL != "" {
		return m.snapshot.ManifestURL
	}
	return m.loadURL
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name, Preview: m.preview}); err != nil {
		log.Printf("save prefs: %v", err)
	}
}

// handleTick processes the polling tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.logs.open {
		cmds = append(cmds, readLogCmd(m.logFile))
	}
	cmds = append(cmds, tickCmd(m.pollTick))
	return m, tea.Batch(cmds...)
}

// handleSnapshot stores the snapshot and starts a display request when
// the current frame changed.
func (m Model) handleSnapshot(snap timeline.Snapshot) (tea.Model, tea.Cmd) {
	m.snapshot = snap
	if !snap.HasCurrent {
		return m, nil
	}
	k := frameKey(snap.Current)
	if k == m.frame.key {
		return m, nil
	}

	token := m.slot.Begin()
	m.frame = frameState{key: k}
	cmds := []tea.Cmd{m.displayCmd(token, snap.Current)}
	if m.preview && m.resolver != nil && m.store != nil {
		cmds = append(cmds, preloadCmd(m.ctx, m.resolver, m.store.Neighbors()))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) refreshSnapshot() tea.Cmd {
	if m.store == nil {
		return nil
	}
	return fetchSnapshotCmd(m.store)
}

// rerender rescales the current image to the content area.
func (m *Model) rerender() {
	cols, rows := m.contentSize()
	if m.frame.img == nil || cols <= 0 || rows <= 0 {
		m.frame.rendered = ""
		return
	}
	if m.frame.rendered != "" && m.frame.cols == cols && m.frame.rows == rows {
		return
	}
	m.frame.rendered = frame.Render(m.frame.img, cols, rows)
	m.frame.cols, m.frame.rows = cols, rows
}

func (m Model) contentSize() (int, int) {
	return m.width, m.height - HeaderHeight - FooterHeight
}

// renderMain renders the header, the frame area and the command bar.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	return b.String()
}

// Messages

type tickMsg time.Time

type snapshotMsg timeline.Snapshot

// frameMsg carries the result of one display request.
type frameMsg struct {
	token uint64
	key   string
	url   string
	img   image.Image
	err   error
}

type navDoneMsg struct {
	err error
}

type loadDoneMsg struct {
	url string
	err error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *timeline.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
