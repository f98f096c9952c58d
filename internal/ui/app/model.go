package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	wheeldto "spinwheel/internal/modules/wheel/dto"
	"spinwheel/internal/ui/components"
	"spinwheel/internal/ui/theme"
	historyview "spinwheel/internal/ui/views/history"
	rosterview "spinwheel/internal/ui/views/roster"
	wheelview "spinwheel/internal/ui/views/wheel"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type wheelPort interface {
	wheelview.WheelPort
	RebuildIdle(ctx context.Context) error
}

type cuePort interface {
	SetMuted(muted bool)
	Muted() bool
}

// FramePump advances the frame loop. Update is its only caller, so the
// wheel and its callbacks all run on the Bubble Tea goroutine.
type FramePump interface {
	Pump(now time.Time)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabWheel tabID = iota
	tabRoster
	tabHistory
	tabCount
)

var tabLabels = [tabCount]string{"Wheel", "Roster", "History"}

// ─── messages ────────────────────────────────────────────────────────────────

// SpinMsg asks for a spin from outside the program, e.g. the remote control
// server via Program.Send.
type SpinMsg wheeldto.SpinInput

type frameMsg time.Time

type rebuildMsg struct{}

// ─── key bindings ────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Spin    key.Binding
	Theme   key.Binding
	Mute    key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Spin:    key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "spin / dismiss")),
		Theme:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "cycle theme")),
		Mute:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mute")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Spin, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Spin, k.Theme},
		{k.Mute, k.Palette},
		{k.Help, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

type Deps struct {
	Wheel   wheelPort
	Surface *wheelview.Surface
	Roster  rosterview.RosterPort
	History historyview.HistoryPort
	Cues    cuePort
	Frames  FramePump

	FrameInterval time.Duration
	DataDir       string
	Event         string
	Themes        []string
	Theme         string
	Duration      time.Duration
}

// Model is the root Bubble Tea model. It owns tab routing, the frame pump,
// the help overlay and the command palette; sub-views do the rendering.
type Model struct {
	wheel    wheelPort
	surface  *wheelview.Surface
	cues     cuePort
	frames   FramePump
	interval time.Duration

	wheelView   wheelview.Model
	rosterView  rosterview.Model
	historyView historyview.Model

	activeTab   tabID
	keys        keyMap
	help        help.Model
	showHelp    bool
	palette     components.Palette
	seenReveals int
	status      string
	width       int
	height      int
}

func NewModel(d Deps) Model {
	interval := d.FrameInterval
	if interval <= 0 {
		interval = time.Second / 60
	}
	return Model{
		wheel:    d.Wheel,
		surface:  d.Surface,
		cues:     d.Cues,
		frames:   d.Frames,
		interval: interval,
		wheelView: wheelview.New(d.Wheel, d.Surface, wheelview.Options{
			Event:    d.Event,
			Themes:   d.Themes,
			Theme:    d.Theme,
			Duration: d.Duration,
		}),
		rosterView:  rosterview.New(d.Roster),
		historyView: historyview.New(d.History, d.Event, d.DataDir),
		activeTab:   tabWheel,
		keys:        defaultKeys(),
		help:        help.New(),
		palette:     components.NewPalette(),
		status:      "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return rebuildMsg{} },
		m.rosterView.Init(),
		m.historyView.Init(),
		m.tick(),
	)
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

// ─── update ──────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Frames keep flowing while the palette is open.
	if f, ok := msg.(frameMsg); ok {
		cmds = m.pump(time.Time(f))
		return m, tea.Batch(cmds...)
	}

	// Only keys are captured by an open palette; remote spins, reloads and
	// resizes still reach the handlers below.
	if _, ok := msg.(tea.KeyMsg); ok && m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case SpinMsg:
		m.activeTab = tabWheel
		m.wheelView.Spin(wheeldto.SpinInput(msg))
		return m, nil

	case rebuildMsg:
		m.rebuild()
		return m, nil

	case rosterview.ChangedMsg:
		if msg.Err == nil {
			m.rebuild()
		}
		var cmd tea.Cmd
		m.rosterView, cmd = m.rosterView.Update(msg)
		return m, cmd

	case rosterview.LoadedMsg:
		var cmd tea.Cmd
		m.rosterView, cmd = m.rosterView.Update(msg)
		return m, cmd

	case historyview.LoadedMsg, historyview.ExportedMsg:
		var cmd tea.Cmd
		m.historyView, cmd = m.historyView.Update(msg)
		if e, ok := msg.(historyview.ExportedMsg); ok && e.Err == nil {
			m.status = "exported " + e.Out.Path
		}
		return m, cmd

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		if m.subViewFiltering() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case ":":
			cmds = append(cmds, m.palette.Open())
			return m, tea.Batch(cmds...)
		case "m":
			m.setMuted(!m.cues.Muted())
			return m, nil
		}
	}

	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		cmds = append(cmds, cmd)
	}

	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabWheel:
		m.wheelView, tabCmd = m.wheelView.Update(msg)
	case tabRoster:
		m.rosterView, tabCmd = m.rosterView.Update(msg)
	case tabHistory:
		m.historyView, tabCmd = m.historyView.Update(msg)
	}
	cmds = append(cmds, tabCmd)
	return m, tea.Batch(cmds...)
}

// pump steps the wheel one frame and reloads the roster and history tabs
// after a new winner is revealed, since the post-win policy may have
// edited the roster.
func (m *Model) pump(now time.Time) []tea.Cmd {
	m.frames.Pump(now)
	cmds := []tea.Cmd{m.tick()}
	if n := m.surface.Reveals(); n != m.seenReveals {
		m.seenReveals = n
		cmds = append(cmds, m.rosterView.Reload(), m.historyView.Reload())
	}
	return cmds
}

func (m *Model) rebuild() {
	if err := m.wheel.RebuildIdle(context.Background()); err != nil {
		m.status = "rebuild: " + err.Error()
	}
}

func (m *Model) setMuted(muted bool) {
	m.cues.SetMuted(muted)
	if muted {
		m.status = "sound muted"
	} else {
		m.status = "sound on"
	}
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := max(m.height-lipgloss.Height(tabBar)-lipgloss.Height(statusBar), 1)

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}
	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabWheel:
		return m.wheelView.View()
	case tabRoster:
		return m.rosterView.View()
	case tabHistory:
		return m.historyView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + tabLabels[i] + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + tabLabels[i] + " ")
		}
	}
	bar := "spinwheel  " + strings.Join(parts, theme.Muted.Render(" │ "))
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.cues.Muted() {
		left = theme.Muted.Render("♪ muted") + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  m:mute  q:quit")
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ───────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}
	rest := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))

	switch parts[0] {
	case "spin":
		m.activeTab = tabWheel
		m.wheelView.Spin(m.parseSpin(parts[1:]))

	case "dismiss":
		m.wheelView.Dismiss()

	case "prize":
		m.wheelView.SetPrize(rest)
		m.status = "prize: " + rest

	case "theme":
		if err := m.wheelView.SetTheme(rest); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.status = "theme: " + rest

	case "duration":
		d, err := parseSeconds(rest)
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.wheelView.SetDuration(d)
		m.status = "duration: " + d.String()

	case "add":
		if rest == "" {
			m.status = "usage: add <name>[,weight[,tag]]"
			return m, nil
		}
		return m, m.rosterView.AddCmd(rest)

	case "mute":
		m.setMuted(true)

	case "unmute":
		m.setMuted(false)

	case "export":
		m.activeTab = tabHistory
		return m, m.historyView.ExportCmd()

	case "rebuild":
		m.rebuild()

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// parseSpin reads `[theme] [seconds] [prize...]`.
func (m Model) parseSpin(args []string) wheeldto.SpinInput {
	var in wheeldto.SpinInput
	if len(args) > 0 && m.wheelView.HasTheme(args[0]) {
		in.Theme = args[0]
		args = args[1:]
	}
	if len(args) > 0 {
		if d, err := parseSeconds(args[0]); err == nil {
			in.Duration = d
			args = args[1:]
		}
	}
	in.Prize = strings.Join(args, " ")
	return in
}

func parseSeconds(raw string) (time.Duration, error) {
	s, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || s < 0 {
		return 0, fmt.Errorf("invalid seconds %q", raw)
	}
	return time.Duration(s * float64(time.Second)), nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// subViewFiltering reports whether the active tab owns the keyboard, in
// which case global bindings must yield to allow free typing.
func (m Model) subViewFiltering() bool {
	return m.activeTab == tabRoster && m.rosterView.Filtering()
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.wheelView, _ = m.wheelView.Update(sz)
	m.rosterView, _ = m.rosterView.Update(sz)
	m.historyView, _ = m.historyView.Update(sz)
}
