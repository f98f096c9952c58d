package wheel

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	wheeldto "spinwheel/internal/modules/wheel/dto"
	"spinwheel/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

// WheelPort must be called from the goroutine that pumps the frame loop,
// which is the Bubble Tea update loop.
type WheelPort interface {
	Spin(ctx context.Context, input wheeldto.SpinInput) error
	Dismiss(ctx context.Context) error
	Snapshot() wheeldto.Snapshot
}

// ─── model ───────────────────────────────────────────────────────────────────

type Options struct {
	Event    string
	Themes   []string
	Theme    string
	Duration time.Duration
}

type Model struct {
	port    WheelPort
	surface *Surface
	cache   *glyphCache

	event    string
	themes   []string
	theme    string
	duration time.Duration
	prize    string

	width  int
	height int
}

func New(port WheelPort, surface *Surface, opts Options) Model {
	th := opts.Theme
	if th == "" && len(opts.Themes) > 0 {
		th = opts.Themes[0]
	}
	return Model{
		port:     port,
		surface:  surface,
		cache:    newGlyphCache(glyphCacheLen),
		event:    opts.Event,
		themes:   opts.Themes,
		theme:    th,
		duration: opts.Duration,
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case " ", "enter":
			m.Trigger()
		case "t":
			m.cycleTheme()
		case "+", "=":
			m.duration += time.Second
		case "-":
			m.duration = max(m.duration-time.Second, 0)
		}
	}
	return m, nil
}

// Trigger spins, or dismisses the winner when one is on display.
func (m *Model) Trigger() {
	if _, ok := m.surface.Revealed(); ok {
		m.Dismiss()
		return
	}
	m.Spin(wheeldto.SpinInput{})
}

// Spin fills unset fields from the view's settings. Rejections are shown
// through the surface by the orchestrator.
func (m *Model) Spin(input wheeldto.SpinInput) {
	if input.Theme == "" {
		input.Theme = m.theme
	}
	if input.Duration == 0 {
		input.Duration = m.duration
	}
	if input.Prize == "" {
		input.Prize = m.prize
	}
	_ = m.port.Spin(context.Background(), input)
}

func (m *Model) Dismiss() {
	if err := m.port.Dismiss(context.Background()); err != nil {
		return
	}
	m.surface.ClearReveal()
	m.surface.ClearNotice()
}

func (m *Model) SetTheme(name string) error {
	if !m.HasTheme(name) {
		return fmt.Errorf("unknown theme %q (one of %s)", name, strings.Join(m.themes, ", "))
	}
	m.theme = name
	return nil
}

func (m Model) HasTheme(name string) bool {
	for _, t := range m.themes {
		if t == name {
			return true
		}
	}
	return false
}

func (m *Model) SetDuration(d time.Duration) { m.duration = max(d, 0) }

func (m *Model) SetPrize(prize string) { m.prize = strings.TrimSpace(prize) }

func (m *Model) cycleTheme() {
	if len(m.themes) == 0 {
		return
	}
	for i, t := range m.themes {
		if t == m.theme {
			m.theme = m.themes[(i+1)%len(m.themes)]
			return
		}
	}
	m.theme = m.themes[0]
}

func (m Model) Theme() string { return m.theme }

func (m Model) Duration() time.Duration { return m.duration }

func (m Model) Busy() bool { return m.surface.Busy() }

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	snap := m.port.Snapshot()
	reveal, revealed := m.surface.Revealed()

	title := theme.Title.Render(m.event)
	settings := theme.Muted.Render(fmt.Sprintf("theme %s · %s", m.theme, m.duration))
	if m.prize != "" {
		settings += theme.Muted.Render(" · prize " + m.prize)
	}

	track := layoutTrack(m.surface.Cards(), snap, m.width, revealed, m.cache).View()
	if len(m.surface.Cards()) == 0 {
		track = theme.Muted.Render("The roster is empty. Add participants on the Roster tab.")
	}

	status := theme.Muted.Render(strings.ToLower(snap.Phase))
	switch {
	case m.surface.CurrentNotice() != "":
		status = theme.Alert.Render(m.surface.CurrentNotice())
	case m.surface.Busy():
		status = theme.Hot.Render("spinning…")
	case !revealed:
		status = theme.Muted.Render("space: spin  t: theme  +/-: duration")
	}

	parts := []string{title, settings, "", track, "", status}
	if revealed {
		parts = append(parts, "", renderReveal(reveal))
	}
	body := lipgloss.JoinVertical(lipgloss.Left, parts...)
	if m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
	}
	return body
}

func renderReveal(r wheeldto.Reveal) string {
	lines := []string{
		theme.Marker.Render("Winner"),
		"",
		theme.Hot.Render(r.WinnerName),
	}
	if r.WinnerTag != "" {
		lines = append(lines, theme.Muted.Render(r.WinnerTag))
	}
	if r.Prize != "" {
		lines = append(lines, "", "wins "+r.Prize)
	}
	if r.Removed {
		lines = append(lines, theme.Muted.Render("removed from the roster"))
	}
	lines = append(lines, "", theme.Muted.Render("enter: dismiss"))
	return theme.Overlay.Render(strings.Join(lines, "\n"))
}
