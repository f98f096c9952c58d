package roster

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	rosterdto "spinwheel/internal/modules/roster/dto"
	"spinwheel/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type RosterPort interface {
	List(ctx context.Context) ([]rosterdto.ParticipantOutput, error)
	Remove(ctx context.Context, id string) error
	SetWeight(ctx context.Context, cmd rosterdto.WeightCommand) (rosterdto.ParticipantOutput, error)
	Import(ctx context.Context, input rosterdto.ImportInput) (rosterdto.ImportOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type LoadedMsg struct {
	Items []rosterdto.ParticipantOutput
	Err   error
}

// ChangedMsg reports a finished edit. The root model rebuilds the idle
// carousel when it sees one.
type ChangedMsg struct {
	Status string
	Err    error
}

// ─── list item ───────────────────────────────────────────────────────────────

type participantItem struct {
	p rosterdto.ParticipantOutput
}

func (i participantItem) Title() string { return i.p.Name }
func (i participantItem) Description() string {
	parts := []string{fmt.Sprintf("weight %g", i.p.Weight)}
	for _, s := range []string{i.p.Tag, i.p.Shift, i.p.Supervisor} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " · ")
}
func (i participantItem) FilterValue() string { return i.p.Name + " " + i.p.Tag }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port   RosterPort
	list   list.Model
	input  textinput.Model
	adding bool
	status string
	width  int
	height int
}

func New(port RosterPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Roster"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	ti := textinput.New()
	ti.Placeholder = "name[,weight[,tag[,shift[,supervisor]]]]"
	ti.CharLimit = 200

	return Model{port: port, list: l, input: ti}
}

func (m Model) Init() tea.Cmd { return m.Reload() }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, max(msg.Height-3, 1))
		m.input.Width = max(msg.Width-4, 10)
		return m, nil

	case LoadedMsg:
		if msg.Err != nil {
			m.status = "roster: " + msg.Err.Error()
			return m, nil
		}
		items := make([]list.Item, len(msg.Items))
		for i, p := range msg.Items {
			items[i] = participantItem{p: p}
		}
		m.list.Title = fmt.Sprintf("Roster (%d)", len(msg.Items))
		return m, m.list.SetItems(items)

	case ChangedMsg:
		if msg.Err != nil {
			m.status = msg.Err.Error()
			return m, nil
		}
		m.status = msg.Status
		return m, m.Reload()

	case tea.KeyMsg:
		if m.adding {
			return m.updateInput(msg)
		}
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "a":
			m.adding = true
			m.input.SetValue("")
			return m, m.input.Focus()
		case "x", "delete":
			if p, ok := m.selected(); ok {
				return m, m.removeCmd(p)
			}
			return m, nil
		case "+", "=":
			if p, ok := m.selected(); ok {
				return m, m.weightCmd(p, p.Weight+1)
			}
			return m, nil
		case "-":
			if p, ok := m.selected(); ok && p.Weight > 1 {
				return m, m.weightCmd(p, p.Weight-1)
			}
			return m, nil
		case "r":
			return m, m.Reload()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateInput(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.adding = false
		m.input.Blur()
		return m, nil
	case "enter":
		line := strings.TrimSpace(m.input.Value())
		m.adding = false
		m.input.Blur()
		if line == "" {
			return m, nil
		}
		return m, m.AddCmd(line)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// Filtering reports whether the list filter or the add prompt owns the keyboard.
func (m Model) Filtering() bool {
	return m.adding || m.list.FilterState() == list.Filtering
}

func (m Model) selected() (rosterdto.ParticipantOutput, bool) {
	item, ok := m.list.SelectedItem().(participantItem)
	if !ok {
		return rosterdto.ParticipantOutput{}, false
	}
	return item.p, true
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(m.list.View())
	sb.WriteString("\n")
	switch {
	case m.adding:
		sb.WriteString("add: " + m.input.View())
	case m.status != "":
		sb.WriteString(theme.Muted.Render(m.status))
	default:
		sb.WriteString(theme.Muted.Render("a: add  x: remove  +/-: weight  /: filter  r: reload"))
	}
	return lipgloss.NewStyle().Width(m.width).Render(sb.String())
}

// ─── commands ────────────────────────────────────────────────────────────────

func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		items, err := m.port.List(context.Background())
		return LoadedMsg{Items: items, Err: err}
	}
}

// AddCmd adds one participant from a CSV row.
func (m Model) AddCmd(line string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.Import(context.Background(), rosterdto.ImportInput{Text: line})
		if err != nil {
			return ChangedMsg{Err: err}
		}
		status := fmt.Sprintf("added %d", out.Added)
		if out.Coerced > 0 {
			status += fmt.Sprintf(" (%d weight coerced to 1)", out.Coerced)
		}
		return ChangedMsg{Status: status}
	}
}

func (m Model) removeCmd(p rosterdto.ParticipantOutput) tea.Cmd {
	return func() tea.Msg {
		if err := m.port.Remove(context.Background(), p.ID); err != nil {
			return ChangedMsg{Err: err}
		}
		return ChangedMsg{Status: "removed " + p.Name}
	}
}

func (m Model) weightCmd(p rosterdto.ParticipantOutput, weight float64) tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.SetWeight(context.Background(), rosterdto.WeightCommand{ParticipantID: p.ID, Weight: weight})
		if err != nil {
			return ChangedMsg{Err: err}
		}
		return ChangedMsg{Status: fmt.Sprintf("%s weight %g", out.Name, out.Weight)}
	}
}
