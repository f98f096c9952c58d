package history

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	historydto "spinwheel/internal/modules/history/dto"
	"spinwheel/internal/platform/markdown"
	"spinwheel/internal/platform/slug"
	"spinwheel/internal/ui/theme"
)

type HistoryPort interface {
	RenderMarkdown(ctx context.Context, title string) (string, error)
	Export(ctx context.Context, input historydto.ExportInput) (historydto.ExportOutput, error)
}

type LoadedMsg struct {
	Markdown string
	Err      error
}

type ExportedMsg struct {
	Out historydto.ExportOutput
	Err error
}

type Model struct {
	port     HistoryPort
	title    string
	dataDir  string
	now      func() time.Time
	markdown string
	renderer *glamour.TermRenderer
	preview  viewport.Model
	status   string
	width    int
	height   int
}

func New(port HistoryPort, title, dataDir string) Model {
	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().Foreground(theme.Text)
	return Model{port: port, title: title, dataDir: dataDir, now: time.Now, renderer: newRenderer(0), preview: vp}
}

// newRenderer returns nil when glamour cannot load its style; render then
// shows the raw markdown.
func newRenderer(wrap int) *glamour.TermRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return nil
	}
	return r
}

func (m Model) Init() tea.Cmd { return m.Reload() }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.preview.Width = msg.Width
		m.preview.Height = max(msg.Height-2, 1)
		m.renderer = newRenderer(max(msg.Width-4, 20))
		m.preview.SetContent(m.render())
		return m, nil

	case LoadedMsg:
		if msg.Err != nil {
			m.status = "history: " + msg.Err.Error()
			return m, nil
		}
		m.markdown = msg.Markdown
		m.preview.SetContent(m.render())
		return m, nil

	case ExportedMsg:
		if msg.Err != nil {
			m.status = "export failed: " + msg.Err.Error()
		} else {
			m.status = fmt.Sprintf("exported %d winners to %s", msg.Out.Count, msg.Out.Path)
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "e":
			return m, m.ExportCmd()
		case "r":
			return m, m.Reload()
		}
	}

	var cmd tea.Cmd
	m.preview, cmd = m.preview.Update(msg)
	return m, cmd
}

func (m Model) render() string {
	if m.markdown == "" || m.renderer == nil {
		return m.markdown
	}
	out, err := m.renderer.Render(m.body())
	if err != nil {
		return m.markdown
	}
	return out
}

// body drops the frontmatter block; it is metadata for the exported file.
func (m Model) body() string {
	doc, err := markdown.Parse(m.markdown)
	if err != nil {
		return m.markdown
	}
	return doc.Body
}

func (m Model) View() string {
	status := m.status
	if status == "" {
		status = "e: export  r: reload  ↑/↓: scroll"
	}
	return m.preview.View() + "\n" + theme.Muted.Render(status)
}

func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		md, err := m.port.RenderMarkdown(context.Background(), m.title)
		return LoadedMsg{Markdown: md, Err: err}
	}
}

// ExportCmd writes <data>/exports/<event>-<date>.md.
func (m Model) ExportCmd() tea.Cmd {
	path := filepath.Join(m.dataDir, "exports", slug.Make(m.title)+"-"+m.now().Format("2006-01-02")+".md")
	return func() tea.Msg {
		out, err := m.port.Export(context.Background(), historydto.ExportInput{Path: path, Title: m.title})
		return ExportedMsg{Out: out, Err: err}
	}
}
