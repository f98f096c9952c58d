package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"spinwheel/internal/modules/history/domain"
	historyout "spinwheel/internal/modules/history/port/out"
	"spinwheel/internal/platform/clock"
	"spinwheel/internal/platform/markdown"
)

// MarkdownExporter writes the winners list into a managed block, so notes
// written around the block survive re-exports.
type MarkdownExporter struct {
	clock clock.Clock
}

func NewMarkdownExporter(clock clock.Clock) historyout.Exporter {
	return &MarkdownExporter{clock: clock}
}

var winnersBlock = markdown.Block{Start: domain.ManagedWinnersStart, End: domain.ManagedWinnersEnd}

func (e *MarkdownExporter) Render(title string, entries []domain.Entry) (string, error) {
	doc := markdown.Document{
		Meta: e.meta(nil, title, entries),
		Body: winnersBlock.Replace(fmt.Sprintf("# %s\n\n", title), winnersList(entries)),
	}
	return doc.String()
}

func (e *MarkdownExporter) Export(_ context.Context, path, title string, entries []domain.Entry) (string, error) {
	doc := markdown.Document{Body: fmt.Sprintf("# %s\n", title)}
	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		doc, err = markdown.Parse(string(raw))
		if err != nil {
			return "", fmt.Errorf("parse existing export: %w", err)
		}
	case !os.IsNotExist(err):
		return "", fmt.Errorf("read existing export: %w", err)
	}

	doc.Meta = e.meta(doc.Meta, title, entries)
	doc.Body = winnersBlock.Replace(doc.Body, winnersList(entries))
	rendered, err := doc.String()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}

func (e *MarkdownExporter) meta(existing map[string]any, title string, entries []domain.Entry) map[string]any {
	if existing == nil {
		existing = map[string]any{}
	}
	existing["schema_version"] = domain.SchemaVersion
	existing["event"] = title
	existing["exported_at"] = e.clock.Now().Format(time.RFC3339)
	existing["winners"] = len(entries)
	return existing
}

func winnersList(entries []domain.Entry) string {
	if len(entries) == 0 {
		return "_No winners yet._"
	}
	lines := make([]string, 0, len(entries))
	for i, entry := range entries {
		line := fmt.Sprintf("%d. **%s**", len(entries)-i, entry.Winner.Name)
		if entry.Winner.Tag != "" {
			line += fmt.Sprintf(" (%s)", entry.Winner.Tag)
		}
		if entry.Prize != "" {
			line += ": " + entry.Prize
		}
		line += fmt.Sprintf(" · %s", entry.At.Format("15:04:05"))
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
