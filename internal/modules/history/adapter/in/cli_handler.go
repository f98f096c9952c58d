package in

import (
	"context"
	"path/filepath"
	"time"

	"spinwheel/internal/modules/history/dto"
	historyin "spinwheel/internal/modules/history/port/in"
	"spinwheel/internal/platform/slug"
)

type CLIHandler struct {
	usecase historyin.Usecase
	dataDir string
}

func NewCLIHandler(usecase historyin.Usecase, dataDir string) CLIHandler {
	return CLIHandler{usecase: usecase, dataDir: dataDir}
}

func (h CLIHandler) List(ctx context.Context, limit int) ([]dto.EntryOutput, error) {
	return h.usecase.List(ctx, limit)
}

func (h CLIHandler) Clear(ctx context.Context) error {
	return h.usecase.Clear(ctx)
}

// Export writes to path, or to <data>/exports/<event-slug>-<date>.md when path
// is empty.
func (h CLIHandler) Export(ctx context.Context, path, title string, now time.Time) (dto.ExportOutput, error) {
	if path == "" {
		name := slug.Make(title)
		if name == "" {
			name = "winners"
		}
		path = filepath.Join(h.dataDir, "exports", name+"-"+now.Format("2006-01-02")+".md")
	}
	return h.usecase.Export(ctx, dto.ExportInput{Path: path, Title: title})
}

func (h CLIHandler) Markdown(ctx context.Context, title string) (string, error) {
	return h.usecase.RenderMarkdown(ctx, title)
}
