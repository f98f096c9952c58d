package in

import (
	"context"

	"spinwheel/internal/modules/history/dto"
)

type Usecase interface {
	Append(ctx context.Context, input dto.AppendInput) (dto.AppendOutput, error)
	List(ctx context.Context, limit int) ([]dto.EntryOutput, error)
	Clear(ctx context.Context) error
	Export(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error)
	RenderMarkdown(ctx context.Context, title string) (string, error)
}
