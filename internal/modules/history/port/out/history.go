package out

import (
	"context"

	"spinwheel/internal/modules/history/domain"
)

// Store lists entries newest first.
type Store interface {
	Latest(ctx context.Context) (domain.Entry, bool, error)
	Append(ctx context.Context, entry domain.Entry) error
	List(ctx context.Context, limit int) ([]domain.Entry, error)
	Clear(ctx context.Context) error
}

type Exporter interface {
	Render(title string, entries []domain.Entry) (string, error)
	Export(ctx context.Context, path, title string, entries []domain.Entry) (string, error)
}
