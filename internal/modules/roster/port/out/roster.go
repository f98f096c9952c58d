package out

import (
	"context"

	"spinwheel/internal/modules/roster/domain"
)

type Store interface {
	Load(ctx context.Context) (domain.Roster, error)
	Save(ctx context.Context, roster domain.Roster) error
}
