package in

import (
	"context"

	"spinwheel/internal/modules/wheel/dto"
)

// Usecase must be called from the goroutine that pumps the frame loop.
type Usecase interface {
	Spin(ctx context.Context, input dto.SpinInput) error
	Dismiss(ctx context.Context) error
	RebuildIdle(ctx context.Context) error
	Snapshot() dto.Snapshot
}
