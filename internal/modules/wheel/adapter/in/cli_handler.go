package in

import (
	"context"
	"time"

	"spinwheel/internal/modules/wheel/dto"
	wheelin "spinwheel/internal/modules/wheel/port/in"
)

// CLIHandler is used by both the TUI and the headless spin command; either
// way calls must come from the frame loop's goroutine.
type CLIHandler struct {
	usecase wheelin.Usecase
}

func NewCLIHandler(usecase wheelin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Spin(ctx context.Context, duration time.Duration, theme, prize string) error {
	return h.usecase.Spin(ctx, dto.SpinInput{Duration: duration, Theme: theme, Prize: prize})
}

func (h CLIHandler) SpinWith(ctx context.Context, input dto.SpinInput) error {
	return h.usecase.Spin(ctx, input)
}

func (h CLIHandler) Dismiss(ctx context.Context) error {
	return h.usecase.Dismiss(ctx)
}

func (h CLIHandler) RebuildIdle(ctx context.Context) error {
	return h.usecase.RebuildIdle(ctx)
}

func (h CLIHandler) Snapshot() dto.Snapshot {
	return h.usecase.Snapshot()
}
