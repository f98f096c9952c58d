package usecase

import (
	"context"

	"spinwheel/internal/modules/wheel/dto"
	wheelin "spinwheel/internal/modules/wheel/port/in"
	"spinwheel/internal/modules/wheel/service"
)

type Interactor struct {
	orchestrator *service.Orchestrator
}

func NewInteractor(orchestrator *service.Orchestrator) wheelin.Usecase {
	return &Interactor{orchestrator: orchestrator}
}

func (i *Interactor) Spin(ctx context.Context, input dto.SpinInput) error {
	return i.orchestrator.Spin(ctx, input)
}

func (i *Interactor) Dismiss(ctx context.Context) error {
	return i.orchestrator.Dismiss(ctx)
}

func (i *Interactor) RebuildIdle(ctx context.Context) error {
	return i.orchestrator.RebuildIdle(ctx)
}

func (i *Interactor) Snapshot() dto.Snapshot {
	return i.orchestrator.Snapshot()
}
