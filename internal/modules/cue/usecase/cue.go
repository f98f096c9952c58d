package usecase

import (
	"context"

	"spinwheel/internal/modules/cue/dto"
	cuein "spinwheel/internal/modules/cue/port/in"
	"spinwheel/internal/modules/cue/service"
)

type Interactor struct {
	svc *service.CueService
}

func NewInteractor(svc *service.CueService) cuein.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) PlayTick() { i.svc.PlayTick() }

func (i *Interactor) PlaySpinStart() { i.svc.PlaySpinStart() }

func (i *Interactor) PlayWin(winner string) { i.svc.PlayWin(winner) }

func (i *Interactor) SetMuted(muted bool) { i.svc.SetMuted(muted) }

func (i *Interactor) Muted() bool { return i.svc.Muted() }

func (i *Interactor) List(ctx context.Context) ([]dto.PluginInfo, error) {
	return i.svc.List(ctx)
}

func (i *Interactor) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	return i.svc.Doctor(ctx)
}

func (i *Interactor) Attach(ctx context.Context, input dto.AttachInput) error {
	return i.svc.Attach(ctx, input.PluginName)
}

func (i *Interactor) Close() error {
	return i.svc.Close()
}
