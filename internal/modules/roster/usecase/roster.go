package usecase

import (
	"context"

	"spinwheel/internal/modules/roster/domain"
	"spinwheel/internal/modules/roster/dto"
	rosterin "spinwheel/internal/modules/roster/port/in"
	"spinwheel/internal/modules/roster/service"
)

type Interactor struct {
	svc *service.RosterService
}

func NewInteractor(svc *service.RosterService) rosterin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) List(ctx context.Context) ([]dto.ParticipantOutput, error) {
	participants, err := i.svc.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ParticipantOutput, 0, len(participants))
	for _, p := range participants {
		out = append(out, toOutput(p))
	}
	return out, nil
}

func (i *Interactor) Get(ctx context.Context, participantID string) (dto.ParticipantOutput, error) {
	p, err := i.svc.Get(ctx, participantID)
	if err != nil {
		return dto.ParticipantOutput{}, err
	}
	return toOutput(p), nil
}

func (i *Interactor) Add(ctx context.Context, input dto.AddInput) (dto.ParticipantOutput, error) {
	p, err := i.svc.Add(ctx, domain.Participant{
		Name:       input.Name,
		ExternalID: input.ExternalID,
		Tag:        input.Tag,
		Shift:      input.Shift,
		Supervisor: input.Supervisor,
		Weight:     input.Weight,
	})
	if err != nil {
		return dto.ParticipantOutput{}, err
	}
	return toOutput(p), nil
}

func (i *Interactor) Remove(ctx context.Context, participantID string) error {
	return i.svc.Remove(ctx, participantID)
}

func (i *Interactor) DecrementWeight(ctx context.Context, participantID string) (dto.DecrementOutput, error) {
	p, removed, err := i.svc.DecrementWeight(ctx, participantID)
	if err != nil {
		return dto.DecrementOutput{}, err
	}
	return dto.DecrementOutput{Participant: toOutput(p), Removed: removed}, nil
}

func (i *Interactor) SetWeight(ctx context.Context, cmd dto.WeightCommand) (dto.ParticipantOutput, error) {
	p, err := i.svc.SetWeight(ctx, cmd.ParticipantID, cmd.Weight)
	if err != nil {
		return dto.ParticipantOutput{}, err
	}
	return toOutput(p), nil
}

func (i *Interactor) Import(ctx context.Context, input dto.ImportInput) (dto.ImportOutput, error) {
	added, coerced, skipped, err := i.svc.Import(ctx, input.Text, input.Replace)
	if err != nil {
		return dto.ImportOutput{}, err
	}
	return dto.ImportOutput{Added: added, Coerced: coerced, Skipped: skipped}, nil
}

func (i *Interactor) Clear(ctx context.Context) error {
	return i.svc.Clear(ctx)
}

func toOutput(p domain.Participant) dto.ParticipantOutput {
	return dto.ParticipantOutput{
		ID:         p.ID,
		Name:       p.Name,
		ExternalID: p.ExternalID,
		Tag:        p.Tag,
		Shift:      p.Shift,
		Supervisor: p.Supervisor,
		Weight:     p.Weight,
	}
}
