package in

import (
	"context"

	"spinwheel/internal/modules/roster/dto"
)

type Usecase interface {
	List(ctx context.Context) ([]dto.ParticipantOutput, error)
	Get(ctx context.Context, id string) (dto.ParticipantOutput, error)
	Add(ctx context.Context, input dto.AddInput) (dto.ParticipantOutput, error)
	Remove(ctx context.Context, id string) error
	DecrementWeight(ctx context.Context, id string) (dto.DecrementOutput, error)
	SetWeight(ctx context.Context, cmd dto.WeightCommand) (dto.ParticipantOutput, error)
	Import(ctx context.Context, input dto.ImportInput) (dto.ImportOutput, error)
	Clear(ctx context.Context) error
}
