package in

import (
	"context"

	"spinwheel/internal/modules/cue/dto"
)

// Player is the fire-and-forget surface used while a spin animates. Calls
// never block and are no-ops when muted.
type Player interface {
	PlayTick()
	PlaySpinStart()
	PlayWin(winner string)
}

type Usecase interface {
	Player
	SetMuted(muted bool)
	Muted() bool
	List(ctx context.Context) ([]dto.PluginInfo, error)
	Doctor(ctx context.Context) ([]dto.DoctorResult, error)
	Attach(ctx context.Context, input dto.AttachInput) error
	Close() error
}
