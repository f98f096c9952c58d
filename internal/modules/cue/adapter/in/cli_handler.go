package in

import (
	"context"

	"spinwheel/internal/modules/cue/dto"
	cuein "spinwheel/internal/modules/cue/port/in"
)

type CLIHandler struct {
	usecase cuein.Usecase
}

func NewCLIHandler(usecase cuein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context) ([]dto.PluginInfo, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	return h.usecase.Doctor(ctx)
}

// Test plays one of each cue through the active sink.
func (h CLIHandler) Test(winner string) {
	h.usecase.PlaySpinStart()
	h.usecase.PlayTick()
	h.usecase.PlayWin(winner)
}
