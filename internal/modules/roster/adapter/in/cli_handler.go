package in

import (
	"context"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"spinwheel/internal/modules/roster/dto"
	rosterin "spinwheel/internal/modules/roster/port/in"
)

type CLIHandler struct {
	usecase rosterin.Usecase
}

func NewCLIHandler(usecase rosterin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

// List returns the roster in store order, which is also the order the wheel
// builds its idle track from.
func (h CLIHandler) List(ctx context.Context) ([]dto.ParticipantOutput, error) {
	return h.usecase.List(ctx)
}

// ListSorted orders participants by name using locale-aware collation so
// accented names sort next to their base letters.
func (h CLIHandler) ListSorted(ctx context.Context) ([]dto.ParticipantOutput, error) {
	items, err := h.usecase.List(ctx)
	if err != nil {
		return nil, err
	}
	col := collate.New(language.Und, collate.IgnoreCase)
	sort.SliceStable(items, func(i, j int) bool {
		return col.CompareString(items[i].Name, items[j].Name) < 0
	})
	return items, nil
}

func (h CLIHandler) Get(ctx context.Context, participantID string) (dto.ParticipantOutput, error) {
	return h.usecase.Get(ctx, participantID)
}

func (h CLIHandler) Add(ctx context.Context, name, tag string, weight float64) (dto.ParticipantOutput, error) {
	return h.usecase.Add(ctx, dto.AddInput{Name: name, Tag: tag, Weight: weight})
}

func (h CLIHandler) AddFull(ctx context.Context, input dto.AddInput) (dto.ParticipantOutput, error) {
	return h.usecase.Add(ctx, input)
}

func (h CLIHandler) Remove(ctx context.Context, participantID string) error {
	return h.usecase.Remove(ctx, participantID)
}

func (h CLIHandler) DecrementWeight(ctx context.Context, participantID string) (dto.DecrementOutput, error) {
	return h.usecase.DecrementWeight(ctx, participantID)
}

func (h CLIHandler) SetWeight(ctx context.Context, participantID string, weight float64) (dto.ParticipantOutput, error) {
	return h.usecase.SetWeight(ctx, dto.WeightCommand{ParticipantID: participantID, Weight: weight})
}

func (h CLIHandler) Import(ctx context.Context, text string, replace bool) (dto.ImportOutput, error) {
	return h.usecase.Import(ctx, dto.ImportInput{Text: text, Replace: replace})
}

func (h CLIHandler) Clear(ctx context.Context) error {
	return h.usecase.Clear(ctx)
}
