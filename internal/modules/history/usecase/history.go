package usecase

import (
	"context"

	"spinwheel/internal/modules/history/domain"
	"spinwheel/internal/modules/history/dto"
	historyin "spinwheel/internal/modules/history/port/in"
	"spinwheel/internal/modules/history/service"
)

type Interactor struct {
	svc *service.HistoryService
}

func NewInteractor(svc *service.HistoryService) historyin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Append(ctx context.Context, input dto.AppendInput) (dto.AppendOutput, error) {
	entry, appended, err := i.svc.Append(ctx, domain.Winner{
		ID:         input.WinnerID,
		Name:       input.WinnerName,
		Tag:        input.WinnerTag,
		ExternalID: input.WinnerExternalID,
		Weight:     input.WinnerWeight,
	}, input.Prize)
	if err != nil {
		return dto.AppendOutput{}, err
	}
	return dto.AppendOutput{Entry: toOutput(entry), Appended: appended}, nil
}

func (i *Interactor) List(ctx context.Context, limit int) ([]dto.EntryOutput, error) {
	entries, err := i.svc.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.EntryOutput, 0, len(entries))
	for _, e := range entries {
		out = append(out, toOutput(e))
	}
	return out, nil
}

func (i *Interactor) Clear(ctx context.Context) error {
	return i.svc.Clear(ctx)
}

func (i *Interactor) Export(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error) {
	path, count, err := i.svc.Export(ctx, input.Path, input.Title)
	if err != nil {
		return dto.ExportOutput{}, err
	}
	return dto.ExportOutput{Path: path, Count: count}, nil
}

func (i *Interactor) RenderMarkdown(ctx context.Context, title string) (string, error) {
	return i.svc.Render(ctx, title)
}

func toOutput(e domain.Entry) dto.EntryOutput {
	return dto.EntryOutput{
		ID:         e.ID,
		At:         e.At,
		WinnerID:   e.Winner.ID,
		WinnerName: e.Winner.Name,
		WinnerTag:  e.Winner.Tag,
		Prize:      e.Prize,
	}
}
