package out

import (
	"context"

	"spinwheel/internal/modules/history/dto"
	historyin "spinwheel/internal/modules/history/port/in"
	"spinwheel/internal/modules/wheel/domain"
	wheelout "spinwheel/internal/modules/wheel/port/out"
)

type HistoryRecorderAdapter struct {
	history historyin.Usecase
}

func NewHistoryRecorderAdapter(history historyin.Usecase) wheelout.HistoryRecorder {
	return &HistoryRecorderAdapter{history: history}
}

func (a *HistoryRecorderAdapter) Append(ctx context.Context, winner domain.Participant, prize string) (bool, error) {
	out, err := a.history.Append(ctx, dto.AppendInput{
		WinnerID:         winner.ID,
		WinnerName:       winner.Name,
		WinnerTag:        winner.Tag,
		WinnerExternalID: winner.ExternalID,
		WinnerWeight:     winner.Weight,
		Prize:            prize,
	})
	if err != nil {
		return false, err
	}
	return out.Appended, nil
}
