package out

import (
	"context"

	rosterin "spinwheel/internal/modules/roster/port/in"
	"spinwheel/internal/modules/wheel/domain"
	wheelout "spinwheel/internal/modules/wheel/port/out"
)

type RosterSourceAdapter struct {
	roster rosterin.Usecase
}

func NewRosterSourceAdapter(roster rosterin.Usecase) wheelout.RosterSource {
	return &RosterSourceAdapter{roster: roster}
}

func (a *RosterSourceAdapter) List(ctx context.Context) ([]domain.Participant, error) {
	items, err := a.roster.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Participant, 0, len(items))
	for _, p := range items {
		out = append(out, domain.Participant{
			ID:         p.ID,
			Name:       p.Name,
			Tag:        p.Tag,
			ExternalID: p.ExternalID,
			Weight:     p.Weight,
		})
	}
	return out, nil
}

func (a *RosterSourceAdapter) Remove(ctx context.Context, participantID string) error {
	return a.roster.Remove(ctx, participantID)
}

func (a *RosterSourceAdapter) DecrementWeight(ctx context.Context, participantID string) (bool, error) {
	out, err := a.roster.DecrementWeight(ctx, participantID)
	if err != nil {
		return false, err
	}
	return out.Removed, nil
}
