package out

import (
	"context"

	"spinwheel/internal/modules/wheel/domain"
	"spinwheel/internal/modules/wheel/dto"
)

type RosterSource interface {
	List(ctx context.Context) ([]domain.Participant, error)
	Remove(ctx context.Context, participantID string) error
	// DecrementWeight reports removed=true when the weight reached zero.
	DecrementWeight(ctx context.Context, participantID string) (removed bool, err error)
}

type HistoryRecorder interface {
	Append(ctx context.Context, winner domain.Participant, prize string) (appended bool, err error)
}

// CuePlayer calls must not block.
type CuePlayer interface {
	PlayTick()
	PlaySpinStart()
	PlayWin(winner string)
}

// Presenter receives drawing commands; it never reports rendered state back.
type Presenter interface {
	Render(cards []dto.Card)
	Reveal(reveal dto.Reveal)
	Notice(text string)
	SetBusy(busy bool)
}

// Announcer publishes a revealed winner outside the app. It must return
// without waiting on the network.
type Announcer interface {
	Announce(session domain.Session)
}
