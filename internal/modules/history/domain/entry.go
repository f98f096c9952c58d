package domain

import "time"

const SchemaVersion = 1

// DuplicateWindow guards against a double-fired finish event logging the
// same winner twice.
const DuplicateWindow = 2000 * time.Millisecond

const (
	ManagedWinnersStart = "<!-- spinwheel:winners:start -->"
	ManagedWinnersEnd   = "<!-- spinwheel:winners:end -->"
)

// Winner is a copy of the participant taken at win time; the participant may
// leave the roster afterwards.
type Winner struct {
	ID         string
	Name       string
	Tag        string
	ExternalID string
	Weight     float64
}

type Entry struct {
	ID     string
	At     time.Time
	Winner Winner
	Prize  string
}

// IsDuplicate reports whether a new entry for winnerID at time at falls
// inside the window of latest.
func IsDuplicate(latest Entry, winnerID string, at time.Time) bool {
	if latest.ID == "" || latest.Winner.ID != winnerID {
		return false
	}
	gap := at.Sub(latest.At)
	if gap < 0 {
		gap = -gap
	}
	return gap <= DuplicateWindow
}
