package dto

import "time"

type SpinInput struct {
	// Duration and Theme fall back to configured defaults when zero.
	Duration time.Duration `json:"duration,omitempty"`
	Theme    string        `json:"theme,omitempty"`
	Prize    string        `json:"prize,omitempty"`
}

type Card struct {
	ID     string
	Name   string
	Tag    string
	Winner bool
}

type Reveal struct {
	SessionID  string        `json:"session_id"`
	WinnerID   string        `json:"winner_id"`
	WinnerName string        `json:"winner_name"`
	WinnerTag  string        `json:"winner_tag,omitempty"`
	Prize      string        `json:"prize,omitempty"`
	Theme      string        `json:"theme"`
	Duration   time.Duration `json:"duration"`
	// Removed is set when the post-win policy took the winner off the roster.
	Removed bool `json:"removed"`
}

// Snapshot is a read-only view of the wheel for renderers.
type Snapshot struct {
	Phase        string
	Busy         bool
	Position     float64
	CardWidth    float64
	Gap          float64
	MarkerOffset float64
	Cards        []Card
}
