package domain

import "time"

// Session lives from the moment a landing is committed until its finish
// handling has run.
type Session struct {
	ID             string
	Winner         Participant
	StartedAt      time.Time
	Duration       time.Duration
	Theme          Theme
	Mode           Mode
	TargetIndex    int
	TargetPosition float64
	Prize          string
}
