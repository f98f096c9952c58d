package domain

import "fmt"

type Mode string

const (
	ModeUniform  Mode = "uniform"
	ModeWeighted Mode = "weighted"
)

func ParseMode(raw string) (Mode, error) {
	switch Mode(raw) {
	case ModeUniform, ModeWeighted:
		return Mode(raw), nil
	case "":
		return ModeUniform, nil
	default:
		return "", fmt.Errorf("unknown selection mode: %s", raw)
	}
}

// Participant is the wheel's read-only view of a roster entry for the
// duration of one spin.
type Participant struct {
	ID         string
	Name       string
	Tag        string
	ExternalID string
	Weight     float64
}

func (p Participant) EffectiveWeight() float64 {
	if p.Weight <= 0 {
		return 1
	}
	return p.Weight
}
