package domain

import (
	apperrors "spinwheel/internal/platform/errors"
)

// SelectWinner is the only place a winner is decided. The track is built
// around its result; the landing position never feeds back into it.
func SelectWinner(participants []Participant, mode Mode, rng RNG) (Participant, error) {
	if len(participants) == 0 {
		return Participant{}, apperrors.ErrEmptyRoster
	}
	if mode != ModeWeighted {
		return participants[rng.IntN(len(participants))], nil
	}

	total := 0.0
	for _, p := range participants {
		total += p.EffectiveWeight()
	}
	draw := rng.Float64() * total
	for _, p := range participants {
		draw -= p.EffectiveWeight()
		if draw < 0 {
			return p, nil
		}
	}
	// Rounding can leave draw at or just above zero after the last span.
	return participants[len(participants)-1], nil
}

// Shuffle returns a uniformly permuted copy of list.
func Shuffle(list []Participant, rng RNG) []Participant {
	out := make([]Participant, len(list))
	copy(out, list)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
