package domain

// Card is one slot on the track. Winner marks the card the landing targets.
type Card struct {
	Participant Participant
	Winner      bool
}

// Track is the ordered card sequence the presentation renders. Index 0 is
// the card at track position 0.
type Track struct {
	cards []Card
}

func (t *Track) Reset(participants []Participant) {
	t.cards = t.cards[:0]
	for _, p := range participants {
		t.cards = append(t.cards, Card{Participant: p})
	}
}

// Append adds a card and returns its index.
func (t *Track) Append(p Participant, winner bool) int {
	t.cards = append(t.cards, Card{Participant: p, Winner: winner})
	return len(t.cards) - 1
}

// DropFront removes up to n leading cards.
func (t *Track) DropFront(n int) {
	if n <= 0 {
		return
	}
	if n >= len(t.cards) {
		t.cards = t.cards[:0]
		return
	}
	t.cards = append(t.cards[:0], t.cards[n:]...)
}

func (t *Track) Len() int { return len(t.cards) }

func (t *Track) At(i int) (Card, bool) {
	if i < 0 || i >= len(t.cards) {
		return Card{}, false
	}
	return t.cards[i], true
}

// Cards returns a copy safe to hand to another goroutine.
func (t *Track) Cards() []Card {
	out := make([]Card, len(t.cards))
	copy(out, t.cards)
	return out
}
