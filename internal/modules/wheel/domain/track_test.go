package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"spinwheel/internal/modules/wheel/domain"
)

func TestTrackAppendDropAndReset(t *testing.T) {
	t.Parallel()
	track := &domain.Track{}
	track.Reset(roster(1, 1, 1))
	assert.Equal(t, 3, track.Len())

	idx := track.Append(domain.Participant{ID: "w", Name: "Winner"}, true)
	assert.Equal(t, 3, idx)
	card, ok := track.At(idx)
	assert.True(t, ok)
	assert.True(t, card.Winner)

	track.DropFront(2)
	assert.Equal(t, 2, track.Len())
	first, _ := track.At(0)
	assert.Equal(t, "Carol", first.Participant.Name)

	cards := track.Cards()
	cards[0].Participant.Name = "mutated"
	again, _ := track.At(0)
	assert.Equal(t, "Carol", again.Participant.Name, "Cards returns a copy")

	track.DropFront(10)
	assert.Equal(t, 0, track.Len())
	_, ok = track.At(0)
	assert.False(t, ok)
}
