package wheel

import (
	wheeldto "spinwheel/internal/modules/wheel/dto"
)

// Surface is the presenter the orchestrator draws into. In the TUI the frame
// loop is pumped from Update, so Surface is only touched on that goroutine.
type Surface struct {
	cards   []wheeldto.Card
	reveal  *wheeldto.Reveal
	reveals int
	notice  string
	busy    bool
}

func NewSurface() *Surface { return &Surface{} }

func (s *Surface) Render(cards []wheeldto.Card) { s.cards = cards }

func (s *Surface) Reveal(r wheeldto.Reveal) {
	s.reveal = &r
	s.reveals++
}

func (s *Surface) Notice(text string) { s.notice = text }

func (s *Surface) SetBusy(busy bool) {
	s.busy = busy
	if busy {
		s.reveal = nil
		s.notice = ""
	}
}

func (s *Surface) Cards() []wheeldto.Card { return s.cards }

func (s *Surface) Busy() bool { return s.busy }

func (s *Surface) CurrentNotice() string { return s.notice }

// Revealed returns the winner on display, if any.
func (s *Surface) Revealed() (wheeldto.Reveal, bool) {
	if s.reveal == nil {
		return wheeldto.Reveal{}, false
	}
	return *s.reveal, true
}

// Reveals counts reveals since start; callers compare it to notice new ones.
func (s *Surface) Reveals() int { return s.reveals }

func (s *Surface) ClearReveal() { s.reveal = nil }

func (s *Surface) ClearNotice() { s.notice = "" }
