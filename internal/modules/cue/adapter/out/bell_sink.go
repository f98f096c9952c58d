package out

import (
	"io"
	"sync"

	"spinwheel/internal/modules/cue/domain"
	cueout "spinwheel/internal/modules/cue/port/out"
)

const bell = "\a"

// BellSink rings the terminal bell: once per tick and spin start, three times
// for a win.
type BellSink struct {
	mu  sync.Mutex
	out io.Writer
}

func NewBellSink(out io.Writer) cueout.Sink {
	return &BellSink{out: out}
}

func (s *BellSink) Play(event domain.Event) {
	rings := 1
	if event.Kind == domain.KindWin {
		rings = 3
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i < rings; i++ {
		_, _ = io.WriteString(s.out, bell)
	}
}

func (s *BellSink) Close() error {
	return nil
}

type NopSink struct{}

func NewNopSink() cueout.Sink {
	return NopSink{}
}

func (NopSink) Play(domain.Event) {}

func (NopSink) Close() error { return nil }
