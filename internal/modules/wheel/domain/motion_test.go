package domain_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spinwheel/internal/modules/wheel/domain"
	"spinwheel/internal/platform/frame"
)

var t0 = time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC)

// countingScheduler records outstanding frame requests so tests can assert
// that no phase ever leaves two loops driving the position.
type countingScheduler struct {
	seq      frame.Handle
	frames   map[frame.Handle]func(time.Time)
	order    []frame.Handle
	maxLive  int
	refuse   error
	requests int
}

func newCountingScheduler() *countingScheduler {
	return &countingScheduler{frames: map[frame.Handle]func(time.Time){}}
}

func (s *countingScheduler) RequestFrame(fn func(time.Time)) (frame.Handle, error) {
	if s.refuse != nil {
		return 0, s.refuse
	}
	s.seq++
	s.requests++
	s.frames[s.seq] = fn
	s.order = append(s.order, s.seq)
	if len(s.frames) > s.maxLive {
		s.maxLive = len(s.frames)
	}
	return s.seq, nil
}

func (s *countingScheduler) After(time.Duration, func(time.Time)) (frame.Handle, error) {
	return 0, errors.New("not used")
}

func (s *countingScheduler) Cancel(h frame.Handle) {
	delete(s.frames, h)
}

func (s *countingScheduler) pump(now time.Time) {
	batch := s.order
	s.order = nil
	for _, h := range batch {
		fn, ok := s.frames[h]
		if !ok {
			continue
		}
		delete(s.frames, h)
		fn(now)
	}
}

func (s *countingScheduler) live() int { return len(s.frames) }

var geometry = domain.Geometry{CardWidth: 16, Gap: 2, MarkerOffset: 40}

func newMotion(sched frame.Scheduler) *domain.Motion {
	return domain.NewMotion(sched, domain.MotionOptions{Geometry: geometry, IdleSpeed: 0.5, WrapCards: 10})
}

func TestSpinWithZeroDurationFinishesImmediately(t *testing.T) {
	t.Parallel()
	sched := newCountingScheduler()
	m := newMotion(sched)
	finished := 0
	m.SetCallbacks(domain.Callbacks{OnFinish: func() { finished++ }})

	target, err := m.SpinFromIdle(12, 0, domain.ThemeDramatic)
	require.NoError(t, err)
	assert.Equal(t, 1, finished)
	assert.Equal(t, target, m.Position())
	assert.Equal(t, geometry.TargetPosition(12), target)
	assert.Equal(t, domain.PhaseStopped, m.Phase())
	assert.Equal(t, 0, sched.live())
}

func TestLandingFinishesExactlyOnceOnTargetForEveryTheme(t *testing.T) {
	t.Parallel()
	for _, theme := range domain.Themes() {
		theme := theme
		t.Run(string(theme), func(t *testing.T) {
			t.Parallel()
			loop := frame.New(t0)
			m := newMotion(loop)
			var events []string
			var ticks []int
			finished := 0
			m.SetCallbacks(domain.Callbacks{
				OnTick: func(index int) {
					ticks = append(ticks, index)
					events = append(events, "tick")
				},
				OnFinish: func() {
					finished++
					events = append(events, "finish")
				},
			})

			target, err := m.SpinFromIdle(40, 2*time.Second, theme)
			require.NoError(t, err)
			assert.True(t, m.Busy())

			now := t0
			for i := 0; i < 400 && loop.Pending(); i++ {
				now = now.Add(frame.NominalInterval)
				loop.Pump(now)
			}

			require.Equal(t, 1, finished)
			assert.Equal(t, target, m.Position(), "must converge exactly")
			assert.Equal(t, domain.PhaseStopped, m.Phase())
			assert.False(t, loop.Pending())
			require.NotEmpty(t, ticks)
			assert.Equal(t, "finish", events[len(events)-1], "ticks come before finish")
			for i := 1; i < len(ticks); i++ {
				assert.Greater(t, ticks[i], ticks[i-1])
			}
			assert.GreaterOrEqual(t, ticks[len(ticks)-1], geometry.PassedIndex(target))
		})
	}
}

func TestLandingTicksDecelerate(t *testing.T) {
	t.Parallel()
	loop := frame.New(t0)
	m := newMotion(loop)
	var tickFrames []int
	frameNo := 0
	m.SetCallbacks(domain.Callbacks{OnTick: func(int) { tickFrames = append(tickFrames, frameNo) }})

	_, err := m.SpinFromIdle(60, 3*time.Second, domain.ThemeStandard)
	require.NoError(t, err)
	now := t0
	for loop.Pending() {
		frameNo++
		now = now.Add(frame.NominalInterval)
		loop.Pump(now)
	}
	require.Greater(t, len(tickFrames), 10)
	half := len(tickFrames) / 2
	firstHalf := tickFrames[half] - tickFrames[0]
	secondHalf := tickFrames[len(tickFrames)-1] - tickFrames[half]
	assert.Greater(t, secondHalf, firstHalf, "later cards pass more slowly")
}

func TestSpinDuringLandingIsRejected(t *testing.T) {
	t.Parallel()
	sched := newCountingScheduler()
	m := newMotion(sched)
	_, err := m.SpinFromIdle(5, time.Second, domain.ThemeStandard)
	require.NoError(t, err)
	_, err = m.SpinFromIdle(6, time.Second, domain.ThemeStandard)
	assert.ErrorIs(t, err, domain.ErrLandingInProgress)
	assert.Equal(t, 1, sched.live())
}

func TestPhaseChangesNeverLeaveTwoLoops(t *testing.T) {
	t.Parallel()
	sched := newCountingScheduler()
	m := newMotion(sched)
	finished := 0
	m.SetCallbacks(domain.Callbacks{OnFinish: func() { finished++ }})

	now := t0
	step := func(n int) {
		for i := 0; i < n; i++ {
			now = now.Add(frame.NominalInterval)
			sched.pump(now)
		}
	}

	m.StartIdle()
	assert.Equal(t, domain.PhaseIdle, m.Phase())
	m.StartIdle()
	step(3)
	m.VisualShuffle(3)
	assert.Equal(t, domain.PhaseShuffling, m.Phase())
	step(3)
	m.ResumeIdle()
	assert.Equal(t, domain.PhaseIdle, m.Phase())
	m.VisualShuffle(4)
	step(3)
	_, err := m.SpinFromIdle(30, 500*time.Millisecond, domain.ThemeFunny)
	require.NoError(t, err)
	m.StopIdle()
	assert.Equal(t, domain.PhaseLanding, m.Phase(), "StopIdle must not interrupt a landing")
	step(60)

	assert.Equal(t, 1, sched.maxLive)
	assert.Equal(t, 1, finished)
	assert.Equal(t, 0, sched.live())
}

func TestIdleDriftEmitsOneExitPerBoundary(t *testing.T) {
	t.Parallel()
	loop := frame.New(t0)
	m := domain.NewMotion(loop, domain.MotionOptions{Geometry: geometry, IdleSpeed: 5, WrapCards: 1000})
	var exits []int
	m.SetCallbacks(domain.Callbacks{OnCardExit: func(b int) { exits = append(exits, b) }})

	m.StartIdle()
	now := t0
	prev := m.Position()
	for i := 0; i < 120; i++ {
		now = now.Add(frame.NominalInterval)
		loop.Pump(now)
		assert.Less(t, m.Position(), prev, "drift only moves one way")
		prev = m.Position()
	}
	// 120 frames at 5 units per frame over 18-unit cards.
	assert.Equal(t, geometry.PassedIndex(m.Position()), len(exits))
	for i, b := range exits {
		assert.Equal(t, i+1, b)
	}
}

func TestIdleDriftScalesWithFrameDelta(t *testing.T) {
	t.Parallel()
	loop := frame.New(t0)
	m := domain.NewMotion(loop, domain.MotionOptions{Geometry: geometry, IdleSpeed: 1, WrapCards: 1000})
	m.StartIdle()
	loop.Pump(t0.Add(frame.NominalInterval))
	first := m.Position()
	assert.InDelta(t, -1, first, 1e-9)

	loop.Pump(t0.Add(3 * frame.NominalInterval))
	assert.InDelta(t, -3, m.Position(), 1e-9, "a slow frame covers the missed distance")

	loop.Pump(t0.Add(time.Minute))
	assert.InDelta(t, -7, m.Position(), 1e-9, "stalls are clamped")
}

func TestIdleWrapIsSeamless(t *testing.T) {
	t.Parallel()
	loop := frame.New(t0)
	m := domain.NewMotion(loop, domain.MotionOptions{Geometry: geometry, IdleSpeed: 3, WrapCards: 10})
	track := &domain.Track{}
	next := 0
	appendCard := func() {
		track.Append(domain.Participant{ID: fmt.Sprintf("c-%d", next)}, false)
		next++
	}
	for i := 0; i < 30; i++ {
		appendCard()
	}
	screen := func() map[string]float64 {
		out := map[string]float64{}
		for i, c := range track.Cards() {
			out[c.Participant.ID] = float64(i)*geometry.ItemSize() + m.Position()
		}
		return out
	}

	var before map[string]float64
	wraps := 0
	m.SetCallbacks(domain.Callbacks{
		OnCardExit: func(int) {
			appendCard()
			before = screen()
		},
		OnWrap: func(n int) {
			wraps++
			track.DropFront(n)
			for id, x := range screen() {
				assert.InDelta(t, before[id], x, 1e-9, "card %s moved on wrap", id)
			}
		},
	})

	m.StartIdle()
	now := t0
	for i := 0; i < 400; i++ {
		now = now.Add(frame.NominalInterval)
		loop.Pump(now)
		assert.Greater(t, m.Position(), -11*geometry.ItemSize(), "position stays bounded")
	}
	assert.Greater(t, wraps, 3)
}

func TestSchedulingFailureHaltsInPlace(t *testing.T) {
	t.Parallel()
	sched := newCountingScheduler()
	m := newMotion(sched)
	var halted error
	finished := 0
	m.SetCallbacks(domain.Callbacks{
		OnHalt:   func(err error) { halted = err },
		OnFinish: func() { finished++ },
	})
	_, err := m.SpinFromIdle(20, time.Second, domain.ThemeStandard)
	require.NoError(t, err)
	sched.pump(t0)
	sched.pump(t0.Add(100 * time.Millisecond))
	pos := m.Position()

	sched.refuse = frame.ErrStopped
	sched.pump(t0.Add(200 * time.Millisecond))
	require.ErrorIs(t, halted, frame.ErrStopped)
	assert.Equal(t, domain.PhaseStopped, m.Phase())
	assert.Equal(t, 0, finished)
	assert.NotEqual(t, pos, 0.0)
	last := m.Position()
	sched.pump(t0.Add(300 * time.Millisecond))
	assert.Equal(t, last, m.Position(), "track stays at its last position")
}

func TestResetPositionClearsBoundaryTracking(t *testing.T) {
	t.Parallel()
	loop := frame.New(t0)
	m := domain.NewMotion(loop, domain.MotionOptions{Geometry: geometry, IdleSpeed: 9, WrapCards: 1000})
	exits := 0
	m.SetCallbacks(domain.Callbacks{OnCardExit: func(int) { exits++ }})
	m.StartIdle()
	for i := 1; i <= 10; i++ {
		loop.Pump(t0.Add(time.Duration(i) * frame.NominalInterval))
	}
	m.StopIdle()
	require.Equal(t, 5, exits)

	m.ResetPosition()
	assert.Equal(t, 0.0, m.Position())
	exits = 0
	m.StartIdle()
	for i := 11; i <= 14; i++ {
		loop.Pump(t0.Add(time.Duration(i) * frame.NominalInterval))
	}
	assert.Equal(t, 2, exits, "boundaries restart from zero after reset")
}

func TestFastDriftWrapsWholeBlocks(t *testing.T) {
	t.Parallel()
	loop := frame.New(t0)
	m := domain.NewMotion(loop, domain.MotionOptions{Geometry: geometry, IdleSpeed: 0.5, WrapCards: 1})
	dropped := 0
	m.SetCallbacks(domain.Callbacks{OnWrap: func(n int) { dropped += n }})

	m.StartIdle()
	m.VisualShuffle(30)
	now := t0
	for i := 0; i < 1000; i++ {
		// Each step is a stall clamped to four frames of travel.
		now = now.Add(10 * frame.NominalInterval)
		loop.Pump(now)
		require.Greater(t, m.Position(), -geometry.ItemSize(), "frame %d", i)
	}
	// The first frame has no delta and moves one nominal frame.
	travelled := 30 + 999*120.0
	assert.InDelta(t, travelled, float64(dropped)*geometry.ItemSize()-m.Position(), 1e-6, "every passed card is wrapped")
}
