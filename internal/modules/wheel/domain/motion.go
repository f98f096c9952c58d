package domain

import (
	"errors"
	"math"
	"time"

	"spinwheel/internal/platform/frame"
)

type Phase int

const (
	PhaseStopped Phase = iota
	PhaseIdle
	PhaseShuffling
	PhaseLanding
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseShuffling:
		return "shuffling"
	case PhaseLanding:
		return "landing"
	default:
		return "stopped"
	}
}

var ErrLandingInProgress = errors.New("landing already in progress")

// maxFrameDelta caps the drift applied after a stalled frame so the track
// does not jump several cards at once.
const maxFrameDelta = 4 * frame.NominalInterval

// Callbacks fire synchronously inside the frame step that detects them.
type Callbacks struct {
	// OnTick fires once per landing frame in which the passed card index grew.
	OnTick func(index int)
	// OnCardExit fires once per card boundary crossed while drifting.
	OnCardExit func(boundary int)
	// OnWrap fires after the drift renormalizes; the track must drop the same
	// number of leading cards to stay visually identical.
	OnWrap func(cards int)
	// OnFinish fires exactly once per accepted landing.
	OnFinish func()
	// OnHalt fires when the scheduler refuses a frame. Position is left as is.
	OnHalt func(err error)
}

type MotionOptions struct {
	Geometry Geometry
	// IdleSpeed is track units per nominal 60 Hz frame.
	IdleSpeed float64
	// WrapCards is how many cards pass before the drift renormalizes.
	WrapCards int
}

// landing is the state of one deceleration: everything the step function
// needs, nothing captured from the caller.
type landing struct {
	started   bool
	start     time.Time
	duration  time.Duration
	from      float64
	to        float64
	theme     Theme
	lastIndex int
}

// Motion owns the track position. It is driven by a frame.Scheduler and must
// only be used from the scheduler's goroutine.
type Motion struct {
	sched frame.Scheduler
	opts  MotionOptions
	cb    Callbacks

	phase        Phase
	position     float64
	lastBoundary int
	speed        float64
	lastFrame    time.Time
	handle       frame.Handle
	land         landing
}

func NewMotion(sched frame.Scheduler, opts MotionOptions) *Motion {
	if opts.WrapCards <= 0 {
		opts.WrapCards = 10
	}
	return &Motion{sched: sched, opts: opts}
}

func (m *Motion) SetCallbacks(cb Callbacks) {
	m.cb = cb
}

func (m *Motion) Phase() Phase { return m.phase }

func (m *Motion) Position() float64 { return m.position }

func (m *Motion) Geometry() Geometry { return m.opts.Geometry }

// Busy reports whether a landing is running.
func (m *Motion) Busy() bool { return m.phase == PhaseLanding }

// StartIdle begins the ambient drift. It does nothing unless stopped.
func (m *Motion) StartIdle() {
	if m.phase != PhaseStopped {
		return
	}
	m.drift(PhaseIdle, m.opts.IdleSpeed)
}

// VisualShuffle speeds the drift up without committing to a destination.
func (m *Motion) VisualShuffle(speed float64) {
	if m.phase == PhaseLanding {
		return
	}
	m.drift(PhaseShuffling, speed)
}

// ResumeIdle drops back from shuffling to the idle speed.
func (m *Motion) ResumeIdle() {
	if m.phase != PhaseShuffling {
		return
	}
	m.drift(PhaseIdle, m.opts.IdleSpeed)
}

// StopIdle halts drifting. A running landing is not affected.
func (m *Motion) StopIdle() {
	if m.phase != PhaseIdle && m.phase != PhaseShuffling {
		return
	}
	m.cancel()
	m.phase = PhaseStopped
}

// ResetPosition zeroes the position and boundary tracking.
func (m *Motion) ResetPosition() {
	m.position = 0
	m.lastBoundary = 0
}

// SpinFromIdle lands card targetIndex under the marker over duration. A zero
// or negative duration completes before returning.
func (m *Motion) SpinFromIdle(targetIndex int, duration time.Duration, theme Theme) (float64, error) {
	if m.phase == PhaseLanding {
		return 0, ErrLandingInProgress
	}
	m.cancel()
	target := m.opts.Geometry.TargetPosition(targetIndex)
	m.phase = PhaseLanding
	m.land = landing{
		duration:  duration,
		from:      m.position,
		to:        target,
		theme:     theme,
		lastIndex: m.opts.Geometry.PassedIndex(m.position),
	}
	if duration <= 0 {
		m.position = target
		m.tickIfPassed()
		m.finish()
		return target, nil
	}
	m.schedule(m.stepLanding)
	return target, nil
}

func (m *Motion) drift(phase Phase, speed float64) {
	m.cancel()
	m.phase = phase
	m.speed = speed
	m.lastFrame = time.Time{}
	m.schedule(m.stepDrift)
}

func (m *Motion) stepDrift(now time.Time) {
	m.handle = 0
	dt := frame.NominalInterval
	if !m.lastFrame.IsZero() {
		dt = now.Sub(m.lastFrame)
	}
	if dt < 0 {
		dt = 0
	}
	if dt > maxFrameDelta {
		dt = maxFrameDelta
	}
	m.lastFrame = now

	m.position -= m.speed * float64(dt) / float64(frame.NominalInterval)
	boundary := m.opts.Geometry.PassedIndex(m.position)
	for b := m.lastBoundary + 1; b <= boundary; b++ {
		if m.cb.OnCardExit != nil {
			m.cb.OnCardExit(b)
		}
	}
	if boundary > m.lastBoundary {
		m.lastBoundary = boundary
	}
	// Wrap whole blocks so a fast frame cannot outrun the renormalization.
	if k := m.lastBoundary / m.opts.WrapCards; k > 0 {
		n := k * m.opts.WrapCards
		m.position += float64(n) * m.opts.Geometry.ItemSize()
		m.lastBoundary -= n
		if m.cb.OnWrap != nil {
			m.cb.OnWrap(n)
		}
	}
	if m.phase == PhaseIdle || m.phase == PhaseShuffling {
		m.schedule(m.stepDrift)
	}
}

func (m *Motion) stepLanding(now time.Time) {
	m.handle = 0
	l := &m.land
	if !l.started {
		l.started = true
		l.start = now
	}
	ratio := float64(now.Sub(l.start)) / float64(l.duration)
	ratio = math.Max(0, math.Min(1, ratio))

	if ratio >= 1 {
		m.position = l.to
		m.tickIfPassed()
		m.finish()
		return
	}
	m.position = l.from + (l.to-l.from)*Ease(l.theme, ratio)
	m.tickIfPassed()
	m.schedule(m.stepLanding)
}

func (m *Motion) tickIfPassed() {
	index := m.opts.Geometry.PassedIndex(m.position)
	if index <= m.land.lastIndex {
		return
	}
	m.land.lastIndex = index
	if m.cb.OnTick != nil {
		m.cb.OnTick(index)
	}
}

func (m *Motion) finish() {
	m.phase = PhaseStopped
	if m.cb.OnFinish != nil {
		m.cb.OnFinish()
	}
}

func (m *Motion) schedule(step func(time.Time)) {
	h, err := m.sched.RequestFrame(step)
	if err != nil {
		m.phase = PhaseStopped
		if m.cb.OnHalt != nil {
			m.cb.OnHalt(err)
		}
		return
	}
	m.handle = h
}

func (m *Motion) cancel() {
	if m.handle != 0 {
		m.sched.Cancel(m.handle)
		m.handle = 0
	}
}
