// Package frame provides a cooperative, single-goroutine frame scheduler:
// the Go stand-in for requestAnimationFrame and setTimeout. A host drives it
// by calling Pump once per display frame.
package frame

import (
	"errors"
	"sort"
	"time"
)

var ErrStopped = errors.New("frame loop stopped")

// NominalInterval is one frame at 60 Hz.
const NominalInterval = time.Second / 60

type Handle uint64

// Scheduler is the part of Loop that animation code depends on.
type Scheduler interface {
	RequestFrame(fn func(now time.Time)) (Handle, error)
	After(d time.Duration, fn func(now time.Time)) (Handle, error)
	Cancel(h Handle)
}

type timer struct {
	handle   Handle
	deadline time.Time
	fn       func(time.Time)
}

type request struct {
	handle Handle
	fn     func(time.Time)
}

// Loop is not safe for concurrent use. Callbacks run synchronously inside
// Pump, in request order for frames and deadline order for timers.
type Loop struct {
	seq     Handle
	now     time.Time
	frames  []request
	timers  []timer
	live    map[Handle]struct{}
	stopped bool
}

func New(start time.Time) *Loop {
	return &Loop{now: start, live: map[Handle]struct{}{}}
}

// RequestFrame schedules fn for the next Pump. Requests made while a pump is
// running are deferred to the following pump.
func (l *Loop) RequestFrame(fn func(now time.Time)) (Handle, error) {
	if l.stopped {
		return 0, ErrStopped
	}
	h := l.issue()
	l.frames = append(l.frames, request{handle: h, fn: fn})
	return h, nil
}

// After schedules fn once, on the first pump at or after now+d.
func (l *Loop) After(d time.Duration, fn func(now time.Time)) (Handle, error) {
	if l.stopped {
		return 0, ErrStopped
	}
	if d < 0 {
		d = 0
	}
	h := l.issue()
	l.timers = append(l.timers, timer{handle: h, deadline: l.now.Add(d), fn: fn})
	return h, nil
}

// Cancel is a no-op for handles that already ran or were never issued.
func (l *Loop) Cancel(h Handle) {
	delete(l.live, h)
}

// Pump advances the loop to now: due timers fire first, then the frames
// that were pending when Pump was entered.
func (l *Loop) Pump(now time.Time) {
	if l.stopped {
		return
	}
	if now.After(l.now) {
		l.now = now
	}

	var due, later []timer
	for _, t := range l.timers {
		if _, ok := l.live[t.handle]; !ok {
			continue
		}
		if !t.deadline.After(l.now) {
			due = append(due, t)
		} else {
			later = append(later, t)
		}
	}
	l.timers = later
	sort.SliceStable(due, func(i, j int) bool { return due[i].deadline.Before(due[j].deadline) })
	for _, t := range due {
		if !l.take(t.handle) {
			continue
		}
		t.fn(l.now)
		if l.stopped {
			return
		}
	}

	batch := l.frames
	l.frames = nil
	for _, r := range batch {
		if !l.take(r.handle) {
			continue
		}
		r.fn(l.now)
		if l.stopped {
			return
		}
	}
}

// Pending reports whether any frame or timer is waiting.
func (l *Loop) Pending() bool {
	return len(l.live) > 0
}

// Now is the time of the most recent pump.
func (l *Loop) Now() time.Time { return l.now }

// Stop drops all pending work; later requests fail with ErrStopped.
func (l *Loop) Stop() {
	l.stopped = true
	l.frames = nil
	l.timers = nil
	l.live = map[Handle]struct{}{}
}

func (l *Loop) issue() Handle {
	l.seq++
	l.live[l.seq] = struct{}{}
	return l.seq
}

func (l *Loop) take(h Handle) bool {
	if _, ok := l.live[h]; !ok {
		return false
	}
	delete(l.live, h)
	return true
}
