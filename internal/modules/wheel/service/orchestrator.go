package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	"spinwheel/internal/modules/wheel/domain"
	"spinwheel/internal/modules/wheel/dto"
	wheelout "spinwheel/internal/modules/wheel/port/out"
	"spinwheel/internal/platform/clock"
	apperrors "spinwheel/internal/platform/errors"
	"spinwheel/internal/platform/frame"
	"spinwheel/internal/platform/id"
	"spinwheel/internal/platform/metrics"
)

type Options struct {
	Mode            domain.Mode
	Theme           domain.Theme
	Duration        time.Duration
	PreRoll         time.Duration
	RevealDelay     time.Duration
	RemoveAfterWin  bool
	ShuffleRoster   bool
	MinLandingCards int
	MsPerCard       int
	TrailingCards   int
	ShuffleSpeed    float64
	// MinIdleCards pads the idle track by repeating the roster so short
	// rosters still fill the viewport.
	MinIdleCards int
}

type Deps struct {
	Scheduler frame.Scheduler
	Motion    *domain.Motion
	Roster    wheelout.RosterSource
	History   wheelout.HistoryRecorder
	Cues      wheelout.CuePlayer
	Presenter wheelout.Presenter
	Announcer wheelout.Announcer
	RNG       domain.RNG
	Clock     clock.Clock
	IDs       id.Generator
	Log       hclog.Logger
}

// Orchestrator sequences spins. Every method and callback runs on the frame
// loop's goroutine, so it holds no locks.
type Orchestrator struct {
	Deps
	opts Options

	track      domain.Track
	idleRoster []domain.Participant
	busy       bool
	session    *domain.Session
	ctx        context.Context
	timer      frame.Handle
	// stale marks a track still holding a finished or aborted landing.
	stale      bool
}

func NewOrchestrator(deps Deps, opts Options) *Orchestrator {
	if opts.MinLandingCards <= 0 {
		opts.MinLandingCards = 30
	}
	if opts.MsPerCard <= 0 {
		opts.MsPerCard = 100
	}
	if opts.Mode == "" {
		opts.Mode = domain.ModeUniform
	}
	if opts.Theme == "" {
		opts.Theme = domain.ThemeStandard
	}
	deps.Log = deps.Log.Named("wheel")
	o := &Orchestrator{Deps: deps, opts: opts, ctx: context.Background()}
	o.Motion.SetCallbacks(domain.Callbacks{
		OnTick:     func(int) { o.Cues.PlayTick() },
		OnCardExit: o.onCardExit,
		OnWrap:     o.onWrap,
		OnFinish:   o.onFinish,
		OnHalt:     o.onHalt,
	})
	return o
}

// Spin runs steps up to the pre-roll synchronously and schedules the rest
// on the frame loop. It returns ErrEmptyRoster or ErrConcurrentSpin without
// changing any state.
func (o *Orchestrator) Spin(ctx context.Context, input dto.SpinInput) error {
	if o.busy {
		o.reject(o.opts.Theme, "A spin is already running.")
		return apperrors.ErrConcurrentSpin
	}
	theme, err := domain.ParseTheme(input.Theme)
	if err != nil {
		o.Presenter.Notice(err.Error())
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	if input.Theme == "" {
		theme = o.opts.Theme
	}
	participants, err := o.Roster.List(ctx)
	if err != nil {
		o.Presenter.Notice("Could not read the roster.")
		return fmt.Errorf("list roster: %w", err)
	}
	if len(participants) == 0 {
		o.reject(theme, "Add participants before spinning.")
		return apperrors.ErrEmptyRoster
	}

	duration := input.Duration
	if duration == 0 {
		duration = o.opts.Duration
	}
	if duration < 0 {
		duration = 0
	}

	o.busy = true
	o.Presenter.SetBusy(true)
	o.ctx = context.WithoutCancel(ctx)
	if o.stale || o.track.Len() == 0 {
		o.resetTrack(participants)
	}
	o.Cues.PlaySpinStart()
	o.Motion.VisualShuffle(o.opts.ShuffleSpeed)

	started := o.Clock.Now()
	h, err := o.Scheduler.After(o.opts.PreRoll, func(time.Time) {
		o.timer = 0
		o.land(participants, duration, theme, input.Prize, started)
	})
	if err != nil {
		o.abort(theme, "pre-roll", err)
		return err
	}
	o.timer = h
	o.Log.Debug("spin started", "participants", len(participants), "theme", theme, "duration", duration)
	return nil
}

func (o *Orchestrator) land(participants []domain.Participant, duration time.Duration, theme domain.Theme, prize string, started time.Time) {
	if o.opts.ShuffleRoster {
		participants = domain.Shuffle(participants, o.RNG)
	}
	winner, err := domain.SelectWinner(participants, o.opts.Mode, o.RNG)
	if err != nil {
		o.abort(theme, "select", err)
		return
	}

	distance := int(duration.Milliseconds()) / o.opts.MsPerCard
	if distance < o.opts.MinLandingCards {
		distance = o.opts.MinLandingCards
	}
	for i := 0; i < distance; i++ {
		o.track.Append(participants[o.RNG.IntN(len(participants))], false)
	}
	targetIndex := o.track.Append(winner, true)
	for i := 0; i < o.opts.TrailingCards; i++ {
		o.track.Append(participants[o.RNG.IntN(len(participants))], false)
	}
	o.Presenter.Render(o.cards())

	o.session = &domain.Session{
		ID:             o.IDs.New(),
		Winner:         winner,
		StartedAt:      started,
		Duration:       duration,
		Theme:          theme,
		Mode:           o.opts.Mode,
		TargetIndex:    targetIndex,
		TargetPosition: o.Motion.Geometry().TargetPosition(targetIndex),
		Prize:          prize,
	}
	o.Log.Info("landing committed", "spin_id", o.session.ID, "winner", winner.Name, "target_index", targetIndex, "theme", theme)
	if _, err := o.Motion.SpinFromIdle(targetIndex, duration, theme); err != nil {
		o.abort(theme, "landing", err)
	}
}

func (o *Orchestrator) onFinish() {
	s := o.session
	if s == nil {
		return
	}
	log := o.Log.With("spin_id", s.ID)
	o.Cues.PlayWin(s.Winner.Name)

	if _, err := o.History.Append(o.ctx, s.Winner, s.Prize); err != nil {
		log.Error("history append failed", "error", err)
		o.Presenter.Notice("Winner could not be written to history.")
	}

	removed, err := o.applyPolicy(s.Winner)
	if err != nil {
		log.Error("post-win roster update failed", "error", err)
		o.Presenter.Notice("Roster could not be updated after the win.")
	}

	reveal := func(time.Time) {
		o.timer = 0
		o.reveal(*s, removed)
	}
	h, err := o.Scheduler.After(o.opts.RevealDelay, reveal)
	if err != nil {
		log.Warn("reveal delay unavailable, revealing now", "error", err)
		reveal(o.Clock.Now())
		return
	}
	o.timer = h
}

// applyPolicy removes the winner when RemoveAfterWin is set; otherwise
// weighted mode spends one unit of weight.
func (o *Orchestrator) applyPolicy(winner domain.Participant) (bool, error) {
	switch {
	case o.opts.RemoveAfterWin:
		if err := o.Roster.Remove(o.ctx, winner.ID); err != nil {
			return false, err
		}
		return true, nil
	case o.opts.Mode == domain.ModeWeighted:
		return o.Roster.DecrementWeight(o.ctx, winner.ID)
	default:
		return false, nil
	}
}

func (o *Orchestrator) reveal(s domain.Session, removed bool) {
	o.Presenter.Reveal(dto.Reveal{
		SessionID:  s.ID,
		WinnerID:   s.Winner.ID,
		WinnerName: s.Winner.Name,
		WinnerTag:  s.Winner.Tag,
		Prize:      s.Prize,
		Theme:      string(s.Theme),
		Duration:   s.Duration,
		Removed:    removed,
	})
	if o.Announcer != nil {
		o.Announcer.Announce(s)
	}
	metrics.SpinsTotal.WithLabelValues(string(s.Theme), string(s.Mode), metrics.OutcomeCompleted).Inc()
	metrics.SpinDuration.WithLabelValues(string(s.Theme)).Observe(o.Clock.Now().Sub(s.StartedAt).Seconds())
	o.session = nil
	o.stale = true
	o.busy = false
	o.Presenter.SetBusy(false)
}

// Dismiss closes the reveal and restarts the idle carousel.
func (o *Orchestrator) Dismiss(ctx context.Context) error {
	if o.busy {
		return apperrors.ErrConcurrentSpin
	}
	return o.RebuildIdle(ctx)
}

// RebuildIdle reloads the roster into a fresh idle track. It is skipped while
// a spin is in flight; the post-spin dismiss rebuilds anyway.
func (o *Orchestrator) RebuildIdle(ctx context.Context) error {
	if o.busy {
		return nil
	}
	participants, err := o.Roster.List(ctx)
	if err != nil {
		return fmt.Errorf("list roster: %w", err)
	}
	o.Motion.StopIdle()
	o.resetTrack(participants)
	if len(participants) > 0 {
		o.Motion.StartIdle()
	}
	return nil
}

func (o *Orchestrator) Snapshot() dto.Snapshot {
	g := o.Motion.Geometry()
	return dto.Snapshot{
		Phase:        o.Motion.Phase().String(),
		Busy:         o.busy,
		Position:     o.Motion.Position(),
		CardWidth:    g.CardWidth,
		Gap:          g.Gap,
		MarkerOffset: g.MarkerOffset,
		Cards:        o.cards(),
	}
}

func (o *Orchestrator) resetTrack(participants []domain.Participant) {
	o.idleRoster = participants
	o.stale = false
	o.track.Reset(participants)
	for i := 0; len(participants) > 0 && o.track.Len() < o.opts.MinIdleCards; i++ {
		o.track.Append(participants[i%len(participants)], false)
	}
	o.Motion.ResetPosition()
	metrics.RosterSize.Set(float64(len(participants)))
	o.Presenter.Render(o.cards())
}

func (o *Orchestrator) onCardExit(int) {
	if len(o.idleRoster) == 0 || o.session != nil {
		return
	}
	o.track.Append(o.idleRoster[o.RNG.IntN(len(o.idleRoster))], false)
	o.Presenter.Render(o.cards())
}

func (o *Orchestrator) onWrap(cards int) {
	o.track.DropFront(cards)
	o.Presenter.Render(o.cards())
}

func (o *Orchestrator) onHalt(err error) {
	if o.busy {
		theme := o.opts.Theme
		if o.session != nil {
			theme = o.session.Theme
		}
		o.abort(theme, "frame", err)
		return
	}
	if !errors.Is(err, frame.ErrStopped) {
		o.Log.Warn("animation halted", "error", err)
	}
}

// abort leaves the track as it is; the next idle rebuild clears it.
func (o *Orchestrator) abort(theme domain.Theme, stage string, err error) {
	o.Log.Error("spin aborted", "stage", stage, "error", err)
	if o.timer != 0 {
		o.Scheduler.Cancel(o.timer)
		o.timer = 0
	}
	o.session = nil
	o.stale = true
	o.busy = false
	switch o.Motion.Phase() {
	case domain.PhaseShuffling:
		o.Motion.ResumeIdle()
	case domain.PhaseStopped:
		o.Motion.StartIdle()
	}
	metrics.SpinsTotal.WithLabelValues(string(theme), string(o.opts.Mode), metrics.OutcomeAborted).Inc()
	o.Presenter.Notice("The spin was interrupted. Try again.")
	o.Presenter.SetBusy(false)
}

func (o *Orchestrator) reject(theme domain.Theme, notice string) {
	metrics.SpinsTotal.WithLabelValues(string(theme), string(o.opts.Mode), metrics.OutcomeRejected).Inc()
	o.Presenter.Notice(notice)
}

func (o *Orchestrator) cards() []dto.Card {
	cards := o.track.Cards()
	out := make([]dto.Card, 0, len(cards))
	for _, c := range cards {
		out = append(out, dto.Card{ID: c.Participant.ID, Name: c.Participant.Name, Tag: c.Participant.Tag, Winner: c.Winner})
	}
	return out
}
