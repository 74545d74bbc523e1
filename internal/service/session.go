package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"taximeter/internal/clock"
	"taximeter/internal/domain"
	"taximeter/internal/metrics"
)

// Sample modes selectable at runtime.
const (
	SampleModeLive      = "live"
	SampleModeSimulated = "simulated"
)

// Source supplies a stream of position fixes. Subscribe returns a channel
// that delivers fixes until the context is cancelled or the source closes
// the channel. A source that can never deliver fixes returns
// ErrPositionDenied or ErrPositionUnavailable immediately.
type Source interface {
	Subscribe(ctx context.Context) (<-chan domain.Position, error)
}

// SessionConfig contains the collaborators and tuning for a Session.
type SessionConfig struct {
	Clock       clock.Clock
	Filter      *SampleFilter
	Calculator  *FareCalculator
	Sources     map[string]Source
	WaitingTick time.Duration
}

// Session is the trip state machine. It owns the trip state, the retained
// last fix, the waiting-time clock and the sample subscription, and
// serializes every mutation so distance and cost always update atomically
// together.
type Session struct {
	clk         clock.Clock
	filter      *SampleFilter
	calc        *FareCalculator
	sources     map[string]Source
	waitingTick time.Duration

	// opMu serializes lifecycle operations (start/pause/resume/stop/mode
	// changes) so subscription and timer teardown cannot interleave.
	// Lock order: opMu before mu, never the reverse.
	opMu sync.Mutex

	mu             sync.Mutex
	phase          domain.TripPhase
	tripType       domain.TripType
	distanceKm     float64
	cost           float64
	waitingSeconds int
	lastFix        *domain.Position
	mode           string
	sourceStatus   domain.SourceStatus

	// epoch invalidates in-flight waiting ticks across transitions; a tick
	// captured under an old epoch must never mutate a reset state.
	epoch      uint64
	waitCancel chan struct{}
	waitDone   chan struct{}
	subCancel  context.CancelFunc
	subDone    chan struct{}
}

// Snapshot is a read-only view of the session for the presentation layer.
type Snapshot struct {
	State        domain.TripState
	SampleMode   string
	SourceStatus domain.SourceStatus
	LastFix      *domain.Position
}

// NewSession creates a Session in the Idle phase with the first builtin trip
// type selected. No sample subscription is active until SetSampleMode.
func NewSession(cfg SessionConfig) *Session {
	s := &Session{
		clk:         cfg.Clock,
		filter:      cfg.Filter,
		calc:        cfg.Calculator,
		sources:     cfg.Sources,
		waitingTick: cfg.WaitingTick,
	}
	if s.clk == nil {
		s.clk = clock.New()
	}
	if s.waitingTick <= 0 {
		s.waitingTick = time.Second
	}
	s.phase = domain.PhaseIdle
	s.tripType = domain.BuiltinTripTypes()[0]
	s.sourceStatus = domain.SourceStatusOK
	s.resetToBaseline()
	return s
}

// SelectTripType switches the active trip type. Permitted only while Idle;
// it resets the baseline cost display to the new type's fixed price or the
// schedule's base fare.
func (s *Session) SelectTripType(id string) error {
	tripType, ok := domain.TripTypeByID(id)
	if !ok {
		return ErrUnknownTripType
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != domain.PhaseIdle {
		return ErrTripActive
	}
	s.tripType = tripType
	s.resetToBaseline()
	return nil
}

// Start begins a trip. It requires a known position fix and is a no-op
// outside Idle.
func (s *Session) Start() error {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != domain.PhaseIdle {
		return nil
	}
	if s.lastFix == nil {
		return ErrNoFix
	}
	s.resetToBaseline()
	s.phase = domain.PhaseRunning
	return nil
}

// Pause starts the waiting-time clock. Reports false (no-op) unless Running.
func (s *Session) Pause() bool {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != domain.PhaseRunning {
		return false
	}
	s.phase = domain.PhasePaused
	s.startWaitingClock()
	return true
}

// Resume stops the waiting-time clock, freezing waitingSeconds at its last
// value. Reports false (no-op) unless Paused.
func (s *Session) Resume() bool {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	if s.phase != domain.PhasePaused {
		s.mu.Unlock()
		return false
	}
	s.phase = domain.PhaseRunning
	cancel, done := s.detachWaitingClock()
	s.mu.Unlock()

	haltWaitingClock(cancel, done)
	return true
}

// Stop ends the trip: it synchronously halts the waiting clock and the
// sample subscription, builds a TripSummary from the state immediately
// before reset, resets to the Idle baseline and re-attaches the sample
// source for the next trip. Returns nil (no-op) when no trip is active.
func (s *Session) Stop() *domain.TripSummary {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	if s.phase != domain.PhaseRunning && s.phase != domain.PhasePaused {
		s.mu.Unlock()
		return nil
	}
	wCancel, wDone := s.detachWaitingClock()
	sCancel, sDone := s.detachSubscription()
	s.mu.Unlock()

	haltWaitingClock(wCancel, wDone)
	haltSubscription(sCancel, sDone)

	s.mu.Lock()
	summary := &domain.TripSummary{
		ID:             uuid.New().String(),
		TripTypeName:   s.tripType.Name,
		DistanceKm:     s.distanceKm,
		WaitingSeconds: s.waitingSeconds,
		Cost:           s.cost,
		EndedAt:        s.clk.Now(),
	}
	s.phase = domain.PhaseIdle
	s.resetToBaseline()
	mode := s.mode
	s.mu.Unlock()

	metrics.Trips.WithLabelValues(summary.TripTypeName).Inc()
	metrics.TripFare.Observe(summary.Cost)
	metrics.TripDistance.Observe(summary.DistanceKm)

	// The retained last fix survives as the reference point for a next trip.
	if src, ok := s.sources[mode]; ok {
		_ = s.attach(src)
	}
	return summary
}

// SetSampleMode switches between the live and simulated sample sources,
// tearing down the previous subscription before attaching the new one.
func (s *Session) SetSampleMode(mode string) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	src, ok := s.sources[mode]
	if !ok {
		return ErrUnknownSampleMode
	}

	s.mu.Lock()
	s.mode = mode
	cancel, done := s.detachSubscription()
	s.mu.Unlock()

	haltSubscription(cancel, done)
	return s.attach(src)
}

// Accept processes one position sample. It is valid in every phase: in Idle
// it only refreshes the retained fix (satisfying Start's precondition); in
// Paused it refreshes the fix without accruing distance; in Running it is
// routed through the noise filter and, on accepted movement, distance and
// cost update together.
func (s *Session) Accept(pos domain.Position) {
	if !pos.Valid() {
		metrics.Samples.WithLabelValues(metrics.OutcomeRejected).Inc()
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.phase {
	case domain.PhaseRunning:
		deltaM, moved := s.filter.Evaluate(s.lastFix, pos)
		s.lastFix = &pos
		if !moved {
			metrics.Samples.WithLabelValues(metrics.OutcomeFiltered).Inc()
			return
		}
		s.distanceKm += deltaM / 1000
		s.recomputeCost()
		metrics.Samples.WithLabelValues(metrics.OutcomeMoved).Inc()
	default:
		// Idle and Paused: reference update only.
		s.lastFix = &pos
		metrics.Samples.WithLabelValues(metrics.OutcomeReference).Inc()
	}
}

// Snapshot returns the observable state of the meter.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		State: domain.TripState{
			Phase:          s.phase,
			TripType:       s.tripType,
			DistanceKm:     s.distanceKm,
			Cost:           s.cost,
			WaitingSeconds: s.waitingSeconds,
		},
		SampleMode:   s.mode,
		SourceStatus: s.sourceStatus,
	}
	if s.lastFix != nil {
		fix := *s.lastFix
		snap.LastFix = &fix
	}
	return snap
}

// Close tears down all timers and the sample subscription. The session is
// unusable afterwards; intended for process shutdown.
func (s *Session) Close() {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	wCancel, wDone := s.detachWaitingClock()
	sCancel, sDone := s.detachSubscription()
	s.phase = domain.PhaseStopped
	s.mu.Unlock()

	haltWaitingClock(wCancel, wDone)
	haltSubscription(sCancel, sDone)
}

// resetToBaseline zeroes the trip counters. Caller holds mu.
func (s *Session) resetToBaseline() {
	s.distanceKm = 0
	s.waitingSeconds = 0
	s.cost = s.calc.Baseline(s.tripType)
}

// recomputeCost derives cost from cumulative distance and completed waiting
// minutes. Caller holds mu.
func (s *Session) recomputeCost() {
	s.cost = s.calc.Fare(s.distanceKm, WaitingMinutes(s.waitingSeconds), s.tripType)
}

// startWaitingClock launches the 1-second waiting ticker. Caller holds mu.
func (s *Session) startWaitingClock() {
	cancel := make(chan struct{})
	done := make(chan struct{})
	s.waitCancel, s.waitDone = cancel, done
	epoch := s.epoch
	ticker := s.clk.NewTicker(s.waitingTick)

	go func() {
		defer close(done)
		defer ticker.Stop()
		for {
			select {
			case <-cancel:
				return
			case <-ticker.C():
				s.waitingClockTick(epoch)
			}
		}
	}()
}

// waitingClockTick accrues one second of waiting time and recomputes cost.
// Ticks from a superseded epoch, or arriving after the phase changed, are
// dropped so a late tick can never resurrect stale state.
func (s *Session) waitingClockTick(epoch uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if epoch != s.epoch || s.phase != domain.PhasePaused {
		return
	}
	s.waitingSeconds++
	s.recomputeCost()
}

// detachWaitingClock bumps the epoch and detaches the ticker channels so the
// caller can halt the goroutine outside the lock. Caller holds mu.
func (s *Session) detachWaitingClock() (chan struct{}, chan struct{}) {
	s.epoch++
	cancel, done := s.waitCancel, s.waitDone
	s.waitCancel, s.waitDone = nil, nil
	return cancel, done
}

// detachSubscription detaches the subscription handles. Caller holds mu.
func (s *Session) detachSubscription() (context.CancelFunc, chan struct{}) {
	cancel, done := s.subCancel, s.subDone
	s.subCancel, s.subDone = nil, nil
	return cancel, done
}

func haltWaitingClock(cancel, done chan struct{}) {
	if cancel == nil {
		return
	}
	close(cancel)
	<-done
}

func haltSubscription(cancel context.CancelFunc, done chan struct{}) {
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// attach subscribes to a source and pumps its fixes into Accept. Caller
// holds opMu.
func (s *Session) attach(src Source) error {
	ctx, cancel := context.WithCancel(context.Background())
	ch, err := src.Subscribe(ctx)
	if err != nil {
		cancel()
		s.mu.Lock()
		s.sourceStatus = statusForSourceError(err)
		s.mu.Unlock()
		return err
	}

	done := make(chan struct{})
	s.mu.Lock()
	s.sourceStatus = domain.SourceStatusOK
	s.subCancel, s.subDone = cancel, done
	s.mu.Unlock()

	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case pos, ok := <-ch:
				if !ok {
					s.mu.Lock()
					s.sourceStatus = domain.SourceStatusUnavailable
					s.mu.Unlock()
					return
				}
				s.Accept(pos)
			}
		}
	}()
	return nil
}

func statusForSourceError(err error) domain.SourceStatus {
	if errors.Is(err, ErrPositionDenied) {
		return domain.SourceStatusDenied
	}
	return domain.SourceStatusUnavailable
}
