package tests

import (
	"math"
	"testing"
	"time"

	"taximeter/internal/clock"
	"taximeter/internal/domain"
	"taximeter/internal/service"
)

// ──────────────────────────────────────────────
// FULL TRIP LIFECYCLE
// ──────────────────────────────────────────────

const correctedMetersPerDegreeLat = 111194.9

// north returns a position the given number of corrected meters north of p.
func north(p domain.Position, correctedMeters float64) domain.Position {
	raw := correctedMeters / service.DefaultCorrectionFactor
	return domain.Position{
		Lat:       p.Lat + raw/correctedMetersPerDegreeLat,
		Lng:       p.Lng,
		Timestamp: p.Timestamp + 1000,
	}
}

func newLifecycleSession(t *testing.T, clk clock.Clock, src *MockSource) *service.Session {
	t.Helper()

	calc, err := service.NewFareCalculator(domain.DefaultRates())
	if err != nil {
		t.Fatalf("building calculator: %v", err)
	}
	estimator := service.NewDistanceEstimator(service.DefaultCorrectionFactor)

	sources := map[string]service.Source{}
	if src != nil {
		sources[service.SampleModeLive] = src
	}

	s := service.NewSession(service.SessionConfig{
		Clock:       clk,
		Filter:      service.NewSampleFilter(estimator, service.DefaultNoiseGateMeters),
		Calculator:  calc,
		Sources:     sources,
		WaitingTick: time.Second,
	})
	t.Cleanup(s.Close)
	return s
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		if cond() {
			return
		}
		select {
		case <-deadline:
			t.Fatal("condition not reached in time")
		case <-time.After(time.Millisecond):
		}
	}
}

func TestTripLifecycle_MeteredTrip(t *testing.T) {
	t.Parallel()

	clk := clock.NewFake(time.Unix(1_700_000_000, 0))
	src := NewMockSource()
	s := newLifecycleSession(t, clk, src)

	if err := s.SetSampleMode(service.SampleModeLive); err != nil {
		t.Fatalf("setting sample mode: %v", err)
	}

	// Starting before any fix has arrived must fail and leave the meter Idle.
	if err := s.Start(); err != service.ErrNoFix {
		t.Fatalf("expected ErrNoFix, got %v", err)
	}

	origin := domain.Position{Lat: -34.9011, Lng: -56.1645, Timestamp: 1_700_000_000_000}
	src.Push(origin)
	waitFor(t, func() bool { return s.Snapshot().LastFix != nil })

	if err := s.Start(); err != nil {
		t.Fatalf("starting trip: %v", err)
	}
	if got := s.Snapshot().State.Phase; got != domain.PhaseRunning {
		t.Fatalf("expected Running, got %v", got)
	}

	// Drive 6 corrected kilometres in 1 km hops.
	pos := origin
	for i := 0; i < 6; i++ {
		pos = north(pos, 1000)
		src.Push(pos)
	}
	waitFor(t, func() bool {
		return s.Snapshot().State.DistanceKm > 5.9
	})
	snap := s.Snapshot()
	if math.Abs(snap.State.Cost-60) > 1e-9 {
		t.Errorf("expected cost 60 after 6 km, got %v", snap.State.Cost)
	}

	// Red light: pause for two minutes.
	if !s.Pause() {
		t.Fatal("pause should succeed while Running")
	}
	clk.Advance(120 * time.Second)
	waitFor(t, func() bool {
		return s.Snapshot().State.WaitingSeconds == 120
	})
	snap = s.Snapshot()
	if math.Abs(snap.State.Cost-70) > 1e-9 {
		t.Errorf("expected cost 70 after 2 min waiting, got %v", snap.State.Cost)
	}

	if !s.Resume() {
		t.Fatal("resume should succeed while Paused")
	}

	// Waiting time stays frozen after resume.
	clk.Advance(30 * time.Second)
	if got := s.Snapshot().State.WaitingSeconds; got != 120 {
		t.Errorf("waiting seconds changed after resume: %d", got)
	}

	summary := s.Stop()
	if summary == nil {
		t.Fatal("stop should return a summary for an active trip")
	}
	if summary.ID == "" {
		t.Error("summary missing trip ID")
	}
	if summary.TripTypeName != "Normal" {
		t.Errorf("expected Normal trip, got %q", summary.TripTypeName)
	}
	if summary.WaitingSeconds != 120 {
		t.Errorf("expected 120 waiting seconds, got %d", summary.WaitingSeconds)
	}
	if math.Abs(summary.Cost-70) > 1e-9 {
		t.Errorf("expected final cost 70, got %v", summary.Cost)
	}

	// The meter is back at the Idle baseline but keeps the last fix, and the
	// sample subscription was re-established.
	snap = s.Snapshot()
	if snap.State.Phase != domain.PhaseIdle {
		t.Errorf("expected Idle after stop, got %v", snap.State.Phase)
	}
	if snap.State.DistanceKm != 0 || snap.State.WaitingSeconds != 0 {
		t.Error("counters not reset after stop")
	}
	if snap.LastFix == nil {
		t.Error("last fix should survive stop")
	}
	if src.Subscribes() != 2 {
		t.Errorf("expected re-subscription after stop, got %d subscribes", src.Subscribes())
	}

	// A second stop is a no-op.
	if s.Stop() != nil {
		t.Error("stop while Idle should return nil")
	}
}

func TestTripLifecycle_FixedPriceTrip(t *testing.T) {
	t.Parallel()

	clk := clock.NewFake(time.Unix(1_700_000_000, 0))
	s := newLifecycleSession(t, clk, nil)

	if err := s.SelectTripType(domain.TripTypeAirport); err != nil {
		t.Fatalf("selecting airport trip: %v", err)
	}

	origin := domain.Position{Lat: -34.9011, Lng: -56.1645, Timestamp: 1_700_000_000_000}
	s.Accept(origin)
	if err := s.Start(); err != nil {
		t.Fatalf("starting trip: %v", err)
	}

	// Switching trip types mid-trip is rejected.
	if err := s.SelectTripType(domain.TripTypeNormal); err != service.ErrTripActive {
		t.Fatalf("expected ErrTripActive, got %v", err)
	}

	// Distance is tracked but does not change the flat price.
	pos := origin
	for i := 0; i < 20; i++ {
		pos = north(pos, 1000)
		s.Accept(pos)
	}
	snap := s.Snapshot()
	if snap.State.DistanceKm < 19.9 {
		t.Errorf("expected ~20 km tracked, got %v", snap.State.DistanceKm)
	}
	if math.Abs(snap.State.Cost-150) > 1e-9 {
		t.Errorf("expected flat 150, got %v", snap.State.Cost)
	}

	// One minute of waiting is still billed on top of the flat price.
	s.Pause()
	clk.Advance(60 * time.Second)
	waitFor(t, func() bool {
		return s.Snapshot().State.WaitingSeconds == 60
	})
	summary := s.Stop()
	if summary == nil {
		t.Fatal("stop should return a summary")
	}
	if math.Abs(summary.Cost-155) > 1e-9 {
		t.Errorf("expected 155 (flat + 1 min waiting), got %v", summary.Cost)
	}
}

func TestTripLifecycle_DeniedSourceStillAllowsManualFixes(t *testing.T) {
	t.Parallel()

	clk := clock.NewFake(time.Unix(1_700_000_000, 0))
	src := NewMockSource()
	src.SubscribeErr = service.ErrPositionDenied
	s := newLifecycleSession(t, clk, src)

	if err := s.SetSampleMode(service.SampleModeLive); err != service.ErrPositionDenied {
		t.Fatalf("expected ErrPositionDenied, got %v", err)
	}
	if got := s.Snapshot().SourceStatus; got != domain.SourceStatusDenied {
		t.Errorf("expected DENIED status, got %v", got)
	}

	// Directly injected fixes keep working even when the source is denied.
	s.Accept(domain.Position{Lat: -34.9011, Lng: -56.1645, Timestamp: 1_700_000_000_000})
	if err := s.Start(); err != nil {
		t.Fatalf("starting trip with injected fix: %v", err)
	}
}
