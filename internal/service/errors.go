package service

import "errors"

var (
	// ErrNoFix is returned when a trip is started without a known position fix.
	ErrNoFix = errors.New("no position fix")

	// ErrPositionDenied is returned when the position source reports that
	// location permission was denied.
	ErrPositionDenied = errors.New("position permission denied")

	// ErrPositionUnavailable is returned when the position source is
	// permanently unavailable.
	ErrPositionUnavailable = errors.New("position source unavailable")

	// ErrTripActive is returned when changing the trip type outside Idle.
	ErrTripActive = errors.New("trip already active")

	// ErrUnknownTripType is returned when selecting a trip type that is not configured.
	ErrUnknownTripType = errors.New("unknown trip type")

	// ErrUnknownSampleMode is returned when selecting a sample mode with no source.
	ErrUnknownSampleMode = errors.New("unknown sample mode")

	// ErrNoActiveTrip is returned by the HTTP layer when pausing, resuming or
	// stopping while no trip is running.
	ErrNoActiveTrip = errors.New("no active trip")

	// ErrTripNotPaused is returned by the HTTP layer when resuming a trip that
	// is not paused.
	ErrTripNotPaused = errors.New("trip not paused")

	// ErrInvalidLocation is returned when a manually injected fix has
	// out-of-range coordinates.
	ErrInvalidLocation = errors.New("invalid location")
)
