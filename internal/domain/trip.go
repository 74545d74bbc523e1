package domain

import "time"

// TripPhase represents the current phase of the metered trip.
type TripPhase string

const (
	PhaseIdle    TripPhase = "IDLE"
	PhaseRunning TripPhase = "RUNNING"
	PhasePaused  TripPhase = "PAUSED"
	PhaseStopped TripPhase = "STOPPED"
)

// TripState is the externally observable state of the meter. It is owned
// exclusively by the trip session and mutated only through its operations.
type TripState struct {
	Phase          TripPhase
	TripType       TripType
	DistanceKm     float64
	Cost           float64
	WaitingSeconds int
}

// TripSummary is an immutable snapshot produced exactly once when a trip
// stops. The caller owns it after creation.
type TripSummary struct {
	ID             string
	TripTypeName   string
	DistanceKm     float64
	WaitingSeconds int
	Cost           float64
	EndedAt        time.Time
}
