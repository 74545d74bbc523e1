package service

import (
	"taximeter/internal/domain"
	"taximeter/internal/haversine"
)

// DefaultCorrectionFactor is the empirical multiplier applied to raw
// great-circle distance. Consumer GPS chipsets consistently under-report
// driven distance relative to the odometer; 1.4 is an approximation picked
// from field comparisons, not a physical constant, and is tunable via config.
const DefaultCorrectionFactor = 1.4

// DistanceEstimator computes corrected great-circle distance between fixes.
type DistanceEstimator struct {
	correction float64
}

// NewDistanceEstimator creates a DistanceEstimator. A non-positive correction
// falls back to DefaultCorrectionFactor.
func NewDistanceEstimator(correction float64) *DistanceEstimator {
	if correction <= 0 {
		correction = DefaultCorrectionFactor
	}
	return &DistanceEstimator{correction: correction}
}

// Meters returns the corrected distance in meters between two positions.
// It is always finite and non-negative for finite inputs; identical points
// return 0.
func (e *DistanceEstimator) Meters(a, b domain.Position) float64 {
	return haversine.Meters(a.Lat, a.Lng, b.Lat, b.Lng) * e.correction
}
