package service

import "taximeter/internal/domain"

// DefaultNoiseGateMeters is the movement threshold below which a sample is
// treated as stationary jitter. Consumer GPS at rest can report spurious
// multi-meter deltas between consecutive fixes.
const DefaultNoiseGateMeters = 5.0

// SampleFilter decides whether a new fix counts as real movement relative to
// the previously retained fix.
type SampleFilter struct {
	estimator *DistanceEstimator
	gateM     float64
}

// NewSampleFilter creates a SampleFilter. A non-positive gate falls back to
// DefaultNoiseGateMeters.
func NewSampleFilter(estimator *DistanceEstimator, gateMeters float64) *SampleFilter {
	if gateMeters <= 0 {
		gateMeters = DefaultNoiseGateMeters
	}
	return &SampleFilter{estimator: estimator, gateM: gateMeters}
}

// Evaluate returns the corrected distance in meters from the retained fix to
// the new one and whether it clears the noise gate. With no retained fix the
// sample never counts as movement.
//
// The caller always replaces the retained fix with the new sample regardless
// of the outcome, so a sub-threshold delta is forgotten rather than
// accumulated and the next real movement is measured from the most recent
// location. Note: repeated sub-threshold drift therefore never accrues
// distance, even when it adds up to real movement (a genuine slow crawl in
// stop-and-go traffic under-bills). Kept pending product confirmation.
func (f *SampleFilter) Evaluate(last *domain.Position, next domain.Position) (float64, bool) {
	if last == nil {
		return 0, false
	}
	meters := f.estimator.Meters(*last, next)
	return meters, meters > f.gateM
}
