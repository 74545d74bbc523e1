package domain

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidRateSchedule is returned when a rate schedule fails validation.
// A schedule that does not validate must never reach the fare calculator.
var ErrInvalidRateSchedule = errors.New("invalid rate schedule")

// Tier is a contiguous distance bracket with its own pricing rule. A tier
// matches a distance d when MinKm <= d <= MaxKm; tiers are evaluated in
// order and the first match wins. If ExtraAfterKm is set and d exceeds it,
// the tier bills Price plus ExtraPerKm for every kilometre beyond the
// breakpoint; otherwise the tier is flat.
type Tier struct {
	MinKm        float64
	MaxKm        float64 // math.Inf(1) for the last tier
	Price        float64
	ExtraAfterKm float64 // 0 means flat tier
	ExtraPerKm   float64
}

// RateSchedule is the global fare schedule. Tiers must cover [0, inf)
// contiguously with no gaps or overlaps.
type RateSchedule struct {
	BaseFare             float64
	WaitingRatePerMinute float64
	Tiers                []Tier
}

// Validate checks the tier-coverage invariant. Callers must validate at
// construction time so a broken schedule aborts startup instead of
// surfacing mid-trip.
func (s RateSchedule) Validate() error {
	if s.BaseFare < 0 {
		return fmt.Errorf("%w: base fare is negative", ErrInvalidRateSchedule)
	}
	if s.WaitingRatePerMinute < 0 {
		return fmt.Errorf("%w: waiting rate is negative", ErrInvalidRateSchedule)
	}
	if len(s.Tiers) == 0 {
		return fmt.Errorf("%w: no distance tiers", ErrInvalidRateSchedule)
	}
	if s.Tiers[0].MinKm != 0 {
		return fmt.Errorf("%w: first tier must start at 0 km", ErrInvalidRateSchedule)
	}
	for i, tier := range s.Tiers {
		if tier.MaxKm <= tier.MinKm {
			return fmt.Errorf("%w: tier %d has empty range", ErrInvalidRateSchedule, i)
		}
		if tier.Price < 0 || tier.ExtraPerKm < 0 {
			return fmt.Errorf("%w: tier %d has negative price", ErrInvalidRateSchedule, i)
		}
		if tier.ExtraAfterKm != 0 && tier.ExtraAfterKm < tier.MinKm {
			return fmt.Errorf("%w: tier %d breakpoint precedes the tier", ErrInvalidRateSchedule, i)
		}
		if i > 0 && tier.MinKm != s.Tiers[i-1].MaxKm {
			return fmt.Errorf("%w: gap or overlap between tiers %d and %d", ErrInvalidRateSchedule, i-1, i)
		}
	}
	if !math.IsInf(s.Tiers[len(s.Tiers)-1].MaxKm, 1) {
		return fmt.Errorf("%w: last tier must be unbounded", ErrInvalidRateSchedule)
	}
	return nil
}

// DefaultRates returns the production fare schedule.
func DefaultRates() RateSchedule {
	return RateSchedule{
		BaseFare:             50,
		WaitingRatePerMinute: 5,
		Tiers: []Tier{
			{MinKm: 0, MaxKm: 4.99, Price: 50},
			{MinKm: 4.99, MaxKm: 7.99, Price: 60},
			{MinKm: 7.99, MaxKm: math.Inf(1), Price: 80, ExtraAfterKm: 8, ExtraPerKm: 16},
		},
	}
}
