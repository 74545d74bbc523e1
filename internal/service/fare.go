package service

import (
	"fmt"

	"taximeter/internal/domain"
)

// FareCalculator maps accumulated distance, waiting time and trip type to an
// amount due, following the configured rate schedule.
type FareCalculator struct {
	schedule domain.RateSchedule
}

// NewFareCalculator validates the schedule and creates a FareCalculator.
// A schedule that fails its tier-coverage invariant aborts startup here
// rather than surfacing during a trip.
func NewFareCalculator(schedule domain.RateSchedule) (*FareCalculator, error) {
	if err := schedule.Validate(); err != nil {
		return nil, err
	}
	return &FareCalculator{schedule: schedule}, nil
}

// Fare computes the amount due for the given distance and completed waiting
// minutes. Fixed-price trip types ignore distance for pricing; it is still
// tracked by the session for display.
func (c *FareCalculator) Fare(distanceKm float64, waitingMinutes int, tripType domain.TripType) float64 {
	waiting := float64(waitingMinutes) * c.schedule.WaitingRatePerMinute

	if tripType.IsFixed() {
		return tripType.FixedPrice + waiting
	}

	for _, tier := range c.schedule.Tiers {
		if distanceKm < tier.MinKm || distanceKm > tier.MaxKm {
			continue
		}
		price := tier.Price
		if tier.ExtraAfterKm > 0 && distanceKm > tier.ExtraAfterKm {
			price += (distanceKm - tier.ExtraAfterKm) * tier.ExtraPerKm
		}
		return price + waiting
	}

	// Unreachable for a validated schedule: tiers cover [0, inf).
	panic(fmt.Sprintf("fare: no tier covers %.3f km", distanceKm))
}

// Baseline returns the cost displayed before any movement: the trip type's
// fixed price, or the schedule's base fare for metered types.
func (c *FareCalculator) Baseline(tripType domain.TripType) float64 {
	if tripType.IsFixed() {
		return tripType.FixedPrice
	}
	return c.schedule.BaseFare
}

// WaitingMinutes converts accrued waiting seconds to billable minutes.
// Partial minutes are not billed until they complete.
func WaitingMinutes(waitingSeconds int) int {
	return waitingSeconds / 60
}
