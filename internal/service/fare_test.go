package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taximeter/internal/domain"
)

func newTestCalculator(t *testing.T) *FareCalculator {
	t.Helper()
	calc, err := NewFareCalculator(domain.DefaultRates())
	require.NoError(t, err)
	return calc
}

func TestFareCalculator_TierBoundaries(t *testing.T) {
	calc := newTestCalculator(t)
	normal, ok := domain.TripTypeByID(domain.TripTypeNormal)
	require.True(t, ok)

	tests := []struct {
		name       string
		distanceKm float64
		fare       float64
	}{
		{name: "zero distance is the base fare", distanceKm: 0, fare: 50},
		{name: "just under the first breakpoint", distanceKm: 4.99, fare: 50},
		{name: "exactly 5 km", distanceKm: 5.00, fare: 60},
		{name: "exactly 8 km", distanceKm: 8.00, fare: 80},
		{name: "one km beyond the last breakpoint", distanceKm: 9.00, fare: 96},
		{name: "far beyond the last breakpoint", distanceKm: 20.00, fare: 80 + 12*16},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.InDelta(t, test.fare, calc.Fare(test.distanceKm, 0, normal), 1e-9)
		})
	}
}

func TestFareCalculator_WaitingBilledPerCompletedMinute(t *testing.T) {
	calc := newTestCalculator(t)
	normal, _ := domain.TripTypeByID(domain.TripTypeNormal)

	// 5 per waiting minute on top of the distance component.
	assert.InDelta(t, 50, calc.Fare(0, WaitingMinutes(59), normal), 1e-9)
	assert.InDelta(t, 55, calc.Fare(0, WaitingMinutes(60), normal), 1e-9)
	assert.InDelta(t, 55, calc.Fare(0, WaitingMinutes(119), normal), 1e-9)
	assert.InDelta(t, 70, calc.Fare(0, WaitingMinutes(240), normal), 1e-9)
}

func TestFareCalculator_FixedPriceIgnoresDistance(t *testing.T) {
	calc := newTestCalculator(t)
	airport, ok := domain.TripTypeByID(domain.TripTypeAirport)
	require.True(t, ok)

	for _, distanceKm := range []float64{0, 3, 12.5, 100} {
		assert.InDelta(t, 150, calc.Fare(distanceKm, 0, airport), 1e-9)
	}

	// Waiting is still billed on top of the flat price.
	assert.InDelta(t, 160, calc.Fare(30, 2, airport), 1e-9)
}

func TestFareCalculator_MonotonicInDistanceAndWaiting(t *testing.T) {
	calc := newTestCalculator(t)
	normal, _ := domain.TripTypeByID(domain.TripTypeNormal)

	prev := math.Inf(-1)
	for km := 0.0; km <= 30; km += 0.25 {
		fare := calc.Fare(km, 0, normal)
		assert.GreaterOrEqual(t, fare, prev, "fare decreased at %.2f km", km)
		prev = fare
	}

	prev = math.Inf(-1)
	for minutes := 0; minutes <= 120; minutes += 7 {
		fare := calc.Fare(6, minutes, normal)
		assert.GreaterOrEqual(t, fare, prev, "fare decreased at %d waiting minutes", minutes)
		prev = fare
	}
}

func TestFareCalculator_Baseline(t *testing.T) {
	calc := newTestCalculator(t)

	normal, _ := domain.TripTypeByID(domain.TripTypeNormal)
	airport, _ := domain.TripTypeByID(domain.TripTypeAirport)

	assert.InDelta(t, 50, calc.Baseline(normal), 1e-9)
	assert.InDelta(t, 150, calc.Baseline(airport), 1e-9)
}

func TestNewFareCalculator_RejectsBrokenSchedules(t *testing.T) {
	tests := []struct {
		name     string
		schedule domain.RateSchedule
	}{
		{
			name:     "no tiers",
			schedule: domain.RateSchedule{BaseFare: 50, WaitingRatePerMinute: 5},
		},
		{
			name: "first tier does not start at zero",
			schedule: domain.RateSchedule{
				BaseFare:             50,
				WaitingRatePerMinute: 5,
				Tiers:                []domain.Tier{{MinKm: 1, MaxKm: math.Inf(1), Price: 50}},
			},
		},
		{
			name: "gap between tiers",
			schedule: domain.RateSchedule{
				BaseFare:             50,
				WaitingRatePerMinute: 5,
				Tiers: []domain.Tier{
					{MinKm: 0, MaxKm: 5, Price: 50},
					{MinKm: 6, MaxKm: math.Inf(1), Price: 60},
				},
			},
		},
		{
			name: "bounded last tier",
			schedule: domain.RateSchedule{
				BaseFare:             50,
				WaitingRatePerMinute: 5,
				Tiers:                []domain.Tier{{MinKm: 0, MaxKm: 10, Price: 50}},
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := NewFareCalculator(test.schedule)
			assert.ErrorIs(t, err, domain.ErrInvalidRateSchedule)
		})
	}
}
