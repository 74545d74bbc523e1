package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the meter.
	Registry = prometheus.NewRegistry()

	// Samples counts processed GPS samples by outcome
	// (moved, filtered, reference, rejected).
	Samples = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "meter_samples_total", Help: "GPS samples processed by outcome."},
		[]string{"outcome"},
	)

	// Trips counts completed trips by trip type.
	Trips = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "meter_trips_total", Help: "Completed trips by trip type."},
		[]string{"trip_type"},
	)

	// TripFare records final fares of completed trips.
	TripFare = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "meter_trip_fare", Help: "Final fare of completed trips.", Buckets: []float64{50, 60, 80, 100, 150, 200, 300, 500}},
	)

	// TripDistance records distances of completed trips in kilometers.
	TripDistance = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "meter_trip_distance_km", Help: "Distance of completed trips in km.", Buckets: []float64{1, 2, 5, 8, 12, 20, 50}},
	)
)

// Sample outcome labels.
const (
	OutcomeMoved     = "moved"
	OutcomeFiltered  = "filtered"
	OutcomeReference = "reference"
	OutcomeRejected  = "rejected"
)

// RegisterDefault registers all collectors on the meter registry.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(Samples)
		Registry.MustRegister(Trips)
		Registry.MustRegister(TripFare)
		Registry.MustRegister(TripDistance)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

var regOnce sync.Once
