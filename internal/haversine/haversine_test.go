package haversine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMeters(t *testing.T) {
	tests := []struct {
		name     string
		latlngs  []float64
		distance float64
		delta    float64
	}{
		{
			name:     "identical points",
			latlngs:  []float64{-34.9011, -56.1645, -34.9011, -56.1645},
			distance: 0,
			delta:    0,
		},
		{
			name: "one degree of latitude",
			// 1 degree of latitude is ~111.19 km on a 6371 km sphere.
			latlngs:  []float64{0, 0, 1, 0},
			distance: 111194.9,
			delta:    1,
		},
		{
			name:     "short hop",
			latlngs:  []float64{37.966660, 23.728308, 37.966627, 23.728263},
			distance: 5.39,
			delta:    0.05,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			distance := Meters(test.latlngs[0], test.latlngs[1], test.latlngs[2], test.latlngs[3])
			assert.InDelta(t, test.distance, distance, test.delta)
		})
	}
}

func TestMeters_Symmetry(t *testing.T) {
	a := []float64{-34.9011, -56.1645}
	b := []float64{-34.8721, -56.1819}

	assert.Equal(t, Meters(a[0], a[1], b[0], b[1]), Meters(b[0], b[1], a[0], a[1]))
}

func BenchmarkMeters(b *testing.B) {
	for n := 0; n < b.N; n++ {
		Meters(37.966660, 23.728308, 37.966627, 23.728263)
	}
}
