package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"taximeter/internal/domain"
	"taximeter/internal/haversine"
)

func TestDistanceEstimator_Meters(t *testing.T) {
	estimator := NewDistanceEstimator(1.4)

	a := domain.Position{Lat: -34.9011, Lng: -56.1645}
	b := domain.Position{Lat: -34.8721, Lng: -56.1819}

	t.Run("identical points are zero", func(t *testing.T) {
		assert.Equal(t, 0.0, estimator.Meters(a, a))
	})

	t.Run("symmetric", func(t *testing.T) {
		assert.Equal(t, estimator.Meters(a, b), estimator.Meters(b, a))
	})

	t.Run("scales raw haversine by the correction factor", func(t *testing.T) {
		raw := haversine.Meters(a.Lat, a.Lng, b.Lat, b.Lng)
		assert.InDelta(t, raw*1.4, estimator.Meters(a, b), 1e-9)
	})
}

func TestNewDistanceEstimator_DefaultCorrection(t *testing.T) {
	fallback := NewDistanceEstimator(0)
	explicit := NewDistanceEstimator(DefaultCorrectionFactor)

	a := domain.Position{Lat: 0, Lng: 0}
	b := domain.Position{Lat: 0.01, Lng: 0}

	assert.Equal(t, explicit.Meters(a, b), fallback.Meters(a, b))
}
