package source

import (
	"context"
	"math"
	"math/rand"
	"time"

	"taximeter/internal/clock"
	"taximeter/internal/domain"
)

// Simulated generates synthetic position fixes on a periodic tick: a random
// walk from a seed position at roughly the configured speed. Used in test
// mode so the meter can be exercised without a GPS device.
type Simulated struct {
	clk      clock.Clock
	interval time.Duration
	seedLat  float64
	seedLng  float64
	speedKmh float64
}

// NewSimulated creates a simulated source ticking every interval.
func NewSimulated(clk clock.Clock, interval time.Duration, seedLat, seedLng, speedKmh float64) *Simulated {
	if clk == nil {
		clk = clock.New()
	}
	if interval <= 0 {
		interval = time.Second
	}
	if speedKmh <= 0 {
		speedKmh = 40
	}
	return &Simulated{
		clk:      clk,
		interval: interval,
		seedLat:  seedLat,
		seedLng:  seedLng,
		speedKmh: speedKmh,
	}
}

// Subscribe starts the tick loop. The internal timer is owned by the
// subscription: cancelling the context stops it and closes the channel.
func (s *Simulated) Subscribe(ctx context.Context) (<-chan domain.Position, error) {
	ch := make(chan domain.Position, 8)

	go func() {
		defer close(ch)
		ticker := s.clk.NewTicker(s.interval)
		defer ticker.Stop()

		rng := rand.New(rand.NewSource(s.clk.Now().UnixNano()))
		lat, lng := s.seedLat, s.seedLng
		heading := rng.Float64() * 2 * math.Pi
		stepM := s.speedKmh / 3.6 * s.interval.Seconds()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C():
				// Drift the heading a little each tick so the walk looks
				// like city driving rather than a straight line.
				heading += (rng.Float64() - 0.5) * math.Pi / 4
				lat += stepM * math.Cos(heading) / metersPerDegreeLat
				lng += stepM * math.Sin(heading) / (metersPerDegreeLat * math.Cos(lat*math.Pi/180))

				pos := domain.Position{
					Lat:       lat,
					Lng:       lng,
					Timestamp: s.clk.Now().UnixMilli(),
				}
				select {
				case ch <- pos:
				default:
					// Slow consumer: drop the fix, the next tick supersedes it.
				}
			}
		}
	}()

	return ch, nil
}

const metersPerDegreeLat = 111320.0
