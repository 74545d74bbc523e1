package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"taximeter/internal/domain"
	"taximeter/internal/service"
)

const lastFixKey = "meter:lastfix"

// FixStream transports position fixes over a per-vehicle Redis pub/sub
// channel. Devices (or the fix ingest endpoint) publish; the meter's live
// sample source subscribes. Each published fix is also GEOADDed under the
// vehicle ID so fleet tooling can see where the cab last reported.
type FixStream struct {
	client    *redis.Client
	vehicleID string
}

// NewFixStream creates a FixStream for the given vehicle.
func NewFixStream(client *redis.Client, vehicleID string) *FixStream {
	return &FixStream{client: client, vehicleID: vehicleID}
}

// Publish broadcasts a fix to subscribers and records it as the vehicle's
// last known location.
func (f *FixStream) Publish(ctx context.Context, pos domain.Position) error {
	data, err := json.Marshal(pos)
	if err != nil {
		return err
	}
	if err := f.client.Publish(ctx, f.channel(), data).Err(); err != nil {
		return err
	}
	return f.client.GeoAdd(ctx, lastFixKey, &redis.GeoLocation{
		Name:      f.vehicleID,
		Longitude: pos.Lng,
		Latitude:  pos.Lat,
	}).Err()
}

// Subscribe implements the session's sample source over Redis pub/sub.
// Malformed payloads are skipped; GPS transport noise is routine, not an
// error.
func (f *FixStream) Subscribe(ctx context.Context) (<-chan domain.Position, error) {
	sub := f.client.Subscribe(ctx, f.channel())
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("%w: redis subscribe: %v", service.ErrPositionUnavailable, err)
	}

	ch := make(chan domain.Position, 8)

	go func() {
		<-ctx.Done()
		_ = sub.Close()
	}()

	go func() {
		defer close(ch)
		for msg := range sub.Channel() {
			var pos domain.Position
			if err := json.Unmarshal([]byte(msg.Payload), &pos); err != nil {
				continue
			}
			select {
			case ch <- pos:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch, nil
}

// LastFix returns the vehicle's last reported location from the geo index.
func (f *FixStream) LastFix(ctx context.Context) (*domain.Position, error) {
	results, err := f.client.GeoPos(ctx, lastFixKey, f.vehicleID).Result()
	if err != nil {
		return nil, err
	}
	if len(results) == 0 || results[0] == nil {
		return nil, nil
	}
	return &domain.Position{Lat: results[0].Latitude, Lng: results[0].Longitude}, nil
}

func (f *FixStream) channel() string {
	return "meter:fixes:" + f.vehicleID
}
