package domain

import "time"

// Position is a single GPS fix. Timestamp is epoch milliseconds, as reported
// by the device. Positions are immutable once produced.
type Position struct {
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Timestamp int64   `json:"ts"`
}

// Time returns the fix timestamp as a time.Time.
func (p Position) Time() time.Time {
	return time.UnixMilli(p.Timestamp)
}

// Valid reports whether the coordinates are within range.
func (p Position) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// SourceStatus is the terminal status reported by a position source.
type SourceStatus string

const (
	SourceStatusOK          SourceStatus = "OK"
	SourceStatusDenied      SourceStatus = "DENIED"
	SourceStatusUnavailable SourceStatus = "UNAVAILABLE"
)
