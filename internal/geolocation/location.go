// Package geolocation models position snapshots taken at workday
// transitions and captures them on a best-effort basis.
package geolocation

import (
	"errors"
	"math"
	"time"
)

var (
	ErrUnavailable      = errors.New("geolocation: position unavailable")
	ErrTimeout          = errors.New("geolocation: timed out")
	ErrPermissionDenied = errors.New("geolocation: permission denied")
	ErrInvalidPosition  = errors.New("geolocation: invalid position")
)

// Location is a single geodetic fix. Accuracy is the radius in meters.
type Location struct {
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Accuracy   float64   `json:"accuracy"`
	CapturedAt time.Time `json:"captured_at"`
}

func (l Location) Validate() error {
	switch {
	case math.IsNaN(l.Latitude), math.IsNaN(l.Longitude), math.IsNaN(l.Accuracy):
		return ErrInvalidPosition
	case l.Latitude < -90 || l.Latitude > 90:
		return ErrInvalidPosition
	case l.Longitude < -180 || l.Longitude > 180:
		return ErrInvalidPosition
	case l.Accuracy < 0:
		return ErrInvalidPosition
	}
	return nil
}

// Clone returns a copy of l, or nil.
func (l *Location) Clone() *Location {
	if l == nil {
		return nil
	}
	cp := *l
	return &cp
}
