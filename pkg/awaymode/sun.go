package awaymode

import (
	"time"

	"github.com/nathan-osman/go-sunrise"
)

// SunProvider yields the sunset instant for a calendar day. The
// returned time is in UTC; callers convert to their reference zone.
type SunProvider interface {
	Sunset(year int, month time.Month, day int) time.Time
}

type solarPosition struct {
	latitude  float64
	longitude float64
}

// NewSunProvider computes sunsets for a fixed observer location.
func NewSunProvider(latitude, longitude float64) SunProvider {
	return solarPosition{latitude: latitude, longitude: longitude}
}

func (s solarPosition) Sunset(year int, month time.Month, day int) time.Time {
	_, set := sunrise.SunriseSunset(s.latitude, s.longitude, year, month, day)
	return set
}
