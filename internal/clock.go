package internal

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"k8s.io/utils/clock"
)

// MaxTimeOffset bounds the configurable time offset in either direction.
const MaxTimeOffset = 24 * time.Hour

// SystemClock reads the wall clock of the host.
type SystemClock struct {
	clock.RealClock
}

func (c SystemClock) Now() (time.Time, error) {
	return c.RealClock.Now(), nil
}

// ValidateTimeOffset checks that the offset lies within ±MaxTimeOffset.
func ValidateTimeOffset(offset time.Duration) error {
	if offset < -MaxTimeOffset || offset > MaxTimeOffset {
		return fmt.Errorf("time offset %s is out of range, expected a value between %d and %d seconds",
			offset, -int(MaxTimeOffset/time.Second), int(MaxTimeOffset/time.Second))
	}

	return nil
}

// WallClock converts an instant into the timezone-less wall-clock reading used
// by the calendar logic: the UTC reading shifted by offset, at second
// resolution.
func WallClock(now time.Time, offset time.Duration) civil.DateTime {
	return civil.DateTimeOf(now.UTC().Add(offset).Truncate(time.Second))
}
