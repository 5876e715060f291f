package ifaces

import (
	"time"

	"k8s.io/utils/clock"
)

// Clock is the source of wall-clock readings and tickers for the scaler. A
// failed reading only fails the request or stream that asked for it.
//
//go:generate mockery --inpackage --name Clock --filename mock_clock.go
type Clock interface {
	Now() (time.Time, error)
	NewTicker(d time.Duration) clock.Ticker
}
