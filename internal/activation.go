package internal

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// Scaler metadata keys, as set in the trigger of the KEDA ScaledObject.
const (
	metadataNthWorkingDay = "nth_working_day"
	metadataFromTime      = "from_time"
	metadataToTime        = "to_time"
	metadataTargetSize    = "target_size"
)

const maxNthWorkingDay = 31

// ActivationConfig describes when a workload is active. It travels with every
// request, so the server does not keep any per-target state.
type ActivationConfig struct {
	NthWorkingDay int
	From          civil.Time
	To            civil.Time
	TargetSize    int64
}

// ActivationDecision is the outcome of evaluating an ActivationConfig at a
// given instant.
type ActivationDecision struct {
	Active     bool
	TargetSize int64

	// TargetDate is the nth working day of the evaluated month. It is only
	// meaningful when Found is true.
	TargetDate civil.Date
	Found      bool
}

// ParseActivationConfig reads the activation configuration from the scaler
// metadata.
func ParseActivationConfig(metadata map[string]string) (ActivationConfig, error) {
	cfg := ActivationConfig{
		From:       civil.Time{},
		To:         civil.Time{Hour: 23, Minute: 59, Second: 59},
		TargetSize: 1,
	}

	value, ok := metadata[metadataNthWorkingDay]
	if !ok {
		return cfg, fmt.Errorf("missing required metadata `%s`", metadataNthWorkingDay)
	}

	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 1 || n > maxNthWorkingDay {
		return cfg, fmt.Errorf("metadata `%s` should be a value between 1 and %d", metadataNthWorkingDay, maxNthWorkingDay)
	}
	cfg.NthWorkingDay = n

	if value, ok := metadata[metadataFromTime]; ok {
		if cfg.From, err = ParseTimeOfDay(value); err != nil {
			return cfg, fmt.Errorf("metadata `%s`: %w", metadataFromTime, err)
		}
	}

	if value, ok := metadata[metadataToTime]; ok {
		if cfg.To, err = ParseTimeOfDay(value); err != nil {
			return cfg, fmt.Errorf("metadata `%s`: %w", metadataToTime, err)
		}
	}

	if value, ok := metadata[metadataTargetSize]; ok {
		size, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil || size < 1 {
			return cfg, fmt.Errorf("metadata `%s` should be a positive integer value", metadataTargetSize)
		}
		cfg.TargetSize = size
	}

	return cfg, nil
}

// ParseTimeOfDay parses a wall-clock time in the HH:MM or HH:MM:SS format.
func ParseTimeOfDay(value string) (civil.Time, error) {
	value = strings.TrimSpace(value)

	if strings.Count(value, ":") == 1 {
		value += ":00"
	}

	out, err := civil.ParseTime(value)
	if err != nil || out.Nanosecond != 0 {
		return civil.Time{}, fmt.Errorf("invalid time of day %q, expected HH:MM or HH:MM:SS", value)
	}

	return out, nil
}

// Evaluate decides whether the configuration is active at the given wall-clock
// instant.
//
// The window opens at From on the nth working day of the month and closes at
// To, both inclusive. When From is after To the window wraps midnight and
// closes on the following day.
func (c *HolidayCalendar) Evaluate(now civil.DateTime, cfg ActivationConfig) ActivationDecision {
	now.Time.Nanosecond = 0

	var decision ActivationDecision
	decision.TargetDate, decision.Found = c.NthWorkingDay(now.Date.Year, now.Date.Month, cfg.NthWorkingDay)

	if decision.Found && inWindow(now, decision.TargetDate, cfg) {
		decision.Active = true
	}

	// A wrapping window opened on the last day of the previous month may still
	// be open on the 1st.
	if !decision.Active && wraps(cfg) {
		yesterday := now.Date.AddDays(-1)

		if yesterday.Month != now.Date.Month {
			if target, ok := c.NthWorkingDay(yesterday.Year, yesterday.Month, cfg.NthWorkingDay); ok && inWindow(now, target, cfg) {
				decision.Active = true
				decision.TargetDate, decision.Found = target, true
			}
		}
	}

	if decision.Active {
		decision.TargetSize = cfg.TargetSize
	}

	return decision
}

func wraps(cfg ActivationConfig) bool {
	return secondOfDay(cfg.From) > secondOfDay(cfg.To)
}

func inWindow(now civil.DateTime, target civil.Date, cfg ActivationConfig) bool {
	start := civil.DateTime{Date: target, Time: cfg.From}

	end := civil.DateTime{Date: target, Time: cfg.To}
	if wraps(cfg) {
		end.Date = target.AddDays(1)
	}

	return !now.Before(start) && !now.After(end)
}

func secondOfDay(t civil.Time) int {
	return t.Hour*int(time.Hour/time.Second) + t.Minute*int(time.Minute/time.Second) + t.Second
}
