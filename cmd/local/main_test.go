package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthOf(t *testing.T) {
	cases := []struct {
		name      string
		opts      options
		offset    time.Duration
		wantYear  int
		wantMonth time.Month
		wantErr   string
	}{
		{
			name:      "explicit month",
			opts:      options{month: "2024-04"},
			wantYear:  2024,
			wantMonth: time.April,
		},
		{
			name:      "explicit month ignores the offset",
			opts:      options{month: "2024-12", at: "2024-01-31T23:30:00Z"},
			offset:    time.Hour,
			wantYear:  2024,
			wantMonth: time.December,
		},
		{
			name:      "default month at the given instant",
			opts:      options{at: "2024-01-31T23:30:00Z"},
			wantYear:  2024,
			wantMonth: time.January,
		},
		{
			name:      "default month moves forward with a positive offset",
			opts:      options{at: "2024-01-31T23:30:00Z"},
			offset:    time.Hour,
			wantYear:  2024,
			wantMonth: time.February,
		},
		{
			name:      "default month moves back with a negative offset",
			opts:      options{at: "2025-01-01T00:30:00Z"},
			offset:    -time.Hour,
			wantYear:  2024,
			wantMonth: time.December,
		},
		{
			name:    "month out of range",
			opts:    options{month: "2024-13"},
			wantErr: `invalid --month value "2024-13": expected YYYY-MM`,
		},
		{
			name:    "month without padding",
			opts:    options{month: "2024-4"},
			wantErr: `invalid --month value "2024-4": expected YYYY-MM`,
		},
		{
			name:    "full date instead of a month",
			opts:    options{month: "2024-04-01"},
			wantErr: `invalid --month value "2024-04-01": expected YYYY-MM`,
		},
		{
			name:    "malformed instant",
			opts:    options{at: "yesterday"},
			wantErr: "invalid --at value",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := monthOf(tc.opts, tc.offset)

			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.wantYear, got.Year)
			assert.Equal(t, tc.wantMonth, got.Month)
		})
	}
}

func TestInstant(t *testing.T) {
	at, err := options{at: "2024-04-01T09:00:00+02:00"}.instant()
	require.NoError(t, err)
	assert.True(t, at.Equal(time.Date(2024, time.April, 1, 7, 0, 0, 0, time.UTC)))

	before := time.Now()
	now, err := options{}.instant()
	require.NoError(t, err)
	assert.False(t, now.Before(before))
}

func TestScalerMetadata(t *testing.T) {
	assert.Equal(t, map[string]string{
		"nth_working_day": "3",
		"target_size":     "1",
	}, options{nthWorkingDay: 3, targetSize: 1}.scalerMetadata())

	assert.Equal(t, map[string]string{
		"nth_working_day": "1",
		"target_size":     "5",
		"from_time":       "23:00",
		"to_time":         "01:00",
	}, options{nthWorkingDay: 1, targetSize: 5, from: "23:00", to: "01:00"}.scalerMetadata())
}
