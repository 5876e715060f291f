package internal

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv empties the environment for the duration of the test.
func clearEnv(t *testing.T) {
	originalEnv := os.Environ()
	os.Clearenv()

	t.Cleanup(func() {
		os.Clearenv()
		for _, e := range originalEnv {
			if key, value, ok := strings.Cut(e, "="); ok {
				os.Setenv(key, value)
			}
		}
	})
}

func TestRuntimeConfig_Parse_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := &RuntimeConfig{}
	err := cfg.Parse()
	require.NoError(t, err, "Parse should succeed without any environment variables")

	assert.Equal(t, "holidays.csv", cfg.HolidaysSource)
	assert.False(t, cfg.RequireHolidays)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 8081, cfg.HTTPPort)
	assert.Equal(t, time.Duration(0), cfg.TimeOffsetDuration())
	assert.Equal(t, 30*time.Second, cfg.PushIntervalDuration())
	assert.Equal(t, TracingExporterNone, cfg.TracingExporter)
}

func TestRuntimeConfig_Parse_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOLIDAYS_SOURCE", "ssm:///workdayscalr/holidays")
	t.Setenv("REQUIRE_HOLIDAYS", "true")
	t.Setenv("PORT", "9000")
	t.Setenv("HTTP_PORT", "0")
	t.Setenv("TIME_OFFSET", "-10800")
	t.Setenv("PUSH_INTERVAL", "5")
	t.Setenv("AWS_REGION", "eu-west-1")
	t.Setenv("TRACING_EXPORTER", "xray")

	cfg := &RuntimeConfig{}
	require.NoError(t, cfg.Parse())

	assert.Equal(t, "ssm:///workdayscalr/holidays", cfg.HolidaysSource)
	assert.True(t, cfg.RequireHolidays)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, 0, cfg.HTTPPort)
	assert.Equal(t, -3*time.Hour, cfg.TimeOffsetDuration())
	assert.Equal(t, 5*time.Second, cfg.PushIntervalDuration())
	assert.Equal(t, "eu-west-1", cfg.AWSRegion)
	assert.Equal(t, TracingExporterXRay, cfg.TracingExporter)
}

func TestRuntimeConfig_Parse_MalformedNumber(t *testing.T) {
	clearEnv(t)
	t.Setenv("TIME_OFFSET", "three hours")

	cfg := &RuntimeConfig{}
	err := cfg.Parse()
	require.Error(t, err, "Parse should fail when TIME_OFFSET is not a number")
	assert.Contains(t, err.Error(), "TimeOffset")
}

func TestRuntimeConfig_Validate(t *testing.T) {
	valid := func() RuntimeConfig {
		return RuntimeConfig{
			HolidaysSource:  "holidays.csv",
			Port:            8080,
			HTTPPort:        8081,
			PushInterval:    30,
			TracingExporter: TracingExporterNone,
		}
	}

	t.Run("Accepts the widest offsets", func(t *testing.T) {
		cfg := valid()

		cfg.TimeOffset = 86400
		assert.NoError(t, cfg.Validate())

		cfg.TimeOffset = -86400
		assert.NoError(t, cfg.Validate())
	})

	t.Run("Rejects offsets beyond one day", func(t *testing.T) {
		cfg := valid()

		cfg.TimeOffset = 86401
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "TIME_OFFSET")

		cfg.TimeOffset = -86401
		assert.Error(t, cfg.Validate())
	})

	t.Run("Rejects a zero push interval", func(t *testing.T) {
		cfg := valid()
		cfg.PushInterval = 0

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "PUSH_INTERVAL")
	})

	t.Run("Reports every problem at once", func(t *testing.T) {
		cfg := valid()
		cfg.Port = 0
		cfg.HolidaysSource = ""
		cfg.TracingExporter = "jaeger"

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "PORT")
		assert.Contains(t, err.Error(), "HOLIDAYS_SOURCE")
		assert.Contains(t, err.Error(), "TRACING_EXPORTER")
	})
}
