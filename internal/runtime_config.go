package internal

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/spacelift-io/workdayscalr/internal/tracing"
)

// TracingExporter selects where spans are sent.
type TracingExporter string

const (
	TracingExporterNone   TracingExporter = tracing.ExporterNone
	TracingExporterStdout TracingExporter = tracing.ExporterStdout
	TracingExporterXRay   TracingExporter = tracing.ExporterXRay
)

type RuntimeConfig struct {
	// Holidays location: a file path, file://, ssm://, gcpsm:// or azkv:// URI.
	HolidaysSource  string `env:"HOLIDAYS_SOURCE" envDefault:"holidays.csv"`
	RequireHolidays bool   `env:"REQUIRE_HOLIDAYS" envDefault:"false"`

	// Serving.
	Port         int `env:"PORT" envDefault:"8080"`
	HTTPPort     int `env:"HTTP_PORT" envDefault:"8081"`
	TimeOffset   int `env:"TIME_OFFSET" envDefault:"0"`
	PushInterval int `env:"PUSH_INTERVAL" envDefault:"30"`

	// Cloud-specific fields, only used by the matching holidays source.
	AWSRegion string `env:"AWS_REGION"`

	// Telemetry.
	TracingExporter TracingExporter `env:"TRACING_EXPORTER" envDefault:"none"`
}

// Parse parses environment variables into the config and validates the result.
func (r *RuntimeConfig) Parse() error {
	if err := env.Parse(r); err != nil {
		return err
	}

	return r.Validate()
}

// Validate checks the values which env tags cannot express.
func (r RuntimeConfig) Validate() error {
	var errs []error

	if r.HolidaysSource == "" {
		errs = append(errs, errors.New("HOLIDAYS_SOURCE must not be empty"))
	}

	if r.Port < 1 || r.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d is not a valid port", r.Port))
	}

	if r.HTTPPort < 0 || r.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("HTTP_PORT %d is not a valid port", r.HTTPPort))
	}

	if err := ValidateTimeOffset(r.TimeOffsetDuration()); err != nil {
		errs = append(errs, fmt.Errorf("TIME_OFFSET: %w", err))
	}

	if r.PushInterval < 1 {
		errs = append(errs, fmt.Errorf("PUSH_INTERVAL must be at least 1 second, got %d", r.PushInterval))
	}

	switch r.TracingExporter {
	case TracingExporterNone, TracingExporterStdout, TracingExporterXRay:
	default:
		errs = append(errs, fmt.Errorf("TRACING_EXPORTER %q is not one of none, stdout, xray", r.TracingExporter))
	}

	return errors.Join(errs...)
}

func (r RuntimeConfig) TimeOffsetDuration() time.Duration {
	return time.Duration(r.TimeOffset) * time.Second
}

func (r RuntimeConfig) PushIntervalDuration() time.Duration {
	return time.Duration(r.PushInterval) * time.Second
}

// ScalerConfig returns the settings of the scaler service.
func (r RuntimeConfig) ScalerConfig() ScalerConfig {
	return ScalerConfig{
		TimeOffset:   r.TimeOffsetDuration(),
		PushInterval: r.PushIntervalDuration(),
	}
}
