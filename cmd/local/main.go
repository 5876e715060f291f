package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"cloud.google.com/go/civil"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"k8s.io/utils/clock"

	cmdinternal "github.com/spacelift-io/workdayscalr/cmd/internal"
	"github.com/spacelift-io/workdayscalr/internal"
	"github.com/spacelift-io/workdayscalr/internal/tracing"
)

type options struct {
	holidays      string
	nthWorkingDay int
	from          string
	to            string
	targetSize    int64
	timeOffset    int
	at            string
	month         string
}

// fixedClock always reads the same instant.
type fixedClock struct {
	clock.RealClock
	at time.Time
}

func (c fixedClock) Now() (time.Time, error) {
	return c.at, nil
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	var cfg internal.RuntimeConfig
	if err := cfg.Parse(); err != nil {
		logger.Error("failed to parse configuration", "error", err)
		os.Exit(1)
	}

	opts := options{
		holidays:   cfg.HolidaysSource,
		timeOffset: cfg.TimeOffset,
	}

	rootCmd := &cobra.Command{
		Use:   "workdayscalr-local",
		Short: "Evaluate an activation window once",
		Long: `Evaluate whether a workload configured with the given scaler metadata
would be active at a given instant, and print the decision as JSON.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEvaluate(cmd.Context(), logger, cfg, opts)
		},
	}
	addSourceFlags(rootCmd.PersistentFlags(), &opts)
	addWindowFlags(rootCmd.Flags(), &opts)

	workingDaysCmd := &cobra.Command{
		Use:   "working-days",
		Short: "List the working days of a month",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWorkingDays(cmd.Context(), logger, cfg, opts)
		},
	}
	workingDaysCmd.Flags().StringVar(&opts.month, "month", "", "month to list, as YYYY-MM (default: the current month)")
	rootCmd.AddCommand(workingDaysCmd)

	ctx := context.Background()

	tp, err := tracing.InitTracer(ctx, logger, "workdayscalr-local", string(cfg.TracingExporter))
	if err != nil {
		logger.Error("failed to initialize tracing", "error", err)
		os.Exit(1)
	}
	defer func(ctx context.Context) {
		if err := tp.Shutdown(ctx); err != nil {
			logger.Error("error shutting down tracer provider", "error", err)
		}
	}(ctx)

	ctx, span := otel.Tracer("local").Start(ctx, "evaluation")
	defer span.End()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "")
		span.End()
		os.Exit(1)
	}
}

func addSourceFlags(flags *pflag.FlagSet, opts *options) {
	flags.StringVar(&opts.holidays, "holidays", opts.holidays, "holidays location: a file path, file://, ssm://, gcpsm:// or azkv:// URI")
	flags.IntVar(&opts.timeOffset, "time-offset", opts.timeOffset, "seconds added to UTC to get the local wall clock")
	flags.StringVar(&opts.at, "at", "", "RFC 3339 instant to evaluate at (default: now)")
}

func addWindowFlags(flags *pflag.FlagSet, opts *options) {
	flags.IntVar(&opts.nthWorkingDay, "nth-working-day", 1, "working day of the month to activate on")
	flags.StringVar(&opts.from, "from", "", "window start, HH:MM[:SS] (default 00:00:00)")
	flags.StringVar(&opts.to, "to", "", "window end, HH:MM[:SS] (default 23:59:59)")
	flags.Int64Var(&opts.targetSize, "target-size", 1, "replicas requested while active")
}

// scalerMetadata renders the flags the way KEDA would pass them, so that they
// go through the same validation.
func (o options) scalerMetadata() map[string]string {
	metadata := map[string]string{
		"nth_working_day": strconv.Itoa(o.nthWorkingDay),
		"target_size":     strconv.FormatInt(o.targetSize, 10),
	}

	if o.from != "" {
		metadata["from_time"] = o.from
	}

	if o.to != "" {
		metadata["to_time"] = o.to
	}

	return metadata
}

// instant is the moment to evaluate at.
func (o options) instant() (time.Time, error) {
	if o.at == "" {
		return time.Now(), nil
	}

	at, err := time.Parse(time.RFC3339, o.at)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --at value: %w", err)
	}

	return at, nil
}

func (o options) loadCalendar(ctx context.Context, logger *slog.Logger, cfg internal.RuntimeConfig) (internal.RuntimeConfig, *internal.HolidayCalendar, error) {
	cfg.HolidaysSource = o.holidays
	cfg.TimeOffset = o.timeOffset

	if err := cfg.Validate(); err != nil {
		return cfg, nil, err
	}

	calendar, err := cmdinternal.LoadCalendar(ctx, logger, &cfg)
	if err != nil {
		return cfg, nil, err
	}

	return cfg, calendar, nil
}

type evaluation struct {
	Active         bool   `json:"active"`
	TargetSize     int64  `json:"target_size"`
	WallClock      string `json:"wall_clock"`
	TargetDate     string `json:"target_date,omitempty"`
	WorkingDaysMTD int    `json:"working_days_mtd"`
}

func runEvaluate(ctx context.Context, logger *slog.Logger, cfg internal.RuntimeConfig, opts options) error {
	activation, err := internal.ParseActivationConfig(opts.scalerMetadata())
	if err != nil {
		return err
	}

	now, err := opts.instant()
	if err != nil {
		return err
	}

	cfg, calendar, err := opts.loadCalendar(ctx, logger, cfg)
	if err != nil {
		return err
	}

	// Nothing scrapes the collectors of a one-shot run.
	metrics := internal.NewMetrics(prometheus.NewRegistry())
	scaler := internal.NewScaler(calendar, fixedClock{at: now}, cfg.ScalerConfig(), logger, metrics)

	decision, err := scaler.Decide(ctx, activation)
	if err != nil {
		return err
	}

	wallClock := internal.WallClock(now, cfg.TimeOffsetDuration())

	out := evaluation{
		Active:         decision.Active,
		TargetSize:     decision.TargetSize,
		WallClock:      wallClock.String(),
		WorkingDaysMTD: calendar.WorkingDaysMTD(wallClock.Date),
	}

	if decision.Found {
		out.TargetDate = decision.TargetDate.String()
	}

	return printJSON(out)
}

func runWorkingDays(ctx context.Context, logger *slog.Logger, cfg internal.RuntimeConfig, opts options) error {
	cfg, calendar, err := opts.loadCalendar(ctx, logger, cfg)
	if err != nil {
		return err
	}

	month, err := monthOf(opts, cfg.TimeOffsetDuration())
	if err != nil {
		return err
	}

	var days []string
	for n := 1; ; n++ {
		date, ok := calendar.NthWorkingDay(month.Year, month.Month, n)
		if !ok {
			break
		}
		days = append(days, date.String())
	}

	return printJSON(days)
}

func monthOf(opts options, offset time.Duration) (civil.Date, error) {
	if opts.month == "" {
		now, err := opts.instant()
		if err != nil {
			return civil.Date{}, err
		}

		return internal.WallClock(now, offset).Date, nil
	}

	month, err := civil.ParseDate(opts.month + "-01")
	if err != nil {
		return civil.Date{}, fmt.Errorf("invalid --month value %q: expected YYYY-MM", opts.month)
	}

	return month, nil
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	return encoder.Encode(v)
}
