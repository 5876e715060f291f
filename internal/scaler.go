package internal

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	pb "github.com/kedacore/keda/v2/pkg/scalers/externalscaler"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	grpccodes "google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/spacelift-io/workdayscalr/internal/ifaces"
)

// MetricName is the name of the single metric the scaler exposes. Its value
// is the replica count the workload should have.
const MetricName = "nth_working_day_window"

// Scaler implements the KEDA external scaler protocol on top of the working
// day calendar. All activation settings come with each request, so a single
// Scaler serves any number of ScaledObjects.
type Scaler struct {
	pb.UnimplementedExternalScalerServer

	calendar     *HolidayCalendar
	clock        ifaces.Clock
	timeOffset   time.Duration
	pushInterval time.Duration

	logger  *slog.Logger
	metrics *Metrics
	tracer  trace.Tracer

	stopping chan struct{}
	stopOnce sync.Once
}

// ScalerConfig holds the process-wide settings of the scaler.
type ScalerConfig struct {
	TimeOffset   time.Duration
	PushInterval time.Duration
}

func NewScaler(calendar *HolidayCalendar, clock ifaces.Clock, cfg ScalerConfig, logger *slog.Logger, metrics *Metrics) *Scaler {
	return &Scaler{
		calendar:     calendar,
		clock:        clock,
		timeOffset:   cfg.TimeOffset,
		pushInterval: cfg.PushInterval,
		logger:       logger,
		metrics:      metrics,
		tracer:       otel.Tracer(tracerName),
		stopping:     make(chan struct{}),
	}
}

// IsActive reports whether the workload should currently be active.
func (s *Scaler) IsActive(ctx context.Context, ref *pb.ScaledObjectRef) (*pb.IsActiveResponse, error) {
	cfg, err := parseScaledObject(ref)
	if err != nil {
		return nil, err
	}

	decision, err := s.evaluate(ctx, cfg)
	if err != nil {
		return nil, err
	}

	s.metrics.observeDecision("IsActive", decision)

	return &pb.IsActiveResponse{Result: decision.Active}, nil
}

// GetMetricSpec declares the metric with a target of one replica per unit, so
// the HPA scales the workload to exactly the value returned by GetMetrics.
func (s *Scaler) GetMetricSpec(_ context.Context, ref *pb.ScaledObjectRef) (*pb.GetMetricSpecResponse, error) {
	if _, err := parseScaledObject(ref); err != nil {
		return nil, err
	}

	return &pb.GetMetricSpecResponse{
		MetricSpecs: []*pb.MetricSpec{{
			MetricName: MetricName,
			TargetSize: 1,
		}},
	}, nil
}

// GetMetrics returns the target size when active and zero otherwise. It always
// agrees with IsActive evaluated at the same instant.
func (s *Scaler) GetMetrics(ctx context.Context, req *pb.GetMetricsRequest) (*pb.GetMetricsResponse, error) {
	cfg, err := parseScaledObject(req.GetScaledObjectRef())
	if err != nil {
		return nil, err
	}

	decision, err := s.evaluate(ctx, cfg)
	if err != nil {
		return nil, err
	}

	s.metrics.observeDecision("GetMetrics", decision)

	return &pb.GetMetricsResponse{
		MetricValues: []*pb.MetricValue{{
			MetricName:  req.GetMetricName(),
			MetricValue: decision.TargetSize,
		}},
	}, nil
}

// StreamIsActive pushes the activation state right away and then once every
// push interval until the client goes away or the scaler is stopped. Ticks
// follow a fixed period: a slow send delays the next decision, it does not
// shift the schedule, and missed ticks are dropped.
func (s *Scaler) StreamIsActive(ref *pb.ScaledObjectRef, stream pb.ExternalScaler_StreamIsActiveServer) error {
	ctx := stream.Context()

	cfg, err := parseScaledObject(ref)
	if err != nil {
		return err
	}

	logger := s.logger.With(
		"stream_id", uuid.NewString(),
		"scaled_object", ref.GetNamespace()+"/"+ref.GetName(),
		"push_interval", s.pushInterval,
	)

	ticker := s.clock.NewTicker(s.pushInterval)
	defer ticker.Stop()

	s.metrics.ActiveStreams.Inc()
	defer s.metrics.ActiveStreams.Dec()

	logger.Info("stream opened")

	for {
		decision, err := s.evaluate(ctx, cfg)
		if err != nil {
			logger.Error("could not evaluate activation, closing stream", "error", err)
			return err
		}

		s.metrics.observeDecision("StreamIsActive", decision)

		if err := stream.Send(&pb.IsActiveResponse{Result: decision.Active}); err != nil {
			if ctx.Err() != nil {
				logger.Info("stream closed by the client")
				return nil
			}

			logger.Warn("could not send activation, closing stream", "error", err)
			return err
		}

		s.metrics.StreamSends.Inc()

		select {
		case <-ctx.Done():
			logger.Info("stream closed by the client")
			return nil
		case <-s.stopping:
			logger.Info("scaler stopping, closing stream")
			return status.Error(grpccodes.Unavailable, "scaler is shutting down")
		case <-ticker.C():
		}
	}
}

// Stop ends all open streams so that the server can stop gracefully. Clients
// are expected to reconnect to another instance.
func (s *Scaler) Stop() {
	s.stopOnce.Do(func() { close(s.stopping) })
}

// Decide evaluates cfg against the current clock reading.
func (s *Scaler) Decide(ctx context.Context, cfg ActivationConfig) (ActivationDecision, error) {
	return s.evaluate(ctx, cfg)
}

func (s *Scaler) evaluate(ctx context.Context, cfg ActivationConfig) (ActivationDecision, error) {
	_, span := s.tracer.Start(ctx, "scaler.evaluate")
	defer span.End()

	now, err := s.clock.Now()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "clock unavailable")
		return ActivationDecision{}, status.Errorf(grpccodes.Unavailable, "could not read the clock: %v", err)
	}

	wallClock := WallClock(now, s.timeOffset)
	decision := s.calendar.Evaluate(wallClock, cfg)

	s.metrics.WorkingDaysMTD.Set(float64(s.calendar.WorkingDaysMTD(wallClock.Date)))

	span.SetAttributes(
		attribute.String("wall_clock", wallClock.String()),
		attribute.Int("nth_working_day", cfg.NthWorkingDay),
		attribute.Bool("target_date.found", decision.Found),
		attribute.Bool("active", decision.Active),
		attribute.Int64("target_size", decision.TargetSize),
	)

	if decision.Found {
		span.SetAttributes(attribute.String("target_date", decision.TargetDate.String()))
	}

	return decision, nil
}

func parseScaledObject(ref *pb.ScaledObjectRef) (ActivationConfig, error) {
	if ref == nil {
		return ActivationConfig{}, status.Error(grpccodes.InvalidArgument, "missing scaled object reference")
	}

	cfg, err := ParseActivationConfig(ref.GetScalerMetadata())
	if err != nil {
		return cfg, status.Error(grpccodes.InvalidArgument, err.Error())
	}

	return cfg, nil
}
