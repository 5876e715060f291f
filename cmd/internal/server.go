package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	pb "github.com/kedacore/keda/v2/pkg/scalers/externalscaler"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/spacelift-io/workdayscalr/internal"
)

// ShutdownTimeout bounds how long in-flight calls may take once shutdown starts.
const ShutdownTimeout = 15 * time.Second

// Server hosts the scaler over gRPC, plus an optional HTTP server exposing
// health and Prometheus metrics.
type Server struct {
	logger *slog.Logger
	scaler *internal.Scaler
	health *health.Server

	grpcServer *grpc.Server
	httpServer *http.Server

	shutdownTimeout time.Duration
}

func NewServer(logger *slog.Logger, scaler *internal.Scaler, metrics *internal.Metrics, gatherer prometheus.Gatherer) *Server {
	healthServer := health.NewServer()

	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(internal.UnaryServerInterceptor(logger, metrics)),
		grpc.ChainStreamInterceptor(internal.StreamServerInterceptor(logger, metrics)),
	)

	pb.RegisterExternalScalerServer(grpcServer, scaler)
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)

	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(pb.ExternalScaler_ServiceDesc.ServiceName, healthpb.HealthCheckResponse_SERVING)

	s := &Server{
		logger:          logger,
		scaler:          scaler,
		health:          healthServer,
		grpcServer:      grpcServer,
		shutdownTimeout: ShutdownTimeout,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	s.httpServer = &http.Server{
		Handler:           otelhttp.NewHandler(mux, "workdayscalr"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Serve runs the servers until ctx is done or one of them fails, then shuts
// everything down. httpLis may be nil to disable the HTTP server.
func (s *Server) Serve(ctx context.Context, grpcLis, httpLis net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("starting gRPC server", "address", grpcLis.Addr().String())

		if err := s.grpcServer.Serve(grpcLis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("gRPC server failed: %w", err)
		}

		return nil
	})

	if httpLis != nil {
		g.Go(func() error {
			s.logger.Info("starting HTTP server", "address", httpLis.Addr().String())

			if err := s.httpServer.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("HTTP server failed: %w", err)
			}

			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		s.shutdown(httpLis != nil)
		return nil
	})

	return g.Wait()
}

func (s *Server) shutdown(withHTTP bool) {
	s.logger.Info("starting graceful shutdown")

	s.health.Shutdown()
	s.scaler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	stopped := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(stopped)
	}()

	if withHTTP {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Warn("could not stop the HTTP server gracefully", "error", err)
		}
	}

	select {
	case <-stopped:
		s.logger.Info("server stopped gracefully")
	case <-ctx.Done():
		s.logger.Warn("graceful shutdown timed out, closing remaining connections")
		s.grpcServer.Stop()
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp, err := s.health.Check(r.Context(), &healthpb.HealthCheckRequest{})
	if err != nil || resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		writeJSON(w, s.logger, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}

	writeJSON(w, s.logger, http.StatusOK, map[string]string{"status": "healthy"})
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("failed to encode response", "error", err)
	}
}

// LoadCalendar builds the holiday calendar from the configured source. An
// empty calendar is only accepted when holidays are not required.
func LoadCalendar(ctx context.Context, logger *slog.Logger, cfg *internal.RuntimeConfig) (*internal.HolidayCalendar, error) {
	calendar, err := loadCalendar(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if calendar.Len() == 0 {
		if cfg.RequireHolidays {
			return nil, fmt.Errorf("no holidays found in %s", cfg.HolidaysSource)
		}

		logger.Warn("no holidays loaded, every weekday is a working day", "source", cfg.HolidaysSource)
	}

	logger.Info("holidays loaded", "source", cfg.HolidaysSource, "count", calendar.Len())

	return calendar, nil
}

func loadCalendar(ctx context.Context, cfg *internal.RuntimeConfig) (*internal.HolidayCalendar, error) {
	source, err := internal.NewHolidaySource(ctx, cfg.HolidaysSource, cfg)
	if err != nil {
		return nil, fmt.Errorf("could not create holidays source: %w", err)
	}

	return internal.LoadHolidayCalendar(ctx, source)
}

// Run loads the calendar, then serves the scaler on the configured ports
// until ctx is done.
func Run(ctx context.Context, logger *slog.Logger, cfg *internal.RuntimeConfig) error {
	calendar, err := LoadCalendar(ctx, logger, cfg)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	metrics := internal.NewMetrics(registry)
	metrics.Holidays.Set(float64(calendar.Len()))

	scaler := internal.NewScaler(calendar, internal.SystemClock{}, cfg.ScalerConfig(), logger, metrics)

	var lc net.ListenConfig

	grpcLis, err := lc.Listen(ctx, "tcp", net.JoinHostPort("", strconv.Itoa(cfg.Port)))
	if err != nil {
		return fmt.Errorf("could not listen on gRPC port: %w", err)
	}

	var httpLis net.Listener
	if cfg.HTTPPort != 0 {
		if httpLis, err = lc.Listen(ctx, "tcp", net.JoinHostPort("", strconv.Itoa(cfg.HTTPPort))); err != nil {
			grpcLis.Close()
			return fmt.Errorf("could not listen on HTTP port: %w", err)
		}
	}

	logger.Info("scaler configured",
		"time_offset", cfg.TimeOffsetDuration(),
		"push_interval", cfg.PushIntervalDuration(),
	)

	return NewServer(logger, scaler, metrics, registry).Serve(ctx, grpcLis, httpLis)
}
