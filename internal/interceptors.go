package internal

import (
	"context"
	"log/slog"
	"path"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// UnaryServerInterceptor counts and logs unary calls.
func UnaryServerInterceptor(logger *slog.Logger, metrics *Metrics) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()

		resp, err := handler(ctx, req)

		observeCall(ctx, logger, metrics, info.FullMethod, start, err)

		return resp, err
	}
}

// StreamServerInterceptor counts and logs streaming calls once they end.
func StreamServerInterceptor(logger *slog.Logger, metrics *Metrics) grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		start := time.Now()

		err := handler(srv, ss)

		observeCall(ss.Context(), logger, metrics, info.FullMethod, start, err)

		return err
	}
}

func observeCall(ctx context.Context, logger *slog.Logger, metrics *Metrics, fullMethod string, start time.Time, err error) {
	method := path.Base(fullMethod)
	code := status.Code(err)

	metrics.RequestsTotal.WithLabelValues(method, code.String()).Inc()

	logger = logger.With(
		"method", method,
		"code", code.String(),
		"duration", time.Since(start),
	)

	if err != nil {
		logger.WarnContext(ctx, "call failed", "error", err)
		return
	}

	logger.DebugContext(ctx, "call handled")
}
