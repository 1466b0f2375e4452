package middleware

import (
	"context"
	"log/slog"
	"runtime/debug"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"appointment-booking-api/internal/logging"
	"appointment-booking-api/internal/metrics"
)

// RequestIDHeader carries a caller-supplied correlation id.
const RequestIDHeader = "x-request-id"

// Logging tags the context with a correlation id, recovers panics, and
// records one log line and metric sample per call. It should run first.
func Logging() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (resp any, err error) {
		id := ""
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if vals := md.Get(RequestIDHeader); len(vals) > 0 {
				id = vals[0]
			}
		}
		if id == "" {
			id = logging.NewCorrelationID()
		}
		ctx = logging.WithCorrelationID(ctx, id)
		start := time.Now()

		defer func() {
			if r := recover(); r != nil {
				slog.ErrorContext(ctx, "panic in handler", "method", info.FullMethod, "panic", r, "stack", string(debug.Stack()))
				resp, err = nil, status.Error(codes.Internal, "internal error")
			}

			code := status.Code(err)
			elapsed := time.Since(start)
			metrics.RPCRequestsTotal.WithLabelValues(info.FullMethod, code.String()).Inc()
			metrics.RPCRequestDuration.WithLabelValues(info.FullMethod).Observe(elapsed.Seconds())

			level := slog.LevelInfo
			if code == codes.Internal || code == codes.Unavailable {
				level = slog.LevelError
			}
			slog.Log(ctx, level, "rpc", "method", info.FullMethod, "code", code.String(), "duration", elapsed)
		}()

		return next(ctx, req)
	}
}
