package handler

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"appointment-booking-api/internal/booking"
	"appointment-booking-api/internal/middleware"
)

// toStatus maps a booking outcome onto a gRPC status. Anything that is not
// a classified outcome is logged and reported as a bare internal error.
func toStatus(ctx context.Context, err error) error {
	var be *booking.Error
	if !errors.As(err, &be) {
		slog.ErrorContext(ctx, "request failed", "error", err)
		return status.Error(codes.Internal, "internal error")
	}

	code := codes.Internal
	switch be.Kind {
	case booking.KindInvalidArgument:
		code = codes.InvalidArgument
	case booking.KindUnauthorized:
		code = codes.PermissionDenied
	case booking.KindNotFound:
		code = codes.NotFound
	case booking.KindConflict:
		code = codes.FailedPrecondition
		if be.Reason == booking.ReasonDuplicate || be.Reason == booking.ReasonExists {
			code = codes.AlreadyExists
		}
	case booking.KindUnavailable:
		code = codes.Unavailable
	}
	return status.Error(code, be.Message)
}

func uid(ctx context.Context) (string, error) {
	id, ok := middleware.UserID(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "not signed in")
	}
	return id, nil
}
