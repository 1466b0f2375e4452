package middleware

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"appointment-booking-api/internal/auth"
	"appointment-booking-api/internal/bookingpb"
)

type ctxKey string

const UserIDKey ctxKey = "uid"

// methods callable without an access token
var public = map[string]bool{
	bookingpb.FullMethod("Register"): true,
	bookingpb.FullMethod("Login"):    true,
	bookingpb.FullMethod("Refresh"):  true,
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// UserID returns the authenticated caller, if any.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(UserIDKey).(string)
	return id, ok && id != ""
}

// Auth verifies the bearer access token on every non-public method and
// stores the caller's id in the context.
func Auth(tokens *auth.Issuer) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
		if public[info.FullMethod] {
			return next(ctx, req)
		}
		raw, err := bearer(ctx)
		if err != nil {
			return nil, err
		}
		claims, err := tokens.ParseToken(raw)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, "bad token")
		}
		return next(WithUserID(ctx, claims.UserID), req)
	}
}

// bearer reads "authorization: Bearer <jwt>" from the incoming metadata.
func bearer(ctx context.Context) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "missing metadata")
	}
	vals := md.Get("authorization")
	if len(vals) == 0 {
		return "", status.Error(codes.Unauthenticated, "no token")
	}
	scheme, raw, found := strings.Cut(vals[0], " ")
	if !found || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(raw) == "" {
		return "", status.Error(codes.Unauthenticated, "no token")
	}
	return strings.TrimSpace(raw), nil
}
