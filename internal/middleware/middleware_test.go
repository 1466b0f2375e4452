package middleware

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"appointment-booking-api/internal/auth"
	"appointment-booking-api/internal/bookingpb"
	"appointment-booking-api/internal/logging"
)

func info(method string) *grpc.UnaryServerInfo {
	return &grpc.UnaryServerInfo{FullMethod: bookingpb.FullMethod(method)}
}

func withPeer(ctx context.Context, addr string) context.Context {
	ap, _ := net.ResolveTCPAddr("tcp", addr)
	return peer.NewContext(ctx, &peer.Peer{Addr: ap})
}

func TestAuth(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	tokens := auth.NewIssuer("secret", 15*time.Minute, clock)
	tok, _, err := tokens.MakeToken("user-1")
	require.NoError(t, err)

	icpt := Auth(tokens)
	var seen string
	next := func(ctx context.Context, _ any) (any, error) {
		seen, _ = UserID(ctx)
		return "ok", nil
	}

	t.Run("open method needs no token", func(t *testing.T) {
		seen = ""
		resp, err := icpt(context.Background(), nil, info("Login"), next)
		require.NoError(t, err)
		assert.Equal(t, "ok", resp)
		assert.Empty(t, seen)
	})

	t.Run("valid bearer token", func(t *testing.T) {
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer "+tok))
		_, err := icpt(ctx, nil, info("ListMySlots"), next)
		require.NoError(t, err)
		assert.Equal(t, "user-1", seen)
	})

	tests := []struct {
		name string
		ctx  context.Context
	}{
		{"no metadata", context.Background()},
		{"no token", metadata.NewIncomingContext(context.Background(), metadata.MD{})},
		{"garbage token", metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer nope"))},
		{"wrong scheme", metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Basic "+tok))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := icpt(tt.ctx, nil, info("CancelBooking"), next)
			assert.Equal(t, codes.Unauthenticated, status.Code(err))
		})
	}

	t.Run("expired token", func(t *testing.T) {
		clock.Advance(16 * time.Minute)
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer "+tok))
		_, err := icpt(ctx, nil, info("CancelBooking"), next)
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})
}

func TestUserID(t *testing.T) {
	_, ok := UserID(context.Background())
	assert.False(t, ok)

	_, ok = UserID(WithUserID(context.Background(), ""))
	assert.False(t, ok)

	id, ok := UserID(WithUserID(context.Background(), "u"))
	assert.True(t, ok)
	assert.Equal(t, "u", id)
}

func TestRateLimit(t *testing.T) {
	clock := clockwork.NewFakeClock()
	rl := NewRateLimiter(1, 2, clock)
	icpt := RateLimit(rl)
	next := func(context.Context, any) (any, error) { return nil, nil }

	a := withPeer(context.Background(), "10.0.0.1:5000")
	// a new connection from the same host shares the bucket
	a2 := withPeer(context.Background(), "10.0.0.1:5001")
	b := withPeer(context.Background(), "10.0.0.2:5000")

	_, err := icpt(a, nil, info("Login"), next)
	require.NoError(t, err)
	_, err = icpt(a2, nil, info("Login"), next)
	require.NoError(t, err)
	_, err = icpt(a, nil, info("Login"), next)
	assert.Equal(t, codes.ResourceExhausted, status.Code(err))

	_, err = icpt(b, nil, info("Login"), next)
	assert.NoError(t, err, "other clients keep their own bucket")

	_, err = icpt(a, nil, info("ListAvailableSlots"), next)
	assert.NoError(t, err, "unlimited methods pass through")

	clock.Advance(time.Second)
	_, err = icpt(a, nil, info("JoinExistingBooking"), next)
	assert.NoError(t, err, "bucket refills over time")
}

func TestRateLimiterSweep(t *testing.T) {
	clock := clockwork.NewFakeClock()
	rl := NewRateLimiter(1, 1, clock)
	rl.Allow("a")
	clock.Advance(2 * time.Minute)
	rl.Allow("b")
	clock.Advance(2 * time.Minute)

	rl.sweep()
	assert.Equal(t, 1, rl.size())
}

func TestRateLimiterRunStops(t *testing.T) {
	clock := clockwork.NewFakeClock()
	rl := NewRateLimiter(1, 1, clock)
	rl.Allow("a")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		rl.Run(ctx)
		close(done)
	}()

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(5 * time.Minute)
	assert.Eventually(t, func() bool { return rl.size() == 0 }, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop")
	}
}

func TestClientIP(t *testing.T) {
	assert.Equal(t, "unknown", clientIP(context.Background()))
	assert.Equal(t, "192.168.1.9", clientIP(withPeer(context.Background(), "192.168.1.9:4433")))
}

func TestLogging_CorrelationID(t *testing.T) {
	icpt := Logging()
	var got string
	next := func(ctx context.Context, _ any) (any, error) {
		got, _ = logging.CorrelationID(ctx)
		return nil, nil
	}

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(RequestIDHeader, "req-42"))
	_, err := icpt(ctx, nil, info("ListMySlots"), next)
	require.NoError(t, err)
	assert.Equal(t, "req-42", got)

	_, err = icpt(context.Background(), nil, info("ListMySlots"), next)
	require.NoError(t, err)
	assert.NotEmpty(t, got)
	assert.NotEqual(t, "req-42", got)
}

func TestLogging_PassesErrorsAndRecovers(t *testing.T) {
	icpt := Logging()

	want := status.Error(codes.NotFound, "slot not found")
	_, err := icpt(context.Background(), nil, info("CancelBooking"), func(context.Context, any) (any, error) {
		return nil, want
	})
	assert.True(t, errors.Is(err, want))

	resp, err := icpt(context.Background(), nil, info("CancelBooking"), func(context.Context, any) (any, error) {
		panic("boom")
	})
	assert.Nil(t, resp)
	assert.Equal(t, codes.Internal, status.Code(err))
}
