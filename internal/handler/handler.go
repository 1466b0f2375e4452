package handler

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jonboulle/clockwork"

	"appointment-booking-api/internal/auth"
	"appointment-booking-api/internal/booking"
	"appointment-booking-api/internal/bookingpb"
	"appointment-booking-api/internal/model"
)

// Bookings is the slot reservation service.
type Bookings interface {
	CreateNewBooking(ctx context.Context, in booking.NewBooking) error
	JoinExistingBooking(ctx context.Context, in booking.JoinBooking) error
	CancelBooking(ctx context.Context, slotID int64, userID string) (booking.Succession, error)
	ListAvailableSlots(ctx context.Context, r booking.DateRange) ([]model.SlotSummary, error)
	ListMySlots(ctx context.Context, userID string) ([]model.SlotDetail, error)
	ListAllSlots(ctx context.Context, r booking.DateRange) ([]model.SlotDetail, error)
	AddSlot(ctx context.Context, in booking.NewSlot) (int64, error)
	RemoveSlot(ctx context.Context, slotID int64) error
}

// Accounts is the user, role and refresh token storage.
type Accounts interface {
	CreateUser(ctx context.Context, u *model.User) error
	UserByEmail(ctx context.Context, email string) (*model.User, error)
	UserByID(ctx context.Context, id string) (*model.User, error)
	HasRole(ctx context.Context, userID, role string) (bool, error)
	CreateRefreshToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) (string, error)
	RefreshTokenByHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error)
	RotateRefreshToken(ctx context.Context, oldID, userID, newHash string, newExpiry time.Time) (string, error)
	RevokeAllRefreshTokens(ctx context.Context, userID string) error
}

type Handler struct {
	bookingpb.UnimplementedBookingServiceServer
	bookings   Bookings
	accounts   Accounts
	tokens     *auth.Issuer
	refreshTTL time.Duration
	clock      clockwork.Clock
	validate   *validator.Validate
}

var _ bookingpb.BookingServiceServer = (*Handler)(nil)

func New(b Bookings, a Accounts, tokens *auth.Issuer, refreshTTL time.Duration, clock clockwork.Clock) *Handler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Handler{
		bookings:   b,
		accounts:   a,
		tokens:     tokens,
		refreshTTL: refreshTTL,
		clock:      clock,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}
}
