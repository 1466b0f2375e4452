package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonboulle/clockwork"

	"appointment-booking-api/internal/model"
)

// Tx is the record store as seen from inside one serializable transaction.
// Every read the engine makes goes through it, so a concurrent writer that
// invalidates a read makes the transaction fail to commit instead of letting
// the engine act on stale state.
type Tx interface {
	// Slot returns ErrSlotNotFound when the slot does not exist.
	Slot(ctx context.Context, slotID int64) (*model.Slot, error)
	CountBookings(ctx context.Context, slotID int64) (int, error)
	HasBooking(ctx context.Context, slotID int64, userID string) (bool, error)
	InsertBooking(ctx context.Context, b *model.Booking) error
	// DeleteBooking returns ErrBookingNotFound when nothing was deleted.
	DeleteBooking(ctx context.Context, slotID int64, userID string) error
	// EarliestBooking orders by BookedAt then Seq and returns
	// ErrBookingNotFound when the slot has no bookings.
	EarliestBooking(ctx context.Context, slotID int64) (*model.Booking, error)
	SetLeadership(ctx context.Context, slotID int64, l Leadership) error
}

// Leadership is the leader-owned part of a slot. The zero value clears it.
type Leadership struct {
	LeaderUserID     *string
	ConfirmationCode *string
	Subject          *string
	Location         *string
}

type CodeGenerator interface {
	Generate() string
	GenerateExcept(prev string) string
}

// Succession describes what a cancellation did to leadership.
type Succession struct {
	WasLeader bool
	NewLeader string
	Cleared   bool
}

// Engine enforces the capacity and leadership rules. It holds no state of
// its own; all mutual exclusion comes from the transaction it is handed.
type Engine struct {
	codes CodeGenerator
	clock clockwork.Clock
}

func NewEngine(codes CodeGenerator, clock clockwork.Clock) *Engine {
	return &Engine{codes: codes, clock: clock}
}

// CreateNewBooking books an empty slot and makes the caller its leader.
func (e *Engine) CreateNewBooking(ctx context.Context, tx Tx, in NewBooking) error {
	if _, err := e.loadSlot(ctx, tx, in.SlotID); err != nil {
		return err
	}

	n, err := tx.CountBookings(ctx, in.SlotID)
	if err != nil {
		return fmt.Errorf("count bookings: %w", err)
	}
	if n > 0 {
		return conflict(ReasonBooked, "slot already has a leader, join it instead")
	}

	if err := e.insert(ctx, tx, in.SlotID, in.UserID, in.Comments); err != nil {
		return err
	}

	code := e.codes.Generate()
	err = tx.SetLeadership(ctx, in.SlotID, Leadership{
		LeaderUserID:     &in.UserID,
		ConfirmationCode: &code,
		Subject:          &in.Subject,
		Location:         &in.Location,
	})
	if err != nil {
		return fmt.Errorf("set leader: %w", err)
	}
	return nil
}

// JoinExistingBooking adds the caller to a slot that already has a leader.
func (e *Engine) JoinExistingBooking(ctx context.Context, tx Tx, in JoinBooking) error {
	slot, err := e.loadSlot(ctx, tx, in.SlotID)
	if err != nil {
		return err
	}

	n, err := tx.CountBookings(ctx, in.SlotID)
	if err != nil {
		return fmt.Errorf("count bookings: %w", err)
	}
	if n >= slot.Capacity {
		return conflict(ReasonFull, "slot is full")
	}
	// an emptied slot must be re-created, not silently joined
	if n == 0 {
		return conflict(ReasonEmpty, "slot has no leader, create a new booking instead")
	}
	// a led slot always carries a code; one without is refused rather than trusted
	if slot.ConfirmationCode == nil || *slot.ConfirmationCode != in.ConfirmationCode {
		return unauthorized("confirmation code does not match")
	}

	dup, err := tx.HasBooking(ctx, in.SlotID, in.UserID)
	if err != nil {
		return fmt.Errorf("check booking: %w", err)
	}
	if dup {
		return conflict(ReasonDuplicate, "already booked on this slot")
	}

	if err := e.insert(ctx, tx, in.SlotID, in.UserID, in.Comments); err != nil {
		return err
	}
	return nil
}

// CancelBooking removes the caller's booking. When the caller led the slot,
// leadership passes to the earliest remaining booking, or is cleared along
// with subject and location when nobody is left.
func (e *Engine) CancelBooking(ctx context.Context, tx Tx, slotID int64, userID string) (Succession, error) {
	slot, err := tx.Slot(ctx, slotID)
	if errors.Is(err, ErrSlotNotFound) {
		return Succession{}, notFound("booking not found", err)
	}
	if err != nil {
		return Succession{}, fmt.Errorf("load slot: %w", err)
	}

	err = tx.DeleteBooking(ctx, slotID, userID)
	if errors.Is(err, ErrBookingNotFound) {
		return Succession{}, notFound("booking not found", err)
	}
	if err != nil {
		return Succession{}, fmt.Errorf("delete booking: %w", err)
	}

	if !slot.Led() || *slot.LeaderUserID != userID {
		return Succession{}, nil
	}

	next, err := tx.EarliestBooking(ctx, slotID)
	if errors.Is(err, ErrBookingNotFound) {
		if err := tx.SetLeadership(ctx, slotID, Leadership{}); err != nil {
			return Succession{}, fmt.Errorf("clear leader: %w", err)
		}
		return Succession{WasLeader: true, Cleared: true}, nil
	}
	if err != nil {
		return Succession{}, fmt.Errorf("find successor: %w", err)
	}

	prev := ""
	if slot.ConfirmationCode != nil {
		prev = *slot.ConfirmationCode
	}
	code := e.codes.GenerateExcept(prev)
	err = tx.SetLeadership(ctx, slotID, Leadership{
		LeaderUserID:     &next.UserID,
		ConfirmationCode: &code,
		Subject:          slot.Subject,
		Location:         slot.Location,
	})
	if err != nil {
		return Succession{}, fmt.Errorf("promote leader: %w", err)
	}
	return Succession{WasLeader: true, NewLeader: next.UserID}, nil
}

func (e *Engine) loadSlot(ctx context.Context, tx Tx, slotID int64) (*model.Slot, error) {
	slot, err := tx.Slot(ctx, slotID)
	if errors.Is(err, ErrSlotNotFound) {
		return nil, notFound("slot not found", err)
	}
	if err != nil {
		return nil, fmt.Errorf("load slot: %w", err)
	}
	return slot, nil
}

func (e *Engine) insert(ctx context.Context, tx Tx, slotID int64, userID, comments string) error {
	err := tx.InsertBooking(ctx, &model.Booking{
		SlotID:   slotID,
		UserID:   userID,
		BookedAt: e.clock.Now().UTC(),
		Comments: comments,
	})
	if errors.Is(err, ErrDuplicateBooking) {
		return conflict(ReasonDuplicate, "already booked on this slot")
	}
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}
