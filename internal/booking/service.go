package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"appointment-booking-api/internal/metrics"
	"appointment-booking-api/internal/model"
	"appointment-booking-api/internal/retry"
)

// AdminTx holds the slot lifecycle writes.
type AdminTx interface {
	// InsertSlot returns ErrSlotExists when (date, hour) is already taken.
	InsertSlot(ctx context.Context, s *model.Slot) (int64, error)
	// DeleteSlot removes the slot together with its bookings and returns
	// ErrSlotNotFound when there is nothing to remove.
	DeleteSlot(ctx context.Context, slotID int64) error
}

type StoreTx interface {
	Tx
	AdminTx
}

// Transactor runs fn in one serializable transaction, committing when fn
// returns nil. A commit-time serialization failure is returned as an error
// the retry policy classifies as retryable.
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context, tx StoreTx) error) error
}

type Reader interface {
	AvailableSlots(ctx context.Context, r DateRange) ([]model.SlotSummary, error)
	SlotsForUser(ctx context.Context, userID string) ([]model.SlotDetail, error)
	AllSlots(ctx context.Context, r DateRange) ([]model.SlotDetail, error)
}

// Service is the request-facing entry point. Each call validates its input,
// then runs inside a fresh transaction under the retry policy.
type Service struct {
	engine *Engine
	tx     Transactor
	reader Reader
	policy retry.Policy
	log    *slog.Logger
}

func NewService(engine *Engine, tx Transactor, reader Reader, policy retry.Policy, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{engine: engine, tx: tx, reader: reader, policy: policy, log: log}
}

func (s *Service) CreateNewBooking(ctx context.Context, in NewBooking) error {
	if err := in.check(); err != nil {
		return s.done(ctx, "create_booking", err)
	}
	err := s.inTx(ctx, "create_booking", func(ctx context.Context, tx StoreTx) error {
		return s.engine.CreateNewBooking(ctx, tx, in)
	})
	if err == nil {
		s.log.InfoContext(ctx, "booking created", "slot_id", in.SlotID, "user_id", in.UserID)
	}
	return s.done(ctx, "create_booking", err)
}

func (s *Service) JoinExistingBooking(ctx context.Context, in JoinBooking) error {
	if err := in.check(); err != nil {
		return s.done(ctx, "join_booking", err)
	}
	err := s.inTx(ctx, "join_booking", func(ctx context.Context, tx StoreTx) error {
		return s.engine.JoinExistingBooking(ctx, tx, in)
	})
	if err == nil {
		s.log.InfoContext(ctx, "booking joined", "slot_id", in.SlotID, "user_id", in.UserID)
	}
	return s.done(ctx, "join_booking", err)
}

func (s *Service) CancelBooking(ctx context.Context, slotID int64, userID string) (Succession, error) {
	if userID == "" {
		return Succession{}, s.done(ctx, "cancel_booking", unauthorized("no authenticated user"))
	}
	if slotID <= 0 {
		return Succession{}, s.done(ctx, "cancel_booking", invalidArgument("slot id must be positive"))
	}

	var out Succession
	err := s.inTx(ctx, "cancel_booking", func(ctx context.Context, tx StoreTx) error {
		succ, err := s.engine.CancelBooking(ctx, tx, slotID, userID)
		out = succ
		return err
	})
	if err != nil {
		return Succession{}, s.done(ctx, "cancel_booking", err)
	}

	switch {
	case out.Cleared:
		metrics.LeaderSuccessionsTotal.WithLabelValues("cleared").Inc()
		s.log.InfoContext(ctx, "last booking cancelled, slot cleared", "slot_id", slotID)
	case out.WasLeader:
		metrics.LeaderSuccessionsTotal.WithLabelValues("promoted").Inc()
		s.log.InfoContext(ctx, "leader cancelled, leadership passed",
			"slot_id", slotID, "new_leader", out.NewLeader)
	}
	return out, s.done(ctx, "cancel_booking", nil)
}

func (s *Service) ListAvailableSlots(ctx context.Context, r DateRange) ([]model.SlotSummary, error) {
	if err := r.check(); err != nil {
		return nil, s.done(ctx, "list_available", err)
	}
	out, err := read(ctx, s, "list_available", func(ctx context.Context) ([]model.SlotSummary, error) {
		return s.reader.AvailableSlots(ctx, r)
	})
	if err != nil {
		return nil, s.done(ctx, "list_available", err)
	}
	return out, s.done(ctx, "list_available", nil)
}

func (s *Service) ListMySlots(ctx context.Context, userID string) ([]model.SlotDetail, error) {
	if userID == "" {
		return nil, s.done(ctx, "list_mine", unauthorized("no authenticated user"))
	}
	out, err := read(ctx, s, "list_mine", func(ctx context.Context) ([]model.SlotDetail, error) {
		return s.reader.SlotsForUser(ctx, userID)
	})
	if err != nil {
		return nil, s.done(ctx, "list_mine", err)
	}
	return out, s.done(ctx, "list_mine", nil)
}

// ListAllSlots is the administrator view. Confirmation codes are stripped.
func (s *Service) ListAllSlots(ctx context.Context, r DateRange) ([]model.SlotDetail, error) {
	if err := r.check(); err != nil {
		return nil, s.done(ctx, "list_all", err)
	}
	out, err := read(ctx, s, "list_all", func(ctx context.Context) ([]model.SlotDetail, error) {
		return s.reader.AllSlots(ctx, r)
	})
	if err != nil {
		return nil, s.done(ctx, "list_all", err)
	}
	for i := range out {
		out[i].ConfirmationCode = ""
	}
	return out, s.done(ctx, "list_all", nil)
}

func (s *Service) AddSlot(ctx context.Context, in NewSlot) (int64, error) {
	if err := in.check(); err != nil {
		return 0, s.done(ctx, "add_slot", err)
	}
	date := time.Date(in.Date.Year(), in.Date.Month(), in.Date.Day(), 0, 0, 0, 0, time.UTC)

	var id int64
	err := s.inTx(ctx, "add_slot", func(ctx context.Context, tx StoreTx) error {
		var err error
		id, err = tx.InsertSlot(ctx, &model.Slot{Date: date, Hour: in.Hour, Capacity: in.Capacity})
		if errors.Is(err, ErrSlotExists) {
			return conflict(ReasonExists, fmt.Sprintf("slot %s %02d:00 already exists", date.Format(model.DateLayout), in.Hour))
		}
		return err
	})
	if err != nil {
		return 0, s.done(ctx, "add_slot", err)
	}
	s.log.InfoContext(ctx, "slot added", "slot_id", id, "date", date.Format(model.DateLayout), "hour", in.Hour)
	return id, s.done(ctx, "add_slot", nil)
}

// RemoveSlot deletes a slot and every booking on it.
func (s *Service) RemoveSlot(ctx context.Context, slotID int64) error {
	if slotID <= 0 {
		return s.done(ctx, "remove_slot", invalidArgument("slot id must be positive"))
	}
	err := s.inTx(ctx, "remove_slot", func(ctx context.Context, tx StoreTx) error {
		err := tx.DeleteSlot(ctx, slotID)
		if errors.Is(err, ErrSlotNotFound) {
			return notFound("slot not found", err)
		}
		return err
	})
	if err == nil {
		s.log.InfoContext(ctx, "slot removed", "slot_id", slotID)
	}
	return s.done(ctx, "remove_slot", err)
}

func (s *Service) inTx(ctx context.Context, op string, fn func(ctx context.Context, tx StoreTx) error) error {
	return retry.DoVoid(ctx, s.policyFor(ctx, op), func(ctx context.Context) error {
		return s.tx.InTx(ctx, fn)
	})
}

func read[T any](ctx context.Context, s *Service, op string, fn retry.Operation[T]) (T, error) {
	return retry.Do(ctx, s.policyFor(ctx, op), fn)
}

func (s *Service) policyFor(ctx context.Context, op string) retry.Policy {
	p := s.policy
	next := p.OnRetry
	p.OnRetry = func(attempt int, err error, wait time.Duration) {
		metrics.TxRetriesTotal.WithLabelValues(op).Inc()
		s.log.WarnContext(ctx, "serialization conflict, retrying",
			"operation", op, "attempt", attempt, "wait", wait, "error", err)
		if next != nil {
			next(attempt, err, wait)
		}
	}
	return p
}

// done records the outcome of op and turns a spent retry budget into
// Unavailable.
func (s *Service) done(ctx context.Context, op string, err error) error {
	if err == nil {
		metrics.BookingOperationsTotal.WithLabelValues(op, "ok").Inc()
		return nil
	}
	if retry.IsExhausted(err) {
		metrics.TxRetriesExhaustedTotal.WithLabelValues(op).Inc()
		s.log.ErrorContext(ctx, "retries exhausted", "operation", op, "error", err)
		err = unavailable(err)
	}
	kind := KindOf(err)
	if kind == KindInternal {
		s.log.ErrorContext(ctx, "operation failed", "operation", op, "error", err)
	}
	metrics.BookingOperationsTotal.WithLabelValues(op, string(kind)).Inc()
	return err
}
