package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"appointment-booking-api/internal/booking"
	"appointment-booking-api/internal/model"
)

// InTx runs fn inside a serializable transaction and commits when it returns
// nil. Any error rolls the transaction back and is returned unchanged, so a
// serialization failure raised by a statement or by the commit stays visible
// to IsSerializationFailure.
func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context, tx booking.StoreTx) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(ctx, &txQueries{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

type txQueries struct {
	tx pgx.Tx
}

var _ booking.StoreTx = (*txQueries)(nil)

func (q *txQueries) Slot(ctx context.Context, slotID int64) (*model.Slot, error) {
	sl := &model.Slot{}
	err := q.tx.QueryRow(ctx,
		`SELECT id, slot_date, slot_hour, capacity, leader_user_id::text,
		        confirmation_code, subject, location, created_at
		 FROM appointment_slots WHERE id = $1`, slotID,
	).Scan(&sl.ID, &sl.Date, &sl.Hour, &sl.Capacity, &sl.LeaderUserID,
		&sl.ConfirmationCode, &sl.Subject, &sl.Location, &sl.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, booking.ErrSlotNotFound
	}
	if err != nil {
		return nil, err
	}
	return sl, nil
}

func (q *txQueries) CountBookings(ctx context.Context, slotID int64) (int, error) {
	var n int
	err := q.tx.QueryRow(ctx, `SELECT COUNT(*) FROM bookings WHERE slot_id = $1`, slotID).Scan(&n)
	return n, err
}

func (q *txQueries) HasBooking(ctx context.Context, slotID int64, userID string) (bool, error) {
	var exists bool
	err := q.tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM bookings WHERE slot_id = $1 AND user_id = $2)`,
		slotID, userID,
	).Scan(&exists)
	return exists, err
}

func (q *txQueries) InsertBooking(ctx context.Context, b *model.Booking) error {
	err := q.tx.QueryRow(ctx,
		`INSERT INTO bookings (slot_id, user_id, booked_at, comments)
		 VALUES ($1, $2, $3, $4) RETURNING seq`,
		b.SlotID, b.UserID, b.BookedAt, b.Comments,
	).Scan(&b.Seq)
	if isUniqueViolation(err) {
		return booking.ErrDuplicateBooking
	}
	return err
}

func (q *txQueries) DeleteBooking(ctx context.Context, slotID int64, userID string) error {
	tag, err := q.tx.Exec(ctx,
		`DELETE FROM bookings WHERE slot_id = $1 AND user_id = $2`, slotID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return booking.ErrBookingNotFound
	}
	return nil
}

func (q *txQueries) EarliestBooking(ctx context.Context, slotID int64) (*model.Booking, error) {
	b := &model.Booking{}
	err := q.tx.QueryRow(ctx,
		`SELECT slot_id, user_id::text, booked_at, seq, comments
		 FROM bookings WHERE slot_id = $1
		 ORDER BY booked_at, seq
		 LIMIT 1`, slotID,
	).Scan(&b.SlotID, &b.UserID, &b.BookedAt, &b.Seq, &b.Comments)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, booking.ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (q *txQueries) SetLeadership(ctx context.Context, slotID int64, l booking.Leadership) error {
	tag, err := q.tx.Exec(ctx,
		`UPDATE appointment_slots
		 SET leader_user_id = $2, confirmation_code = $3, subject = $4, location = $5
		 WHERE id = $1`,
		slotID, l.LeaderUserID, l.ConfirmationCode, l.Subject, l.Location,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return booking.ErrSlotNotFound
	}
	return nil
}

func (q *txQueries) InsertSlot(ctx context.Context, sl *model.Slot) (int64, error) {
	err := q.tx.QueryRow(ctx,
		`INSERT INTO appointment_slots (slot_date, slot_hour, capacity)
		 VALUES ($1, $2, $3) RETURNING id, created_at`,
		sl.Date, sl.Hour, sl.Capacity,
	).Scan(&sl.ID, &sl.CreatedAt)
	if isUniqueViolation(err) {
		return 0, booking.ErrSlotExists
	}
	if err != nil {
		return 0, err
	}
	return sl.ID, nil
}

// DeleteSlot relies on the bookings foreign key cascading inside the same
// transaction.
func (q *txQueries) DeleteSlot(ctx context.Context, slotID int64) error {
	tag, err := q.tx.Exec(ctx, `DELETE FROM appointment_slots WHERE id = $1`, slotID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return booking.ErrSlotNotFound
	}
	return nil
}
