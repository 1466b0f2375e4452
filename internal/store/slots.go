package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"appointment-booking-api/internal/booking"
	"appointment-booking-api/internal/model"
)

var _ booking.Reader = (*Store)(nil)

type summaryRow struct {
	SlotID      int64     `db:"slot_id"`
	SlotDate    time.Time `db:"slot_date"`
	SlotHour    int       `db:"slot_hour"`
	Capacity    int       `db:"capacity"`
	SlotsBooked int       `db:"slots_booked"`
}

func (r summaryRow) summary() model.SlotSummary {
	return model.SlotSummary{
		SlotID:      r.SlotID,
		Date:        r.SlotDate,
		Hour:        r.SlotHour,
		Capacity:    r.Capacity,
		SlotsBooked: r.SlotsBooked,
	}
}

type detailRow struct {
	SlotID           int64     `db:"slot_id"`
	SlotDate         time.Time `db:"slot_date"`
	SlotHour         int       `db:"slot_hour"`
	Capacity         int       `db:"capacity"`
	SlotsBooked      int       `db:"slots_booked"`
	LeaderName       string    `db:"leader_name"`
	Subject          string    `db:"subject"`
	Location         string    `db:"location"`
	ConfirmationCode string    `db:"confirmation_code"`
}

type attendeeRow struct {
	SlotID   int64  `db:"slot_id"`
	Name     string `db:"name"`
	Email    string `db:"email"`
	Comments string `db:"comments"`
}

const detailColumns = `
	s.id AS slot_id, s.slot_date, s.slot_hour, s.capacity,
	(SELECT COUNT(*) FROM bookings c WHERE c.slot_id = s.id) AS slots_booked,
	COALESCE(u.name, '') AS leader_name,
	COALESCE(s.subject, '') AS subject,
	COALESCE(s.location, '') AS location,
	COALESCE(s.confirmation_code, '') AS confirmation_code
	FROM appointment_slots s
	LEFT JOIN users u ON u.id = s.leader_user_id`

func (s *Store) AvailableSlots(ctx context.Context, r booking.DateRange) ([]model.SlotSummary, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT s.id AS slot_id, s.slot_date, s.slot_hour, s.capacity,
		        COUNT(b.user_id) AS slots_booked
		 FROM appointment_slots s
		 LEFT JOIN bookings b ON b.slot_id = s.id
		 WHERE s.slot_date >= $1 AND s.slot_date < $2
		 GROUP BY s.id
		 HAVING s.capacity - COUNT(b.user_id) > 0
		 ORDER BY s.slot_date, s.slot_hour`, r.From, r.To,
	)
	if err != nil {
		return nil, fmt.Errorf("query available slots: %w", err)
	}
	found, err := pgx.CollectRows(rows, pgx.RowToStructByName[summaryRow])
	if err != nil {
		return nil, fmt.Errorf("scan available slots: %w", err)
	}

	out := make([]model.SlotSummary, 0, len(found))
	for _, row := range found {
		out = append(out, row.summary())
	}
	return out, nil
}

// SlotsForUser lists the slots userID holds a booking on. Other attendees'
// comments are blanked.
func (s *Store) SlotsForUser(ctx context.Context, userID string) ([]model.SlotDetail, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+detailColumns+`
		 WHERE EXISTS (SELECT 1 FROM bookings mb WHERE mb.slot_id = s.id AND mb.user_id = $1)
		 ORDER BY s.slot_date, s.slot_hour`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query user slots: %w", err)
	}
	return s.details(ctx, rows, userID)
}

func (s *Store) AllSlots(ctx context.Context, r booking.DateRange) ([]model.SlotDetail, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+detailColumns+`
		 WHERE s.slot_date >= $1 AND s.slot_date < $2
		 ORDER BY s.slot_date, s.slot_hour`, r.From, r.To,
	)
	if err != nil {
		return nil, fmt.Errorf("query all slots: %w", err)
	}
	return s.details(ctx, rows, "")
}

// details collects slot rows and attaches each roster, ordered by name.
// An empty viewer sees every attendee's comments.
func (s *Store) details(ctx context.Context, rows pgx.Rows, viewer string) ([]model.SlotDetail, error) {
	found, err := pgx.CollectRows(rows, pgx.RowToStructByName[detailRow])
	if err != nil {
		return nil, fmt.Errorf("scan slots: %w", err)
	}
	if len(found) == 0 {
		return []model.SlotDetail{}, nil
	}

	ids := make([]int64, 0, len(found))
	out := make([]model.SlotDetail, 0, len(found))
	index := make(map[int64]int, len(found))
	for i, row := range found {
		ids = append(ids, row.SlotID)
		index[row.SlotID] = i
		out = append(out, model.SlotDetail{
			SlotSummary: summaryRow{
				SlotID:      row.SlotID,
				SlotDate:    row.SlotDate,
				SlotHour:    row.SlotHour,
				Capacity:    row.Capacity,
				SlotsBooked: row.SlotsBooked,
			}.summary(),
			LeaderName:       row.LeaderName,
			Subject:          row.Subject,
			Location:         row.Location,
			ConfirmationCode: row.ConfirmationCode,
			Attendees:        []model.Attendee{},
		})
	}

	rows, err = s.pool.Query(ctx,
		`SELECT b.slot_id, u.name, u.email,
		        CASE WHEN $2 = '' OR b.user_id::text = $2 THEN b.comments ELSE '' END AS comments
		 FROM bookings b
		 JOIN users u ON u.id = b.user_id
		 WHERE b.slot_id = ANY($1)
		 ORDER BY b.slot_id, u.name`, ids, viewer,
	)
	if err != nil {
		return nil, fmt.Errorf("query rosters: %w", err)
	}
	attendees, err := pgx.CollectRows(rows, pgx.RowToStructByName[attendeeRow])
	if err != nil {
		return nil, fmt.Errorf("scan rosters: %w", err)
	}
	for _, a := range attendees {
		d := &out[index[a.SlotID]]
		d.Attendees = append(d.Attendees, model.Attendee{Name: a.Name, Email: a.Email, Comments: a.Comments})
	}
	return out, nil
}
