package booking_test

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"appointment-booking-api/internal/booking"
	"appointment-booking-api/internal/model"
)

var errSerialization = errors.New("could not serialize access due to concurrent update")

func isSerialization(err error) bool { return errors.Is(err, errSerialization) }

// memStore is a copy-on-begin store: each transaction works on a private
// snapshot that replaces the shared state only on commit.
type memStore struct {
	mu sync.Mutex
	state

	// failCommits makes the next n commits fail with errSerialization.
	failCommits int
	commits     int
	begins      int
	names       map[string]string
}

type state struct {
	slots    map[int64]model.Slot
	bookings map[int64][]model.Booking
	nextSlot int64
	seq      int64
}

func newMemStore() *memStore {
	return &memStore{
		state: state{slots: map[int64]model.Slot{}, bookings: map[int64][]model.Booking{}},
		names: map[string]string{},
	}
}

func (s state) clone() state {
	c := state{
		slots:    make(map[int64]model.Slot, len(s.slots)),
		bookings: make(map[int64][]model.Booking, len(s.bookings)),
		nextSlot: s.nextSlot,
		seq:      s.seq,
	}
	for k, v := range s.slots {
		c.slots[k] = v
	}
	for k, v := range s.bookings {
		c.bookings[k] = slices.Clone(v)
	}
	return c
}

func (m *memStore) addSlot(date time.Time, hour, capacity int) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextSlot++
	m.slots[m.nextSlot] = model.Slot{ID: m.nextSlot, Date: date, Hour: hour, Capacity: capacity}
	return m.nextSlot
}

func (m *memStore) slot(id int64) model.Slot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slots[id]
}

func (m *memStore) bookingsOf(id int64) []model.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.bookings[id])
}

func (m *memStore) InTx(ctx context.Context, fn func(ctx context.Context, tx booking.StoreTx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.begins++

	tx := &memTx{state: m.state.clone()}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	if m.failCommits > 0 {
		m.failCommits--
		return errSerialization
	}
	m.state = tx.state
	m.commits++
	return nil
}

type memTx struct {
	state
}

func (t *memTx) Slot(_ context.Context, id int64) (*model.Slot, error) {
	s, ok := t.slots[id]
	if !ok {
		return nil, booking.ErrSlotNotFound
	}
	return &s, nil
}

func (t *memTx) CountBookings(_ context.Context, id int64) (int, error) {
	return len(t.bookings[id]), nil
}

func (t *memTx) HasBooking(_ context.Context, id int64, userID string) (bool, error) {
	return slices.ContainsFunc(t.bookings[id], func(b model.Booking) bool { return b.UserID == userID }), nil
}

func (t *memTx) InsertBooking(_ context.Context, b *model.Booking) error {
	if ok, _ := t.HasBooking(context.Background(), b.SlotID, b.UserID); ok {
		return booking.ErrDuplicateBooking
	}
	t.seq++
	b.Seq = t.seq
	t.bookings[b.SlotID] = append(t.bookings[b.SlotID], *b)
	return nil
}

func (t *memTx) DeleteBooking(_ context.Context, id int64, userID string) error {
	bs := t.bookings[id]
	i := slices.IndexFunc(bs, func(b model.Booking) bool { return b.UserID == userID })
	if i < 0 {
		return booking.ErrBookingNotFound
	}
	t.bookings[id] = slices.Delete(bs, i, i+1)
	return nil
}

func (t *memTx) EarliestBooking(_ context.Context, id int64) (*model.Booking, error) {
	bs := t.bookings[id]
	if len(bs) == 0 {
		return nil, booking.ErrBookingNotFound
	}
	b := slices.MinFunc(bs, func(a, b model.Booking) int {
		return cmp.Or(a.BookedAt.Compare(b.BookedAt), cmp.Compare(a.Seq, b.Seq))
	})
	return &b, nil
}

func (t *memTx) SetLeadership(_ context.Context, id int64, l booking.Leadership) error {
	s, ok := t.slots[id]
	if !ok {
		return booking.ErrSlotNotFound
	}
	s.LeaderUserID = l.LeaderUserID
	s.ConfirmationCode = l.ConfirmationCode
	s.Subject = l.Subject
	s.Location = l.Location
	t.slots[id] = s
	return nil
}

func (t *memTx) InsertSlot(_ context.Context, s *model.Slot) (int64, error) {
	for _, existing := range t.slots {
		if existing.Date.Equal(s.Date) && existing.Hour == s.Hour {
			return 0, booking.ErrSlotExists
		}
	}
	t.nextSlot++
	s.ID = t.nextSlot
	t.slots[s.ID] = *s
	return s.ID, nil
}

func (t *memTx) DeleteSlot(_ context.Context, id int64) error {
	if _, ok := t.slots[id]; !ok {
		return booking.ErrSlotNotFound
	}
	delete(t.slots, id)
	delete(t.bookings, id)
	return nil
}

func (m *memStore) AvailableSlots(_ context.Context, r booking.DateRange) ([]model.SlotSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.SlotSummary
	for _, s := range m.sortedSlots(r) {
		sum := m.summary(s)
		if sum.Remaining() > 0 {
			out = append(out, sum)
		}
	}
	return out, nil
}

func (m *memStore) SlotsForUser(_ context.Context, userID string) ([]model.SlotDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.SlotDetail
	for _, s := range m.sortedSlots(booking.DateRange{}) {
		if slices.ContainsFunc(m.bookings[s.ID], func(b model.Booking) bool { return b.UserID == userID }) {
			out = append(out, m.detail(s))
		}
	}
	return out, nil
}

func (m *memStore) AllSlots(_ context.Context, r booking.DateRange) ([]model.SlotDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.SlotDetail
	for _, s := range m.sortedSlots(r) {
		out = append(out, m.detail(s))
	}
	return out, nil
}

func (m *memStore) sortedSlots(r booking.DateRange) []model.Slot {
	var out []model.Slot
	for _, s := range m.slots {
		if !r.From.IsZero() && (s.Date.Before(r.From) || !s.Date.Before(r.To)) {
			continue
		}
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b model.Slot) int {
		return cmp.Or(a.Date.Compare(b.Date), cmp.Compare(a.Hour, b.Hour))
	})
	return out
}

func (m *memStore) summary(s model.Slot) model.SlotSummary {
	return model.SlotSummary{
		SlotID:      s.ID,
		Date:        s.Date,
		Hour:        s.Hour,
		Capacity:    s.Capacity,
		SlotsBooked: len(m.bookings[s.ID]),
	}
}

func (m *memStore) detail(s model.Slot) model.SlotDetail {
	d := model.SlotDetail{SlotSummary: m.summary(s)}
	if s.LeaderUserID != nil {
		d.LeaderName = m.names[*s.LeaderUserID]
	}
	if s.Subject != nil {
		d.Subject = *s.Subject
	}
	if s.Location != nil {
		d.Location = *s.Location
	}
	if s.ConfirmationCode != nil {
		d.ConfirmationCode = *s.ConfirmationCode
	}
	for _, b := range m.bookings[s.ID] {
		d.Attendees = append(d.Attendees, model.Attendee{Name: m.names[b.UserID], Comments: b.Comments})
	}
	slices.SortFunc(d.Attendees, func(a, b model.Attendee) int { return cmp.Compare(a.Name, b.Name) })
	return d
}

// seqCodes hands out codes from a fixed list, skipping the excluded one.
type seqCodes struct {
	mu    sync.Mutex
	codes []string
	i     int
}

func (c *seqCodes) Generate() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	code := c.codes[c.i%len(c.codes)]
	c.i++
	return code
}

func (c *seqCodes) GenerateExcept(prev string) string {
	for {
		if code := c.Generate(); code != prev {
			return code
		}
	}
}
