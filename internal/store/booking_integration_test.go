package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"appointment-booking-api/internal/booking"
	"appointment-booking-api/internal/confcode"
	"appointment-booking-api/internal/model"
	"appointment-booking-api/internal/retry"
)

var testDay = time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)

func newService(s *Store, attempts int) *booking.Service {
	policy := retry.Policy{
		MaxAttempts: attempts,
		Backoff:     retry.Linear(5 * time.Millisecond),
		Retryable:   IsSerializationFailure,
	}
	engine := booking.NewEngine(confcode.New(), clockwork.NewRealClock())
	return booking.NewService(engine, s, s, policy, nil)
}

func createUser(t *testing.T, s *Store, name string) string {
	t.Helper()
	u := &model.User{
		ID:           uuid.NewString(),
		Email:        fmt.Sprintf("%s-%s@example.com", name, uuid.NewString()[:8]),
		PasswordHash: "x",
		Name:         name,
	}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u.ID
}

func addSlot(t *testing.T, svc *booking.Service, hour, capacity int) int64 {
	t.Helper()
	id, err := svc.AddSlot(context.Background(), booking.NewSlot{Date: testDay, Hour: hour, Capacity: capacity})
	require.NoError(t, err)
	return id
}

func leaderAndCode(t *testing.T, s *Store, slotID int64) (string, string) {
	t.Helper()
	var leader, code *string
	err := s.pool.QueryRow(context.Background(),
		`SELECT leader_user_id::text, confirmation_code FROM appointment_slots WHERE id = $1`, slotID,
	).Scan(&leader, &code)
	require.NoError(t, err)
	if leader == nil || code == nil {
		return "", ""
	}
	return *leader, *code
}

func countBookings(t *testing.T, s *Store, slotID int64) int {
	t.Helper()
	var n int
	require.NoError(t, s.pool.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM bookings WHERE slot_id = $1`, slotID).Scan(&n))
	return n
}

func TestBookingLifecycle(t *testing.T) {
	s := setupStore(t)
	svc := newService(s, 3)
	ctx := context.Background()

	alice := createUser(t, s, "Alice")
	bob := createUser(t, s, "Bob")
	carol := createUser(t, s, "Carol")
	slot := addSlot(t, svc, 9, 2)

	require.NoError(t, svc.CreateNewBooking(ctx, booking.NewBooking{
		SlotID: slot, UserID: alice, Subject: "Review", Location: "Room 4", Comments: "first",
	}))
	leader, c1 := leaderAndCode(t, s, slot)
	assert.Equal(t, alice, leader)
	assert.True(t, confcode.Valid(c1))

	require.NoError(t, svc.JoinExistingBooking(ctx, booking.JoinBooking{SlotID: slot, UserID: bob, ConfirmationCode: c1}))

	err := svc.JoinExistingBooking(ctx, booking.JoinBooking{SlotID: slot, UserID: carol, ConfirmationCode: c1})
	assert.Equal(t, booking.ReasonFull, booking.ReasonOf(err))

	mine, err := svc.ListMySlots(ctx, bob)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Alice", mine[0].LeaderName)
	assert.Equal(t, c1, mine[0].ConfirmationCode)
	require.Len(t, mine[0].Attendees, 2)
	assert.Equal(t, "Alice", mine[0].Attendees[0].Name)
	assert.Empty(t, mine[0].Attendees[0].Comments)

	succ, err := svc.CancelBooking(ctx, slot, alice)
	require.NoError(t, err)
	assert.Equal(t, bob, succ.NewLeader)
	leader, c2 := leaderAndCode(t, s, slot)
	assert.Equal(t, bob, leader)
	assert.NotEqual(t, c1, c2)

	succ, err = svc.CancelBooking(ctx, slot, bob)
	require.NoError(t, err)
	assert.True(t, succ.Cleared)

	all, err := svc.ListAllSlots(ctx, booking.Day(testDay))
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Zero(t, all[0].SlotsBooked)
	assert.Empty(t, all[0].LeaderName)
	assert.Empty(t, all[0].Subject)
	assert.Empty(t, all[0].Location)

	leader, code := leaderAndCode(t, s, slot)
	assert.Empty(t, leader)
	assert.Empty(t, code)
}

func TestCancelBooking_Missing(t *testing.T) {
	s := setupStore(t)
	svc := newService(s, 3)
	slot := addSlot(t, svc, 10, 2)

	_, err := svc.CancelBooking(context.Background(), slot, uuid.NewString())
	assert.ErrorIs(t, err, booking.ErrNotFound)
}

func TestAvailableSlots(t *testing.T) {
	s := setupStore(t)
	svc := newService(s, 3)
	ctx := context.Background()
	alice := createUser(t, s, "Alice")

	full := addSlot(t, svc, 8, 1)
	open := addSlot(t, svc, 12, 2)
	require.NoError(t, svc.CreateNewBooking(ctx, booking.NewBooking{SlotID: full, UserID: alice}))

	got, err := svc.ListAvailableSlots(ctx, booking.Day(testDay))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, open, got[0].SlotID)
	assert.Equal(t, 2, got[0].Remaining())
	assert.True(t, got[0].Date.Equal(testDay))
}

func TestAddSlot_Duplicate(t *testing.T) {
	s := setupStore(t)
	svc := newService(s, 3)
	addSlot(t, svc, 11, 2)

	_, err := svc.AddSlot(context.Background(), booking.NewSlot{Date: testDay, Hour: 11, Capacity: 5})
	assert.Equal(t, booking.ReasonExists, booking.ReasonOf(err))
}

func TestRemoveSlot_CascadesBookings(t *testing.T) {
	s := setupStore(t)
	svc := newService(s, 3)
	ctx := context.Background()
	alice := createUser(t, s, "Alice")
	slot := addSlot(t, svc, 13, 2)
	require.NoError(t, svc.CreateNewBooking(ctx, booking.NewBooking{SlotID: slot, UserID: alice}))

	require.NoError(t, svc.RemoveSlot(ctx, slot))
	assert.Zero(t, countBookings(t, s, slot))
	assert.ErrorIs(t, svc.RemoveSlot(ctx, slot), booking.ErrNotFound)
}

func TestConcurrentJoin_NeverOverbooks(t *testing.T) {
	s := setupStore(t)
	// enough attempts that every joiner reaches a decision instead of Unavailable
	svc := newService(s, 10)
	ctx := context.Background()

	const capacity, joiners = 3, 8
	leader := createUser(t, s, "Leader")
	slot := addSlot(t, svc, 14, capacity)
	require.NoError(t, svc.CreateNewBooking(ctx, booking.NewBooking{SlotID: slot, UserID: leader}))
	_, code := leaderAndCode(t, s, slot)

	users := make([]string, joiners)
	for i := range users {
		users[i] = createUser(t, s, fmt.Sprintf("user%d", i))
	}

	errs := make([]error, joiners)
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i, u := range users {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			errs[i] = svc.JoinExistingBooking(ctx, booking.JoinBooking{SlotID: slot, UserID: u, ConfirmationCode: code})
		}()
	}
	close(start)
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, booking.ErrConflict)
		assert.Equal(t, booking.ReasonFull, booking.ReasonOf(err), "unexpected error: %v", err)
	}
	assert.Equal(t, capacity-1, ok)
	assert.Equal(t, capacity, countBookings(t, s, slot))
}

func TestConcurrentCreate_SingleLeader(t *testing.T) {
	s := setupStore(t)
	svc := newService(s, 5)
	ctx := context.Background()

	const racers = 5
	slot := addSlot(t, svc, 15, 4)
	users := make([]string, racers)
	for i := range users {
		users[i] = createUser(t, s, fmt.Sprintf("racer%d", i))
	}

	errs := make([]error, racers)
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i, u := range users {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			errs[i] = svc.CreateNewBooking(ctx, booking.NewBooking{SlotID: slot, UserID: u})
		}()
	}
	close(start)
	wg.Wait()

	winners := 0
	var winner string
	for i, err := range errs {
		if err == nil {
			winners++
			winner = users[i]
			continue
		}
		assert.Contains(t, []booking.Kind{booking.KindConflict, booking.KindUnavailable}, booking.KindOf(err))
	}
	require.Equal(t, 1, winners)
	assert.Equal(t, 1, countBookings(t, s, slot))
	leader, _ := leaderAndCode(t, s, slot)
	assert.Equal(t, winner, leader)
}
