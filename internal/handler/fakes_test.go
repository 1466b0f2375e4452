package handler

import (
	"context"
	"strconv"
	"sync"
	"time"

	"appointment-booking-api/internal/booking"
	"appointment-booking-api/internal/model"
	"appointment-booking-api/internal/store"
)

type fakeAccounts struct {
	mu      sync.Mutex
	users   map[string]*model.User
	admins  map[string]bool
	tokens  map[string]*model.RefreshToken
	nextTok int
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{
		users:  map[string]*model.User{},
		admins: map[string]bool{},
		tokens: map[string]*model.RefreshToken{},
	}
}

func (f *fakeAccounts) CreateUser(_ context.Context, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return store.ErrEmailTaken
		}
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeAccounts) UserByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeAccounts) UserByID(_ context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeAccounts) HasRole(_ context.Context, userID, role string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return role == store.RoleAdmin && f.admins[userID], nil
}

func (f *fakeAccounts) CreateRefreshToken(_ context.Context, userID, hash string, exp time.Time) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.addToken(userID, hash, exp), nil
}

func (f *fakeAccounts) addToken(userID, hash string, exp time.Time) string {
	f.nextTok++
	id := strconv.Itoa(f.nextTok)
	f.tokens[hash] = &model.RefreshToken{ID: id, UserID: userID, TokenHash: hash, ExpiresAt: exp}
	return id
}

func (f *fakeAccounts) RefreshTokenByHash(_ context.Context, hash string) (*model.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rt, ok := f.tokens[hash]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *rt
	return &cp, nil
}

func (f *fakeAccounts) RotateRefreshToken(_ context.Context, oldID, userID, newHash string, exp time.Time) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rt := range f.tokens {
		if rt.ID == oldID && rt.UserID == userID && !rt.Revoked {
			id := f.addToken(userID, newHash, exp)
			rt.Revoked = true
			rt.ReplacedBy = &id
			return id, nil
		}
	}
	return "", store.ErrNotFound
}

func (f *fakeAccounts) RevokeAllRefreshTokens(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rt := range f.tokens {
		if rt.UserID == userID {
			rt.Revoked = true
		}
	}
	return nil
}

func (f *fakeAccounts) liveTokens(userID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, rt := range f.tokens {
		if rt.UserID == userID && !rt.Revoked {
			n++
		}
	}
	return n
}

// fakeBookings records the last call and returns canned results.
type fakeBookings struct {
	err        error
	succession booking.Succession
	summaries  []model.SlotSummary
	details    []model.SlotDetail
	slotID     int64

	lastNew    booking.NewBooking
	lastJoin   booking.JoinBooking
	lastRange  booking.DateRange
	lastSlot   booking.NewSlot
	lastUser   string
	lastSlotID int64
	calls      int
}

func (f *fakeBookings) CreateNewBooking(_ context.Context, in booking.NewBooking) error {
	f.calls++
	f.lastNew = in
	return f.err
}

func (f *fakeBookings) JoinExistingBooking(_ context.Context, in booking.JoinBooking) error {
	f.calls++
	f.lastJoin = in
	return f.err
}

func (f *fakeBookings) CancelBooking(_ context.Context, slotID int64, userID string) (booking.Succession, error) {
	f.calls++
	f.lastSlotID, f.lastUser = slotID, userID
	return f.succession, f.err
}

func (f *fakeBookings) ListAvailableSlots(_ context.Context, r booking.DateRange) ([]model.SlotSummary, error) {
	f.calls++
	f.lastRange = r
	return f.summaries, f.err
}

func (f *fakeBookings) ListMySlots(_ context.Context, userID string) ([]model.SlotDetail, error) {
	f.calls++
	f.lastUser = userID
	return f.details, f.err
}

func (f *fakeBookings) ListAllSlots(_ context.Context, r booking.DateRange) ([]model.SlotDetail, error) {
	f.calls++
	f.lastRange = r
	return f.details, f.err
}

func (f *fakeBookings) AddSlot(_ context.Context, in booking.NewSlot) (int64, error) {
	f.calls++
	f.lastSlot = in
	return f.slotID, f.err
}

func (f *fakeBookings) RemoveSlot(_ context.Context, slotID int64) error {
	f.calls++
	f.lastSlotID = slotID
	return f.err
}
