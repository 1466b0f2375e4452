package model

import "time"

// DateLayout is the wire and query format for slot dates.
const DateLayout = "2006-01-02"

type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Slot is a bookable (date, hour) unit. Leader, code, subject and location
// are either all unset or leader and code are both set.
type Slot struct {
	ID               int64
	Date             time.Time
	Hour             int
	Capacity         int
	LeaderUserID     *string
	ConfirmationCode *string
	Subject          *string
	Location         *string
	CreatedAt        time.Time
}

// Led reports whether the slot currently has a leader.
func (s *Slot) Led() bool { return s.LeaderUserID != nil }

type Booking struct {
	SlotID   int64
	UserID   string
	BookedAt time.Time
	// Seq breaks ties between equal BookedAt values.
	Seq      int64
	Comments string
}

// SlotSummary is the availability projection of a slot.
type SlotSummary struct {
	SlotID      int64
	Date        time.Time
	Hour        int
	Capacity    int
	SlotsBooked int
}

func (s SlotSummary) Remaining() int { return s.Capacity - s.SlotsBooked }

// Attendee is one roster line of a slot.
type Attendee struct {
	Name     string
	Email    string
	Comments string
}

// SlotDetail is a slot with its leader metadata and roster.
type SlotDetail struct {
	SlotSummary
	LeaderName       string
	Subject          string
	Location         string
	ConfirmationCode string
	Attendees        []Attendee
}

type RefreshToken struct {
	ID         string
	UserID     string
	TokenHash  string
	ExpiresAt  time.Time
	Revoked    bool
	ReplacedBy *string
	CreatedAt  time.Time
}
