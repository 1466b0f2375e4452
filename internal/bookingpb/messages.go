package bookingpb

import (
	"google.golang.org/protobuf/encoding/protowire"
)

type RegisterRequest struct {
	Email    string
	Password string
	Name     string
}

func (m *RegisterRequest) AppendWire(b []byte) []byte {
	b = appendString(b, 1, m.Email)
	b = appendString(b, 2, m.Password)
	b = appendString(b, 3, m.Name)
	return b
}

func (m *RegisterRequest) UnmarshalWire(b []byte) error {
	return decode(b, func(f field) error {
		switch {
		case f.is(1, protowire.BytesType):
			return f.str(&m.Email)
		case f.is(2, protowire.BytesType):
			return f.str(&m.Password)
		case f.is(3, protowire.BytesType):
			return f.str(&m.Name)
		}
		return nil
	})
}

type RegisterResponse struct {
	UserId       string
	Token        string
	RefreshToken string
	// ExpiresAt is the access token expiry in unix seconds.
	ExpiresAt    int64
}

func (m *RegisterResponse) AppendWire(b []byte) []byte {
	b = appendString(b, 1, m.UserId)
	b = appendString(b, 2, m.Token)
	b = appendString(b, 3, m.RefreshToken)
	b = appendInt64(b, 4, m.ExpiresAt)
	return b
}

func (m *RegisterResponse) UnmarshalWire(b []byte) error {
	return decode(b, func(f field) error {
		switch {
		case f.is(1, protowire.BytesType):
			return f.str(&m.UserId)
		case f.is(2, protowire.BytesType):
			return f.str(&m.Token)
		case f.is(3, protowire.BytesType):
			return f.str(&m.RefreshToken)
		case f.is(4, protowire.VarintType):
			m.ExpiresAt = f.i64()
		}
		return nil
	})
}

type LoginRequest struct {
	Email    string
	Password string
}

func (m *LoginRequest) AppendWire(b []byte) []byte {
	b = appendString(b, 1, m.Email)
	b = appendString(b, 2, m.Password)
	return b
}

func (m *LoginRequest) UnmarshalWire(b []byte) error {
	return decode(b, func(f field) error {
		switch {
		case f.is(1, protowire.BytesType):
			return f.str(&m.Email)
		case f.is(2, protowire.BytesType):
			return f.str(&m.Password)
		}
		return nil
	})
}

type LoginResponse struct {
	Token        string
	UserId       string
	Name         string
	RefreshToken string
	ExpiresAt    int64
}

func (m *LoginResponse) AppendWire(b []byte) []byte {
	b = appendString(b, 1, m.Token)
	b = appendString(b, 2, m.UserId)
	b = appendString(b, 3, m.Name)
	b = appendString(b, 4, m.RefreshToken)
	b = appendInt64(b, 5, m.ExpiresAt)
	return b
}

func (m *LoginResponse) UnmarshalWire(b []byte) error {
	return decode(b, func(f field) error {
		switch {
		case f.is(1, protowire.BytesType):
			return f.str(&m.Token)
		case f.is(2, protowire.BytesType):
			return f.str(&m.UserId)
		case f.is(3, protowire.BytesType):
			return f.str(&m.Name)
		case f.is(4, protowire.BytesType):
			return f.str(&m.RefreshToken)
		case f.is(5, protowire.VarintType):
			m.ExpiresAt = f.i64()
		}
		return nil
	})
}

type RefreshRequest struct {
	RefreshToken string
}

func (m *RefreshRequest) AppendWire(b []byte) []byte {
	b = appendString(b, 1, m.RefreshToken)
	return b
}

func (m *RefreshRequest) UnmarshalWire(b []byte) error {
	return decode(b, func(f field) error {
		switch {
		case f.is(1, protowire.BytesType):
			return f.str(&m.RefreshToken)
		}
		return nil
	})
}

type RefreshResponse struct {
	Token        string
	RefreshToken string
	ExpiresAt    int64
}

func (m *RefreshResponse) AppendWire(b []byte) []byte {
	b = appendString(b, 1, m.Token)
	b = appendString(b, 2, m.RefreshToken)
	b = appendInt64(b, 3, m.ExpiresAt)
	return b
}

func (m *RefreshResponse) UnmarshalWire(b []byte) error {
	return decode(b, func(f field) error {
		switch {
		case f.is(1, protowire.BytesType):
			return f.str(&m.Token)
		case f.is(2, protowire.BytesType):
			return f.str(&m.RefreshToken)
		case f.is(3, protowire.VarintType):
			m.ExpiresAt = f.i64()
		}
		return nil
	})
}

type LogoutRequest struct{}

func (m *LogoutRequest) AppendWire(b []byte) []byte { return b }

func (m *LogoutRequest) UnmarshalWire(b []byte) error {
	return decode(b, func(field) error { return nil })
}

type LogoutResponse struct{}

func (m *LogoutResponse) AppendWire(b []byte) []byte { return b }

func (m *LogoutResponse) UnmarshalWire(b []byte) error {
	return decode(b, func(field) error { return nil })
}

type GetUserInfoRequest struct{}

func (m *GetUserInfoRequest) AppendWire(b []byte) []byte { return b }

func (m *GetUserInfoRequest) UnmarshalWire(b []byte) error {
	return decode(b, func(field) error { return nil })
}

type GetUserInfoResponse struct {
	UserId  string
	Email   string
	Name    string
	IsAdmin bool
}

func (m *GetUserInfoResponse) AppendWire(b []byte) []byte {
	b = appendString(b, 1, m.UserId)
	b = appendString(b, 2, m.Email)
	b = appendString(b, 3, m.Name)
	b = appendBool(b, 4, m.IsAdmin)
	return b
}

func (m *GetUserInfoResponse) UnmarshalWire(b []byte) error {
	return decode(b, func(f field) error {
		switch {
		case f.is(1, protowire.BytesType):
			return f.str(&m.UserId)
		case f.is(2, protowire.BytesType):
			return f.str(&m.Email)
		case f.is(3, protowire.BytesType):
			return f.str(&m.Name)
		case f.is(4, protowire.VarintType):
			m.IsAdmin = f.boolean()
		}
		return nil
	})
}

type IsAdminRequest struct{}

func (m *IsAdminRequest) AppendWire(b []byte) []byte { return b }

func (m *IsAdminRequest) UnmarshalWire(b []byte) error {
	return decode(b, func(field) error { return nil })
}

type IsAdminResponse struct {
	IsAdmin bool
}

func (m *IsAdminResponse) AppendWire(b []byte) []byte {
	b = appendBool(b, 1, m.IsAdmin)
	return b
}

func (m *IsAdminResponse) UnmarshalWire(b []byte) error {
	return decode(b, func(f field) error {
		switch {
		case f.is(1, protowire.VarintType):
			m.IsAdmin = f.boolean()
		}
		return nil
	})
}

// Date is formatted YYYY-MM-DD.
type SlotSummary struct {
	SlotId      int64
	Date        string
	Hour        int32
	Capacity    int32
	SlotsBooked int32
	Remaining   int32
}

func (m *SlotSummary) AppendWire(b []byte) []byte {
	b = appendInt64(b, 1, m.SlotId)
	b = appendString(b, 2, m.Date)
	b = appendInt32(b, 3, m.Hour)
	b = appendInt32(b, 4, m.Capacity)
	b = appendInt32(b, 5, m.SlotsBooked)
	b = appendInt32(b, 6, m.Remaining)
	return b
}

func (m *SlotSummary) UnmarshalWire(b []byte) error {
	return decode(b, func(f field) error {
		switch {
		case f.is(1, protowire.VarintType):
			m.SlotId = f.i64()
		case f.is(2, protowire.BytesType):
			return f.str(&m.Date)
		case f.is(3, protowire.VarintType):
			m.Hour = f.i32()
		case f.is(4, protowire.VarintType):
			m.Capacity = f.i32()
		case f.is(5, protowire.VarintType):
			m.SlotsBooked = f.i32()
		case f.is(6, protowire.VarintType):
			m.Remaining = f.i32()
		}
		return nil
	})
}

type Attendee struct {
	Name     string
	Email    string
	Comments string
}

func (m *Attendee) AppendWire(b []byte) []byte {
	b = appendString(b, 1, m.Name)
	b = appendString(b, 2, m.Email)
	b = appendString(b, 3, m.Comments)
	return b
}

func (m *Attendee) UnmarshalWire(b []byte) error {
	return decode(b, func(f field) error {
		switch {
		case f.is(1, protowire.BytesType):
			return f.str(&m.Name)
		case f.is(2, protowire.BytesType):
			return f.str(&m.Email)
		case f.is(3, protowire.BytesType):
			return f.str(&m.Comments)
		}
		return nil
	})
}

// ConfirmationCode is only filled in for the caller's own slots.
type SlotDetail struct {
	SlotId           int64
	Date             string
	Hour             int32
	Capacity         int32
	SlotsBooked      int32
	LeaderName       string
	Subject          string
	Location         string
	ConfirmationCode string
	Attendees        []*Attendee
}

func (m *SlotDetail) AppendWire(b []byte) []byte {
	b = appendInt64(b, 1, m.SlotId)
	b = appendString(b, 2, m.Date)
	b = appendInt32(b, 3, m.Hour)
	b = appendInt32(b, 4, m.Capacity)
	b = appendInt32(b, 5, m.SlotsBooked)
	b = appendString(b, 6, m.LeaderName)
	b = appendString(b, 7, m.Subject)
	b = appendString(b, 8, m.Location)
	b = appendString(b, 9, m.ConfirmationCode)
	for _, v := range m.Attendees {
		b = appendMessage(b, 10, v)
	}
	return b
}

func (m *SlotDetail) UnmarshalWire(b []byte) error {
	return decode(b, func(f field) error {
		switch {
		case f.is(1, protowire.VarintType):
			m.SlotId = f.i64()
		case f.is(2, protowire.BytesType):
			return f.str(&m.Date)
		case f.is(3, protowire.VarintType):
			m.Hour = f.i32()
		case f.is(4, protowire.VarintType):
			m.Capacity = f.i32()
		case f.is(5, protowire.VarintType):
			m.SlotsBooked = f.i32()
		case f.is(6, protowire.BytesType):
			return f.str(&m.LeaderName)
		case f.is(7, protowire.BytesType):
			return f.str(&m.Subject)
		case f.is(8, protowire.BytesType):
			return f.str(&m.Location)
		case f.is(9, protowire.BytesType):
			return f.str(&m.ConfirmationCode)
		case f.is(10, protowire.BytesType):
			v := &Attendee{}
			if err := v.UnmarshalWire(f.b); err != nil {
				return err
			}
			m.Attendees = append(m.Attendees, v)
		}
		return nil
	})
}

// An empty EndDate lists StartDate only.
type ListAvailableSlotsRequest struct {
	StartDate string
	EndDate   string
}

func (m *ListAvailableSlotsRequest) AppendWire(b []byte) []byte {
	b = appendString(b, 1, m.StartDate)
	b = appendString(b, 2, m.EndDate)
	return b
}

func (m *ListAvailableSlotsRequest) UnmarshalWire(b []byte) error {
	return decode(b, func(f field) error {
		switch {
		case f.is(1, protowire.BytesType):
			return f.str(&m.StartDate)
		case f.is(2, protowire.BytesType):
			return f.str(&m.EndDate)
		}
		return nil
	})
}

type ListAvailableSlotsResponse struct {
	Slots []*SlotSummary
}

func (m *ListAvailableSlotsResponse) AppendWire(b []byte) []byte {
	for _, v := range m.Slots {
		b = appendMessage(b, 1, v)
	}
	return b
}

func (m *ListAvailableSlotsResponse) UnmarshalWire(b []byte) error {
	return decode(b, func(f field) error {
		switch {
		case f.is(1, protowire.BytesType):
			v := &SlotSummary{}
			if err := v.UnmarshalWire(f.b); err != nil {
				return err
			}
			m.Slots = append(m.Slots, v)
		}
		return nil
	})
}

type ListMySlotsRequest struct{}

func (m *ListMySlotsRequest) AppendWire(b []byte) []byte { return b }

func (m *ListMySlotsRequest) UnmarshalWire(b []byte) error {
	return decode(b, func(field) error { return nil })
}

type ListMySlotsResponse struct {
	Slots []*SlotDetail
}

func (m *ListMySlotsResponse) AppendWire(b []byte) []byte {
	for _, v := range m.Slots {
		b = appendMessage(b, 1, v)
	}
	return b
}

func (m *ListMySlotsResponse) UnmarshalWire(b []byte) error {
	return decode(b, func(f field) error {
		switch {
		case f.is(1, protowire.BytesType):
			v := &SlotDetail{}
			if err := v.UnmarshalWire(f.b); err != nil {
				return err
			}
			m.Slots = append(m.Slots, v)
		}
		return nil
	})
}

type ListAllSlotsRequest struct {
	StartDate string
	EndDate   string
}

func (m *ListAllSlotsRequest) AppendWire(b []byte) []byte {
	b = appendString(b, 1, m.StartDate)
	b = appendString(b, 2, m.EndDate)
	return b
}

func (m *ListAllSlotsRequest) UnmarshalWire(b []byte) error {
	return decode(b, func(f field) error {
		switch {
		case f.is(1, protowire.BytesType):
			return f.str(&m.StartDate)
		case f.is(2, protowire.BytesType):
			return f.str(&m.EndDate)
		}
		return nil
	})
}

type ListAllSlotsResponse struct {
	Slots []*SlotDetail
}

func (m *ListAllSlotsResponse) AppendWire(b []byte) []byte {
	for _, v := range m.Slots {
		b = appendMessage(b, 1, v)
	}
	return b
}

func (m *ListAllSlotsResponse) UnmarshalWire(b []byte) error {
	return decode(b, func(f field) error {
		switch {
		case f.is(1, protowire.BytesType):
			v := &SlotDetail{}
			if err := v.UnmarshalWire(f.b); err != nil {
				return err
			}
			m.Slots = append(m.Slots, v)
		}
		return nil
	})
}

type CreateNewBookingRequest struct {
	SlotId   int64
	Subject  string
	Location string
	Comments string
}

func (m *CreateNewBookingRequest) AppendWire(b []byte) []byte {
	b = appendInt64(b, 1, m.SlotId)
	b = appendString(b, 2, m.Subject)
	b = appendString(b, 3, m.Location)
	b = appendString(b, 4, m.Comments)
	return b
}

func (m *CreateNewBookingRequest) UnmarshalWire(b []byte) error {
	return decode(b, func(f field) error {
		switch {
		case f.is(1, protowire.VarintType):
			m.SlotId = f.i64()
		case f.is(2, protowire.BytesType):
			return f.str(&m.Subject)
		case f.is(3, protowire.BytesType):
			return f.str(&m.Location)
		case f.is(4, protowire.BytesType):
			return f.str(&m.Comments)
		}
		return nil
	})
}

type CreateNewBookingResponse struct{}

func (m *CreateNewBookingResponse) AppendWire(b []byte) []byte { return b }

func (m *CreateNewBookingResponse) UnmarshalWire(b []byte) error {
	return decode(b, func(field) error { return nil })
}

type JoinExistingBookingRequest struct {
	SlotId           int64
	Comments         string
	ConfirmationCode string
}

func (m *JoinExistingBookingRequest) AppendWire(b []byte) []byte {
	b = appendInt64(b, 1, m.SlotId)
	b = appendString(b, 2, m.Comments)
	b = appendString(b, 3, m.ConfirmationCode)
	return b
}

func (m *JoinExistingBookingRequest) UnmarshalWire(b []byte) error {
	return decode(b, func(f field) error {
		switch {
		case f.is(1, protowire.VarintType):
			m.SlotId = f.i64()
		case f.is(2, protowire.BytesType):
			return f.str(&m.Comments)
		case f.is(3, protowire.BytesType):
			return f.str(&m.ConfirmationCode)
		}
		return nil
	})
}

type JoinExistingBookingResponse struct{}

func (m *JoinExistingBookingResponse) AppendWire(b []byte) []byte { return b }

func (m *JoinExistingBookingResponse) UnmarshalWire(b []byte) error {
	return decode(b, func(field) error { return nil })
}

type CancelBookingRequest struct {
	SlotId int64
}

func (m *CancelBookingRequest) AppendWire(b []byte) []byte {
	b = appendInt64(b, 1, m.SlotId)
	return b
}

func (m *CancelBookingRequest) UnmarshalWire(b []byte) error {
	return decode(b, func(f field) error {
		switch {
		case f.is(1, protowire.VarintType):
			m.SlotId = f.i64()
		}
		return nil
	})
}

type CancelBookingResponse struct {
	LeadershipTransferred bool
	SlotCleared           bool
}

func (m *CancelBookingResponse) AppendWire(b []byte) []byte {
	b = appendBool(b, 1, m.LeadershipTransferred)
	b = appendBool(b, 2, m.SlotCleared)
	return b
}

func (m *CancelBookingResponse) UnmarshalWire(b []byte) error {
	return decode(b, func(f field) error {
		switch {
		case f.is(1, protowire.VarintType):
			m.LeadershipTransferred = f.boolean()
		case f.is(2, protowire.VarintType):
			m.SlotCleared = f.boolean()
		}
		return nil
	})
}

type AddSlotRequest struct {
	Date     string
	Hour     int32
	Capacity int32
}

func (m *AddSlotRequest) AppendWire(b []byte) []byte {
	b = appendString(b, 1, m.Date)
	b = appendInt32(b, 2, m.Hour)
	b = appendInt32(b, 3, m.Capacity)
	return b
}

func (m *AddSlotRequest) UnmarshalWire(b []byte) error {
	return decode(b, func(f field) error {
		switch {
		case f.is(1, protowire.BytesType):
			return f.str(&m.Date)
		case f.is(2, protowire.VarintType):
			m.Hour = f.i32()
		case f.is(3, protowire.VarintType):
			m.Capacity = f.i32()
		}
		return nil
	})
}

type AddSlotResponse struct {
	SlotId int64
}

func (m *AddSlotResponse) AppendWire(b []byte) []byte {
	b = appendInt64(b, 1, m.SlotId)
	return b
}

func (m *AddSlotResponse) UnmarshalWire(b []byte) error {
	return decode(b, func(f field) error {
		switch {
		case f.is(1, protowire.VarintType):
			m.SlotId = f.i64()
		}
		return nil
	})
}

type RemoveSlotRequest struct {
	SlotId int64
}

func (m *RemoveSlotRequest) AppendWire(b []byte) []byte {
	b = appendInt64(b, 1, m.SlotId)
	return b
}

func (m *RemoveSlotRequest) UnmarshalWire(b []byte) error {
	return decode(b, func(f field) error {
		switch {
		case f.is(1, protowire.VarintType):
			m.SlotId = f.i64()
		}
		return nil
	})
}

type RemoveSlotResponse struct{}

func (m *RemoveSlotResponse) AppendWire(b []byte) []byte { return b }

func (m *RemoveSlotResponse) UnmarshalWire(b []byte) error {
	return decode(b, func(field) error { return nil })
}
