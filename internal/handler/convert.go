package handler

import (
	"appointment-booking-api/internal/bookingpb"
	"appointment-booking-api/internal/model"
)

func summaryToProto(s model.SlotSummary) *bookingpb.SlotSummary {
	return &bookingpb.SlotSummary{
		SlotId:      s.SlotID,
		Date:        s.Date.Format(model.DateLayout),
		Hour:        int32(s.Hour),
		Capacity:    int32(s.Capacity),
		SlotsBooked: int32(s.SlotsBooked),
		Remaining:   int32(s.Remaining()),
	}
}

func detailsToProto(slots []model.SlotDetail) []*bookingpb.SlotDetail {
	out := make([]*bookingpb.SlotDetail, 0, len(slots))
	for _, s := range slots {
		d := &bookingpb.SlotDetail{
			SlotId:           s.SlotID,
			Date:             s.Date.Format(model.DateLayout),
			Hour:             int32(s.Hour),
			Capacity:         int32(s.Capacity),
			SlotsBooked:      int32(s.SlotsBooked),
			LeaderName:       s.LeaderName,
			Subject:          s.Subject,
			Location:         s.Location,
			ConfirmationCode: s.ConfirmationCode,
		}
		for _, a := range s.Attendees {
			d.Attendees = append(d.Attendees, &bookingpb.Attendee{Name: a.Name, Email: a.Email, Comments: a.Comments})
		}
		out = append(out, d)
	}
	return out
}
