package handler

import (
	"context"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"appointment-booking-api/internal/booking"
	"appointment-booking-api/internal/bookingpb"
	"appointment-booking-api/internal/model"
)

func (h *Handler) ListAvailableSlots(ctx context.Context, req *bookingpb.ListAvailableSlotsRequest) (*bookingpb.ListAvailableSlotsResponse, error) {
	r, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	slots, err := h.bookings.ListAvailableSlots(ctx, r)
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	resp := &bookingpb.ListAvailableSlotsResponse{Slots: make([]*bookingpb.SlotSummary, 0, len(slots))}
	for _, s := range slots {
		resp.Slots = append(resp.Slots, summaryToProto(s))
	}
	return resp, nil
}

func (h *Handler) ListMySlots(ctx context.Context, _ *bookingpb.ListMySlotsRequest) (*bookingpb.ListMySlotsResponse, error) {
	userID, err := uid(ctx)
	if err != nil {
		return nil, err
	}
	slots, err := h.bookings.ListMySlots(ctx, userID)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return &bookingpb.ListMySlotsResponse{Slots: detailsToProto(slots)}, nil
}

func (h *Handler) CreateNewBooking(ctx context.Context, req *bookingpb.CreateNewBookingRequest) (*bookingpb.CreateNewBookingResponse, error) {
	userID, err := uid(ctx)
	if err != nil {
		return nil, err
	}
	err = h.bookings.CreateNewBooking(ctx, booking.NewBooking{
		SlotID:   req.SlotId,
		UserID:   userID,
		Subject:  req.Subject,
		Location: req.Location,
		Comments: req.Comments,
	})
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return &bookingpb.CreateNewBookingResponse{}, nil
}

func (h *Handler) JoinExistingBooking(ctx context.Context, req *bookingpb.JoinExistingBookingRequest) (*bookingpb.JoinExistingBookingResponse, error) {
	userID, err := uid(ctx)
	if err != nil {
		return nil, err
	}
	err = h.bookings.JoinExistingBooking(ctx, booking.JoinBooking{
		SlotID:           req.SlotId,
		UserID:           userID,
		Comments:         req.Comments,
		ConfirmationCode: req.ConfirmationCode,
	})
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return &bookingpb.JoinExistingBookingResponse{}, nil
}

func (h *Handler) CancelBooking(ctx context.Context, req *bookingpb.CancelBookingRequest) (*bookingpb.CancelBookingResponse, error) {
	userID, err := uid(ctx)
	if err != nil {
		return nil, err
	}
	succ, err := h.bookings.CancelBooking(ctx, req.SlotId, userID)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return &bookingpb.CancelBookingResponse{
		LeadershipTransferred: succ.NewLeader != "",
		SlotCleared:           succ.Cleared,
	}, nil
}

func (h *Handler) ListAllSlots(ctx context.Context, req *bookingpb.ListAllSlotsRequest) (*bookingpb.ListAllSlotsResponse, error) {
	if _, err := h.requireAdmin(ctx); err != nil {
		return nil, err
	}
	r, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	slots, err := h.bookings.ListAllSlots(ctx, r)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return &bookingpb.ListAllSlotsResponse{Slots: detailsToProto(slots)}, nil
}

func (h *Handler) AddSlot(ctx context.Context, req *bookingpb.AddSlotRequest) (*bookingpb.AddSlotResponse, error) {
	if _, err := h.requireAdmin(ctx); err != nil {
		return nil, err
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	id, err := h.bookings.AddSlot(ctx, booking.NewSlot{Date: date, Hour: int(req.Hour), Capacity: int(req.Capacity)})
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return &bookingpb.AddSlotResponse{SlotId: id}, nil
}

func (h *Handler) RemoveSlot(ctx context.Context, req *bookingpb.RemoveSlotRequest) (*bookingpb.RemoveSlotResponse, error) {
	if _, err := h.requireAdmin(ctx); err != nil {
		return nil, err
	}
	if err := h.bookings.RemoveSlot(ctx, req.SlotId); err != nil {
		return nil, toStatus(ctx, err)
	}
	return &bookingpb.RemoveSlotResponse{}, nil
}

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(model.DateLayout, s)
	if err != nil {
		return time.Time{}, status.Errorf(codes.InvalidArgument, "date %q must be YYYY-MM-DD", s)
	}
	return d, nil
}

// parseRange reads a [start, end) date range; an empty end covers start only.
func parseRange(start, end string) (booking.DateRange, error) {
	from, err := parseDate(start)
	if err != nil {
		return booking.DateRange{}, err
	}
	if end == "" {
		return booking.Day(from), nil
	}
	to, err := parseDate(end)
	if err != nil {
		return booking.DateRange{}, err
	}
	return booking.DateRange{From: from, To: to}, nil
}
