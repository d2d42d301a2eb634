package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingRepo "trimly/database/repository/booking"
	"trimly/models"
	"trimly/services/tasks"
	"trimly/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func validDate(date string) bool {
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}

// ConfirmDraft performs the single durable write of the wizard. The slot
// pre-check gives fast feedback; the unique (date,time) index on the
// bookings collection is what actually guarantees no double booking, so a
// race between two clients still resolves to exactly one winner.
func (s *DefaultBookingService) ConfirmDraft(ctx context.Context, draftID, userID, phone string) (*models.Booking, error) {
	flow, err := s.loadFlow(ctx, draftID, userID)
	if err != nil {
		return nil, err
	}

	booking, err := s.submit(ctx, flow, userID)
	if err != nil {
		// The draft stays untouched so the user can retry without
		// re-entering anything.
		return nil, err
	}

	s.deleteDraft(ctx, draftID)
	s.confirmAndRemind(ctx, booking, phone)
	return booking, nil
}

// Submit validates the accumulated draft and writes the booking. On
// success the flow resets to its initial state; on any failure the flow is
// left exactly as it was.
func (s *DefaultBookingService) submit(ctx context.Context, flow *Flow, userID string) (*models.Booking, error) {
	draft := flow.Draft()

	if userID == "" {
		return nil, utils.NewAuthError("you must be logged in to book an appointment")
	}
	if draft.Service == nil {
		return nil, utils.NewValidationError("select a service to book an appointment")
	}
	if draft.Time == "" {
		return nil, utils.NewValidationError("choose a time to book an appointment")
	}

	existing, err := s.Repo.FindBySlot(draft.Date, draft.Time)
	if err != nil {
		s.Logger.Error("slot pre-check failed", zap.Error(err))
		return nil, utils.ClassifyBackendError("failed to check slot availability", err)
	}
	if existing != nil {
		return nil, utils.NewConflictError("this time slot is already booked")
	}

	booking := &models.Booking{
		ID:           uuid.New().String(),
		ServiceName:  draft.Service.Name,
		ServicePrice: draft.Service.Price,
		Date:         draft.Date,
		Time:         draft.Time,
		UserID:       userID,
	}

	if err := s.Repo.Insert(booking); err != nil {
		if errors.Is(err, bookingRepo.ErrSlotTaken) {
			return nil, utils.NewConflictError("this time slot is already booked")
		}
		s.Logger.Error("booking insert failed", zap.Error(err))
		return nil, utils.ClassifyBackendError("failed to create booking", err)
	}

	flow.Reset()
	return booking, nil
}

// confirmAndRemind sends the confirmation SMS and schedules a reminder two
// hours before the appointment. Both are best effort; the booking already
// stands.
func (s *DefaultBookingService) confirmAndRemind(ctx context.Context, booking *models.Booking, phone string) {
	if phone == "" {
		return
	}

	message := fmt.Sprintf("Your %s on %s at %s is confirmed. See you then!",
		booking.ServiceName, booking.Date, booking.Time)
	if err := s.SMS.SendSMS(ctx, phone, message); err != nil {
		s.Logger.Warn("failed to send booking confirmation", zap.Error(err))
	}

	if s.Tasks == nil {
		return
	}
	appointmentAt, err := time.ParseInLocation("2006-01-02 15:04", booking.Date+" "+booking.Time, time.Local)
	if err != nil {
		s.Logger.Warn("cannot schedule reminder for unparsable slot",
			zap.String("date", booking.Date), zap.String("time", booking.Time))
		return
	}
	fireAt := appointmentAt.Add(-2 * time.Hour)
	if fireAt.Before(time.Now()) {
		return
	}

	payload := models.ReminderPayload{
		BookingID:   booking.ID,
		Phone:       phone,
		ServiceName: booking.ServiceName,
		Date:        booking.Date,
		Time:        booking.Time,
	}
	task, opts, err := tasks.NewReminderTask(payload, fireAt)
	if err != nil {
		s.Logger.Warn("failed to build reminder task", zap.Error(err))
		return
	}
	if _, err := s.Tasks.Enqueue(task, opts...); err != nil {
		s.Logger.Warn("failed to enqueue reminder task", zap.Error(err))
	}
}

// ListBookings retrieves the user's booking history, newest date first.
func (s *DefaultBookingService) ListBookings(userID string) ([]models.Booking, error) {
	bookings, err := s.Repo.ListByUser(userID)
	if err != nil {
		return nil, utils.ClassifyBackendError("failed to fetch bookings", err)
	}
	return bookings, nil
}

// UserStats aggregates the user's history into dashboard totals.
func (s *DefaultBookingService) UserStats(userID string) (*models.UserStats, error) {
	bookings, err := s.ListBookings(userID)
	if err != nil {
		return nil, err
	}

	stats := &models.UserStats{TotalBookings: len(bookings)}
	for _, b := range bookings {
		stats.TotalSpent += b.ServicePrice
	}
	return stats, nil
}
