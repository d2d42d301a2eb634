package booking

import (
	"context"

	bookingRepo "trimly/database/repository/booking"
	"trimly/models"
	"trimly/services/notification"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Draft action ops accepted by ApplyDraftAction.
const (
	OpSelectService = "select_service"
	OpSelectDate    = "select_date"
	OpSelectTime    = "select_time"
	OpAdvance       = "advance"
	OpBack          = "back"
)

// DraftAction is a single wizard interaction.
type DraftAction struct {
	Op        string `json:"op" binding:"required"`
	ServiceID int    `json:"service_id,omitempty"`
	Date      string `json:"date,omitempty"`
	Time      string `json:"time,omitempty"`
}

// BookingService defines the booking wizard and history surface. Draft
// operations are scoped to the user who owns the draft.
type BookingService interface {
	CreateDraft(ctx context.Context, userID string) (string, models.BookingDraft, error)
	ApplyDraftAction(ctx context.Context, draftID, userID string, action DraftAction) (models.BookingDraft, error)
	ConfirmDraft(ctx context.Context, draftID, userID, phone string) (*models.Booking, error)
	ListBookings(userID string) ([]models.Booking, error)
	UserStats(userID string) (*models.UserStats, error)
	Catalog() []models.ServiceOption
	AvailableTimes() []string
}

// DefaultBookingService implements BookingService over the bookings
// repository, the draft store and the reminder queue.
type DefaultBookingService struct {
	Repo   bookingRepo.BookingRepository
	Drafts DraftStore
	SMS    notification.Service
	Tasks  *asynq.Client // nil disables reminder scheduling
	Logger *zap.Logger
}
