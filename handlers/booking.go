package handlers

import (
	"net/http"

	userRepo "trimly/database/repository/user"
	"trimly/services/booking"
	"trimly/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the booking wizard, history and dashboard stats.
type BookingHandler struct {
	Svc   booking.BookingService
	Users userRepo.UserRepository
}

// NewBookingHandler creates the booking handler.
func NewBookingHandler(svc booking.BookingService, users userRepo.UserRepository) *BookingHandler {
	return &BookingHandler{Svc: svc, Users: users}
}

// GetServicesHandler returns the service catalog. Public.
func (h *BookingHandler) GetServicesHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"services": h.Svc.Catalog()})
}

// GetSlotsHandler returns the bookable time labels. Public.
func (h *BookingHandler) GetSlotsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"times": h.Svc.AvailableTimes()})
}

// CreateDraftHandler starts a new booking wizard instance.
func (h *BookingHandler) CreateDraftHandler(c *gin.Context) {
	draftID, draft, err := h.Svc.CreateDraft(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"draftId": draftID, "draft": draft})
}

// UpdateDraftHandler applies one wizard interaction to a draft.
func (h *BookingHandler) UpdateDraftHandler(c *gin.Context) {
	draftID := c.Param("draftID")

	var action booking.DraftAction
	if err := c.ShouldBindJSON(&action); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	draft, err := h.Svc.ApplyDraftAction(c.Request.Context(), draftID, c.GetString("userID"), action)
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": draft})
}

// ConfirmDraftHandler submits the draft as a booking. The phone number is
// looked up from the auth identity for the confirmation SMS.
func (h *BookingHandler) ConfirmDraftHandler(c *gin.Context) {
	draftID := c.Param("draftID")
	userID := c.GetString("userID")

	var phone string
	if user, err := h.Users.GetByID(userID); err != nil {
		getLogger(c).Warn("phone lookup for confirmation failed", zap.String("userID", userID), zap.Error(err))
	} else if user != nil {
		phone = user.Phone
	}

	result, err := h.Svc.ConfirmDraft(c.Request.Context(), draftID, userID, phone)
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"booking": result})
}

// ListBookingsHandler returns the caller's booking history.
func (h *BookingHandler) ListBookingsHandler(c *gin.Context) {
	userID := c.GetString("userID")

	bookings, err := h.Svc.ListBookings(userID)
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// StatsHandler returns the caller's dashboard totals.
func (h *BookingHandler) StatsHandler(c *gin.Context) {
	userID := c.GetString("userID")

	stats, err := h.Svc.UserStats(userID)
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
