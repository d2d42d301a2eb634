package bookingRepo

import (
	"errors"

	"trimly/models"
)

// ErrSlotTaken is returned when an insert collides with an existing booking
// at the same (date, time) pair. The collection carries a unique compound
// index on date+time, so the store is the final arbiter even when two
// clients race between pre-check and insert.
var ErrSlotTaken = errors.New("booking slot already taken")

// BookingRepository defines methods for the bookings table.
type BookingRepository interface {
	// FindBySlot retrieves the booking occupying the exact (date, time)
	// pair; nil if the slot is free.
	FindBySlot(date, timeLabel string) (*models.Booking, error)
	// Insert persists a new booking. Returns ErrSlotTaken on a
	// (date, time) uniqueness violation.
	Insert(booking *models.Booking) error
	// ListByUser retrieves a user's bookings ordered by date descending.
	ListByUser(userID string) ([]models.Booking, error)
}
