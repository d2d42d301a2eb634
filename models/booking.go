package models

import "time"

// Booking represents a confirmed appointment record.
type Booking struct {
	ID           string    `bson:"id" json:"id"`                       // Unique booking identifier (UUID)
	ServiceName  string    `bson:"service_name" json:"service_name"`   // Name of the booked service
	ServicePrice float64   `bson:"service_price" json:"service_price"` // Price at booking time
	Date         string    `bson:"date" json:"date"`                   // Booking date in "YYYY-MM-DD" format
	Time         string    `bson:"time" json:"time"`                   // Time-of-day slot label, e.g. "10:00"
	UserID       string    `bson:"user_id" json:"user_id"`             // User who made the booking
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}

// BookingDraft is the transient wizard state accumulated before submission.
// It is not persisted as a booking until the final step confirms.
type BookingDraft struct {
	Service *ServiceOption `json:"service,omitempty"`
	Date    string         `json:"date,omitempty"`
	Time    string         `json:"time,omitempty"`
	Step    int            `json:"step"`
}

// UserStats aggregates a user's booking history for the dashboard.
type UserStats struct {
	TotalBookings int     `json:"total_bookings"`
	TotalSpent    float64 `json:"total_spent"`
}
