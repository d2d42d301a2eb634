package models

// ReminderPayload is the asynq task payload for appointment reminders.
type ReminderPayload struct {
	BookingID   string `json:"bookingId"`
	Phone       string `json:"phone"`
	ServiceName string `json:"serviceName"`
	Date        string `json:"date"`
	Time        string `json:"time"`
}
