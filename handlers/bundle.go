package handlers

// HandlerBundle aggregates all handlers for route registration.
type HandlerBundle struct {
	Auth    *AuthHandler
	Profile *ProfileHandler
	Booking *BookingHandler
}
