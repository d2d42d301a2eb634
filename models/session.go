package models

// AuthStatus is the tri-state session flag.
type AuthStatus string

const (
	AuthStatusUnknown         AuthStatus = "UNKNOWN"
	AuthStatusAuthenticated   AuthStatus = "AUTHENTICATED"
	AuthStatusUnauthenticated AuthStatus = "UNAUTHENTICATED"
)

// AuthEventType enumerates the asynchronous notifications the auth backend
// emits during a session.
type AuthEventType string

const (
	AuthEventSignedIn       AuthEventType = "SIGNED_IN"
	AuthEventSignedOut      AuthEventType = "SIGNED_OUT"
	AuthEventTokenRefreshed AuthEventType = "TOKEN_REFRESHED"
)

// AuthEvent is delivered on every auth state change for a device session.
type AuthEvent struct {
	Type     AuthEventType `json:"type"`
	UserID   string        `json:"user_id"`
	DeviceID string        `json:"device_id"`
}
