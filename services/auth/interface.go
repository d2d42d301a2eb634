package auth

import (
	"context"

	userRepo "trimly/database/repository/user"
	"trimly/models"
	"trimly/services/notification"
)

// OtpPurpose distinguishes signup verification from login verification.
type OtpPurpose string

const (
	OtpPurposeSignup OtpPurpose = "signup"
	OtpPurposeLogin  OtpPurpose = "login"
)

// Credentials bundles the auth user and the session token returned by a
// successful credential exchange.
type Credentials struct {
	User  *models.User
	Token string
}

// UserUpdate carries the mutable auth-side fields. A nil Metadata leaves
// metadata untouched; an empty Password leaves the password untouched.
type UserUpdate struct {
	Metadata *models.UserMetadata
	Password string
}

// Provider is the authentication surface the rest of the system talks to.
// It covers the full credential contract plus an event stream carrying
// SIGNED_IN, SIGNED_OUT and TOKEN_REFRESHED notifications.
type Provider interface {
	SendOtp(ctx context.Context, phone string) error
	VerifyOtp(ctx context.Context, phone, code string, purpose OtpPurpose, deviceID string) (*Credentials, error)
	SignInWithPassword(ctx context.Context, phone, password, deviceID string) (*Credentials, error)
	UpdateUser(ctx context.Context, userID string, update UserUpdate) error
	GetUserByToken(ctx context.Context, token string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	RefreshToken(ctx context.Context, token string) (*Credentials, error)
	SignOut(ctx context.Context, userID, deviceID string) error

	// Subscribe registers a new event listener and returns its id with the
	// delivery channel. Unsubscribe must be called exactly once per id.
	Subscribe() (int, <-chan models.AuthEvent)
	Unsubscribe(id int)
}

// DefaultAuthProvider implements Provider against MongoDB identities, Redis
// OTP/token caches and the SMS gateway.
type DefaultAuthProvider struct {
	Repo userRepo.UserRepository
	SMS  notification.Service

	hub *eventHub
}

// NewDefaultAuthProvider wires the default provider.
func NewDefaultAuthProvider(repo userRepo.UserRepository, sms notification.Service) *DefaultAuthProvider {
	return &DefaultAuthProvider{
		Repo: repo,
		SMS:  sms,
		hub:  newEventHub(),
	}
}
