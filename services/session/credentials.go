package session

import (
	"context"
	"regexp"
	"strings"

	"trimly/models"
	"trimly/services/auth"
	"trimly/utils"
)

// phonePattern is deliberately permissive: optional leading +, then digits,
// spaces, hyphens or parentheses, at least ten characters total.
var phonePattern = regexp.MustCompile(`^\+?[0-9\s\-()]{10,}$`)

// validateRegistration runs the client-side field checks. These run before
// any backend call; a failure here means zero network traffic.
func validateRegistration(name, phone, password string) error {
	if len(strings.TrimSpace(name)) < 2 {
		return utils.NewValidationError("name must be at least 2 characters long")
	}
	if !phonePattern.MatchString(phone) {
		return utils.NewValidationError("please enter a valid phone number")
	}
	if len(password) < 6 {
		return utils.NewValidationError("password must be at least 6 characters long")
	}
	return nil
}

// SendOtp requests a one-time code for the phone number. Session state is
// not mutated.
func (m *Manager) SendOtp(ctx context.Context, phone string) error {
	return m.provider.SendOtp(ctx, phone)
}

// VerifyOtp exchanges a signup phone+code pair for an authenticated
// session. On failure the session state is left unchanged.
func (m *Manager) VerifyOtp(ctx context.Context, phone, code string) (*models.Account, error) {
	return m.verify(ctx, phone, code, auth.OtpPurposeSignup)
}

// VerifyLoginOtp exchanges a login phone+code pair for an authenticated
// session. On failure the session state is left unchanged.
func (m *Manager) VerifyLoginOtp(ctx context.Context, phone, code string) (*models.Account, error) {
	return m.verify(ctx, phone, code, auth.OtpPurposeLogin)
}

func (m *Manager) verify(ctx context.Context, phone, code string, purpose auth.OtpPurpose) (*models.Account, error) {
	creds, err := m.provider.VerifyOtp(ctx, phone, code, purpose, m.deviceID)
	if err != nil {
		return nil, err
	}
	m.setAuthenticated(ctx, creds.User, creds.Token)
	return m.CurrentUser(), nil
}

// LoginWithPassword exchanges phone+password for an authenticated session,
// merging the profile row into the current user.
func (m *Manager) LoginWithPassword(ctx context.Context, phone, password string) (*models.Account, error) {
	creds, err := m.provider.SignInWithPassword(ctx, phone, password, m.deviceID)
	if err != nil {
		return nil, err
	}
	m.setAuthenticated(ctx, creds.User, creds.Token)
	return m.CurrentUser(), nil
}

// Register validates the signup fields and, only when all of them pass,
// triggers an OTP send. Returns true when the code went out.
func (m *Manager) Register(ctx context.Context, name, phone, password string) (bool, error) {
	if err := validateRegistration(name, phone, password); err != nil {
		return false, err
	}
	if err := m.provider.SendOtp(ctx, phone); err != nil {
		return false, err
	}
	return true, nil
}

// CompleteRegistration finishes signup after OTP verification: it sets the
// password and metadata on the auth identity and upserts the profile row
// keyed by the user id. The session must already be authenticated as that
// user; the OTP verification is what authenticates it. Retrying after a
// partial failure is safe because both writes are upsert-shaped.
func (m *Manager) CompleteRegistration(ctx context.Context, userID, name, phone, password string) error {
	m.mu.RLock()
	status := m.status
	var currentID string
	if m.current != nil {
		currentID = m.current.ID
	}
	m.mu.RUnlock()

	if status != models.AuthStatusAuthenticated || currentID != userID {
		return utils.NewAuthError("verify your phone number before completing registration")
	}

	update := auth.UserUpdate{
		Metadata: &models.UserMetadata{FullName: name, Phone: phone},
		Password: password,
	}
	if err := m.provider.UpdateUser(ctx, userID, update); err != nil {
		return err
	}

	profile := &models.ClientProfile{
		ID:    userID,
		Name:  name,
		Phone: phone,
	}
	if err := m.clients.Upsert(profile); err != nil {
		return utils.ClassifyBackendError("failed to create client profile", err)
	}

	m.refreshUser(ctx, userID)
	return nil
}

// Refresh re-mints the session token before it expires. The refreshed
// token replaces the old one atomically with the re-fetched user.
func (m *Manager) Refresh(ctx context.Context) error {
	m.mu.RLock()
	token := m.token
	m.mu.RUnlock()

	if token == "" {
		return utils.NewAuthError("no active session to refresh")
	}

	creds, err := m.provider.RefreshToken(ctx, token)
	if err != nil {
		return err
	}
	m.setAuthenticated(ctx, creds.User, creds.Token)
	return nil
}

// Logout invalidates the backend session and clears local state. Local
// state clears even when the backend call fails, so the device never stays
// stuck in an authenticated view.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.RLock()
	current := m.current
	m.mu.RUnlock()

	var err error
	if current != nil {
		err = m.provider.SignOut(ctx, current.ID, m.deviceID)
	}
	m.setUnauthenticated()
	return err
}
