package auth

import (
	"context"

	"trimly/models"
	"trimly/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// SignInWithPassword exchanges phone+password for an authenticated session.
func (p *DefaultAuthProvider) SignInWithPassword(ctx context.Context, phone, password, deviceID string) (*Credentials, error) {
	user, err := p.Repo.GetByPhone(phone)
	if err != nil {
		utils.GetLogger().Error("Failed to fetch user for authentication", zap.Error(err))
		return nil, utils.ClassifyBackendError("authentication failed, please try again", err)
	}
	if user == nil || user.PasswordHash == "" {
		return nil, utils.NewAuthError("invalid phone number or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, utils.NewAuthError("invalid phone number or password")
	}

	token, err := p.issueSession(ctx, user, deviceID)
	if err != nil {
		return nil, err
	}

	p.emit(models.AuthEventSignedIn, user.ID, deviceID)
	return &Credentials{User: user, Token: token}, nil
}
