package auth

import (
	"context"

	"trimly/models"
	"trimly/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UpdateUser sets auth-side metadata and, when provided, the password.
// Repeated calls with the same payload are safe.
func (p *DefaultAuthProvider) UpdateUser(ctx context.Context, userID string, update UserUpdate) error {
	updateDoc := bson.M{}
	if update.Metadata != nil {
		updateDoc["metadata"] = *update.Metadata
	}
	if update.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(update.Password), bcrypt.DefaultCost)
		if err != nil {
			utils.GetLogger().Error("Failed to hash password", zap.Error(err))
			return utils.ClassifyBackendError("failed to update account", err)
		}
		updateDoc["password_hash"] = string(hashed)
	}
	if len(updateDoc) == 0 {
		return nil
	}

	if err := p.Repo.UpdateSetDocument(userID, updateDoc); err != nil {
		utils.GetLogger().Error("Failed to update user", zap.String("userID", userID), zap.Error(err))
		return utils.ClassifyBackendError("failed to update account", err)
	}
	return nil
}

// GetUserByToken resolves the current auth user from a session token. The
// token hash must still be present in the auth cache; a revoked or expired
// session resolves to an auth failure.
func (p *DefaultAuthProvider) GetUserByToken(ctx context.Context, token string) (*models.User, error) {
	userID, deviceID, err := utils.ExtractIDsFromToken(token)
	if err != nil {
		return nil, utils.NewAuthError("invalid session token")
	}

	cacheKey := utils.AuthCachePrefix + userID + ":" + deviceID
	cachedHash, err := utils.GetAuthCacheClient().Get(ctx, cacheKey).Result()
	if err != nil || cachedHash != utils.HashToken(token) {
		return nil, utils.NewAuthError("session expired or revoked")
	}

	return p.GetUserByID(ctx, userID)
}

// GetUserByID loads an auth identity by its ID; nil if it does not exist.
func (p *DefaultAuthProvider) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	user, err := p.Repo.GetByID(id)
	if err != nil {
		return nil, utils.ClassifyBackendError("failed to fetch user", err)
	}
	return user, nil
}

// RefreshToken re-mints a session token before expiry and announces the
// refresh to subscribers.
func (p *DefaultAuthProvider) RefreshToken(ctx context.Context, token string) (*Credentials, error) {
	user, err := p.GetUserByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, utils.NewAuthError("session expired or revoked")
	}

	_, deviceID, err := utils.ExtractIDsFromToken(token)
	if err != nil {
		return nil, utils.NewAuthError("invalid session token")
	}

	fresh, err := p.issueSession(ctx, user, deviceID)
	if err != nil {
		return nil, err
	}

	p.emit(models.AuthEventTokenRefreshed, user.ID, deviceID)
	return &Credentials{User: user, Token: fresh}, nil
}

// SignOut invalidates the device session and announces the sign-out.
func (p *DefaultAuthProvider) SignOut(ctx context.Context, userID, deviceID string) error {
	cacheKey := utils.AuthCachePrefix + userID + ":" + deviceID
	if err := utils.GetAuthCacheClient().Del(ctx, cacheKey).Err(); err != nil {
		utils.GetLogger().Error("Failed to clear session on logout", zap.Error(err))
		return utils.ClassifyBackendError("failed to logout, please try again", err)
	}

	p.emit(models.AuthEventSignedOut, userID, deviceID)
	return nil
}
