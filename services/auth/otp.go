package auth

import (
	"context"
	"fmt"
	"time"

	"trimly/models"
	"trimly/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SendOtp issues a one-time code to the phone number and delivers it via
// SMS. Session state is not touched.
func (p *DefaultAuthProvider) SendOtp(ctx context.Context, phone string) error {
	otp, err := utils.InitiatePhoneOTP(ctx, phone)
	if err != nil {
		utils.GetLogger().Error("Failed to initiate phone OTP", zap.Error(err))
		return utils.ClassifyBackendError("failed to send OTP", err)
	}

	message := fmt.Sprintf("Your verification code is: %s. It expires in %v.", otp, utils.OTPTTL)
	if err := p.SMS.SendSMS(ctx, phone, message); err != nil {
		utils.GetLogger().Error("Failed to send OTP via SMS", zap.Error(err))
		return utils.ClassifyBackendError("failed to send OTP", err)
	}
	return nil
}

// VerifyOtp exchanges a phone+code pair for an authenticated session. A
// signup verification creates the auth identity on first use; a login
// verification requires an existing account.
func (p *DefaultAuthProvider) VerifyOtp(ctx context.Context, phone, code string, purpose OtpPurpose, deviceID string) (*Credentials, error) {
	if err := utils.VerifyPhoneOTPRecord(ctx, phone, code); err != nil {
		return nil, utils.NewAuthError("invalid or expired OTP")
	}

	user, err := p.Repo.GetByPhone(phone)
	if err != nil {
		return nil, utils.ClassifyBackendError("verification failed, please try again", err)
	}

	switch {
	case user == nil && purpose == OtpPurposeLogin:
		return nil, utils.NewAuthError("no account exists for this phone number")
	case user == nil:
		user = &models.User{
			ID:    uuid.New().String(),
			Phone: phone,
		}
		if err := p.Repo.Create(user); err != nil {
			utils.GetLogger().Error("Failed to create user on signup", zap.Error(err))
			return nil, utils.ClassifyBackendError("verification failed, please try again", err)
		}
	}

	token, err := p.issueSession(ctx, user, deviceID)
	if err != nil {
		return nil, err
	}

	p.emit(models.AuthEventSignedIn, user.ID, deviceID)
	return &Credentials{User: user, Token: token}, nil
}

// issueSession mints a device-scoped session token and caches its hash so
// the auth middleware can validate without a store round trip.
func (p *DefaultAuthProvider) issueSession(ctx context.Context, user *models.User, deviceID string) (string, error) {
	token, err := utils.GenerateToken(user.ID, user.Phone, deviceID, 24*time.Hour)
	if err != nil {
		utils.GetLogger().Error("Failed to generate session token", zap.Error(err))
		return "", utils.ClassifyBackendError("authentication failed, please try again", err)
	}

	cacheKey := utils.AuthCachePrefix + user.ID + ":" + deviceID
	authCache := utils.GetAuthCacheClient()
	if err := authCache.Set(ctx, cacheKey, utils.HashToken(token), utils.AuthCacheTTL).Err(); err != nil {
		utils.GetLogger().Error("Failed to cache session token hash", zap.Error(err))
		return "", utils.ClassifyBackendError("authentication failed, please try again", err)
	}
	return token, nil
}
