package utils

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// generateSecureOTP generates a secure random numeric OTP of the given length.
func generateSecureOTP(length int) (string, error) {
	digits := make([]byte, length)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate random digit: %w", err)
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}

func otpKey(phone string) string {
	return "otp:" + phone
}

// InitiatePhoneOTP generates a 6-digit OTP for the phone number and stores it
// in Redis with a bounded TTL. The code itself is returned so the caller can
// hand it to the SMS gateway.
func InitiatePhoneOTP(ctx context.Context, phone string) (string, error) {
	otp, err := generateSecureOTP(6)
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP: %w", err)
	}

	client := GetOTPCacheClient()
	if client == nil {
		return "", fmt.Errorf("OTP cache client not initialized")
	}
	if err := client.Set(ctx, otpKey(phone), otp, OTPTTL).Err(); err != nil {
		GetLogger().Error("Failed to cache OTP", zap.Error(err))
		return "", fmt.Errorf("failed to initiate phone OTP")
	}

	GetLogger().Sugar().Infof("Issued OTP for phone %s (expires in %v)", phone, OTPTTL)
	return otp, nil
}

// VerifyPhoneOTPRecord retrieves the stored OTP and compares it to the
// provided code. A matching code is consumed so it cannot be replayed.
func VerifyPhoneOTPRecord(ctx context.Context, phone, providedOTP string) error {
	client := GetOTPCacheClient()
	if client == nil {
		return fmt.Errorf("OTP cache client not initialized")
	}

	storedOTP, err := client.Get(ctx, otpKey(phone)).Result()
	if err != nil {
		if err == redis.Nil {
			return fmt.Errorf("OTP not found or expired")
		}
		return fmt.Errorf("failed to retrieve OTP: %w", err)
	}

	if storedOTP != providedOTP {
		return fmt.Errorf("OTP does not match")
	}

	if err := client.Del(ctx, otpKey(phone)).Err(); err != nil {
		GetLogger().Error("Failed to delete OTP after verification", zap.Error(err))
	}
	return nil
}
