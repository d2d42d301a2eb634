package notification

import (
	"context"
	"fmt"

	"trimly/config"
	"trimly/utils"
)

// Service delivers outbound messages to clients. SMS is the only channel
// this system uses (OTP codes, booking confirmations, reminders).
type Service interface {
	SendSMS(ctx context.Context, phone, message string) error
}

// DefaultSMSService sends through the configured SMS gateway. The gateway
// call itself is a stub; swap the body for the real provider integration.
type DefaultSMSService struct{}

// NewSMSService creates the default SMS sender.
func NewSMSService() Service {
	return &DefaultSMSService{}
}

// SendSMS delivers a text message to the given phone number.
func (s *DefaultSMSService) SendSMS(ctx context.Context, phone, message string) error {
	if phone == "" {
		return fmt.Errorf("cannot send SMS: empty phone number")
	}
	// For example, you could use an HTTP client to call your SMS provider
	// endpoint here. For now, we log the outgoing message.
	utils.GetLogger().Sugar().Infof("[%s] Sending SMS to %s: %s", config.AppConfig.SMSSenderName, phone, message)
	return nil
}
