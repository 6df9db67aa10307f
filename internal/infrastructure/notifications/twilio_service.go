package notifications

import (
	"fmt"
	"log/slog"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/benbaruka/sms-portal-sub004/domain"
)

// messageCreator is the part of the Twilio REST API the service uses
type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// TwilioServiceImpl implements domain.NotificationService
type TwilioServiceImpl struct {
	api        messageCreator
	fromNumber string
	logger     *slog.Logger
}

// NewTwilioService creates a new Twilio notification service
func NewTwilioService(accountSID, authToken, fromNumber string) domain.NotificationService {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return newTwilioService(client.Api, fromNumber)
}

func newTwilioService(api messageCreator, fromNumber string) *TwilioServiceImpl {
	return &TwilioServiceImpl{
		api:        api,
		fromNumber: fromNumber,
		logger:     slog.Default().With("service", "sms-portal", "module", "notifications"),
	}
}

// SendSMS implements domain.NotificationService
func (t *TwilioServiceImpl) SendSMS(to, message string) error {
	// Without a sender number the message is only logged
	if t.fromNumber == "" {
		t.logger.Info("sms not sent, no sender configured", "to", to, "message", message)
		return nil
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(t.fromNumber)
	params.SetBody(message)

	resp, err := t.api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}
	if resp != nil && resp.Sid != nil {
		t.logger.Debug("sms sent", "to", to, "sid", *resp.Sid)
	}
	return nil
}
