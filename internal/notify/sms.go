package notify

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// SMS delivers notifications as text messages via Twilio.
type SMS struct {
	client *twilio.RestClient
	from   string
	to     string
}

func NewSMS(accountSID, authToken, from, to string) *SMS {
	return &SMS{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
		from: from,
		to:   to,
	}
}

func (s *SMS) Send(ctx context.Context, message string) error {
	params := &twilioapi.CreateMessageParams{}
	params.SetFrom(s.from)
	params.SetTo(s.to)
	params.SetBody(message)

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("send sms to %s: %w", s.to, err)
	}
	return nil
}
