package mail

import (
	"context"
	"errors"
	"fmt"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/tair/shopfront/pkg/logger"
)

// SendGridSender delivers mail through the SendGrid v3 API
type SendGridSender struct {
	from     *sgmail.Email
	transmit func(*sgmail.SGMailV3) (*rest.Response, error)
}

func NewSendGridSender(apiKey, fromName, fromAddress string) *SendGridSender {
	client := sendgrid.NewSendClient(apiKey)
	return &SendGridSender{
		from:     sgmail.NewEmail(fromName, fromAddress),
		transmit: client.Send,
	}
}

// Send delivers an HTML message to a single recipient
func (s *SendGridSender) Send(ctx context.Context, to, subject, html string) error {
	if to == "" {
		return errors.New("recipient address is empty")
	}

	message := sgmail.NewSingleEmail(s.from, subject, sgmail.NewEmail("", to), "", html)
	response, err := s.transmit(message)
	if err != nil {
		return fmt.Errorf("sendgrid send error: %w", err)
	}
	if response.StatusCode >= 400 {
		logger.Error(ctx).
			Int("status", response.StatusCode).
			Str("body", response.Body).
			Msg("SendGrid rejected message")
		return fmt.Errorf("sendgrid send failed: status=%d", response.StatusCode)
	}

	logger.Info(ctx).
		Int("status", response.StatusCode).
		Str("to", to).
		Str("subject", subject).
		Msg("Mail sent")
	return nil
}

// LogSender writes messages to the log instead of sending them. Used when no
// SendGrid key is configured.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, to, subject, html string) error {
	logger.Warn(ctx).
		Str("to", to).
		Str("subject", subject).
		Str("body", html).
		Msg("Mail delivery disabled, message logged only")
	return nil
}
