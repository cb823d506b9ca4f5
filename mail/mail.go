package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"go.uber.org/zap"
	"intake-backend/log"
)

type Mailer interface {
	SendRequestReceipt(ctx context.Context, to, firstname, kind string) error
}

// Nop sends nothing. Used when no mail provider is configured.
type Nop struct{}

func (Nop) SendRequestReceipt(context.Context, string, string, string) error { return nil }

type Mailgun struct {
	mg   mailgun.Mailgun
	from string
}

func NewMailgun(domain, apiKey, from string) *Mailgun {
	return &Mailgun{
		mg:   mailgun.NewMailgun(domain, apiKey),
		from: from,
	}
}

func receipt(firstname, kind string) (subject, body string) {
	subject = fmt.Sprintf("Your %s request has been received", kind)
	body = fmt.Sprintf(
		"Hello %s,\n\nWe have received your %s request and will contact you on the number you provided.\n",
		firstname, kind)

	return subject, body
}

func (m *Mailgun) SendRequestReceipt(ctx context.Context, to, firstname, kind string) error {
	subject, body := receipt(firstname, kind)
	msg := m.mg.NewMessage(m.from, subject, body, to)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, id, err := m.mg.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	log.Logger.Debug("receipt sent", zap.String("to", to), zap.String("id", id))

	return nil
}
