package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"intake-backend/events"
	"intake-backend/jwt"
	"intake-backend/log"
	"intake-backend/mail"
	"intake-backend/password"
	"intake-backend/store"
)

// Deps is everything the handlers need, built once at start-up.
type Deps struct {
	Store  store.Store
	Hasher *password.Hasher
	Tokens *jwt.Issuer
	Events events.Publisher
	Mailer mail.Mailer
}

func (d Deps) withDefaults() Deps {
	if d.Events == nil {
		d.Events = events.Nop{}
	}
	if d.Mailer == nil {
		d.Mailer = mail.Nop{}
	}
	if d.Hasher == nil {
		d.Hasher = password.NewHasher(password.DefaultCost)
	}

	return d
}

// Every outcome is HTTP 200; clients read the envelope.

func ok(c *fiber.Ctx, data interface{}) error {
	return c.JSON(fiber.Map{"status": "ok", "data": data})
}

// rejected is a business outcome: only the error field is set.
func rejected(c *fiber.Ctx, err error) error {
	return c.JSON(fiber.Map{"error": err.Error()})
}

// failed carries an unexpected error's raw message.
func failed(c *fiber.Ctx, err error) error {
	return c.JSON(fiber.Map{"status": "error", "error": err.Error()})
}

func publish(ctx context.Context, p events.Publisher, kind events.Kind, email string) {
	if err := p.Publish(ctx, events.NewEvent(kind, email)); err != nil {
		log.Logger.Error("failed publishing event", zap.Error(err), zap.String("kind", string(kind)))
	}
}
