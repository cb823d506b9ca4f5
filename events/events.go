package events

import (
	"bytes"
	"context"
	"encoding/gob"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
	"intake-backend/log"
)

const RequestsExchange = "requests"

type Kind string

const (
	UserCreated  Kind = "user.created"
	WagerCreated Kind = "wager.created"
	AgriCreated  Kind = "agri.created"
)

type Event struct {
	ID        uuid.UUID
	Kind      Kind
	Email     string
	CreatedAt time.Time
}

func NewEvent(kind Kind, email string) *Event {
	return &Event{
		ID:        uuid.New(),
		Kind:      kind,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, event *Event) error
}

// Nop drops every event. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, *Event) error { return nil }

type AMQP struct {
	conn *amqp.Connection

	mu sync.Mutex
	ch *amqp.Channel
}

// Dial connects with exponential backoff, six attempts in total, and
// declares the durable topic exchange events are routed through.
func Dial(ctx context.Context, url string) (*AMQP, error) {
	log.Logger.Info("Trying to connect to rabbitmq...")

	var conn *amqp.Connection
	t := time.Second
	for i := 0; i < 6; i++ {
		var err error
		conn, err = amqp.Dial(url)
		if err == nil {
			break
		}
		if i == 5 {
			return nil, err
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(t):
		}
		t *= 2
	}
	log.Logger.Info("Connected to rabbitmq")

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	err = ch.ExchangeDeclare(
		RequestsExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	return &AMQP{conn: conn, ch: ch}, nil
}

// Publish routes the gob-encoded event with its Kind as the routing key.
func (a *AMQP) Publish(ctx context.Context, event *Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var b bytes.Buffer
	if err := gob.NewEncoder(&b).Encode(event); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	return a.ch.Publish(RequestsExchange, string(event.Kind), false, false, amqp.Publishing{
		ContentType:  "application/x-gob",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID.String(),
		Timestamp:    event.CreatedAt,
		Body:         b.Bytes(),
	})
}

// Consume binds a private queue to the exchange for the given routing key
// pattern and decodes deliveries until ctx is done.
func (a *AMQP) Consume(ctx context.Context, pattern string) (<-chan *Event, error) {
	rch, err := a.conn.Channel()
	if err != nil {
		return nil, err
	}
	q, err := rch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		_ = rch.Close()
		return nil, err
	}

	err = rch.QueueBind(q.Name, pattern, RequestsExchange, false, nil)
	if err != nil {
		_ = rch.Close()
		return nil, err
	}

	msgs, err := rch.Consume(q.Name, "", true, false, false, false, nil)
	if err != nil {
		_ = rch.Close()
		return nil, err
	}

	ch := make(chan *Event)
	go func() {
		defer close(ch)
		defer func() {
			if err := rch.Close(); err != nil {
				log.Logger.Error("unable to close channel", zap.Error(err))
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-msgs:
				if !ok {
					return
				}

				var e Event
				if err := gob.NewDecoder(bytes.NewReader(d.Body)).Decode(&e); err != nil {
					log.Logger.Error("unable to decode event", zap.Error(err))
					continue
				}

				select {
				case ch <- &e:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}

func (a *AMQP) Close() error {
	return a.conn.Close()
}
