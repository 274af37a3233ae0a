package service

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/railway-seat-reservation/internal/queue"
)

// QueuePublisher publishes settlement events to RabbitMQ.  Each publish
// opens its own connection; settlements are rare enough that pooling is
// not worth the reconnect handling.
type QueuePublisher struct {
	url string
	log *logrus.Logger
}

func NewQueuePublisher(url string, log *logrus.Logger) *QueuePublisher {
	return &QueuePublisher{url: url, log: log}
}

// dialTimeout bounds connecting and the AMQP handshake when ctx carries no
// deadline.
const dialTimeout = 5 * time.Second

// PublishSettlement publishes ev to the durable settlement queue as a
// persistent JSON message.  The connection and handshake are bounded by the
// deadline of ctx.
func (p *QueuePublisher) PublishSettlement(ctx context.Context, ev queue.BookingSettledEvent) error {
	timeout := dialTimeout
	if dl, ok := ctx.Deadline(); ok {
		timeout = time.Until(dl)
	}
	if timeout <= 0 {
		return context.DeadlineExceeded
	}
	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(timeout),
	})
	if err != nil {
		p.log.WithError(err).Debug("rabbitmq: dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		queue.SettlementQueue, // name
		true,                  // durable
		false,                 // autoDelete
		false,                 // exclusive
		false,                 // noWait
		nil,                   // args
	); err != nil {
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	return ch.PublishWithContext(ctx,
		"",                    // default exchange
		queue.SettlementQueue, // routing key = queue name
		false,                 // mandatory
		false,                 // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
}
