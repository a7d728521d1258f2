package email

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bloghub/bloghub/internal/logging"
)

const (
	outboxKey    = "mail:outbox"
	popTimeout   = 5 * time.Second
	errorBackoff = time.Second
)

// Outbox decouples email dispatch from the request cycle: handlers push a
// message onto a redis list and return immediately, and a background worker
// drains the list and delivers. Delivery failures are logged and dropped,
// never surfaced to the request that triggered them.
type Outbox struct {
	client *redis.Client
	sender Sender
	logger *logging.Logger
}

func NewOutbox(client *redis.Client, sender Sender, logger *logging.Logger) *Outbox {
	return &Outbox{
		client: client,
		sender: sender,
		logger: logger,
	}
}

// Enqueue pushes a message onto the outbound queue.
func (o *Outbox) Enqueue(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode mail message: %w", err)
	}

	if err := o.client.LPush(ctx, outboxKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to enqueue mail message: %w", err)
	}

	return nil
}

// Run drains the queue until ctx is cancelled. Intended to be started once
// from main in its own goroutine.
func (o *Outbox) Run(ctx context.Context) {
	o.logger.Info("mail outbox worker started")

	for {
		res, err := o.client.BRPop(ctx, popTimeout, outboxKey).Result()
		if err != nil {
			if ctx.Err() != nil {
				o.logger.Info("mail outbox worker stopped")
				return
			}
			if err == redis.Nil {
				// Queue empty, poll again.
				continue
			}
			o.logger.Error("failed to pop mail message", "error", err.Error())
			time.Sleep(errorBackoff)
			continue
		}

		// BRPop returns [key, value]
		if len(res) != 2 {
			continue
		}

		var msg Message
		if err := json.Unmarshal([]byte(res[1]), &msg); err != nil {
			o.logger.Error("failed to decode mail message", "error", err.Error())
			continue
		}

		if err := o.sender.Send(msg); err != nil {
			o.logger.Warn("failed to send email", "to", msg.To, "subject", msg.Subject, "error", err.Error())
			continue
		}

		o.logger.Info("email sent", "to", msg.To, "subject", msg.Subject)
	}
}
