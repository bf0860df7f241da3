// Package notify consumes assignment.claimed events and emails the
// team lead. It runs as its own process so a slow SMTP server never
// delays a claim request.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"go-ats/internal/events"
)

const consumerGroup = "ats-notifier"

type Consumer struct {
	reader *kafka.Reader
	mailer Mailer
	logger *zap.Logger
}

func NewConsumer(brokers []string, mailer Mailer, logger ...*zap.Logger) *Consumer {
	l := zap.L().Named("notify.consumer")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notify.consumer")
	}
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: brokers,
			Topic:   events.TopicAssignmentClaimed,
			GroupID: consumerGroup,
		}),
		mailer: mailer,
		logger: l,
	}
}

// Run blocks until the context is cancelled. A malformed or
// undeliverable message is logged and skipped; the claim it describes
// already committed, so there is nothing to roll back.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		var event events.AssignmentClaimed
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			c.logger.Warn("skipping malformed event",
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
			continue
		}

		if err := c.mailer.SendClaimNotice(event); err != nil {
			c.logger.Error("send claim notice failed",
				zap.String("tl_email", event.TLEmail),
				zap.Int("assignment_id", event.AssignmentID),
				zap.Error(err),
			)
			continue
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
