// Package events publishes domain events for downstream consumers such
// as the notifier. Publishing is best-effort: a failed publish is
// logged, never surfaced to the caller, and never rolls back the write
// that produced it.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const TopicAssignmentClaimed = "assignment.claimed"

// AssignmentClaimed is emitted after a claim commits.
type AssignmentClaimed struct {
	AssignmentID  int    `json:"assignmentId"`
	ApplicantID   int    `json:"applicantId"`
	ApplicantName string `json:"applicantName"`
	Position      string `json:"position"`
	TLEmail       string `json:"tlEmail"`
	TLName        string `json:"tlName"`
	RequestID     int    `json:"requestId"`
	AssignedBy    string `json:"assignedBy"`
	AssignedDate  string `json:"assignedDate"`
}

type Publisher interface {
	PublishAssignmentClaimed(ctx context.Context, event AssignmentClaimed)
	Close() error
}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishAssignmentClaimed(context.Context, AssignmentClaimed) {}
func (NoopPublisher) Close() error                                                { return nil }

type KafkaPublisher struct {
	writer *kafka.Writer
	logger *zap.Logger
}

func NewKafkaPublisher(brokers []string, logger ...*zap.Logger) *KafkaPublisher {
	l := zap.L().Named("events.kafka")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("events.kafka")
	}
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        TopicAssignmentClaimed,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
			WriteTimeout: 5 * time.Second,
		},
		logger: l,
	}
}

func (p *KafkaPublisher) PublishAssignmentClaimed(ctx context.Context, event AssignmentClaimed) {
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("marshal event failed", zap.Error(err))
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.TLEmail),
		Value: payload,
		Time:  time.Now(),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("publish assignment.claimed failed",
			zap.Int("assignment_id", event.AssignmentID),
			zap.Error(err),
		)
		return
	}

	p.logger.Info("published assignment.claimed",
		zap.Int("assignment_id", event.AssignmentID),
		zap.String("tl_email", event.TLEmail),
	)
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
