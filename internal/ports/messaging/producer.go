package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// QueueProducer routes domain events to the ledger and email queues.
type QueueProducer struct {
	sender         MessageSender
	ledgerQueueURL string
	emailQueueURL  string
}

func NewProducer(sender MessageSender, ledgerQueueURL, emailQueueURL string) *QueueProducer {
	return &QueueProducer{
		sender:         sender,
		ledgerQueueURL: ledgerQueueURL,
		emailQueueURL:  emailQueueURL,
	}
}

// NewSQSProducer creates a QueueProducer backed by an AWS SQS sender.
func NewSQSProducer(client SQSClient, ledgerQueueURL, emailQueueURL string) *QueueProducer {
	return NewProducer(&SQSSender{client: client}, ledgerQueueURL, emailQueueURL)
}

func (p *QueueProducer) PublishLedger(ctx context.Context, body interface{}) error {
	return p.publish(ctx, p.ledgerQueueURL, body)
}

func (p *QueueProducer) PublishEmail(ctx context.Context, body interface{}) error {
	return p.publish(ctx, p.emailQueueURL, body)
}

func (p *QueueProducer) publish(ctx context.Context, destination string, body interface{}) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal body: %w", err)
	}

	// Enrich the current span with worker_id if available
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		var payload struct {
			WorkerID string `json:"workerId"`
		}
		// Attempt to unmarshal to extract worker_id
		if err := json.Unmarshal(b, &payload); err == nil && payload.WorkerID != "" {
			span.SetAttributes(attribute.String("app.workerId", payload.WorkerID))
		}
	}

	if err := p.sender.SendMessage(ctx, destination, b); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}
