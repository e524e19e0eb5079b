package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"github.com/abcretail/backoffice/internal/aws"
	"github.com/abcretail/backoffice/internal/messaging"
)

// Processor consumes the order-notifications and stock-updates queues.
// Delivery is at-least-once, so both paths must tolerate duplicates: today
// they only log (idempotent by construction); any future side effect must
// dedupe on the message's message_id before acting.
type Processor struct {
	metrics *aws.Metrics
}

// NewProcessor returns a worker processor.
func NewProcessor(metrics *aws.Metrics) *Processor {
	return &Processor{metrics: metrics}
}

// Handle receives an SQS batch event and processes each message.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	for _, rec := range ev.Records {
		if err := p.processRecord(ctx, rec); err != nil {
			// Return error: Lambda will retry. If failed too many times, message goes to DLQ.
			log.Printf("worker error: %v", err)
			return err
		}
	}
	return nil
}

func (p *Processor) processRecord(ctx context.Context, rec events.SQSMessage) error {
	switch queueName(rec.EventSourceARN) {
	case messaging.OrderNotificationsQueue:
		return p.processOrderNotification(ctx, rec)
	case messaging.StockUpdatesQueue:
		return p.processStockUpdate(ctx, rec)
	default:
		return fmt.Errorf("message %s from unknown queue %q", rec.MessageId, rec.EventSourceARN)
	}
}

func (p *Processor) processOrderNotification(ctx context.Context, rec events.SQSMessage) error {
	var msg messaging.OrderNotification
	if err := json.Unmarshal([]byte(rec.Body), &msg); err != nil {
		return fmt.Errorf("invalid order notification body: %w", err)
	}

	// Fan-out hook (email, reporting). Logging only for now.
	log.Printf("[worker] order notification order=%s customer=%s product=%s qty=%d total=%.2f dedupe=%s",
		msg.OrderID, msg.CustomerID, msg.ProductID, msg.Quantity, msg.TotalPrice, msg.MessageID)

	p.metrics.Count(ctx, "OrderNotificationsProcessed", nil)
	return nil
}

func (p *Processor) processStockUpdate(ctx context.Context, rec events.SQSMessage) error {
	var msg messaging.StockUpdate
	if err := json.Unmarshal([]byte(rec.Body), &msg); err != nil {
		return fmt.Errorf("invalid stock update body: %w", err)
	}

	// Reconciliation hook for downstream stock views. Logging only for now.
	log.Printf("[worker] stock update product=%s (%s) delta=%d dedupe=%s",
		msg.ProductID, msg.ProductName, msg.Delta, msg.MessageID)

	p.metrics.Count(ctx, "StockUpdatesProcessed", nil)
	return nil
}

// queueName extracts the queue name from an SQS event source ARN
// (arn:aws:sqs:region:account:queue-name).
func queueName(arn string) string {
	if i := strings.LastIndex(arn, ":"); i >= 0 {
		return arn[i+1:]
	}
	return arn
}
