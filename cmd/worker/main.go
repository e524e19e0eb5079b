package main

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/abcretail/backoffice/internal/aws"
	"github.com/abcretail/backoffice/internal/messaging"
)

func main() {
	// If RUN_LOCAL=true, simulate a single order-notification event for local testing.
	if os.Getenv("RUN_LOCAL") == "true" {
		body := os.Getenv("LOCAL_SQS_BODY")
		if body == "" {
			body = `{"message_id":"local-msg-1","order_id":"local-order-1","customer_id":"local-cust-1","product_id":"local-prod-1","quantity":1,"total_price":9.99}`
		}
		event := events.SQSEvent{
			Records: []events.SQSMessage{
				{
					Body:           body,
					EventSourceARN: "arn:aws:sqs:local:000000000000:" + messaging.OrderNotificationsQueue,
				},
			},
		}
		p := NewProcessor(nil)
		if err := p.Handle(context.Background(), event); err != nil {
			log.Fatalf("local handler error: %v", err)
		}
		return
	}

	clients, err := aws.NewAWSClients(context.Background())
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	p := NewProcessor(aws.NewMetrics(clients.CloudWatch))
	lambda.Start(p.Handle)
}
