package main

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
)

// handleS3Event fires once per new object in the product-images bucket.
// Delivery is at-least-once and the handler is read-only, so a repeated
// invocation for the same object is harmless. This is the hook point for
// derived processing (thumbnailing etc.).
func handleS3Event(ctx context.Context, ev events.S3Event) error {
	for _, rec := range ev.Records {
		obj := rec.S3.Object
		log.Printf("[ingest] product image uploaded: %s, size=%d bytes", obj.Key, obj.Size)
	}
	return nil
}

func main() {
	// If RUN_LOCAL=true, simulate a single object-created event for local testing.
	if os.Getenv("RUN_LOCAL") == "true" {
		event := events.S3Event{
			Records: []events.S3EventRecord{
				{
					S3: events.S3Entity{
						Bucket: events.S3Bucket{Name: "product-images"},
						Object: events.S3Object{Key: "local-image.png", Size: 1024},
					},
				},
			},
		}
		if err := handleS3Event(context.Background(), event); err != nil {
			log.Fatalf("local handler error: %v", err)
		}
		return
	}

	lambda.Start(handleS3Event)
}
