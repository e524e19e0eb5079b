// Package config resolves the deployment surface from the environment:
// table names, queue URLs and bucket names are externally supplied, never
// hard-coded in the core.
package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds every externally supplied name the binaries need.
type Config struct {
	CustomersTable string
	ProductsTable  string
	OrdersTable    string

	OrderNotificationsQueueURL string
	StockUpdatesQueueURL       string

	ProductImagesBucket string
	PaymentProofsBucket string
}

// Load reads the configuration from the environment. In local mode
// (RUN_LOCAL=true) a .env file is loaded first if present.
func Load() Config {
	if os.Getenv("RUN_LOCAL") == "true" {
		if err := godotenv.Load(); err != nil {
			log.Printf("no .env file loaded: %v", err)
		}
	}

	return Config{
		CustomersTable: getenv("TABLE_CUSTOMERS", "Customers"),
		ProductsTable:  getenv("TABLE_PRODUCTS", "Products"),
		OrdersTable:    getenv("TABLE_ORDERS", "Orders"),

		OrderNotificationsQueueURL: os.Getenv("QUEUE_ORDER_NOTIFICATIONS_URL"),
		StockUpdatesQueueURL:       os.Getenv("QUEUE_STOCK_UPDATES_URL"),

		ProductImagesBucket: getenv("BUCKET_PRODUCT_IMAGES", "product-images"),
		PaymentProofsBucket: getenv("BUCKET_PAYMENT_PROOFS", "payment-proofs"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
