// Package messaging defines the payloads that travel over the two queues.
// Delivery is at-least-once: every message carries a message_id so any future
// non-idempotent consumer side effect can dedupe on it.
package messaging

import "time"

// Queue names; the worker dispatches on the event source ARN suffix.
const (
	OrderNotificationsQueue = "order-notifications"
	StockUpdatesQueue       = "stock-updates"
)

// OrderNotification announces a newly created order for downstream fan-out
// (email, reporting). Consumers must tolerate duplicates.
type OrderNotification struct {
	MessageID  string    `json:"message_id"`
	OrderID    string    `json:"order_id"`
	CustomerID string    `json:"customer_id"`
	ProductID  string    `json:"product_id"`
	Quantity   int       `json:"quantity"`
	TotalPrice float64   `json:"total_price"`
	OrderDate  time.Time `json:"order_date"`
}

// StockUpdate carries a stock delta for downstream reconciliation.
// Delta is negative for an order draw-down.
type StockUpdate struct {
	MessageID   string    `json:"message_id"`
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name"`
	Delta       int       `json:"delta"`
	Timestamp   time.Time `json:"timestamp"`
}
