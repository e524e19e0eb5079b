package orders

import "time"

// Partition is the table bucket every order row lives under.
const Partition = "ORDER"

// Order statuses
const (
	StatusPending    = "Pending"
	StatusProcessing = "Processing"
	StatusShipped    = "Shipped"
	StatusCompleted  = "Completed"
	StatusCancelled  = "Cancelled"
)

// ValidStatus reports whether s is one of the order statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Order is the stored shape. CustomerID and ProductID are references only;
// the store does not verify they point at existing rows.
type Order struct {
	ID                string    `dynamodbav:"order_id"`
	CustomerID        string    `dynamodbav:"customer_id"`
	ProductID         string    `dynamodbav:"product_id"`
	ProductName       string    `dynamodbav:"product_name"`
	Quantity          int       `dynamodbav:"quantity"`
	UnitPrice         float64   `dynamodbav:"unit_price"`
	TotalPrice        float64   `dynamodbav:"total_price"`
	Status            string    `dynamodbav:"status"`
	OrderDate         time.Time `dynamodbav:"order_date"`
	ProofOfPaymentURL string    `dynamodbav:"proof_of_payment_url"`
}

// Keys implements store.Entity.
func (o Order) Keys() (string, string) { return Partition, o.ID }

// DTO is the wire shape exposed to API clients.
type DTO struct {
	ID                string    `json:"id"`
	CustomerID        string    `json:"customerId"`
	ProductID         string    `json:"productId"`
	ProductName       string    `json:"productName"`
	Quantity          int       `json:"quantity"`
	UnitPrice         float64   `json:"unitPrice"`
	TotalPrice        float64   `json:"totalPrice"`
	Status            string    `json:"status"`
	OrderDate         time.Time `json:"orderDate"`
	ProofOfPaymentURL string    `json:"proofOfPaymentUrl,omitempty"`
	ETag              string    `json:"etag"`
}
