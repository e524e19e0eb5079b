package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/abcretail/backoffice/internal/products"
	"github.com/abcretail/backoffice/internal/store"
	"github.com/abcretail/backoffice/internal/validation"
)

// FromCreate builds a new pending order. The unit price and product name are
// denormalized from the product at creation; the total is derived here and
// never independently mutated afterwards.
func FromCreate(req validation.CreateOrderRequest, product products.Product, now time.Time) Order {
	return Order{
		ID:          uuid.NewString(),
		CustomerID:  req.CustomerID,
		ProductID:   req.ProductID,
		ProductName: product.ProductName,
		Quantity:    req.Quantity,
		UnitPrice:   product.Price,
		TotalPrice:  product.Price * float64(req.Quantity),
		Status:      StatusPending,
		OrderDate:   now.UTC(),
	}
}

// ToDTO maps a stored record to the wire shape.
func ToDTO(rec *store.Record[Order]) DTO {
	return DTO{
		ID:                rec.Entity.ID,
		CustomerID:        rec.Entity.CustomerID,
		ProductID:         rec.Entity.ProductID,
		ProductName:       rec.Entity.ProductName,
		Quantity:          rec.Entity.Quantity,
		UnitPrice:         rec.Entity.UnitPrice,
		TotalPrice:        rec.Entity.TotalPrice,
		Status:            rec.Entity.Status,
		OrderDate:         rec.Entity.OrderDate,
		ProofOfPaymentURL: rec.Entity.ProofOfPaymentURL,
		ETag:              rec.ETag(),
	}
}
