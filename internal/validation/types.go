package validation

// CreateCustomerRequest is the payload for POST /customers.
type CreateCustomerRequest struct {
	Name            string `json:"name" validate:"required"`
	Surname         string `json:"surname"`
	Username        string `json:"username"`
	Email           string `json:"email" validate:"required,email"`
	ShippingAddress string `json:"shippingAddress"`
}

// UpdateCustomerRequest is the payload for PUT /customers/{id}.
// Nil fields mean "keep the stored value" (merge-before-write).
type UpdateCustomerRequest struct {
	Name            *string `json:"name" validate:"omitempty,min=1"`
	Surname         *string `json:"surname"`
	Username        *string `json:"username"`
	Email           *string `json:"email" validate:"omitempty,email"`
	ShippingAddress *string `json:"shippingAddress"`
	ETag            string  `json:"etag,omitempty"`
}

// ProductForm is the multipart payload for POST /products and PUT /products/{id}.
// The optional image file travels alongside as the "imageFile" part.
type ProductForm struct {
	ProductName       string  `form:"productName" validate:"required"`
	Description       string  `form:"description"`
	Price             float64 `form:"price" validate:"gte=0"`
	StockAvailable    int     `form:"stockAvailable" validate:"gte=0"`
	ImageURL          string  `form:"imageUrl" validate:"omitempty,url"`
	LowStockThreshold int     `form:"lowStockThreshold" validate:"gte=0"`
	ETag              string  `form:"etag"`
}

// CreateOrderRequest is the payload for POST /orders. The unit price is
// resolved server-side from the referenced product, never trusted from the client.
type CreateOrderRequest struct {
	CustomerID string `json:"customerId" validate:"required"`
	ProductID  string `json:"productId" validate:"required"`
	Quantity   int    `json:"quantity" validate:"required,min=1"`
}

// UpdateOrderStatusRequest is the payload for PATCH /orders/{id}/status.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Pending Processing Shipped Completed Cancelled"`
}
