package products

// Partition is the table bucket every product row lives under.
const Partition = "PRODUCT"

// Product is the stored shape.
type Product struct {
	ID                string  `dynamodbav:"product_id"`
	ProductName       string  `dynamodbav:"product_name"`
	Description       string  `dynamodbav:"description"`
	Price             float64 `dynamodbav:"price"`
	StockAvailable    int     `dynamodbav:"stock_available"`
	ImageURL          string  `dynamodbav:"image_url"`
	LowStockThreshold int     `dynamodbav:"low_stock_threshold"`
}

// Keys implements store.Entity.
func (p Product) Keys() (string, string) { return Partition, p.ID }

// DTO is the wire shape exposed to API clients.
type DTO struct {
	ID                string  `json:"id"`
	ProductName       string  `json:"productName"`
	Description       string  `json:"description"`
	Price             float64 `json:"price"`
	StockAvailable    int     `json:"stockAvailable"`
	ImageURL          string  `json:"imageUrl,omitempty"`
	LowStockThreshold int     `json:"lowStockThreshold"`
	ETag              string  `json:"etag"`
}
