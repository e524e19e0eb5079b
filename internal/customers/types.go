package customers

// Partition is the table bucket every customer row lives under.
const Partition = "CUSTOMER"

// Customer is the stored shape. Store-managed fields (version, timestamps)
// are deliberately absent; the store owns them.
type Customer struct {
	ID              string `dynamodbav:"customer_id"`
	Name            string `dynamodbav:"name"`
	Surname         string `dynamodbav:"surname"`
	Username        string `dynamodbav:"username"`
	Email           string `dynamodbav:"email"`
	ShippingAddress string `dynamodbav:"shipping_address"`
}

// Keys implements store.Entity. The business id doubles as the row key.
func (c Customer) Keys() (string, string) { return Partition, c.ID }

// DTO is the wire shape exposed to API clients.
type DTO struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Surname         string `json:"surname"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	ShippingAddress string `json:"shippingAddress"`
	ETag            string `json:"etag"`
}
