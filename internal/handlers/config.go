package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/abcretail/backoffice/internal/aws"
	"github.com/abcretail/backoffice/internal/blob"
	"github.com/abcretail/backoffice/internal/customers"
	"github.com/abcretail/backoffice/internal/orders"
	"github.com/abcretail/backoffice/internal/products"
	"github.com/abcretail/backoffice/internal/store"
	"github.com/abcretail/backoffice/internal/validation"
)

// HandlerConfig groups every dependency the API handlers need. The handle is
// built once at process start and injected; handlers never construct clients.
type HandlerConfig struct {
	DynamoDBClient aws.DynamoDBAPI
	SQSClient      aws.SQSAPI
	S3Client       aws.S3API
	Metrics        *aws.Metrics

	CustomersTable string
	ProductsTable  string
	OrdersTable    string

	OrderNotificationsQueueURL string
	StockUpdatesQueueURL       string

	ProductImagesBucket string
	PaymentProofsBucket string
}

// RegisterRoutes wires every API route group onto the engine.
func RegisterRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()

	customersTable := store.NewTable[customers.Customer](cfg.DynamoDBClient, cfg.CustomersTable)
	productsTable := store.NewTable[products.Product](cfg.DynamoDBClient, cfg.ProductsTable)
	ordersTable := store.NewTable[orders.Order](cfg.DynamoDBClient, cfg.OrdersTable)

	registerCustomerRoutes(r, v, customersTable)
	registerProductRoutes(r, v, productsTable, blob.NewUploader(cfg.S3Client, cfg.ProductImagesBucket))
	registerOrderRoutes(r, v, ordersTable, productsTable,
		aws.NewPublisher(cfg.SQSClient, cfg.OrderNotificationsQueueURL),
		aws.NewPublisher(cfg.SQSClient, cfg.StockUpdatesQueueURL),
		cfg.Metrics)
	registerUploadRoutes(r, ordersTable, blob.NewUploader(cfg.S3Client, cfg.PaymentProofsBucket))
}
