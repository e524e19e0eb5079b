package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/abcretail/backoffice/internal/aws"
	"github.com/abcretail/backoffice/internal/messaging"
	"github.com/abcretail/backoffice/internal/orders"
	"github.com/abcretail/backoffice/internal/products"
	"github.com/abcretail/backoffice/internal/store"
	"github.com/abcretail/backoffice/internal/validation"
)

func registerOrderRoutes(
	r *gin.Engine,
	v *validatorv10.Validate,
	table *store.Table[orders.Order],
	productsTable *store.Table[products.Product],
	notifications *aws.Publisher,
	stockUpdates *aws.Publisher,
	metrics *aws.Metrics,
) {
	r.GET("/orders", func(c *gin.Context) {
		recs, err := table.List(c.Request.Context(), orders.Partition)
		if err != nil {
			storeError(c, err, "orders")
			return
		}
		dtos := make([]orders.DTO, 0, len(recs))
		for _, rec := range recs {
			dtos = append(dtos, orders.ToDTO(rec))
		}
		c.JSON(http.StatusOK, dtos)
	})

	r.GET("/orders/:id", func(c *gin.Context) {
		rec, err := table.Get(c.Request.Context(), orders.Partition, c.Param("id"))
		if err != nil {
			storeError(c, err, "order")
			return
		}
		c.JSON(http.StatusOK, orders.ToDTO(rec))
	})

	r.POST("/orders", func(c *gin.Context) {
		var req validation.CreateOrderRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		ctx := c.Request.Context()

		// Pricing requires the product; an unknown product id cannot be
		// priced and is a validation failure, not a store failure.
		// CustomerID is stored as supplied and never checked for existence.
		prod, err := productsTable.Get(ctx, products.Partition, req.ProductID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				fieldError(c, "productId", "unknown product")
				return
			}
			storeError(c, err, "product")
			return
		}

		rec, err := table.Create(ctx, orders.FromCreate(req, prod.Entity, time.Now()))
		if err != nil {
			storeError(c, err, "order")
			return
		}

		// The order is durable from here on. The queue sends are best-effort
		// side channels: a failed enqueue is logged, never rolled back, and
		// never fails the request.
		now := time.Now().UTC()
		notify := messaging.OrderNotification{
			MessageID:  uuid.NewString(),
			OrderID:    rec.Entity.ID,
			CustomerID: rec.Entity.CustomerID,
			ProductID:  rec.Entity.ProductID,
			Quantity:   rec.Entity.Quantity,
			TotalPrice: rec.Entity.TotalPrice,
			OrderDate:  rec.Entity.OrderDate,
		}
		if err := notifications.Publish(ctx, notify, map[string]string{
			"order_id":       rec.Entity.ID,
			"correlation_id": c.GetHeader("X-Request-Id"),
		}); err != nil {
			log.Printf("[api] order %s: notification enqueue failed: %v", rec.Entity.ID, err)
		}

		stock := messaging.StockUpdate{
			MessageID:   uuid.NewString(),
			ProductID:   rec.Entity.ProductID,
			ProductName: rec.Entity.ProductName,
			Delta:       -rec.Entity.Quantity,
			Timestamp:   now,
		}
		if err := stockUpdates.Publish(ctx, stock, map[string]string{
			"product_id": rec.Entity.ProductID,
		}); err != nil {
			log.Printf("[api] order %s: stock update enqueue failed: %v", rec.Entity.ID, err)
		}

		metrics.Count(ctx, "OrdersCreated", nil)

		c.Header("Location", "/orders/"+rec.Entity.ID)
		c.JSON(http.StatusCreated, orders.ToDTO(rec))
	})

	r.PATCH("/orders/:id/status", func(c *gin.Context) {
		var req validation.UpdateOrderStatusRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		ctx := c.Request.Context()
		current, err := table.Get(ctx, orders.Partition, c.Param("id"))
		if err != nil {
			storeError(c, err, "order")
			return
		}

		// Status-only transition: every other field is carried over from the
		// freshly read record, and the read version pins the write.
		next := current.Entity
		next.Status = req.Status

		rec, err := table.Update(ctx, next, current.Version)
		if err != nil {
			storeError(c, err, "order")
			return
		}
		c.JSON(http.StatusOK, orders.ToDTO(rec))
	})

	r.DELETE("/orders/:id", func(c *gin.Context) {
		if err := table.Delete(c.Request.Context(), orders.Partition, c.Param("id")); err != nil {
			storeError(c, err, "order")
			return
		}
		c.Status(http.StatusNoContent)
	})
}
