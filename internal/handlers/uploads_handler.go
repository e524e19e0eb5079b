package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abcretail/backoffice/internal/blob"
	"github.com/abcretail/backoffice/internal/orders"
	"github.com/abcretail/backoffice/internal/store"
)

func registerUploadRoutes(r *gin.Engine, ordersTable *store.Table[orders.Order], proofs *blob.Uploader) {
	r.POST("/uploads/proof-of-payment", func(c *gin.Context) {
		file, err := c.FormFile("proofOfPayment")
		if err != nil {
			fieldError(c, "proofOfPayment", "please select a file to upload")
			return
		}

		// Every rule runs before any blob or store I/O.
		if err := blob.CheckDocument("proofOfPayment", file.Filename, file.Size); err != nil {
			uploadError(c, err)
			return
		}

		src, err := file.Open()
		if err != nil {
			uploadError(c, err)
			return
		}
		defer src.Close()

		ctx := c.Request.Context()
		obj, err := proofs.Upload(ctx, file.Filename, file.Header.Get("Content-Type"), src, file.Size)
		if err != nil {
			uploadError(c, err)
			return
		}

		// Attaching the proof to its order is best-effort; the blob is
		// already durable and the caller still gets the stored file name.
		if orderID := c.PostForm("orderId"); orderID != "" {
			if err := attachProof(c, ordersTable, orderID, obj.URL); err != nil {
				log.Printf("[api] upload %s: attach to order %s failed: %v", obj.Key, orderID, err)
			}
		}

		c.JSON(http.StatusOK, gin.H{"fileName": obj.Key})
	})
}

func attachProof(c *gin.Context, table *store.Table[orders.Order], orderID, url string) error {
	ctx := c.Request.Context()
	current, err := table.Get(ctx, orders.Partition, orderID)
	if err != nil {
		return err
	}
	next := current.Entity
	next.ProofOfPaymentURL = url
	_, err = table.Update(ctx, next, current.Version)
	return err
}
