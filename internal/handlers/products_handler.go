package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/abcretail/backoffice/internal/blob"
	"github.com/abcretail/backoffice/internal/products"
	"github.com/abcretail/backoffice/internal/store"
	"github.com/abcretail/backoffice/internal/validation"
)

func registerProductRoutes(r *gin.Engine, v *validatorv10.Validate, table *store.Table[products.Product], images *blob.Uploader) {
	r.GET("/products", func(c *gin.Context) {
		recs, err := table.List(c.Request.Context(), products.Partition)
		if err != nil {
			storeError(c, err, "products")
			return
		}
		dtos := make([]products.DTO, 0, len(recs))
		for _, rec := range recs {
			dtos = append(dtos, products.ToDTO(rec))
		}
		c.JSON(http.StatusOK, dtos)
	})

	r.GET("/products/:id", func(c *gin.Context) {
		rec, err := table.Get(c.Request.Context(), products.Partition, c.Param("id"))
		if err != nil {
			storeError(c, err, "product")
			return
		}
		c.JSON(http.StatusOK, products.ToDTO(rec))
	})

	r.POST("/products", func(c *gin.Context) {
		var form validation.ProductForm
		if err := validation.BindAndValidateForm(c, &form, v); err != nil {
			return
		}

		ctx := c.Request.Context()
		imageURL, ok := storeImage(c, ctx, images)
		if !ok {
			return
		}

		rec, err := table.Create(ctx, products.FromCreate(form, imageURL))
		if err != nil {
			storeError(c, err, "product")
			return
		}
		c.JSON(http.StatusCreated, products.ToDTO(rec))
	})

	r.PUT("/products/:id", func(c *gin.Context) {
		var form validation.ProductForm
		if err := validation.BindAndValidateForm(c, &form, v); err != nil {
			return
		}

		ctx := c.Request.Context()
		current, err := table.Get(ctx, products.Partition, c.Param("id"))
		if err != nil {
			storeError(c, err, "product")
			return
		}

		expected, err := expectedVersion(form.ETag, current.Version)
		if err != nil {
			storeError(c, err, "product")
			return
		}

		imageURL, ok := storeImage(c, ctx, images)
		if !ok {
			return
		}

		rec, err := table.Update(ctx, products.Merge(current.Entity, form, imageURL), expected)
		if err != nil {
			storeError(c, err, "product")
			return
		}
		c.JSON(http.StatusOK, products.ToDTO(rec))
	})

	r.DELETE("/products/:id", func(c *gin.Context) {
		if err := table.Delete(c.Request.Context(), products.Partition, c.Param("id")); err != nil {
			storeError(c, err, "product")
			return
		}
		c.Status(http.StatusNoContent)
	})
}

// storeImage validates and streams an optional "imageFile" attachment.
// The allow-list runs before any blob or store write; an absent file is not
// an error. Returns ok=false after writing a response.
func storeImage(c *gin.Context, ctx context.Context, images *blob.Uploader) (string, bool) {
	file, err := c.FormFile("imageFile")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", true
		}
		fieldError(c, "imageFile", "malformed file attachment")
		return "", false
	}

	if err := blob.CheckImage("imageFile", file.Filename, file.Size); err != nil {
		uploadError(c, err)
		return "", false
	}

	src, err := file.Open()
	if err != nil {
		uploadError(c, err)
		return "", false
	}
	defer src.Close()

	obj, err := images.Upload(ctx, file.Filename, file.Header.Get("Content-Type"), src, file.Size)
	if err != nil {
		uploadError(c, err)
		return "", false
	}
	return obj.URL, true
}
