package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/abcretail/backoffice/internal/customers"
	"github.com/abcretail/backoffice/internal/store"
	"github.com/abcretail/backoffice/internal/validation"
)

func registerCustomerRoutes(r *gin.Engine, v *validatorv10.Validate, table *store.Table[customers.Customer]) {
	r.GET("/customers", func(c *gin.Context) {
		recs, err := table.List(c.Request.Context(), customers.Partition)
		if err != nil {
			storeError(c, err, "customers")
			return
		}
		dtos := make([]customers.DTO, 0, len(recs))
		for _, rec := range recs {
			dtos = append(dtos, customers.ToDTO(rec))
		}
		c.JSON(http.StatusOK, dtos)
	})

	r.GET("/customers/:id", func(c *gin.Context) {
		rec, err := table.Get(c.Request.Context(), customers.Partition, c.Param("id"))
		if err != nil {
			storeError(c, err, "customer")
			return
		}
		c.JSON(http.StatusOK, customers.ToDTO(rec))
	})

	r.POST("/customers", func(c *gin.Context) {
		var req validation.CreateCustomerRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			// BindAndValidate already wrote a 400
			return
		}

		rec, err := table.Create(c.Request.Context(), customers.FromCreate(req))
		if err != nil {
			storeError(c, err, "customer")
			return
		}
		c.JSON(http.StatusCreated, customers.ToDTO(rec))
	})

	r.PUT("/customers/:id", func(c *gin.Context) {
		var req validation.UpdateCustomerRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		ctx := c.Request.Context()
		current, err := table.Get(ctx, customers.Partition, c.Param("id"))
		if err != nil {
			storeError(c, err, "customer")
			return
		}

		expected, err := expectedVersion(req.ETag, current.Version)
		if err != nil {
			storeError(c, err, "customer")
			return
		}

		rec, err := table.Update(ctx, customers.Merge(current.Entity, req), expected)
		if err != nil {
			storeError(c, err, "customer")
			return
		}
		c.JSON(http.StatusOK, customers.ToDTO(rec))
	})

	r.DELETE("/customers/:id", func(c *gin.Context) {
		if err := table.Delete(c.Request.Context(), customers.Partition, c.Param("id")); err != nil {
			storeError(c, err, "customer")
			return
		}
		c.Status(http.StatusNoContent)
	})
}
