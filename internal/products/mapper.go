package products

import (
	"github.com/google/uuid"

	"github.com/abcretail/backoffice/internal/store"
	"github.com/abcretail/backoffice/internal/validation"
)

// FromCreate maps a product form to a new entity, generating the id.
// imageURL is the blob URL of an uploaded attachment, if any; it wins over
// the form's imageUrl field.
func FromCreate(form validation.ProductForm, imageURL string) Product {
	if imageURL == "" {
		imageURL = form.ImageURL
	}
	return Product{
		ID:                uuid.NewString(),
		ProductName:       form.ProductName,
		Description:       form.Description,
		Price:             form.Price,
		StockAvailable:    form.StockAvailable,
		ImageURL:          imageURL,
		LowStockThreshold: form.LowStockThreshold,
	}
}

// Merge applies a product form over the current record. The form carries every
// scalar field, so those replace outright; the image URL falls back to the
// stored one when neither a new upload nor an explicit imageUrl was supplied.
func Merge(current Product, form validation.ProductForm, imageURL string) Product {
	merged := current
	merged.ProductName = form.ProductName
	merged.Description = form.Description
	merged.Price = form.Price
	merged.StockAvailable = form.StockAvailable
	merged.LowStockThreshold = form.LowStockThreshold
	switch {
	case imageURL != "":
		merged.ImageURL = imageURL
	case form.ImageURL != "":
		merged.ImageURL = form.ImageURL
	}
	return merged
}

// ToDTO maps a stored record to the wire shape.
func ToDTO(rec *store.Record[Product]) DTO {
	return DTO{
		ID:                rec.Entity.ID,
		ProductName:       rec.Entity.ProductName,
		Description:       rec.Entity.Description,
		Price:             rec.Entity.Price,
		StockAvailable:    rec.Entity.StockAvailable,
		ImageURL:          rec.Entity.ImageURL,
		LowStockThreshold: rec.Entity.LowStockThreshold,
		ETag:              rec.ETag(),
	}
}
