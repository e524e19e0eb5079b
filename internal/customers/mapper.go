package customers

import (
	"github.com/google/uuid"

	"github.com/abcretail/backoffice/internal/store"
	"github.com/abcretail/backoffice/internal/validation"
)

// FromCreate maps a create request to a new entity, generating the id.
func FromCreate(req validation.CreateCustomerRequest) Customer {
	return Customer{
		ID:              uuid.NewString(),
		Name:            req.Name,
		Surname:         req.Surname,
		Username:        req.Username,
		Email:           req.Email,
		ShippingAddress: req.ShippingAddress,
	}
}

// Merge fills unsupplied request fields from the current record
// (merge-before-write); the store itself replaces whole records.
func Merge(current Customer, req validation.UpdateCustomerRequest) Customer {
	merged := current
	if req.Name != nil {
		merged.Name = *req.Name
	}
	if req.Surname != nil {
		merged.Surname = *req.Surname
	}
	if req.Username != nil {
		merged.Username = *req.Username
	}
	if req.Email != nil {
		merged.Email = *req.Email
	}
	if req.ShippingAddress != nil {
		merged.ShippingAddress = *req.ShippingAddress
	}
	return merged
}

// ToDTO maps a stored record to the wire shape.
func ToDTO(rec *store.Record[Customer]) DTO {
	return DTO{
		ID:              rec.Entity.ID,
		Name:            rec.Entity.Name,
		Surname:         rec.Entity.Surname,
		Username:        rec.Entity.Username,
		Email:           rec.Entity.Email,
		ShippingAddress: rec.Entity.ShippingAddress,
		ETag:            rec.ETag(),
	}
}
