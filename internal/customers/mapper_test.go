package customers

import (
	"testing"

	"github.com/abcretail/backoffice/internal/validation"
)

func strptr(s string) *string { return &s }

func TestMerge(t *testing.T) {
	current := Customer{
		ID:              "c-1",
		Name:            "Ada",
		Surname:         "Lovelace",
		Email:           "ada@example.com",
		ShippingAddress: "12 Analytical Way",
	}

	merged := Merge(current, validation.UpdateCustomerRequest{
		Name:  strptr("Ada K"),
		Email: strptr("ada.k@example.com"),
	})

	if merged.Name != "Ada K" || merged.Email != "ada.k@example.com" {
		t.Errorf("supplied fields not applied: %+v", merged)
	}
	if merged.Surname != "Lovelace" || merged.ShippingAddress != "12 Analytical Way" {
		t.Errorf("unsupplied fields must survive: %+v", merged)
	}
	if merged.ID != "c-1" {
		t.Errorf("id must never change: %s", merged.ID)
	}
}

func TestMergeExplicitEmpty(t *testing.T) {
	current := Customer{ID: "c-1", ShippingAddress: "somewhere"}

	// an explicit empty string clears the field; an absent one keeps it
	merged := Merge(current, validation.UpdateCustomerRequest{ShippingAddress: strptr("")})
	if merged.ShippingAddress != "" {
		t.Errorf("explicit empty value must clear the field, got %q", merged.ShippingAddress)
	}
}

func TestFromCreateGeneratesID(t *testing.T) {
	a := FromCreate(validation.CreateCustomerRequest{Name: "A", Email: "a@b.co"})
	b := FromCreate(validation.CreateCustomerRequest{Name: "A", Email: "a@b.co"})
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("ids must be generated and unique: %q, %q", a.ID, b.ID)
	}
}
