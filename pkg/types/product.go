package types

import (
	"fmt"
	"strings"
)

// Product is an inventory item.
type Product struct {
	ID          string `json:"id" yaml:"id"` // "p-NNN", assigned by the store.
	Name        string `json:"name" yaml:"name"`
	Quantity    int    `json:"quantity" yaml:"quantity"` // Never negative.
	Description string `json:"description" yaml:"description"`
}

// Key returns the product identity.
func (p Product) Key() string { return p.ID }

// CreateProductRequest carries the fields of a new product.
type CreateProductRequest struct {
	Name        string `json:"name" yaml:"name"`
	Quantity    int    `json:"quantity" yaml:"quantity"`
	Description string `json:"description" yaml:"description"`
}

// Validate checks required fields.
func (r CreateProductRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if r.Quantity < 0 {
		return fmt.Errorf("%w: quantity must not be negative", ErrValidation)
	}
	return nil
}

// UpdateProductRequest is a partial update; nil fields are left unchanged.
type UpdateProductRequest struct {
	Name        *string `json:"name,omitempty" yaml:"name,omitempty"`
	Quantity    *int    `json:"quantity,omitempty" yaml:"quantity,omitempty"`
	Description *string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Validate checks the fields that are set.
func (r UpdateProductRequest) Validate() error {
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return fmt.Errorf("%w: name must not be empty", ErrValidation)
	}
	if r.Quantity != nil && *r.Quantity < 0 {
		return fmt.Errorf("%w: quantity must not be negative", ErrValidation)
	}
	return nil
}

// Apply merges the set fields into p.
func (r UpdateProductRequest) Apply(p *Product) {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Quantity != nil {
		p.Quantity = *r.Quantity
	}
	if r.Description != nil {
		p.Description = *r.Description
	}
}

// ProductQuery is the product list request.
type ProductQuery struct {
	Query
}

// ClampQuantity returns q+delta, never below zero.
func ClampQuantity(q, delta int) int {
	if n := q + delta; n > 0 {
		return n
	}
	return 0
}
