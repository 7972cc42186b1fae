package mockstore

import (
	"context"
	"fmt"
	"slices"

	"github.com/mesh-intelligence/admindesk/internal/query"
	"github.com/mesh-intelligence/admindesk/pkg/types"
)

// ProductFields are the readable columns of a product.
var ProductFields = query.Fields[types.Product]{
	{Name: "id", Value: func(p types.Product) any { return p.ID }},
	{Name: "name", Value: func(p types.Product) any { return p.Name }},
	{Name: "quantity", Value: func(p types.Product) any { return p.Quantity }},
	{Name: "description", Value: func(p types.Product) any { return p.Description }},
}

// ProductSearchFields are searched when a query names none.
var ProductSearchFields = []string{"name", "description"}

func (s *Store) productIndex(id string) int {
	return slices.IndexFunc(s.products, func(p types.Product) bool { return p.ID == id })
}

// ListProducts runs q over the product set. Page and page size default to
// 1 and 10.
func (s *Store) ListProducts(ctx context.Context, q types.ProductQuery) (types.Page[types.Product], error) {
	if err := s.begin(ctx, OpListProducts); err != nil {
		return types.Page[types.Product]{}, err
	}
	defer s.mu.Unlock()
	s.ensureProducts(ctx)

	qq := q.Query
	qq.Page, qq.PageSize = defaultPage(qq.Page, qq.PageSize)
	if len(qq.SearchFields) == 0 {
		qq.SearchFields = ProductSearchFields
	}
	return query.Run(s.products, ProductFields, qq)
}

// AllProducts returns a copy of the whole product set in store order.
func (s *Store) AllProducts(ctx context.Context) ([]types.Product, error) {
	if err := s.begin(ctx, OpListProducts); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	s.ensureProducts(ctx)
	return slices.Clone(s.products), nil
}

// GetProduct returns the product with id.
func (s *Store) GetProduct(ctx context.Context, id string) (types.Product, error) {
	if err := s.begin(ctx, OpGetProduct); err != nil {
		return types.Product{}, err
	}
	defer s.mu.Unlock()
	s.ensureProducts(ctx)

	i := s.productIndex(id)
	if i < 0 {
		return types.Product{}, fmt.Errorf("product %s: %w", id, types.ErrNotFound)
	}
	return s.products[i], nil
}

// CreateProduct assigns the next p-NNN id and puts the product first.
func (s *Store) CreateProduct(ctx context.Context, req types.CreateProductRequest) (types.Product, error) {
	if err := req.Validate(); err != nil {
		return types.Product{}, err
	}
	if err := s.begin(ctx, OpCreateProduct); err != nil {
		return types.Product{}, err
	}
	defer s.mu.Unlock()
	s.ensureProducts(ctx)

	p := types.Product{
		ID:          productID(s.nextProduct),
		Name:        req.Name,
		Quantity:    req.Quantity,
		Description: req.Description,
	}
	next := append([]types.Product{p}, s.products...)
	if err := s.persist(ctx, types.ProductsKey, next); err != nil {
		return types.Product{}, err
	}
	s.products = next
	s.nextProduct++
	s.log.Debug("product created", "entity", types.EntityProducts, "id", p.ID)
	return p, nil
}

// UpdateProduct merges the set fields of req into product id.
func (s *Store) UpdateProduct(ctx context.Context, id string, req types.UpdateProductRequest) (types.Product, error) {
	if err := req.Validate(); err != nil {
		return types.Product{}, err
	}
	if err := s.begin(ctx, OpUpdateProduct); err != nil {
		return types.Product{}, err
	}
	defer s.mu.Unlock()
	s.ensureProducts(ctx)

	return s.replaceProductLocked(ctx, id, func(p *types.Product) { req.Apply(p) })
}

// AdjustProductQuantity adds delta to the quantity of product id, clamping
// at zero. The read and write happen under one lock, so concurrent
// decrements never drive the quantity negative.
func (s *Store) AdjustProductQuantity(ctx context.Context, id string, delta int) (types.Product, error) {
	if err := s.begin(ctx, OpAdjustProduct); err != nil {
		return types.Product{}, err
	}
	defer s.mu.Unlock()
	s.ensureProducts(ctx)

	return s.replaceProductLocked(ctx, id, func(p *types.Product) {
		p.Quantity = types.ClampQuantity(p.Quantity, delta)
	})
}

func (s *Store) replaceProductLocked(ctx context.Context, id string, mutate func(*types.Product)) (types.Product, error) {
	i := s.productIndex(id)
	if i < 0 {
		return types.Product{}, fmt.Errorf("product %s: %w", id, types.ErrNotFound)
	}
	p := s.products[i]
	mutate(&p)

	next := slices.Clone(s.products)
	next[i] = p
	if err := s.persist(ctx, types.ProductsKey, next); err != nil {
		return types.Product{}, err
	}
	s.products = next
	s.log.Debug("product updated", "entity", types.EntityProducts, "id", id, "quantity", p.Quantity)
	return p, nil
}

// DeleteProduct removes product id.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	if err := s.begin(ctx, OpDeleteProduct); err != nil {
		return err
	}
	defer s.mu.Unlock()
	s.ensureProducts(ctx)

	i := s.productIndex(id)
	if i < 0 {
		return fmt.Errorf("product %s: %w", id, types.ErrNotFound)
	}
	next := slices.Delete(slices.Clone(s.products), i, i+1)
	if err := s.persist(ctx, types.ProductsKey, next); err != nil {
		return err
	}
	s.products = next
	s.log.Debug("product deleted", "entity", types.EntityProducts, "id", id)
	return nil
}
