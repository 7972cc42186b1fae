package api

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mesh-intelligence/admindesk/internal/mockstore"
	"github.com/mesh-intelligence/admindesk/pkg/types"
)

// Products serves product records, remote first.
type Products struct {
	store  *mockstore.Store
	remote *RemoteProducts
	log    *slog.Logger
}

// withFallback runs remote when a remote endpoint is configured and
// returns its result on success. Any remote error, including a non-2xx
// status, is logged and local answers instead.
func withFallback[T any](p *Products, op string, remote func(*RemoteProducts) (T, error), local func() (T, error)) (T, error) {
	if p.remote != nil {
		v, err := remote(p.remote)
		if err == nil {
			return v, nil
		}
		p.log.Warn("remote products unavailable, using store", "op", op, "error", err)
	}
	return local()
}

// List returns one page of products.
func (p *Products) List(ctx context.Context, q types.ProductQuery) (types.Page[types.Product], error) {
	return withFallback(p, "list",
		func(r *RemoteProducts) (types.Page[types.Product], error) { return r.List(ctx, q) },
		func() (types.Page[types.Product], error) { return p.store.ListProducts(ctx, q) })
}

// All returns every product from the store. The table view filters, sorts
// and pages this set itself.
func (p *Products) All(ctx context.Context) ([]types.Product, error) {
	return p.store.AllProducts(ctx)
}

// Get returns product id.
func (p *Products) Get(ctx context.Context, id string) (types.Product, error) {
	return withFallback(p, "get",
		func(r *RemoteProducts) (types.Product, error) { return r.Get(ctx, id) },
		func() (types.Product, error) { return p.store.GetProduct(ctx, id) })
}

// Create adds a product.
func (p *Products) Create(ctx context.Context, req types.CreateProductRequest) (types.Product, error) {
	if err := req.Validate(); err != nil {
		return types.Product{}, err
	}
	return withFallback(p, "create",
		func(r *RemoteProducts) (types.Product, error) { return r.Create(ctx, req) },
		func() (types.Product, error) { return p.store.CreateProduct(ctx, req) })
}

// Update applies a partial update to product id.
func (p *Products) Update(ctx context.Context, id string, req types.UpdateProductRequest) (types.Product, error) {
	if err := req.Validate(); err != nil {
		return types.Product{}, err
	}
	return withFallback(p, "update",
		func(r *RemoteProducts) (types.Product, error) { return r.Update(ctx, id, req) },
		func() (types.Product, error) { return p.store.UpdateProduct(ctx, id, req) })
}

// Delete removes product id.
func (p *Products) Delete(ctx context.Context, id string) error {
	_, err := withFallback(p, "delete",
		func(r *RemoteProducts) (struct{}, error) { return struct{}{}, r.Delete(ctx, id) },
		func() (struct{}, error) { return struct{}{}, p.store.DeleteProduct(ctx, id) })
	return err
}

// AdjustQuantity adds delta to the product quantity, clamping at zero.
// Against a remote endpoint this is a read followed by a PATCH; the store
// path adjusts under its own lock.
func (p *Products) AdjustQuantity(ctx context.Context, id string, delta int) (types.Product, error) {
	return withFallback(p, "adjust",
		func(r *RemoteProducts) (types.Product, error) {
			cur, err := r.Get(ctx, id)
			if err != nil {
				return types.Product{}, err
			}
			qty := types.ClampQuantity(cur.Quantity, delta)
			return r.Update(ctx, id, types.UpdateProductRequest{Quantity: &qty})
		},
		func() (types.Product, error) { return p.store.AdjustProductQuantity(ctx, id, delta) })
}

// Retire deletes product id once its quantity has reached zero.
func (p *Products) Retire(ctx context.Context, id string) error {
	cur, err := p.Get(ctx, id)
	if err != nil {
		return err
	}
	if cur.Quantity != 0 {
		return fmt.Errorf("product %s has quantity %d: %w", id, cur.Quantity, types.ErrInvalidState)
	}
	return p.Delete(ctx, id)
}
