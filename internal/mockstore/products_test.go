package mockstore

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/admindesk/pkg/types"
)

func TestProductSeeding(t *testing.T) {
	s, _, _ := setupStore(t)
	ctx := context.Background()

	page, err := s.ListProducts(ctx, types.ProductQuery{Query: types.Query{PageSize: 200}})
	require.NoError(t, err)
	require.Equal(t, 100, page.Total)
	assert.Equal(t, "p-001", page.Data[0].ID, "fixture records come first")

	filler, err := s.GetProduct(ctx, "p-013")
	require.NoError(t, err)
	assert.Equal(t, types.Product{ID: "p-013", Name: "Vertex 13", Quantity: 91, Description: "Industrial grade #13"}, filler)

	last, err := s.GetProduct(ctx, "p-100")
	require.NoError(t, err)
	assert.Equal(t, "Core 100", last.Name)
	assert.Equal(t, 100, last.Quantity)
}

func TestFillerProducts(t *testing.T) {
	got := fillerProducts(1, 3)
	assert.Equal(t, []types.Product{
		{ID: "p-001", Name: "Aero 1", Quantity: 7, Description: "Legacy component #1"},
		{ID: "p-002", Name: "Terra 2", Quantity: 14, Description: "Eco-friendly part #2"},
		{ID: "p-003", Name: "Pulse 3", Quantity: 21, Description: "Industrial grade #3"},
	}, got)
	assert.Empty(t, fillerProducts(101, 100))
}

func TestListProducts(t *testing.T) {
	s, _, _ := setupStore(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		query     types.Query
		wantTotal int
		check     func(t *testing.T, page types.Page[types.Product])
	}{
		{
			name:      "search matches name or description",
			query:     types.Query{SearchText: "keyboard"},
			wantTotal: 1,
		},
		{
			name:      "search is case-insensitive",
			query:     types.Query{SearchText: "NIMBUS"},
			wantTotal: 11,
		},
		{
			name:      "sort by quantity descending",
			query:     types.Query{SortBy: "quantity", SortOrder: types.Desc, PageSize: 3},
			wantTotal: 100,
			check: func(t *testing.T, page types.Page[types.Product]) {
				require.Len(t, page.Data, 3)
				assert.Equal(t, 120, page.Data[0].Quantity)
				assert.GreaterOrEqual(t, page.Data[1].Quantity, page.Data[2].Quantity)
			},
		},
		{
			name:      "multi-key sort",
			query:     types.Query{Sort: types.SortSpec{{Field: "quantity", Order: types.Asc}, {Field: "name", Order: types.Asc}}, PageSize: 2},
			wantTotal: 100,
			check: func(t *testing.T, page types.Page[types.Product]) {
				assert.Equal(t, 0, page.Data[0].Quantity)
				assert.Equal(t, 0, page.Data[1].Quantity)
				assert.LessOrEqual(t, page.Data[0].Name, page.Data[1].Name)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := s.ListProducts(ctx, types.ProductQuery{Query: tt.query})
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, page.Total)
			if tt.check != nil {
				tt.check(t, page)
			}
		})
	}
}

func TestProductCRUD(t *testing.T) {
	s, _, _ := setupStore(t)
	ctx := context.Background()

	p, err := s.CreateProduct(ctx, types.CreateProductRequest{Name: "Cable Tie", Quantity: 5, Description: "Pack of 100"})
	require.NoError(t, err)
	assert.Equal(t, "p-101", p.ID)

	page, err := s.ListProducts(ctx, types.ProductQuery{})
	require.NoError(t, err)
	assert.Equal(t, "p-101", page.Data[0].ID, "new products are prepended")
	assert.Equal(t, 101, page.Total)

	updated, err := s.UpdateProduct(ctx, p.ID, types.UpdateProductRequest{Description: ptr("Pack of 50")})
	require.NoError(t, err)
	assert.Equal(t, "Cable Tie", updated.Name)
	assert.Equal(t, "Pack of 50", updated.Description)

	_, err = s.UpdateProduct(ctx, "p-999", types.UpdateProductRequest{Name: ptr("x")})
	assert.ErrorIs(t, err, types.ErrNotFound)

	_, err = s.CreateProduct(ctx, types.CreateProductRequest{Name: "Bad", Quantity: -1})
	assert.ErrorIs(t, err, types.ErrValidation)

	require.NoError(t, s.DeleteProduct(ctx, p.ID))
	_, err = s.GetProduct(ctx, p.ID)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.ErrorIs(t, s.DeleteProduct(ctx, p.ID), types.ErrNotFound)
}

func TestAdjustProductQuantityClampsAtZero(t *testing.T) {
	s, _, _ := setupStore(t)
	ctx := context.Background()

	p, err := s.CreateProduct(ctx, types.CreateProductRequest{Name: "Scarce", Quantity: 3})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.AdjustProductQuantity(ctx, p.ID, -1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := s.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Quantity)

	got, err = s.AdjustProductQuantity(ctx, p.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Quantity)

	_, err = s.AdjustProductQuantity(ctx, "p-999", -1)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestAllProductsReturnsCopy(t *testing.T) {
	s, _, _ := setupStore(t)
	ctx := context.Background()

	all, err := s.AllProducts(ctx)
	require.NoError(t, err)
	require.Len(t, all, 100)
	all[0].Name = "mutated"

	p, err := s.GetProduct(ctx, all[0].ID)
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", p.Name)
}

func TestFillerTopUpKeepsIDsUnique(t *testing.T) {
	s, kv, c := setupStore(t)
	ctx := context.Background()

	for i := 1; i <= 21; i++ {
		require.NoError(t, s.DeleteProduct(ctx, productID(i)))
	}

	fresh := New(kv, Options{Now: c.Now, Logger: quietLogger()})
	products, err := fresh.AllProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 100)

	seen := make(map[string]bool, len(products))
	for _, p := range products {
		assert.False(t, seen[p.ID], "duplicate id %s", p.ID)
		seen[p.ID] = true
	}
	assert.True(t, seen["p-022"])
	assert.True(t, seen["p-121"], "filler continues after the highest id")
	assert.False(t, seen["p-001"])

	next, err := fresh.CreateProduct(ctx, types.CreateProductRequest{Name: "Widget"})
	require.NoError(t, err)
	assert.Equal(t, "p-122", next.ID)
}
