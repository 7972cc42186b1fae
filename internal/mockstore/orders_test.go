package mockstore

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/admindesk/pkg/types"
)

func allOrders(t *testing.T, s *Store, req types.OrderSearchRequest) types.Page[types.Order] {
	t.Helper()
	req.Limit = 1000
	page, err := s.SearchOrders(context.Background(), req)
	require.NoError(t, err)
	return page
}

func orderDays(orders []types.Order) map[string]int {
	days := make(map[string]int)
	for _, o := range orders {
		days[o.Date[:len("2006/01/02")]]++
	}
	return days
}

func TestOrderRebuildCoversFinalMonth(t *testing.T) {
	s, _, _ := setupStore(t)

	page := allOrders(t, s, types.OrderSearchRequest{})
	assert.GreaterOrEqual(t, page.Total, DefaultOrderCount)
	for _, o := range page.Data {
		assert.Len(t, o.ID, 8, "order ids are 8 digits")
		assert.Equal(t, o.ID, o.Account)
	}

	october := allOrders(t, s, types.OrderSearchRequest{StartDate: "2025/10/01", EndDate: "2025/10/31"})
	days := orderDays(october.Data)
	for day := 1; day <= 31; day++ {
		key := time.Date(2025, time.October, day, 0, 0, 0, 0, time.UTC).Format("2006/01/02")
		assert.Positive(t, days[key], "no order on %s", key)
	}

	first, err := types.ParseOrderDate(page.Data[0].Date, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.October, 1, 9, 0, 0, 0, time.UTC), first)
}

func TestSearchOrders(t *testing.T) {
	s, _, _ := setupStore(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		req   types.OrderSearchRequest
		check func(t *testing.T, page types.Page[types.Order])
	}{
		{
			name: "default page size",
			req:  types.OrderSearchRequest{},
			check: func(t *testing.T, page types.Page[types.Order]) {
				assert.Len(t, page.Data, DefaultPageSize)
				assert.Equal(t, 1, page.Page)
			},
		},
		{
			name: "bare end date is inclusive",
			req:  types.OrderSearchRequest{StartDate: "2025/10/31", EndDate: "2025/10/31"},
			check: func(t *testing.T, page types.Page[types.Order]) {
				assert.GreaterOrEqual(t, page.Total, 2)
				for _, o := range page.Data {
					assert.True(t, strings.HasPrefix(o.Date, "2025/10/31"), o.Date)
				}
			},
		},
		{
			name: "sort by date descending",
			req:  types.OrderSearchRequest{SortBy: "date", SortOrder: types.Desc, Limit: 2},
			check: func(t *testing.T, page types.Page[types.Order]) {
				require.Len(t, page.Data, 2)
				assert.Equal(t, "2025/10/31 23:59:00", page.Data[0].Date)
				assert.Equal(t, "2025/10/31 10:00:00", page.Data[1].Date)
			},
		},
		{
			name: "text search over id",
			req:  types.OrderSearchRequest{SearchText: "00000150"},
			check: func(t *testing.T, page types.Page[types.Order]) {
				require.Equal(t, 1, page.Total)
				assert.Equal(t, "00000150", page.Data[0].ID)
			},
		},
		{
			name: "text search over description",
			req:  types.OrderSearchRequest{SearchText: "tesla", Limit: 100},
			check: func(t *testing.T, page types.Page[types.Order]) {
				assert.Positive(t, page.Total)
				for _, o := range page.Data {
					assert.Equal(t, "TESLA INC", o.Description)
				}
			},
		},
		{
			name: "status with no matches",
			req:  types.OrderSearchRequest{Status: types.OrderFilled},
			check: func(t *testing.T, page types.Page[types.Order]) {
				assert.Equal(t, 0, page.Total)
				assert.NotNil(t, page.Data)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := s.SearchOrders(ctx, tt.req)
			require.NoError(t, err)
			tt.check(t, page)
		})
	}

	_, err := s.SearchOrders(ctx, types.OrderSearchRequest{StartDate: "yesterday"})
	assert.ErrorIs(t, err, types.ErrValidation)

	_, err = s.SearchOrders(ctx, types.OrderSearchRequest{Status: "waiting"})
	assert.ErrorIs(t, err, types.ErrValidation, "status is case-sensitive")
	waiting, err := s.SearchOrders(ctx, types.OrderSearchRequest{Status: types.OrderWaiting})
	require.NoError(t, err)
	assert.Positive(t, waiting.Total)
}

func TestOrderDecisions(t *testing.T) {
	s, kv, c := setupStore(t)
	ctx := context.Background()

	o, err := s.AcceptOrder(ctx, "00000001")
	require.NoError(t, err)
	assert.Equal(t, types.OrderAccepted, o.Status)

	_, err = s.AcceptOrder(ctx, "00000001")
	assert.ErrorIs(t, err, types.ErrInvalidState)
	_, err = s.RejectOrder(ctx, "00000001")
	assert.ErrorIs(t, err, types.ErrInvalidState)

	o, err = s.RejectOrder(ctx, "00000002")
	require.NoError(t, err)
	assert.Equal(t, types.OrderRejected, o.Status)

	_, err = s.AcceptOrder(ctx, "99999999")
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = s.GetOrder(ctx, "99999999")
	assert.ErrorIs(t, err, types.ErrNotFound)

	accepted := allOrders(t, s, types.OrderSearchRequest{Status: types.OrderAccepted})
	require.Equal(t, 1, accepted.Total)
	assert.Equal(t, "00000001", accepted.Data[0].ID)

	fresh := New(kv, Options{Now: c.Now, Logger: quietLogger()})
	got, err := fresh.GetOrder(ctx, "00000001")
	require.NoError(t, err)
	assert.Equal(t, types.OrderAccepted, got.Status, "a fresh persisted set is not rebuilt")
}

func TestOrdersRebuiltWhenMonthRollsOver(t *testing.T) {
	s, _, c := setupStore(t)

	before := allOrders(t, s, types.OrderSearchRequest{StartDate: "2025/11/01"})
	assert.Equal(t, 0, before.Total)

	c.Set(time.Date(2025, time.November, 5, 8, 0, 0, 0, time.UTC))
	november := allOrders(t, s, types.OrderSearchRequest{StartDate: "2025/11/01", EndDate: "2025/11/30"})
	assert.Len(t, orderDays(november.Data), 30)

	newest := allOrders(t, s, types.OrderSearchRequest{SortBy: "date", SortOrder: types.Desc})
	assert.Equal(t, "2025/11/30 23:59:00", newest.Data[0].Date)
}

func TestOrderReturnsCopy(t *testing.T) {
	s, _, _ := setupStore(t)
	ctx := context.Background()

	o, err := s.GetOrder(ctx, "00000001")
	require.NoError(t, err)
	require.NotEmpty(t, o.Warnings)
	o.Warnings[0] = "mutated"

	again, err := s.GetOrder(ctx, "00000001")
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", again.Warnings[0])
}
