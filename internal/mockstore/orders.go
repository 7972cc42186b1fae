package mockstore

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/mesh-intelligence/admindesk/internal/query"
	"github.com/mesh-intelligence/admindesk/pkg/types"
)

// OrderSearchFields are matched by the free-text order search.
var OrderSearchFields = []string{"id", "account", "symbol", "description"}

// orderFields returns the readable columns of an order. Date and
// expiration read as timestamps in loc.
func orderFields(loc *time.Location) query.Fields[types.Order] {
	stamp := func(s string) any {
		t, err := types.ParseOrderDate(s, loc)
		if err != nil {
			return s
		}
		return t
	}
	return query.Fields[types.Order]{
		{Name: "id", Value: func(o types.Order) any { return o.ID }},
		{Name: "account", Value: func(o types.Order) any { return o.Account }},
		{Name: "operation", Value: func(o types.Order) any { return o.Operation }},
		{Name: "symbol", Value: func(o types.Order) any { return o.Symbol }},
		{Name: "description", Value: func(o types.Order) any { return o.Description }},
		{Name: "qty", Value: func(o types.Order) any { return o.Qty }},
		{Name: "filledQty", Value: func(o types.Order) any { return o.FilledQty }},
		{Name: "price", Value: func(o types.Order) any { return o.Price }},
		{Name: "status", Value: func(o types.Order) any { return o.Status }},
		{Name: "date", Value: func(o types.Order) any { return stamp(o.Date) }},
		{Name: "expiration", Value: func(o types.Order) any { return stamp(o.Expiration) }},
		{Name: "noRef", Value: func(o types.Order) any { return o.NoRef }},
		{Name: "extRef", Value: func(o types.Order) any { return o.ExtRef }},
		{Name: "netAmount", Value: func(o types.Order) any { return o.NetAmount }},
		{Name: "referenceNumber", Value: func(o types.Order) any { return o.ReferenceNumber }},
		{Name: "exchangeRate", Value: func(o types.Order) any { return o.ExchangeRate }},
		{Name: "telephone", Value: func(o types.Order) any { return o.Telephone }},
		{Name: "qisLimit", Value: func(o types.Order) any { return o.QisLimit }},
		{Name: "userId", Value: func(o types.Order) any { return o.UserID }},
	}
}

// dateBounds parses the inclusive search range. A bare end date covers the
// whole day. Zero bounds are open.
func (s *Store) dateBounds(req types.OrderSearchRequest) (from, to time.Time, err error) {
	if strings.TrimSpace(req.StartDate) != "" {
		if from, err = types.ParseOrderDate(req.StartDate, s.loc); err != nil {
			return from, to, err
		}
	}
	if end := strings.TrimSpace(req.EndDate); end != "" {
		if to, err = types.ParseOrderDate(end, s.loc); err != nil {
			return from, to, err
		}
		if len(end) == len("2006/01/02") {
			to = to.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
	}
	return from, to, nil
}

// SearchOrders filters by date range, status and text, sorts with dates
// compared as timestamps, and paginates (defaults 1 and 10).
func (s *Store) SearchOrders(ctx context.Context, req types.OrderSearchRequest) (types.Page[types.Order], error) {
	if err := req.Validate(); err != nil {
		return types.Page[types.Order]{}, err
	}
	from, to, err := s.dateBounds(req)
	if err != nil {
		return types.Page[types.Order]{}, err
	}
	if err := s.begin(ctx, OpSearchOrders); err != nil {
		return types.Page[types.Order]{}, err
	}
	defer s.mu.Unlock()
	s.ensureOrders(ctx)

	matched := make([]types.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if req.Status != "" && req.Status != types.FilterAll && o.Status != req.Status {
			continue
		}
		if !from.IsZero() || !to.IsZero() {
			d, err := types.ParseOrderDate(o.Date, s.loc)
			if err != nil {
				continue
			}
			if !from.IsZero() && d.Before(from) {
				continue
			}
			if !to.IsZero() && d.After(to) {
				continue
			}
		}
		matched = append(matched, cloneOrder(o))
	}

	q := types.Query{
		SearchText:   req.SearchText,
		SearchFields: OrderSearchFields,
		SortBy:       req.SortBy,
		SortOrder:    req.SortOrder,
	}
	q.Page, q.PageSize = defaultPage(req.Page, req.Limit)
	return query.Run(matched, orderFields(s.loc), q)
}

func cloneOrder(o types.Order) types.Order {
	o.Warnings = slices.Clone(o.Warnings)
	return o
}

func (s *Store) orderIndex(id string) int {
	return slices.IndexFunc(s.orders, func(o types.Order) bool { return o.ID == id })
}

// GetOrder returns the order with id.
func (s *Store) GetOrder(ctx context.Context, id string) (types.Order, error) {
	if err := s.begin(ctx, OpGetOrder); err != nil {
		return types.Order{}, err
	}
	defer s.mu.Unlock()
	s.ensureOrders(ctx)

	i := s.orderIndex(id)
	if i < 0 {
		return types.Order{}, fmt.Errorf("order %s: %w", id, types.ErrNotFound)
	}
	return cloneOrder(s.orders[i]), nil
}

// AcceptOrder moves a waiting order to Accepted.
func (s *Store) AcceptOrder(ctx context.Context, id string) (types.Order, error) {
	return s.decideOrder(ctx, id, (*types.Order).Accept)
}

// RejectOrder moves a waiting order to Rejected.
func (s *Store) RejectOrder(ctx context.Context, id string) (types.Order, error) {
	return s.decideOrder(ctx, id, (*types.Order).Reject)
}

func (s *Store) decideOrder(ctx context.Context, id string, transition func(*types.Order) error) (types.Order, error) {
	if err := s.begin(ctx, OpDecideOrder); err != nil {
		return types.Order{}, err
	}
	defer s.mu.Unlock()
	s.ensureOrders(ctx)

	i := s.orderIndex(id)
	if i < 0 {
		return types.Order{}, fmt.Errorf("order %s: %w", id, types.ErrNotFound)
	}
	o := cloneOrder(s.orders[i])
	if err := transition(&o); err != nil {
		return types.Order{}, err
	}
	next := slices.Clone(s.orders)
	next[i] = o
	if err := s.persist(ctx, types.OrdersKey, next); err != nil {
		return types.Order{}, err
	}
	s.orders = next
	s.log.Info("order decided", "entity", types.EntityOrders, "id", id, "status", o.Status)
	return cloneOrder(o), nil
}
