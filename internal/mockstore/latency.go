package mockstore

import (
	"context"
	"time"
)

// Op names a store operation for latency lookup.
type Op string

// Store operations.
const (
	OpListUsers       Op = "users.list"
	OpGetUser         Op = "users.get"
	OpCreateUser      Op = "users.create"
	OpUpdateUser      Op = "users.update"
	OpDeleteUser      Op = "users.delete"
	OpBulkDeleteUsers Op = "users.bulk_delete"
	OpBulkUserStatus  Op = "users.bulk_status"
	OpDashboardStats  Op = "dashboard.stats"
	OpUpdateProfile   Op = "profile.update"
	OpChangePassword  Op = "profile.password"
	OpListProducts    Op = "products.list"
	OpGetProduct      Op = "products.get"
	OpCreateProduct   Op = "products.create"
	OpUpdateProduct   Op = "products.update"
	OpDeleteProduct   Op = "products.delete"
	OpAdjustProduct   Op = "products.adjust"
	OpSearchOrders    Op = "orders.search"
	OpGetOrder        Op = "orders.get"
	OpDecideOrder     Op = "orders.decide"
)

// Latency is the simulated network delay per operation. A nil map or a
// missing entry means no delay.
type Latency map[Op]time.Duration

// DefaultLatency returns the delays of a slow remote backend.
func DefaultLatency() Latency {
	ms := time.Millisecond
	return Latency{
		OpListUsers:       500 * ms,
		OpGetUser:         300 * ms,
		OpCreateUser:      600 * ms,
		OpUpdateUser:      500 * ms,
		OpDeleteUser:      400 * ms,
		OpBulkDeleteUsers: 600 * ms,
		OpBulkUserStatus:  500 * ms,
		OpDashboardStats:  400 * ms,
		OpUpdateProfile:   500 * ms,
		OpChangePassword:  600 * ms,
		OpListProducts:    400 * ms,
		OpGetProduct:      300 * ms,
		OpCreateProduct:   500 * ms,
		OpUpdateProduct:   400 * ms,
		OpDeleteProduct:   300 * ms,
		OpAdjustProduct:   400 * ms,
		OpSearchOrders:    500 * ms,
		OpGetOrder:        200 * ms,
		OpDecideOrder:     300 * ms,
	}
}

// Scaled multiplies every delay by f. f <= 0 yields no delay.
func (l Latency) Scaled(f float64) Latency {
	if f <= 0 {
		return nil
	}
	out := make(Latency, len(l))
	for op, d := range l {
		out[op] = time.Duration(float64(d) * f)
	}
	return out
}

// wait blocks for the delay of op or until ctx is done.
func (l Latency) wait(ctx context.Context, op Op) error {
	d := l[op]
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
