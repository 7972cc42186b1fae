// Package api is the data access facade used by the CLI and other callers.
//
// Users, orders and dashboard statistics are served by the synthetic store.
// Products prefer a remote REST endpoint when one is configured and fall
// back to the store on any remote failure, so callers see the same result
// shape whichever side answered.
package api

import (
	"context"
	"log/slog"

	"github.com/mesh-intelligence/admindesk/internal/mockstore"
	"github.com/mesh-intelligence/admindesk/pkg/types"
)

// Options configures a Facade.
type Options struct {
	// Remote, when non-nil, is tried first for every product call.
	Remote *RemoteProducts

	Logger *slog.Logger
}

// Facade groups the per-entity services.
type Facade struct {
	users    *Users
	products *Products
	orders   *Orders
	store    *mockstore.Store
}

// New returns a facade over store.
func New(store *mockstore.Store, opts Options) *Facade {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Facade{
		users:    &Users{store: store},
		products: &Products{store: store, remote: opts.Remote, log: logger},
		orders:   &Orders{store: store},
		store:    store,
	}
}

// Users returns the user service.
func (f *Facade) Users() *Users { return f.users }

// Products returns the product service.
func (f *Facade) Products() *Products { return f.products }

// Orders returns the order service.
func (f *Facade) Orders() *Orders { return f.orders }

// Dashboard returns the aggregate user statistics.
func (f *Facade) Dashboard(ctx context.Context) (types.DashboardStats, error) {
	return f.store.DashboardStats(ctx)
}

// Users serves user records from the store.
type Users struct {
	store *mockstore.Store
}

func (u *Users) List(ctx context.Context, q types.UserQuery) (types.Page[types.User], error) {
	return u.store.ListUsers(ctx, q)
}

func (u *Users) Get(ctx context.Context, id int) (types.User, error) {
	return u.store.GetUser(ctx, id)
}

func (u *Users) Create(ctx context.Context, req types.CreateUserRequest) (types.User, error) {
	return u.store.CreateUser(ctx, req)
}

func (u *Users) Update(ctx context.Context, id int, req types.UpdateUserRequest) (types.User, error) {
	return u.store.UpdateUser(ctx, id, req)
}

func (u *Users) Delete(ctx context.Context, id int) error {
	return u.store.DeleteUser(ctx, id)
}

// BulkDelete removes ids and reports how many existed.
func (u *Users) BulkDelete(ctx context.Context, ids []int) (int, error) {
	return u.store.BulkDeleteUsers(ctx, ids)
}

// BulkUpdateStatus sets status on ids and reports how many existed.
func (u *Users) BulkUpdateStatus(ctx context.Context, ids []int, status string) (int, error) {
	return u.store.BulkUpdateUserStatus(ctx, ids, status)
}

func (u *Users) UpdateProfile(ctx context.Context, req types.UpdateUserRequest) (types.User, error) {
	return u.store.UpdateProfile(ctx, req)
}

func (u *Users) ChangePassword(ctx context.Context, email, current, next string) error {
	return u.store.ChangePassword(ctx, email, current, next)
}

// Orders serves order records from the store.
type Orders struct {
	store *mockstore.Store
}

func (o *Orders) Search(ctx context.Context, req types.OrderSearchRequest) (types.Page[types.Order], error) {
	return o.store.SearchOrders(ctx, req)
}

func (o *Orders) Get(ctx context.Context, id string) (types.Order, error) {
	return o.store.GetOrder(ctx, id)
}

func (o *Orders) Accept(ctx context.Context, id string) (types.Order, error) {
	return o.store.AcceptOrder(ctx, id)
}

func (o *Orders) Reject(ctx context.Context, id string) (types.Order, error) {
	return o.store.RejectOrder(ctx, id)
}
