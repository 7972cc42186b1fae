package mockstore

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/admindesk/internal/storage"
	"github.com/mesh-intelligence/admindesk/pkg/types"
)

var testNow = time.Date(2025, time.October, 18, 12, 0, 0, 0, time.UTC)

// clock is a settable time source for tests.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// setupStore returns a store over a fresh in-memory KV with no latency.
func setupStore(t *testing.T) (*Store, *storage.Memory, *clock) {
	t.Helper()
	kv := storage.NewMemory()
	c := &clock{now: testNow}
	s := New(kv, Options{Now: c.Now, Logger: quietLogger()})
	return s, kv, c
}

// failingKV fails every call.
type failingKV struct{}

var errDiskGone = errors.New("disk gone")

func (failingKV) Get(context.Context, string) ([]byte, error) { return nil, errDiskGone }
func (failingKV) Put(context.Context, string, []byte) error { return errDiskGone }
func (failingKV) Delete(context.Context, string) error { return errDiskGone }
func (failingKV) Close() error { return nil }

// failingFixtures fails every fetch.
type failingFixtures struct{}

func (failingFixtures) Fetch(context.Context, string) ([]byte, error) {
	return nil, types.ErrTransientIO
}

func TestInitSwallowsIOFailures(t *testing.T) {
	s := New(failingKV{}, Options{Fixtures: failingFixtures{}, Now: func() time.Time { return testNow }, Logger: quietLogger()})
	ctx := context.Background()

	page, err := s.ListUsers(ctx, types.UserQuery{})
	require.NoError(t, err)
	assert.Equal(t, 32, page.Total, "bundled seed users are used")

	products, err := s.ListProducts(ctx, types.ProductQuery{})
	require.NoError(t, err)
	assert.Equal(t, DefaultProductTarget, products.Total, "filler fills an empty product set")

	orders, err := s.SearchOrders(ctx, types.OrderSearchRequest{})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, orders.Total, DefaultOrderCount)

	_, err = s.CreateUser(ctx, types.CreateUserRequest{Name: "New", Email: "new@example.com", Role: types.RoleUser})
	require.ErrorIs(t, err, types.ErrTransientIO, "mutations report persistence failures")

	page, err = s.ListUsers(ctx, types.UserQuery{})
	require.NoError(t, err)
	assert.Equal(t, 32, page.Total, "failed mutation leaves the set unchanged")
}

func TestCorruptBlobIsReseeded(t *testing.T) {
	s, kv, _ := setupStore(t)
	ctx := context.Background()
	require.NoError(t, kv.Put(ctx, types.UsersKey, []byte("{not json")))

	page, err := s.ListUsers(ctx, types.UserQuery{})
	require.NoError(t, err)
	assert.Equal(t, 32, page.Total)
}

func TestPersistedStateSurvivesNewStore(t *testing.T) {
	s, kv, c := setupStore(t)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, types.CreateUserRequest{Name: "Zed", Email: "zed@example.com", Role: types.RoleUser})
	require.NoError(t, err)
	p, err := s.CreateProduct(ctx, types.CreateProductRequest{Name: "Widget", Quantity: 2})
	require.NoError(t, err)

	fresh := New(kv, Options{Now: c.Now, Logger: quietLogger()})
	got, err := fresh.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Zed", got.Name)

	gotP, err := fresh.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Widget", gotP.Name)

	next, err := fresh.CreateProduct(ctx, types.CreateProductRequest{Name: "Gadget"})
	require.NoError(t, err)
	assert.Equal(t, "p-102", next.ID, "identity counter resumes from the max id")
}

func TestLatencyHonoursContext(t *testing.T) {
	s := New(storage.NewMemory(), Options{
		Latency: Latency{OpListUsers: time.Hour},
		Logger:  quietLogger(),
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.ListUsers(ctx, types.UserQuery{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLatencyScaled(t *testing.T) {
	l := DefaultLatency()
	half := l.Scaled(0.5)
	assert.Equal(t, 250*time.Millisecond, half[OpListUsers])
	assert.Nil(t, l.Scaled(0))
}

func TestHTTPFixtures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/seed/users.json":
			w.Write([]byte(`[{"id":7,"name":"Remote Rita","email":"rita@example.com","role":"user","status":"active"}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	src := FixturesFromConfig(types.FixturesConfig{BaseURL: srv.URL + "/seed"})
	s := New(storage.NewMemory(), Options{Fixtures: src, Logger: quietLogger()})
	ctx := context.Background()

	page, err := s.ListUsers(ctx, types.UserQuery{})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, "Remote Rita", page.Data[0].Name)

	_, err = src.Fetch(ctx, types.OrdersFixture)
	assert.ErrorIs(t, err, types.ErrTransientIO, "non-2xx is a fixture failure")
}

func TestDirFixtures(t *testing.T) {
	src := FixturesFromConfig(types.FixturesConfig{Dir: "fixtures"})
	data, err := src.Fetch(context.Background(), types.ProductsFixture)
	require.NoError(t, err)
	assert.Contains(t, string(data), "p-001")

	_, err = src.Fetch(context.Background(), "missing.json")
	assert.ErrorIs(t, err, types.ErrTransientIO)
}

func TestCounts(t *testing.T) {
	s, _, _ := setupStore(t)
	counts, err := s.Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 32, counts[types.EntityUsers])
	assert.Equal(t, 100, counts[types.EntityProducts])
	assert.GreaterOrEqual(t, counts[types.EntityOrders], DefaultOrderCount)
}
