// Package mockstore is the synthetic backend of the admin console. A Store
// owns the user, product and order record sets, seeds them lazily from
// persisted data, fixtures or generated filler, and persists every mutation
// through a storage.KV.
package mockstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mesh-intelligence/admindesk/internal/storage"
	"github.com/mesh-intelligence/admindesk/pkg/types"
)

// Default corpus sizes and page settings.
const (
	DefaultMinProducts   = 80
	DefaultProductTarget = 100
	DefaultOrderCount    = 150
	DefaultWindowMonths  = 12
	DefaultPageSize      = 10
)

// Options configures a Store. Zero values pick the defaults.
type Options struct {
	Latency       Latency
	Fixtures      FixtureSource
	Now           func() time.Time
	Location      *time.Location // Zone of order dates; UTC when nil.
	Logger        *slog.Logger
	MinProducts   int // Below this many products, filler is appended.
	ProductTarget int // Filler stops at this many products.
	OrderCount    int // Evenly spread orders in a rebuild.
	WindowMonths  int // Months before the current one covered by orders.
}

// Store is the synthetic backend. All methods are safe for concurrent use;
// mutations of one entity set are serialized by a single mutex.
type Store struct {
	kv       storage.KV
	latency  Latency
	fixtures FixtureSource
	now      func() time.Time
	loc      *time.Location
	log      *slog.Logger
	opts     Options

	mu sync.Mutex

	users      []types.User
	nextUserID int
	usersReady bool

	products      []types.Product
	nextProduct   int
	productsReady bool

	orders       []types.Order
	ordersReady  bool
	ordersLatest time.Time
}

// New builds a Store over kv. Nothing is loaded until the first operation.
func New(kv storage.KV, opts Options) *Store {
	if opts.Fixtures == nil {
		opts.Fixtures = EmbeddedFixtures{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.MinProducts <= 0 {
		opts.MinProducts = DefaultMinProducts
	}
	if opts.ProductTarget <= 0 {
		opts.ProductTarget = DefaultProductTarget
	}
	if opts.OrderCount <= 0 {
		opts.OrderCount = DefaultOrderCount
	}
	if opts.WindowMonths <= 0 {
		opts.WindowMonths = DefaultWindowMonths
	}
	return &Store{
		kv:       kv,
		latency:  opts.Latency,
		fixtures: opts.Fixtures,
		now:      opts.Now,
		loc:      opts.Location,
		log:      opts.Logger,
		opts:     opts,
	}
}

// clock returns the current time in the store's zone.
func (s *Store) clock() time.Time {
	return s.now().In(s.loc)
}

// begin simulates latency, then takes the store lock. The caller must
// call s.mu.Unlock when begin returns nil.
func (s *Store) begin(ctx context.Context, op Op) error {
	if err := s.latency.wait(ctx, op); err != nil {
		return err
	}
	s.mu.Lock()
	return nil
}

// loadPersisted decodes the JSON array stored under key. A missing key, a
// storage failure or a corrupt blob all yield nil; only failures are logged.
func loadPersisted[T any](ctx context.Context, s *Store, key string) []T {
	data, err := s.kv.Get(ctx, key)
	if errors.Is(err, types.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		s.log.Warn("loading persisted records failed", "key", key, "error", err)
		return nil
	}
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		s.log.Warn("decoding persisted records failed", "key", key, "error", err)
		return nil
	}
	return out
}

// loadFixture decodes a fixture file. Failures are logged and yield nil.
func loadFixture[T any](ctx context.Context, s *Store, name string) []T {
	data, err := s.fixtures.Fetch(ctx, name)
	if err != nil {
		s.log.Warn("fetching fixture failed", "fixture", name, "error", err)
		return nil
	}
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		s.log.Warn("decoding fixture failed", "fixture", name, "error", err)
		return nil
	}
	return out
}

// persist writes records under key.
func (s *Store) persist(ctx context.Context, key string, records any) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if err := s.kv.Put(ctx, key, data); err != nil {
		return fmt.Errorf("%w: saving %s: %w", types.ErrTransientIO, key, err)
	}
	return nil
}

// persistQuietly is persist for seeding paths, where failures are logged
// and the in-memory set is kept.
func (s *Store) persistQuietly(ctx context.Context, key string, records any) {
	if err := s.persist(ctx, key, records); err != nil {
		s.log.Warn("persisting seeded records failed", "key", key, "error", err)
	}
}

// Init seeds every entity set.
func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureUsers(ctx)
	s.ensureProducts(ctx)
	s.ensureOrders(ctx)
	return ctx.Err()
}

// Counts reports the size of each entity set, seeding them if needed.
func (s *Store) Counts(ctx context.Context) (map[string]int, error) {
	if err := s.Init(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return map[string]int{
		types.EntityUsers:    len(s.users),
		types.EntityProducts: len(s.products),
		types.EntityOrders:   len(s.orders),
	}, nil
}

func defaultPage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return page, pageSize
}
