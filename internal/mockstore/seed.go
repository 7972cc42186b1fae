package mockstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mesh-intelligence/admindesk/pkg/types"
)

var productNameBases = []string{"Nova", "Aero", "Terra", "Pulse", "Core", "Vertex", "Quantum", "Nimbus"}

var productDescriptionBases = []string{
	"High-performance unit",
	"Legacy component",
	"Eco-friendly part",
	"Industrial grade",
	"Compact model",
}

// bundledUsers returns the 32 seed users compiled into the binary.
func bundledUsers() []types.User {
	data, ok := EmbeddedFixture(types.UsersFixture)
	if !ok {
		return nil
	}
	var users []types.User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil
	}
	return users
}

// ensureUsers seeds the user set once: persisted records, then the users
// fixture, then the bundled seed. Caller holds s.mu.
func (s *Store) ensureUsers(ctx context.Context) {
	if s.usersReady {
		return
	}
	users := loadPersisted[types.User](ctx, s, types.UsersKey)
	if len(users) == 0 {
		users = loadFixture[types.User](ctx, s, types.UsersFixture)
		if len(users) == 0 {
			users = bundledUsers()
		}
		s.persistQuietly(ctx, types.UsersKey, users)
		s.log.Info("seeded users", "entity", types.EntityUsers, "count", len(users))
	}
	s.users = users
	s.nextUserID = 1
	for _, u := range users {
		if u.ID >= s.nextUserID {
			s.nextUserID = u.ID + 1
		}
	}
	s.usersReady = true
}

// fillerProducts generates products numbered from..to inclusive.
func fillerProducts(from, to int) []types.Product {
	var out []types.Product
	for i := from; i <= to; i++ {
		out = append(out, types.Product{
			ID:          productID(i),
			Name:        fmt.Sprintf("%s %d", productNameBases[i%len(productNameBases)], i),
			Quantity:    (i * 7) % 120,
			Description: fmt.Sprintf("%s #%d", productDescriptionBases[i%len(productDescriptionBases)], i),
		})
	}
	return out
}

func productID(n int) string {
	return fmt.Sprintf("p-%03d", n)
}

// productNumber extracts the digits of a product id; ids without digits
// count as 0.
func productNumber(id string) int {
	var b strings.Builder
	for _, r := range id {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	n, _ := strconv.Atoi(b.String())
	return n
}

// ensureProducts seeds the product set once: persisted records or the
// products fixture, topped up with filler when the set is small.
// Caller holds s.mu.
func (s *Store) ensureProducts(ctx context.Context) {
	if s.productsReady {
		return
	}
	products := loadPersisted[types.Product](ctx, s, types.ProductsKey)
	if len(products) == 0 {
		products = loadFixture[types.Product](ctx, s, types.ProductsFixture)
		s.persistQuietly(ctx, types.ProductsKey, products)
	}
	s.nextProduct = nextProductNumber(products)
	if len(products) < s.opts.MinProducts {
		// Filler continues after the highest id so survivors of earlier
		// deletes keep theirs.
		first := s.nextProduct
		extra := fillerProducts(first, first+s.opts.ProductTarget-len(products)-1)
		products = append(products, extra...)
		s.nextProduct = first + len(extra)
		s.persistQuietly(ctx, types.ProductsKey, products)
		s.log.Info("seeded filler products", "entity", types.EntityProducts, "count", len(extra))
	}
	s.products = products
	s.productsReady = true
}

// nextProductNumber is one past the highest numbered id in products.
func nextProductNumber(products []types.Product) int {
	next := 1
	for _, p := range products {
		if n := productNumber(p.ID); n >= next {
			next = n + 1
		}
	}
	return next
}

// orderWindow returns the span covered by a rebuild: from 09:00 on the
// first day of the month WindowMonths before now, to 23:59 on the last day
// of now's month. finalMonth is the first instant of now's month.
func (s *Store) orderWindow(now time.Time) (start, end, finalMonth time.Time) {
	finalMonth = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc)
	start = time.Date(now.Year(), now.Month()-time.Month(s.opts.WindowMonths), 1, 9, 0, 0, 0, s.loc)
	end = finalMonth.AddDate(0, 1, -1).Add(23*time.Hour + 59*time.Minute)
	return start, end, finalMonth
}

// latestOrderDate returns the newest parseable order date.
func (s *Store) latestOrderDate(orders []types.Order) time.Time {
	var latest time.Time
	for _, o := range orders {
		t, err := types.ParseOrderDate(o.Date, s.loc)
		if err == nil && t.After(latest) {
			latest = t
		}
	}
	return latest
}

// ordersFresh reports whether orders have the minimum size and a latest
// date inside the final month of the window.
func (s *Store) ordersFresh(count int, latest, now time.Time) bool {
	if count < s.opts.OrderCount || latest.IsZero() {
		return false
	}
	_, _, finalMonth := s.orderWindow(now)
	return !latest.Before(finalMonth) && latest.Before(finalMonth.AddDate(0, 1, 0))
}

// ensureOrders loads the order set once and rebuilds it whenever it is too
// small or stale for the current clock. Freshness uses the in-memory
// latest date. Caller holds s.mu.
func (s *Store) ensureOrders(ctx context.Context) {
	now := s.clock()
	if s.ordersReady && s.ordersFresh(len(s.orders), s.ordersLatest, now) {
		return
	}
	orders := s.orders
	if !s.ordersReady {
		orders = loadPersisted[types.Order](ctx, s, types.OrdersKey)
		if len(orders) == 0 {
			orders = loadFixture[types.Order](ctx, s, types.OrdersFixture)
		}
	}
	latest := s.latestOrderDate(orders)
	if !s.ordersFresh(len(orders), latest, now) {
		orders = s.rebuildOrders(orders, now)
		latest = s.latestOrderDate(orders)
		s.persistQuietly(ctx, types.OrdersKey, orders)
		s.log.Info("rebuilt orders", "entity", types.EntityOrders, "count", len(orders))
	}
	s.orders = orders
	s.ordersLatest = latest
	s.ordersReady = true
}

// orderTemplate is used when there are no existing orders to copy.
func orderTemplate() types.Order {
	return types.Order{
		ID:              "00000000",
		Account:         "00000000",
		Operation:       types.OperationBuy,
		Symbol:          "NA",
		Description:     "NATIONAL BANK OF CDA",
		Qty:             1,
		Price:           100,
		Status:          types.OrderWaiting,
		NoRef:           "00000000",
		ExtRef:          "2-XXXXXXX0-0",
		NetAmount:       "100.00 USD",
		ReferenceNumber: "1234567800",
		ExchangeRate:    "1.0000",
		Telephone:       "000-000-0000",
		QisLimit:        "100.0",
		Warnings:        []string{},
	}
}

// indexedOrder copies base and rewrites the identity fields of index i.
func indexedOrder(base types.Order, i int, date string) types.Order {
	o := base
	o.ID = fmt.Sprintf("%08d", i+1)
	o.Account = o.ID
	o.Date = date
	o.Expiration = date
	o.NoRef = strconv.Itoa(10000000 + i)
	o.ExtRef = fmt.Sprintf("2-XXXXXXX%d-%d", i/10+1, i%10+1)
	o.ReferenceNumber = strconv.Itoa(1234567800 + i)
	if o.UserID == "" {
		o.UserID = strconv.Itoa(12344000 + i)
	}
	o.Warnings = append([]string{}, base.Warnings...)
	return o
}

// rebuildOrders spreads OrderCount records evenly over the window, using
// source records as templates in rotation, then adds one order at 10:00
// for every day of the final month that has none at that time.
func (s *Store) rebuildOrders(source []types.Order, now time.Time) []types.Order {
	start, end, finalMonth := s.orderWindow(now)
	count := s.opts.OrderCount
	span := max(end.Sub(start), time.Hour)
	step := span / time.Duration(max(count-1, 1))

	base := func(i int) types.Order {
		if len(source) == 0 {
			return orderTemplate()
		}
		return source[i%len(source)]
	}

	result := make([]types.Order, 0, count+31)
	for i := 0; i < count; i++ {
		d := start.Add(step * time.Duration(i))
		if d.After(end) || i == count-1 {
			d = end
		}
		date := types.FormatOrderDate(d)
		result = append(result, indexedOrder(base(i), i, date))
	}

	seen := make(map[string]bool, len(result))
	for _, o := range result {
		seen[o.Date] = true
	}
	for day := 1; ; day++ {
		t := time.Date(finalMonth.Year(), finalMonth.Month(), day, 10, 0, 0, 0, s.loc)
		if t.Month() != finalMonth.Month() {
			break
		}
		date := types.FormatOrderDate(t)
		if seen[date] {
			continue
		}
		i := len(result)
		result = append(result, indexedOrder(base(i), i, date))
		seen[date] = true
	}
	return result
}
