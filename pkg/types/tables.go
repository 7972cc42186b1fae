package types

// Durable storage keys, one per entity collection.
const (
	UsersKey    = "mockUsers"
	ProductsKey = "mockProducts"
	OrdersKey   = "mockOrders"
)

// Static fixture resource names fetched on first initialization.
const (
	UsersFixture    = "users.json"
	ProductsFixture = "products.json"
	OrdersFixture   = "orders.json"
)

// Entity names used in logs and CLI output.
const (
	EntityUsers    = "users"
	EntityProducts = "products"
	EntityOrders   = "orders"
)

// StandardEntities lists the entity collections for enumeration.
var StandardEntities = []string{
	EntityUsers,
	EntityProducts,
	EntityOrders,
}
