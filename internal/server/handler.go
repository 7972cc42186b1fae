package server

import (
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/mesh-intelligence/admindesk/internal/mockstore"
	"github.com/mesh-intelligence/admindesk/pkg/types"
)

type Handler struct {
	store *mockstore.Store
	log   *slog.Logger
}

func NewHandler(store *mockstore.Store, logger *slog.Logger) *Handler {
	return &Handler{store: store, log: logger}
}

func RegisterProductRoutes(app *fiber.App, h *Handler, middleware ...fiber.Handler) {
	products := app.Group("/api/products", middleware...)

	products.Get("/", h.ListProducts)
	products.Get("/:id", h.GetProduct)
	products.Post("/", h.CreateProduct)
	products.Patch("/:id", h.UpdateProduct)
	products.Delete("/:id", h.DeleteProduct)
}

// RegisterFixtureRoutes serves the bundled users.json, products.json and
// orders.json at the root.
func RegisterFixtureRoutes(app *fiber.App) {
	for _, name := range []string{types.UsersFixture, types.ProductsFixture, types.OrdersFixture} {
		app.Get("/"+name, func(c *fiber.Ctx) error {
			data, ok := mockstore.EmbeddedFixture(name)
			if !ok {
				return fiber.ErrNotFound
			}
			c.Type("json")
			return c.Send(data)
		})
	}
}

// productQuery reads page, limit, search, sortBy and sortOrder. A sort
// parameter in "name,-quantity" form overrides sortBy.
func productQuery(c *fiber.Ctx) (types.ProductQuery, error) {
	q := types.Query{
		SearchText: c.Query("search"),
		SortBy:     c.Query("sortBy"),
		Page:       c.QueryInt("page"),
		PageSize:   c.QueryInt("limit"),
	}
	order, err := types.ParseSortOrder(c.Query("sortOrder"))
	if err != nil {
		return types.ProductQuery{}, err
	}
	if q.SortBy != "" {
		q.SortOrder = order
	}
	if raw := c.Query("sort"); raw != "" {
		if q.Sort, err = types.ParseSortSpec(raw); err != nil {
			return types.ProductQuery{}, err
		}
	}
	return types.ProductQuery{Query: q}, nil
}

// --- Product Endpoints ---

func (h *Handler) ListProducts(c *fiber.Ctx) error {
	q, err := productQuery(c)
	if err != nil {
		return err
	}
	page, err := h.store.ListProducts(c.UserContext(), q)
	if err != nil {
		return err
	}
	return c.JSON(page)
}

func (h *Handler) GetProduct(c *fiber.Ctx) error {
	p, err := h.store.GetProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(p)
}

func (h *Handler) CreateProduct(c *fiber.Ctx) error {
	var req types.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return fmt.Errorf("%w: invalid JSON body", types.ErrValidation)
	}
	p, err := h.store.CreateProduct(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

func (h *Handler) UpdateProduct(c *fiber.Ctx) error {
	var req types.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return fmt.Errorf("%w: invalid JSON body", types.ErrValidation)
	}
	p, err := h.store.UpdateProduct(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(p)
}

func (h *Handler) DeleteProduct(c *fiber.Ctx) error {
	if err := h.store.DeleteProduct(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	h.log.Debug("product deleted over REST", "id", c.Params("id"))
	return c.SendStatus(fiber.StatusNoContent)
}
