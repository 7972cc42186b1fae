package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/admindesk/internal/mockstore"
	"github.com/mesh-intelligence/admindesk/internal/table"
	"github.com/mesh-intelligence/admindesk/pkg/types"
)

var productColumns = []table.Column[types.Product]{
	{Key: "id", Header: "ID", Sortable: true},
	{Key: "name", Header: "Name", Sortable: true},
	{Key: "qty", Header: "Qty", SortKey: "quantity", Sortable: true},
	{Key: "description", Header: "Description", Sortable: true},
}

func productFields(p types.Product) []field {
	return []field{
		{"ID", p.ID},
		{"Name", p.Name},
		{"Quantity", p.Quantity},
		{"Description", p.Description},
	}
}

func productDetail(p types.Product) string {
	return fmt.Sprintf("%s: %d in stock. %s", p.Name, p.Quantity, p.Description)
}

func (s *session) emitProduct(cmd *cobra.Command, p types.Product) error {
	return s.emit(cmd, p, func(w io.Writer) error { return renderFields(w, productFields(p)) })
}

func newProductsCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Manage the product inventory",
		Long: "Product commands go to the remote endpoint when remote.base_url is set\n" +
			"and fall back to the local store when it is unreachable.",
	}
	cmd.AddCommand(
		newProductsListCmd(s),
		newProductsGetCmd(s),
		newProductsCreateCmd(s),
		newProductsUpdateCmd(s),
		newProductsDeleteCmd(s),
		newProductsAdjustCmd(s),
		newProductsRetireCmd(s),
		newProductsTableCmd(s),
	)
	return cmd
}

func newProductsListCmd(s *session) *cobra.Command {
	var lf listFlags
	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List products",
		Example: `  admindesk products list --search nimbus --sort quantity,-name`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := lf.query()
			if err != nil {
				return err
			}
			f, err := s.open(cmd.Context())
			if err != nil {
				return err
			}
			page, err := f.Products().List(cmd.Context(), types.ProductQuery{Query: q})
			if err != nil {
				return err
			}
			return s.emit(cmd, page, func(w io.Writer) error {
				return renderPage(w, productColumns, mockstore.ProductFields, types.Product.Key, page)
			})
		},
	}
	lf.register(cmd)
	return cmd
}

func newProductsGetCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := s.open(cmd.Context())
			if err != nil {
				return err
			}
			p, err := f.Products().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return s.emitProduct(cmd, p)
		},
	}
}

func newProductsCreateCmd(s *session) *cobra.Command {
	var req types.CreateProductRequest
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := s.open(cmd.Context())
			if err != nil {
				return err
			}
			p, err := f.Products().Create(cmd.Context(), req)
			if err != nil {
				return err
			}
			return s.emitProduct(cmd, p)
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "product name")
	cmd.Flags().IntVar(&req.Quantity, "quantity", 0, "units in stock")
	cmd.Flags().StringVar(&req.Description, "description", "", "free-form description")
	return cmd
}

func newProductsUpdateCmd(s *session) *cobra.Command {
	var (
		name, description string
		quantity          int
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update fields of a product",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		var req types.UpdateProductRequest
		if cmd.Flags().Changed("name") {
			req.Name = &name
		}
		if cmd.Flags().Changed("quantity") {
			req.Quantity = &quantity
		}
		if cmd.Flags().Changed("description") {
			req.Description = &description
		}
		f, err := s.open(cmd.Context())
		if err != nil {
			return err
		}
		p, err := f.Products().Update(cmd.Context(), args[0], req)
		if err != nil {
			return err
		}
		return s.emitProduct(cmd, p)
	}
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().IntVar(&quantity, "quantity", 0, "new quantity")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	return cmd
}

func newProductsDeleteCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := s.open(cmd.Context())
			if err != nil {
				return err
			}
			if err := f.Products().Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			return s.emit(cmd, map[string]string{"deleted": args[0]}, message("Deleted product %s", args[0]))
		},
	}
}

func newProductsAdjustCmd(s *session) *cobra.Command {
	var delta int
	cmd := &cobra.Command{
		Use:   "adjust <id>",
		Short: "Add to or take from the stock of a product",
		Long:  "Adjust changes the quantity by --by. The quantity never drops below zero.",
		Example: `  admindesk products adjust p-001 --by 5
  admindesk products adjust p-001 --by -3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := s.open(cmd.Context())
			if err != nil {
				return err
			}
			p, err := f.Products().AdjustQuantity(cmd.Context(), args[0], delta)
			if err != nil {
				return err
			}
			return s.emitProduct(cmd, p)
		},
	}
	cmd.Flags().IntVar(&delta, "by", 1, "quantity delta, negative to take stock")
	return cmd
}

func newProductsRetireCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "retire <id>",
		Short: "Delete a product whose stock is used up",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := s.open(cmd.Context())
			if err != nil {
				return err
			}
			if err := f.Products().Retire(cmd.Context(), args[0]); err != nil {
				return err
			}
			return s.emit(cmd, map[string]string{"retired": args[0]}, message("Retired product %s", args[0]))
		},
	}
}

// tableFlags drive the client-side table over the full product set.
type tableFlags struct {
	filter   string
	sort     string
	page     int
	pageSize int
	expand   string
	selected []string
}

// productTable builds the client-side table for tf over products.
func productTable(tf tableFlags, products []types.Product) (*table.Table[types.Product], error) {
	var spec types.SortSpec
	if tf.sort != "" {
		var err error
		if spec, err = types.ParseSortSpec(tf.sort); err != nil {
			return nil, err
		}
	}
	t := table.New(productColumns, mockstore.ProductFields, types.Product.Key, table.Options[types.Product]{
		Sort:       table.Owned(spec),
		Expanded:   table.Owned(tf.expand),
		Selection:  table.Owned(tf.selected),
		Filterable: true,
		Paginated:  true,
		Expandable: true,
		Selectable: len(tf.selected) > 0,
		Detail:     productDetail,
	})
	t.SetData(products)
	t.SetFilterText(strings.TrimSpace(tf.filter))
	if tf.pageSize > 0 {
		t.SetPageSize(tf.pageSize)
	}
	t.GoToPage(tf.page)
	return t, nil
}

func newProductsTableCmd(s *session) *cobra.Command {
	var tf tableFlags
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Page through every product in a client-side table",
		Long: "Table loads the whole product set once and filters, sorts and pages it\n" +
			"locally. Filtering resets to page 1; out-of-range pages are clamped.",
		Example: `  admindesk products table --filter nimbus --sort quantity,-name --page 2
  admindesk products table --expand p-001 --select p-001,p-002`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := s.open(cmd.Context())
			if err != nil {
				return err
			}
			products, err := f.Products().All(cmd.Context())
			if err != nil {
				return err
			}
			t, err := productTable(tf, products)
			if err != nil {
				return err
			}
			view, err := t.View()
			if err != nil {
				return err
			}

			page := types.Page[types.Product]{
				Data:       make([]types.Product, 0, len(view.Rows)),
				Total:      view.Total,
				Page:       view.Page,
				PageSize:   view.PageSize,
				TotalPages: view.TotalPages,
			}
			for _, r := range view.Rows {
				page.Data = append(page.Data, r.Record)
			}
			return s.emit(cmd, page, view.Render)
		},
	}
	cmd.Flags().StringVar(&tf.filter, "filter", "", "filter text matched against every column")
	cmd.Flags().StringVar(&tf.sort, "sort", "", `sort keys, e.g. "quantity,-name"`)
	cmd.Flags().IntVar(&tf.page, "page", 1, "page to show")
	cmd.Flags().IntVar(&tf.pageSize, "page-size", table.DefaultPageSize, "rows per page")
	cmd.Flags().StringVar(&tf.expand, "expand", "", "product id whose detail row is shown")
	cmd.Flags().StringSliceVar(&tf.selected, "select", nil, "product ids to mark selected")
	return cmd
}
