package cli

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/admindesk/internal/api"
	"github.com/mesh-intelligence/admindesk/internal/mockstore"
	"github.com/mesh-intelligence/admindesk/internal/table"
	"github.com/mesh-intelligence/admindesk/pkg/types"
)

// Order columns render their own cells; the text listing never sorts or
// filters, so no fields are needed.
var orderColumns = []table.Column[types.Order]{
	{Key: "id", Header: "ID", Cell: func(o types.Order) string { return o.ID }},
	{Key: "date", Header: "Date", Cell: func(o types.Order) string { return o.Date }},
	{Key: "operation", Header: "Op", Cell: func(o types.Order) string { return o.Operation }},
	{Key: "symbol", Header: "Symbol", Cell: func(o types.Order) string { return o.Symbol }},
	{Key: "qty", Header: "Filled/Qty", Cell: func(o types.Order) string {
		return strconv.Itoa(o.FilledQty) + "/" + strconv.Itoa(o.Qty)
	}},
	{Key: "price", Header: "Price", Cell: func(o types.Order) string { return strconv.FormatFloat(o.Price, 'f', 2, 64) }},
	{Key: "status", Header: "Status", Cell: func(o types.Order) string { return o.Status }},
}

func orderFields(o types.Order) []field {
	return []field{
		{"ID", o.ID},
		{"Account", o.Account},
		{"Operation", o.Operation},
		{"Symbol", o.Symbol},
		{"Description", o.Description},
		{"Quantity", o.Qty},
		{"Filled", o.FilledQty},
		{"Price", o.Price},
		{"Status", o.Status},
		{"Date", o.Date},
		{"Expiration", o.Expiration},
		{"Net amount", o.NetAmount},
		{"Reference", o.ReferenceNumber},
		{"Warnings", strings.Join(o.Warnings, "; ")},
	}
}

func (s *session) emitOrder(cmd *cobra.Command, o types.Order) error {
	return s.emit(cmd, o, func(w io.Writer) error { return renderFields(w, orderFields(o)) })
}

func newOrdersCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Search and decide trading orders",
	}
	cmd.AddCommand(
		newOrdersSearchCmd(s),
		newOrdersGetCmd(s),
		newOrderDecisionCmd(s, "accept", "Accept a waiting order", func(o *api.Orders) decideFunc { return o.Accept }),
		newOrderDecisionCmd(s, "reject", "Reject a waiting order", func(o *api.Orders) decideFunc { return o.Reject }),
	)
	return cmd
}

func newOrdersSearchCmd(s *session) *cobra.Command {
	var (
		req       types.OrderSearchRequest
		sortOrder string
	)
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search orders by date range, status and text",
		Long: "Dates are inclusive and accept YYYY/MM/DD or YYYY-MM-DD. A bare end date\n" +
			"covers the whole day.",
		Example: `  admindesk orders search --from 2025/10/01 --to 2025/10/31 --status Waiting
  admindesk orders search --search tesla --sort-by date --sort-order desc`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := types.ParseSortOrder(sortOrder)
			if err != nil {
				return err
			}
			if req.SortBy != "" {
				req.SortOrder = order
			}
			f, err := s.open(cmd.Context())
			if err != nil {
				return err
			}
			page, err := f.Orders().Search(cmd.Context(), req)
			if err != nil {
				return err
			}
			return s.emit(cmd, page, func(w io.Writer) error {
				return renderPage(w, orderColumns, nil, types.Order.Key, page)
			})
		},
	}
	cmd.Flags().StringVar(&req.StartDate, "from", "", "first day, inclusive")
	cmd.Flags().StringVar(&req.EndDate, "to", "", "last day, inclusive")
	cmd.Flags().StringVar(&req.Status, "status", types.FilterAll, "Waiting, Filled, Cancelled, Rejected, Accepted or all")
	cmd.Flags().StringVar(&req.SearchText, "search", "", "matches id, account, symbol and description")
	cmd.Flags().StringVar(&req.SortBy, "sort-by", "", "field to sort by")
	cmd.Flags().StringVar(&sortOrder, "sort-order", string(types.Asc), "asc or desc")
	cmd.Flags().IntVar(&req.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&req.Limit, "limit", mockstore.DefaultPageSize, "page size")
	return cmd
}

func newOrdersGetCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := s.open(cmd.Context())
			if err != nil {
				return err
			}
			o, err := f.Orders().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return s.emitOrder(cmd, o)
		},
	}
}

// decideFunc is Orders.Accept or Orders.Reject.
type decideFunc = func(ctx context.Context, id string) (types.Order, error)

func newOrderDecisionCmd(s *session, use, short string, pick func(*api.Orders) decideFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := s.open(cmd.Context())
			if err != nil {
				return err
			}
			o, err := pick(f.Orders())(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return s.emitOrder(cmd, o)
		},
	}
}
