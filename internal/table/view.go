package table

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/mesh-intelligence/admindesk/internal/query"
	"github.com/mesh-intelligence/admindesk/pkg/types"
)

// Placeholder texts.
const (
	LoadingText = "Loading..."
	NoDataText  = "No data"
)

// Header is the rendered state of a column header.
type Header struct {
	Key       string
	Label     string
	Sortable  bool
	Direction types.SortOrder // Empty when the column is not sorted.
	Priority  int             // 1 for the primary key, 0 when not sorted.
}

// Row is one visible record.
type Row[T any] struct {
	ID       string
	Record   T
	Cells    []string
	Selected bool
	Expanded bool
	Detail   string
}

// View is a snapshot of everything a renderer needs.
type View[T any] struct {
	Headers []Header
	Rows    []Row[T]
	// Placeholder replaces the rows while loading or when nothing matches.
	Placeholder string

	FilterText  string
	Total       int // Records left after filtering.
	Page        int
	PageSize    int
	TotalPages  int
	Paginated   bool
	CanPrev     bool
	CanNext     bool
	Selectable  bool
	Selected    int
	AllSelected bool
}

// View derives the visible state. Rows are
// paginate(sort(filter(data))) for the effective bindings.
func (t *Table[T]) View() (View[T], error) {
	spec := t.sort.Value()
	v := View[T]{
		FilterText:  t.filterText(),
		Paginated:   t.opts.Paginated,
		Selectable:  t.opts.Selectable,
		Selected:    len(t.selection.Value()),
		AllSelected: t.AllSelected(),
	}
	for _, c := range t.columns {
		h := Header{Key: c.Key, Label: c.Header, Sortable: c.Sortable}
		if i := spec.Index(c.field()); i >= 0 && c.Sortable {
			h.Direction = spec[i].Order
			h.Priority = i + 1
		}
		v.Headers = append(v.Headers, h)
	}

	filtered, err := t.filtered()
	if err != nil {
		return View[T]{}, err
	}
	sorted, err := query.Sort(filtered, t.fields, spec)
	if err != nil {
		return View[T]{}, err
	}
	page := query.Paginate(sorted, t.currentPage(), t.currentPageSize())

	v.Total = page.Total
	v.Page = page.Page
	v.PageSize = page.PageSize
	v.TotalPages = page.TotalPages
	v.CanPrev = v.Paginated && !t.loading && v.Page > 1
	v.CanNext = v.Paginated && !t.loading && v.Page < v.TotalPages

	switch {
	case t.loading:
		v.Placeholder = LoadingText
		return v, nil
	case len(page.Data) == 0:
		v.Placeholder = NoDataText
		return v, nil
	}

	selected := t.selection.Value()
	expanded := t.expanded.Value()
	v.Rows = make([]Row[T], len(page.Data))
	for i, rec := range page.Data {
		id := t.id(rec)
		row := Row[T]{
			ID:       id,
			Record:   rec,
			Cells:    t.cells(rec),
			Selected: slices.Contains(selected, id),
			Expanded: t.opts.Expandable && expanded != "" && expanded == id,
		}
		if row.Expanded && t.opts.Detail != nil {
			row.Detail = t.opts.Detail(rec)
		}
		v.Rows[i] = row
	}
	return v, nil
}

func (t *Table[T]) cells(rec T) []string {
	out := make([]string, len(t.columns))
	for i, c := range t.columns {
		if c.Cell != nil {
			out[i] = c.Cell(rec)
			continue
		}
		if f, ok := t.fields.Lookup(c.field()); ok {
			out[i] = query.Format(f.Value(rec))
		}
	}
	return out
}

// label decorates a header with its sort arrow and, in a multi-key sort,
// its priority.
func (h Header) label(multi bool) string {
	var arrow string
	switch h.Direction {
	case types.Asc:
		arrow = "^"
	case types.Desc:
		arrow = "v"
	default:
		return h.Label
	}
	if multi {
		arrow += strconv.Itoa(h.Priority)
	}
	return h.Label + " " + arrow
}

func selectBox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

// Render writes an aligned text rendering of v followed by a row count,
// with the page position when paginated.
func (v View[T]) Render(w io.Writer) error {
	if err := v.RenderRows(w); err != nil {
		return err
	}
	var err error
	switch {
	case v.Paginated:
		_, err = fmt.Fprintf(w, "Page %d of %d, %d rows\n", v.Page, v.TotalPages, v.Total)
	default:
		_, err = fmt.Fprintf(w, "%d rows\n", v.Total)
	}
	return err
}

// RenderRows writes the header and rows of v without the footer.
func (v View[T]) RenderRows(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	multi := 0
	for _, h := range v.Headers {
		if h.Priority > 0 {
			multi++
		}
	}
	header := make([]string, 0, len(v.Headers)+1)
	if v.Selectable {
		switch {
		case v.AllSelected:
			header = append(header, "[x]")
		case v.Selected > 0:
			header = append(header, "[-]")
		default:
			header = append(header, "[ ]")
		}
	}
	for _, h := range v.Headers {
		header = append(header, h.label(multi > 1))
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	if v.Placeholder != "" {
		fmt.Fprintln(tw, v.Placeholder)
	}
	for _, r := range v.Rows {
		cells := r.Cells
		if v.Selectable {
			cells = append([]string{selectBox(r.Selected)}, cells...)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
		if r.Expanded && r.Detail != "" {
			pad := strings.Repeat("\t", max(len(cells)-1, 0))
			fmt.Fprintln(tw, pad+"> "+r.Detail)
		}
	}
	return tw.Flush()
}
