// Package table is a presentation-independent data table. It keeps sort,
// filter, page, page size, expansion and selection state, each either owned
// by the table or delegated to the caller, and derives the visible rows by
// running filter, sort and paginate over the data it was given.
//
// A Table is not safe for concurrent use. It is driven by one owner in the
// style of a UI event loop.
package table

import (
	"slices"

	"github.com/mesh-intelligence/admindesk/internal/query"
	"github.com/mesh-intelligence/admindesk/pkg/types"
)

// DefaultPageSize is the page size of an owned page-size binding.
const DefaultPageSize = 10

// DefaultPageSizeOptions are offered when Options names none.
var DefaultPageSizeOptions = []int{10, 25, 50}

// Column describes one table column.
type Column[T any] struct {
	Key      string
	Header   string
	SortKey  string // Field used to sort and filter; Key when empty.
	Sortable bool
	Cell     func(T) string // Renders the cell; the field value when nil.
}

func (c Column[T]) field() string {
	if c.SortKey != "" {
		return c.SortKey
	}
	return c.Key
}

// Target is the element a row click landed on.
type Target string

const (
	TargetCell   Target = "cell"
	TargetButton Target = "button"
	TargetLink   Target = "link"
	TargetInput  Target = "input"
	TargetIcon   Target = "icon"
)

// Interactive reports whether clicks on t belong to the element rather
// than the row.
func (t Target) Interactive() bool {
	switch t {
	case TargetButton, TargetLink, TargetInput, TargetIcon:
		return true
	}
	return false
}

// Options configures a Table. A nil binding is owned by the table and
// starts empty, on page 1, or at DefaultPageSize.
type Options[T any] struct {
	Sort      *Binding[types.SortSpec]
	Filter    *Binding[string]
	Page      *Binding[int]
	PageSize  *Binding[int]
	Expanded  *Binding[string] // Identity of the expanded row; "" for none.
	Selection *Binding[[]string]

	// FilterFields are matched by the filter text. When empty, the sort
	// fields of the columns are used.
	FilterFields    []string
	Filterable      bool
	Paginated       bool
	SingleSort      bool // Modified header clicks behave like plain ones.
	Expandable      bool
	Selectable      bool
	PageSizeOptions []int
	Detail          func(T) string // Body of an expanded row.
}

// Table is the table state machine.
type Table[T any] struct {
	columns []Column[T]
	fields  query.Fields[T]
	id      func(T) string
	opts    Options[T]

	sort      *Binding[types.SortSpec]
	filter    *Binding[string]
	page      *Binding[int]
	pageSize  *Binding[int]
	expanded  *Binding[string]
	selection *Binding[[]string]

	data    []T
	loading bool
}

// New returns a table over columns. fields supplies the values the query
// pipeline reads; id returns the identity of a record.
func New[T any](columns []Column[T], fields query.Fields[T], id func(T) string, opts Options[T]) *Table[T] {
	t := &Table[T]{
		columns:   columns,
		fields:    fields,
		id:        id,
		opts:      opts,
		sort:      opts.Sort,
		filter:    opts.Filter,
		page:      opts.Page,
		pageSize:  opts.PageSize,
		expanded:  opts.Expanded,
		selection: opts.Selection,
	}
	if t.sort == nil {
		t.sort = Owned[types.SortSpec](nil)
	}
	if t.filter == nil {
		t.filter = Owned("")
	}
	if t.page == nil {
		t.page = Owned(1)
	}
	if t.pageSize == nil {
		t.pageSize = Owned(DefaultPageSize)
	}
	if t.expanded == nil {
		t.expanded = Owned("")
	}
	if t.selection == nil {
		t.selection = Owned[[]string](nil)
	}
	if len(t.opts.PageSizeOptions) == 0 {
		t.opts.PageSizeOptions = DefaultPageSizeOptions
	}
	return t
}

// SetData replaces the records. The table never modifies them.
func (t *Table[T]) SetData(data []T) { t.data = data }

// SetLoading toggles the loading placeholder.
func (t *Table[T]) SetLoading(loading bool) { t.loading = loading }

// PageSizeOptions returns the page sizes offered to the user.
func (t *Table[T]) PageSizeOptions() []int { return t.opts.PageSizeOptions }

func (t *Table[T]) column(key string) (Column[T], bool) {
	for _, c := range t.columns {
		if c.Key == key {
			return c, true
		}
	}
	return Column[T]{}, false
}

// ClickHeader handles activation of the header of column key. A plain
// click toggles the column when it is the primary key and otherwise makes
// it the only key, ascending. A modified click adds the column to the sort
// or flips it in place. Unknown and non-sortable columns are ignored.
func (t *Table[T]) ClickHeader(key string, modified bool) {
	c, ok := t.column(key)
	if !ok || !c.Sortable {
		return
	}
	spec := t.sort.Value()
	if modified && !t.opts.SingleSort {
		t.sort.set(spec.Extend(c.field()))
		return
	}
	t.sort.set(spec.Toggle(c.field()))
}

// SetFilterText changes the filter and returns to page 1 when the table
// is paginated.
func (t *Table[T]) SetFilterText(text string) {
	t.filter.set(text)
	if t.opts.Paginated {
		t.page.set(1)
	}
}

// SetPageSize changes the page size and returns to page 1. Sizes below 1
// are ignored.
func (t *Table[T]) SetPageSize(size int) {
	if size < 1 {
		return
	}
	t.pageSize.set(size)
	t.page.set(1)
}

// GoToPage moves to page n clamped to [1, total pages]. Nothing happens
// while loading or when the clamped page is the current one.
func (t *Table[T]) GoToPage(n int) {
	if t.loading || !t.opts.Paginated {
		return
	}
	n = min(max(n, 1), t.totalPages())
	if n == t.currentPage() {
		return
	}
	t.page.set(n)
}

// NextPage moves forward one page.
func (t *Table[T]) NextPage() { t.GoToPage(t.currentPage() + 1) }

// PrevPage moves back one page.
func (t *Table[T]) PrevPage() { t.GoToPage(t.currentPage() - 1) }

// ClickRow toggles expansion of row id unless the click landed on an
// interactive element.
func (t *Table[T]) ClickRow(id string, target Target) {
	if !t.opts.Expandable || target.Interactive() {
		return
	}
	if t.expanded.Value() == id {
		t.expanded.set("")
		return
	}
	t.expanded.set(id)
}

// ToggleRow adds id to the selection or removes it.
func (t *Table[T]) ToggleRow(id string) {
	sel := slices.Clone(t.selection.Value())
	if i := slices.Index(sel, id); i >= 0 {
		t.selection.set(slices.Delete(sel, i, i+1))
		return
	}
	t.selection.set(append(sel, id))
}

// SelectAll selects exactly the identities of the data set.
func (t *Table[T]) SelectAll() {
	ids := make([]string, len(t.data))
	for i, r := range t.data {
		ids[i] = t.id(r)
	}
	t.selection.set(ids)
}

// ClearSelection empties the selection.
func (t *Table[T]) ClearSelection() { t.selection.set([]string{}) }

// AllSelected reports whether every record is selected.
func (t *Table[T]) AllSelected() bool {
	return len(t.data) > 0 && len(t.selection.Value()) == len(t.data)
}

func (t *Table[T]) filterText() string {
	if !t.opts.Filterable {
		return ""
	}
	return t.filter.Value()
}

// filterFields resolves the searched fields, dropping column keys that
// have no readable field.
func (t *Table[T]) filterFields() []string {
	if len(t.opts.FilterFields) > 0 {
		return t.opts.FilterFields
	}
	names := make([]string, 0, len(t.columns))
	for _, c := range t.columns {
		if _, ok := t.fields.Lookup(c.field()); ok && !slices.Contains(names, c.field()) {
			names = append(names, c.field())
		}
	}
	return names
}

func (t *Table[T]) currentPage() int {
	if !t.opts.Paginated {
		return 1
	}
	return max(t.page.Value(), 1)
}

func (t *Table[T]) currentPageSize() int {
	if !t.opts.Paginated {
		return 0
	}
	return max(t.pageSize.Value(), 1)
}

func (t *Table[T]) filtered() ([]T, error) {
	return query.Filter(t.data, t.fields, t.filterText(), t.filterFields())
}

func (t *Table[T]) totalPages() int {
	rows, err := t.filtered()
	if err != nil {
		return 1
	}
	return types.TotalPages(len(rows), t.currentPageSize())
}
