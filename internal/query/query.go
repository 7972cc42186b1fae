package query

import (
	"fmt"
	"slices"
	"strings"

	"github.com/mesh-intelligence/admindesk/pkg/types"
)

// Filter keeps the records where any of the named fields, stringified and
// lower-cased, contains the lower-cased text. No names means every field.
// Empty text returns records unchanged. Input order is preserved.
func Filter[T any](records []T, fields Fields[T], text string, names []string) ([]T, error) {
	selected, err := fields.Select(names)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return records, nil
	}

	f := newFolder()
	needle := f.fold(text)
	out := make([]T, 0, len(records))
	for _, r := range records {
		for _, field := range selected {
			if strings.Contains(f.fold(Format(field.Value(r))), needle) {
				out = append(out, r)
				break
			}
		}
	}
	return out, nil
}

// Sort returns a stably sorted copy of records. The first key with unequal
// values decides; descending keys invert the comparison; full ties keep
// input order. An empty spec returns the records unchanged.
func Sort[T any](records []T, fields Fields[T], spec types.SortSpec) ([]T, error) {
	if len(spec) == 0 {
		return records, nil
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	keyFields := make(Fields[T], len(spec))
	for i, k := range spec {
		f, ok := fields.Lookup(k.Field)
		if !ok {
			return nil, fmt.Errorf("%w: %s", types.ErrUnknownField, k.Field)
		}
		keyFields[i] = f
	}

	type row struct {
		rec  T
		keys []value
	}
	f := newFolder()
	rows := make([]row, len(records))
	for i, r := range records {
		keys := make([]value, len(keyFields))
		for j, kf := range keyFields {
			keys[j] = f.sortKey(kf.Value(r))
		}
		rows[i] = row{rec: r, keys: keys}
	}

	slices.SortStableFunc(rows, func(a, b row) int {
		for i, k := range spec {
			if c := compare(a.keys[i], b.keys[i]); c != 0 {
				if k.Desc() {
					return -c
				}
				return c
			}
		}
		return 0
	})

	out := make([]T, len(rows))
	for i, r := range rows {
		out[i] = r.rec
	}
	return out, nil
}

// Paginate slices one page out of records. Page <= 0 means page 1 and
// pageSize <= 0 puts every record on a single page, reported with a page
// size of max(total, 1). The page is not
// clamped: past the end the data is empty and the totals are kept.
func Paginate[T any](records []T, page, pageSize int) types.Page[T] {
	total := len(records)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		data := make([]T, total)
		copy(data, records)
		return types.Page[T]{Data: data, Total: total, Page: page, PageSize: max(total, 1), TotalPages: 1}
	}

	result := types.Page[T]{
		Data:       []T{},
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: types.TotalPages(total, pageSize),
	}
	start := (page - 1) * pageSize
	if start >= total {
		return result
	}
	end := min(start+pageSize, total)
	result.Data = make([]T, end-start)
	copy(result.Data, records[start:end])
	return result
}

// Run applies filter, then sort, then paginate.
func Run[T any](records []T, fields Fields[T], q types.Query) (types.Page[T], error) {
	filtered, err := Filter(records, fields, q.SearchText, q.SearchFields)
	if err != nil {
		return types.Page[T]{}, err
	}
	sorted, err := Sort(filtered, fields, q.SortSpec())
	if err != nil {
		return types.Page[T]{}, err
	}
	return Paginate(sorted, q.Page, q.PageSize), nil
}
