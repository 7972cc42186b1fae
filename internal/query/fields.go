// Package query implements the filter, sort and paginate pipeline shared by
// the synthetic store and the table component. Records are arbitrary Go
// values; a Fields list names the columns the pipeline may read.
package query

import (
	"fmt"

	"github.com/mesh-intelligence/admindesk/pkg/types"
)

// Field maps a column name to an accessor. Value returns a scalar: a
// string, any integer or float kind, bool, time.Time, or nil.
type Field[T any] struct {
	Name  string
	Value func(T) any
}

// Fields is the ordered set of readable columns of a record type.
type Fields[T any] []Field[T]

// Lookup returns the field called name.
func (fs Fields[T]) Lookup(name string) (Field[T], bool) {
	for _, f := range fs {
		if f.Name == name {
			return f, true
		}
	}
	return Field[T]{}, false
}

// Names returns the field names in declaration order.
func (fs Fields[T]) Names() []string {
	names := make([]string, len(fs))
	for i, f := range fs {
		names[i] = f.Name
	}
	return names
}

// Select resolves names to fields. An empty list selects every field.
func (fs Fields[T]) Select(names []string) (Fields[T], error) {
	if len(names) == 0 {
		return fs, nil
	}
	out := make(Fields[T], 0, len(names))
	for _, n := range names {
		f, ok := fs.Lookup(n)
		if !ok {
			return nil, fmt.Errorf("%w: %s", types.ErrUnknownField, n)
		}
		out = append(out, f)
	}
	return out, nil
}
