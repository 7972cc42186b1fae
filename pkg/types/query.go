package types

import (
	"fmt"
	"strings"
)

// SortOrder is the direction of a sort key.
type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// Flip returns the opposite direction.
func (o SortOrder) Flip() SortOrder {
	if o == Desc {
		return Asc
	}
	return Desc
}

// ParseSortOrder accepts "asc", "desc" or the empty string (ascending).
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc":
		return Asc, nil
	case "desc":
		return Desc, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSortOrder, s)
	}
}

// SortKey is one (field, direction) entry of a sort specification.
type SortKey struct {
	Field string    `json:"field" yaml:"field"`
	Order SortOrder `json:"order" yaml:"order"`
}

// Desc reports whether the key sorts descending.
func (k SortKey) Desc() bool { return k.Order == Desc }

// SortSpec is an ordered multi-column sort. The first entry is the primary
// key; later entries break ties in order. A field appears at most once.
type SortSpec []SortKey

// Validate checks that no field appears twice and every order is known.
func (s SortSpec) Validate() error {
	seen := make(map[string]bool, len(s))
	for _, k := range s {
		if seen[k.Field] {
			return fmt.Errorf("%w: %s", ErrDuplicateSortField, k.Field)
		}
		seen[k.Field] = true
		if k.Order != Asc && k.Order != Desc {
			return fmt.Errorf("%w: %q", ErrInvalidSortOrder, k.Order)
		}
	}
	return nil
}

// Primary returns the first sort key, if any.
func (s SortSpec) Primary() (SortKey, bool) {
	if len(s) == 0 {
		return SortKey{}, false
	}
	return s[0], true
}

// Index returns the position of field in the spec or -1.
func (s SortSpec) Index(field string) int {
	for i, k := range s {
		if k.Field == field {
			return i
		}
	}
	return -1
}

// Contains reports whether field is part of the spec.
func (s SortSpec) Contains(field string) bool { return s.Index(field) >= 0 }

// Direction returns the order of field and false when it is not sorted.
func (s SortSpec) Direction(field string) (SortOrder, bool) {
	if i := s.Index(field); i >= 0 {
		return s[i].Order, true
	}
	return "", false
}

// Toggle applies a plain header activation: the primary field flips
// direction and becomes the only key; any other field becomes the sole
// ascending key.
func (s SortSpec) Toggle(field string) SortSpec {
	if p, ok := s.Primary(); ok && p.Field == field {
		return SortSpec{{Field: field, Order: p.Order.Flip()}}
	}
	return SortSpec{{Field: field, Order: Asc}}
}

// Extend applies a modified header activation: an existing entry flips in
// place, a new field is appended ascending. Other entries are kept.
func (s SortSpec) Extend(field string) SortSpec {
	next := make(SortSpec, len(s), len(s)+1)
	copy(next, s)
	if i := next.Index(field); i >= 0 {
		next[i].Order = next[i].Order.Flip()
		return next
	}
	return append(next, SortKey{Field: field, Order: Asc})
}

// String renders the spec in the "name,-quantity" form read by ParseSortSpec.
func (s SortSpec) String() string {
	parts := make([]string, len(s))
	for i, k := range s {
		if k.Desc() {
			parts[i] = "-" + k.Field
		} else {
			parts[i] = k.Field
		}
	}
	return strings.Join(parts, ",")
}

// ParseSortSpec parses a comma separated list of fields; a leading '-'
// means descending and a leading '+' is ignored.
func ParseSortSpec(s string) (SortSpec, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var spec SortSpec
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key := SortKey{Field: part, Order: Asc}
		switch part[0] {
		case '-':
			key = SortKey{Field: part[1:], Order: Desc}
		case '+':
			key.Field = part[1:]
		}
		if key.Field == "" {
			return nil, fmt.Errorf("%w: empty field in %q", ErrUnknownField, s)
		}
		spec = append(spec, key)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}

// Query describes a filter, sort and page request over a record set.
// PageSize <= 0 means every matching record on a single page.
type Query struct {
	SearchText   string    `json:"search,omitempty"`
	SearchFields []string  `json:"searchFields,omitempty"`
	SortBy       string    `json:"sortBy,omitempty"`
	SortOrder    SortOrder `json:"sortOrder,omitempty"`
	Sort         SortSpec  `json:"sort,omitempty"`
	Page         int       `json:"page,omitempty"`
	PageSize     int       `json:"limit,omitempty"`
}

// SortSpec resolves the effective sort: an explicit multi-key Sort wins over
// the single SortBy/SortOrder pair.
func (q Query) SortSpec() SortSpec {
	if len(q.Sort) > 0 {
		return q.Sort
	}
	if q.SortBy == "" {
		return nil
	}
	order := q.SortOrder
	if order == "" {
		order = Asc
	}
	return SortSpec{{Field: q.SortBy, Order: order}}
}

// WithDefaults fills the page and page size used by list endpoints when the
// caller leaves them unset.
func (q Query) WithDefaults(page, pageSize int) Query {
	if q.Page < 1 {
		q.Page = page
	}
	if q.PageSize < 1 {
		q.PageSize = pageSize
	}
	return q
}
