package table

// Binding holds one piece of table state. An owned binding keeps the value
// itself. A delegated binding belongs to the caller: the table only reports
// the value it wants through onChange and keeps showing what the caller
// last pushed.
type Binding[V any] struct {
	value     V
	delegated bool
	onChange  func(V)
}

// Owned returns a binding the table manages, starting at initial.
func Owned[V any](initial V) *Binding[V] {
	return &Binding[V]{value: initial}
}

// Delegated returns a caller-managed binding showing value. onChange
// receives every change the table requests and may be nil.
func Delegated[V any](value V, onChange func(V)) *Binding[V] {
	return &Binding[V]{value: value, delegated: true, onChange: onChange}
}

// Value returns the effective value.
func (b *Binding[V]) Value() V { return b.value }

// Push replaces the value. Owners of a delegated binding call it to
// apply a new state.
func (b *Binding[V]) Push(v V) { b.value = v }

// set requests v: owned bindings store it, delegated ones emit it.
func (b *Binding[V]) set(v V) {
	if !b.delegated {
		b.value = v
		return
	}
	if b.onChange != nil {
		b.onChange(v)
	}
}
