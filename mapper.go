package remap

import (
	"fmt"
	"reflect"
)

// Mapper executes a Spec. It holds no state of its own and is safe for concurrent use.
// A Mapper is also a Delegate, so it can be added to a Registry for nested properties.
type Mapper[S, D any] struct {
	spec *Spec[S, D]
}

// NewMapper wraps a validated Spec.
func NewMapper[S, D any](spec *Spec[S, D]) (*Mapper[S, D], error) {
	if spec == nil {
		return nil, newError(InvalidArgument, "nil spec")
	}
	return &Mapper[S, D]{spec: spec}, nil
}

func (m *Mapper[S, D]) Spec() *Spec[S, D] { return m.spec }
func (m *Mapper[S, D]) SourceType() reflect.Type { return m.spec.source }
func (m *Mapper[S, D]) DestinationType() reflect.Type { return m.spec.destination }
func (m *Mapper[S, D]) String() string { return m.spec.String() }

// Map creates a destination with the configured Factory and populates it from src.
func (m *Mapper[S, D]) Map(src *S) (*D, error) {
	if src == nil {
		return nil, &MappingError{Kind: InvalidArgument, SourceType: m.spec.source, Detail: "nil source"}
	}
	dv, err := m.spec.newDestination()
	if err != nil {
		return nil, err
	}
	if err = m.spec.execute(reflect.ValueOf(src).Elem(), dv.Elem()); err != nil {
		return nil, err
	}
	return dv.Interface().(*D), nil
}

// MapInto populates an existing destination from src. Properties without a write in
// this call keep their values, which gives merge semantics.
func (m *Mapper[S, D]) MapInto(src *S, dst *D) error {
	if src == nil {
		return &MappingError{Kind: InvalidArgument, SourceType: m.spec.source, Detail: "nil source"}
	}
	if dst == nil {
		return &MappingError{Kind: InvalidArgument, DestinationType: m.spec.destination, Detail: "nil destination"}
	}
	return m.spec.execute(reflect.ValueOf(src).Elem(), reflect.ValueOf(dst).Elem())
}

// MapSlice maps every element of src. A nil slice maps to nil.
func (m *Mapper[S, D]) MapSlice(src []S) ([]D, error) {
	if src == nil {
		return nil, nil
	}
	out := make([]D, 0, len(src))
	for i := range src {
		d, err := m.Map(&src[i])
		if err != nil {
			return nil, fmt.Errorf("mapping element %d: %w", i, err)
		}
		out = append(out, *d)
	}
	return out, nil
}

// MapValue implements Delegate.
func (m *Mapper[S, D]) MapValue(src reflect.Value, dst reflect.Value) (reflect.Value, error) {
	if !src.IsValid() || src.Type() != m.spec.source {
		return reflect.Value{}, &MappingError{Kind: InvalidArgument, SourceType: m.spec.source,
			Detail: "delegate called with a value of another type"}
	}
	if !dst.IsValid() {
		var err error
		if dst, err = m.spec.newDestination(); err != nil {
			return reflect.Value{}, err
		}
	} else if dst.Type() != reflect.PointerTo(m.spec.destination) || dst.IsNil() {
		return reflect.Value{}, &MappingError{Kind: InvalidArgument, DestinationType: m.spec.destination,
			Detail: "merge target must be a non-nil pointer to the destination type"}
	}
	if err := m.spec.execute(src, dst.Elem()); err != nil {
		return reflect.Value{}, err
	}
	return dst, nil
}
