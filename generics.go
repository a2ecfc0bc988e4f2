package remap

import (
	"reflect"

	"github.com/Station-Manager/errors"
)

// Generic helpers as top-level functions (methods cannot have type parameters yet)

// Use builds m and adds the resulting Mapper to reg, so later mappings can reassign
// properties of type S to properties of type D.
func Use[S, D any](reg *Registry, m *Mapping[S, D]) (*Mapper[S, D], error) {
	mapper, err := m.Mapper()
	if err != nil {
		return nil, err
	}
	reg.Add(mapper)
	m.opts.Logger.Debug("remap: mapper registered",
		"source", mapper.SourceType().String(),
		"destination", mapper.DestinationType().String(),
		"registered", reg.Len())
	return mapper, nil
}

// Map is a shorthand for building a throwaway destination value.
func Map[S, D any](m *Mapper[S, D], src S) (D, error) {
	var zero D
	d, err := m.Map(&src)
	if err != nil {
		return zero, err
	}
	return *d, nil
}

// funcDelegate is the Delegate built by Convert.
type funcDelegate[S, D any] struct {
	fn func(S) (D, error)
}

// Convert turns a function into a Delegate for the (S, D) pair. It lets Reassign cover
// scalar pairs such as int -> int64 without a Replace on every mapping. The function
// never receives a merge target. S and D must not be pointer types; Build rejects the
// delegate otherwise, as it does a nil fn.
func Convert[S, D any](fn func(S) (D, error)) Delegate {
	return funcDelegate[S, D]{fn: fn}
}

func (f funcDelegate[S, D]) SourceType() reflect.Type {
	return reflect.TypeOf((*S)(nil)).Elem()
}

func (f funcDelegate[S, D]) DestinationType() reflect.Type {
	return reflect.TypeOf((*D)(nil)).Elem()
}

func (f funcDelegate[S, D]) valid() error {
	if f.fn == nil {
		return newError(InvalidArgument, "nil conversion function")
	}
	return nil
}

func (f funcDelegate[S, D]) MapValue(src reflect.Value, _ reflect.Value) (reflect.Value, error) {
	const op errors.Op = "remap.Convert"
	s, ok := src.Interface().(S)
	if !ok {
		return reflect.Value{}, &MappingError{Kind: InvalidArgument, SourceType: f.SourceType(),
			Detail: "delegate called with " + src.Type().String()}
	}
	d, err := f.fn(s)
	if err != nil {
		return reflect.Value{}, &MappingError{Kind: AccessorFailure, SourceType: f.SourceType(),
			DestinationType: f.DestinationType(), Err: errors.New(op).Err(err)}
	}
	out := reflect.New(f.DestinationType())
	out.Elem().Set(reflect.ValueOf(&d).Elem())
	return out, nil
}
