package remap

import (
	"fmt"
	"reflect"

	"github.com/Station-Manager/errors"
)

// Variant tags the kind of work a Transformation performs.
type Variant int

const (
	VariantNone Variant = iota
	VariantReassign
	VariantReplace
)

func (v Variant) String() string {
	switch v {
	case VariantReassign:
		return "reassign"
	case VariantReplace:
		return "replace"
	default:
		return "none"
	}
}

// Transformer converts a source property value into a destination property value.
type Transformer interface {
	Transform(src any) (any, error)
}

// TransformFunc adapts a plain function to Transformer.
type TransformFunc func(src any) (any, error)

func (f TransformFunc) Transform(src any) (any, error) { return f(src) }

// Compose chains transformers left to right. The first error aborts, a nil output ends
// the chain early. A nil element makes the whole composition nil, which Build rejects.
func Compose(ts ...Transformer) Transformer {
	for _, t := range ts {
		if f, ok := t.(TransformFunc); t == nil || (ok && f == nil) {
			return nil
		}
	}
	return TransformFunc(func(src any) (any, error) {
		cur := src
		for _, t := range ts {
			out, err := t.Transform(cur)
			if err != nil {
				return nil, err
			}
			if out == nil {
				return nil, nil
			}
			cur = out
		}
		return cur, nil
	})
}

// MapString applies f to string inputs and passes anything else through unchanged.
func MapString(f func(string) string) Transformer {
	return TransformFunc(func(src any) (any, error) {
		if s, ok := src.(string); ok {
			return f(s), nil
		}
		return src, nil
	})
}

// typedTransformer is implemented by transformers that know their value types, which
// lets Build check them against the properties.
type typedTransformer interface {
	Types() (in, out reflect.Type)
}

// Transformation populates one destination property. It is either a Reassign (copy,
// delegate or container mapping chosen from the property types) or a Replace (caller
// function, optionally skipped on null input).
type Transformation struct {
	variant      Variant
	source       *Property
	destination  *Property
	implicit     bool
	plan         *reassignPlan
	fn           Transformer
	skipWhenNull bool
}

func newReassign(src, dst *Property) *Transformation {
	return &Transformation{variant: VariantReassign, source: src, destination: dst}
}

func newReplace(src, dst *Property, fn Transformer, opts []TransformOption) *Transformation {
	t := &Transformation{variant: VariantReplace, source: src, destination: dst, fn: fn}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Variant reports whether t is a Reassign or a Replace.
func (t *Transformation) Variant() Variant { return t.variant }

// Source is the property t reads.
func (t *Transformation) Source() *Property { return t.source }

// Destination is the property t writes.
func (t *Transformation) Destination() *Property { return t.destination }

// Implicit reports whether Build added t for a same-named property.
func (t *Transformation) Implicit() bool { return t.implicit }

// SkipWhenNull reports whether a null source suppresses the transformer call.
func (t *Transformation) SkipWhenNull() bool { return t.skipWhenNull }

func (t *Transformation) String() string {
	switch t.variant {
	case VariantReassign:
		s := fmt.Sprintf("Reassigning %s\n           to %s", t.source, t.destination)
		if t.implicit {
			s += " (implicit)"
		}
		return s
	case VariantReplace:
		return fmt.Sprintf("Replacing %s\n           with %s (skip when null: %t)", t.source, t.destination, t.skipWhenNull)
	}
	return "unknown transformation"
}

// validate checks the transformation against the registry and caches what execution
// needs. Errors carry both endpoints.
func (t *Transformation) validate(reg *Registry) error {
	var err error
	switch t.variant {
	case VariantReassign:
		err = t.validateReassign(reg)
	case VariantReplace:
		err = t.validateReplace()
	default:
		err = newError(KindUnknown, "unknown transformation variant")
	}
	if err != nil {
		return withEndpoints(err, t.variant, t.source, t.destination)
	}
	return nil
}

// perform executes the transformation on addressable source and destination structs.
func (t *Transformation) perform(src, dst reflect.Value) error {
	var err error
	switch t.variant {
	case VariantReassign:
		err = t.performReassign(src, dst)
	case VariantReplace:
		err = t.performReplace(src, dst)
	default:
		err = newError(KindUnknown, "unknown transformation variant")
	}
	if err != nil {
		return withEndpoints(err, t.variant, t.source, t.destination)
	}
	return nil
}

func (t *Transformation) validateReplace() error {
	if f, ok := t.fn.(TransformFunc); t.fn == nil || (ok && f == nil) {
		return newError(NilTransform, "")
	}
	if !t.destination.CanWrite() {
		return newError(PropertyNotWritable, "")
	}
	typed, ok := t.fn.(typedTransformer)
	if !ok {
		return nil
	}
	in, out := typed.Types()
	if !t.source.Type.AssignableTo(in) {
		return newError(TransformTypeMismatch, fmt.Sprintf("function accepts %s", in))
	}
	if !out.AssignableTo(t.destination.Type) {
		return newError(TransformTypeMismatch, fmt.Sprintf("function returns %s", out))
	}
	return nil
}

func (t *Transformation) performReplace(src, dst reflect.Value) error {
	const op errors.Op = "remap.Transformation.performReplace"
	sv, ok := t.source.Get(src)
	if !ok {
		sv = reflect.Value{}
	}
	if t.skipWhenNull && isNull(sv) {
		return nil
	}
	var in any
	if sv.IsValid() {
		in = sv.Interface()
	}
	out, err := t.fn.Transform(in)
	if err != nil {
		return &MappingError{Kind: AccessorFailure, Err: errors.New(op).Err(err)}
	}
	if out == nil {
		return t.destination.Set(dst, reflect.Value{})
	}
	ov := reflect.ValueOf(out)
	if !ov.Type().AssignableTo(t.destination.Type) {
		return newError(AccessorFailure, fmt.Sprintf("transform returned type %s, expected %s", ov.Type(), t.destination.Type))
	}
	return t.destination.Set(dst, ov)
}

// typedFunc is the Transformer built by Func.
type typedFunc[S, D any] struct {
	fn func(S) (D, error)
}

// Func wraps a typed conversion. Build checks S against the source property type and D
// against the destination property type.
func Func[S, D any](fn func(S) (D, error)) Transformer {
	if fn == nil {
		return nil
	}
	return typedFunc[S, D]{fn: fn}
}

func (f typedFunc[S, D]) Transform(src any) (any, error) {
	const op errors.Op = "remap.Func"
	var s S
	if src != nil {
		v, ok := src.(S)
		if !ok {
			return nil, errors.New(op).Errorf("expected %T, got %T", s, src)
		}
		s = v
	}
	return f.fn(s)
}

func (f typedFunc[S, D]) Types() (reflect.Type, reflect.Type) {
	return reflect.TypeOf((*S)(nil)).Elem(), reflect.TypeOf((*D)(nil)).Elem()
}
