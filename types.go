package remap

import (
	"cmp"
	"reflect"
	"slices"
	"time"

	"github.com/aarondl/null/v8"
)

// ContainerKind is the shape of a container-typed value.
type ContainerKind int

const (
	NotContainer ContainerKind = iota
	SliceContainer
	ArrayContainer
	SetContainer
)

func (k ContainerKind) String() string {
	switch k {
	case SliceContainer:
		return "slice"
	case ArrayContainer:
		return "array"
	case SetContainer:
		return "set"
	default:
		return "none"
	}
}

var emptyStructType = reflect.TypeOf(struct{}{})

// ContainerOf classifies t. A set is a map whose value type is struct{}; every other map
// is a keyed map and not a container.
func ContainerOf(t reflect.Type) ContainerKind {
	switch t.Kind() {
	case reflect.Slice:
		return SliceContainer
	case reflect.Array:
		return ArrayContainer
	case reflect.Map:
		if t.Elem() == emptyStructType {
			return SetContainer
		}
	}
	return NotContainer
}

// IsKeyedMap reports whether t is a map that is not a set.
func IsKeyedMap(t reflect.Type) bool {
	return t.Kind() == reflect.Map && t.Elem() != emptyStructType
}

func elemOf(t reflect.Type) reflect.Type {
	if ContainerOf(t) == SetContainer {
		return t.Key()
	}
	return t.Elem()
}

// ElementType unwraps nested containers one level at a time until a non-container is
// reached, e.g. [][]map[X]struct{} gives X and 3.
func ElementType(t reflect.Type) (reflect.Type, int) {
	depth := 0
	for ContainerOf(t) != NotContainer {
		t = elemOf(t)
		depth++
	}
	return t, depth
}

// nullTypes pairs each aarondl/null wrapper with the plain type it boxes.
var nullTypes = map[reflect.Type]reflect.Type{
	reflect.TypeOf(null.String{}):  reflect.TypeOf(""),
	reflect.TypeOf(null.Bool{}):    reflect.TypeOf(false),
	reflect.TypeOf(null.Int{}):     reflect.TypeOf(int(0)),
	reflect.TypeOf(null.Int8{}):    reflect.TypeOf(int8(0)),
	reflect.TypeOf(null.Int16{}):   reflect.TypeOf(int16(0)),
	reflect.TypeOf(null.Int32{}):   reflect.TypeOf(int32(0)),
	reflect.TypeOf(null.Int64{}):   reflect.TypeOf(int64(0)),
	reflect.TypeOf(null.Uint{}):    reflect.TypeOf(uint(0)),
	reflect.TypeOf(null.Uint8{}):   reflect.TypeOf(uint8(0)),
	reflect.TypeOf(null.Uint16{}):  reflect.TypeOf(uint16(0)),
	reflect.TypeOf(null.Uint32{}):  reflect.TypeOf(uint32(0)),
	reflect.TypeOf(null.Uint64{}):  reflect.TypeOf(uint64(0)),
	reflect.TypeOf(null.Float32{}): reflect.TypeOf(float32(0)),
	reflect.TypeOf(null.Float64{}): reflect.TypeOf(float64(0)),
	reflect.TypeOf(null.Time{}):    reflect.TypeOf(time.Time{}),
	reflect.TypeOf(null.Bytes{}):   reflect.TypeOf([]byte(nil)),
}

// unboxed returns the plain type behind a pointer or null wrapper, or t itself.
func unboxed(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Ptr {
		return t.Elem()
	}
	if plain, ok := nullTypes[t]; ok {
		return plain
	}
	return t
}

// isReferenceMapping reports whether values of st can be copied to dt without a
// delegate: identical types, or two boxed forms of the same plain type.
func isReferenceMapping(st, dt reflect.Type) bool {
	return st == dt || unboxed(st) == unboxed(dt)
}

// isNull reports whether v reads as absent.
func isNull(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	if _, ok := nullTypes[v.Type()]; ok {
		return !v.FieldByName("Valid").Bool()
	}
	return false
}

// unbox returns the plain value behind v. ok is false for a null v.
func unbox(v reflect.Value) (reflect.Value, bool) {
	if isNull(v) {
		return reflect.Value{}, false
	}
	if v.Kind() == reflect.Ptr {
		return v.Elem(), true
	}
	if _, ok := nullTypes[v.Type()]; ok {
		return v.Field(0), true
	}
	return v, true
}

// box wraps a plain value into dt, which is either its own type, a pointer to it or its
// null wrapper. An invalid plain value yields the zero (null) dt.
func box(plain reflect.Value, dt reflect.Type) reflect.Value {
	if !plain.IsValid() {
		return reflect.Zero(dt)
	}
	switch {
	case plain.Type() == dt:
		return plain
	case dt.Kind() == reflect.Ptr:
		p := reflect.New(dt.Elem())
		p.Elem().Set(plain)
		return p
	}
	if _, ok := nullTypes[dt]; ok {
		n := reflect.New(dt).Elem()
		n.Field(0).Set(plain)
		n.FieldByName("Valid").SetBool(true)
		return n
	}
	return plain
}

// rebox copies v across a reference mapping.
func rebox(v reflect.Value, dt reflect.Type) reflect.Value {
	if v.IsValid() && v.Type() == dt {
		return v
	}
	plain, _ := unbox(v)
	return box(plain, dt)
}

// containerElements lists the elements of a slice, array or set. Set keys of ordered
// kinds are sorted so repeated runs produce the same sequence.
func containerElements(v reflect.Value) []reflect.Value {
	switch ContainerOf(v.Type()) {
	case SliceContainer, ArrayContainer:
		out := make([]reflect.Value, v.Len())
		for i := range out {
			out[i] = v.Index(i)
		}
		return out
	case SetContainer:
		keys := v.MapKeys()
		sortKeys(keys)
		return keys
	}
	return nil
}

func sortKeys(keys []reflect.Value) {
	if len(keys) < 2 {
		return
	}
	slices.SortStableFunc(keys, compareKeys)
}

// compareKeys is a total order over comparable values of the same type. Pointer-like keys
// order by address, which is stable for a given source instance.
func compareKeys(a, b reflect.Value) int {
	switch a.Kind() {
	case reflect.String:
		return cmp.Compare(a.String(), b.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cmp.Compare(a.Int(), b.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return cmp.Compare(a.Uint(), b.Uint())
	case reflect.Float32, reflect.Float64:
		return cmp.Compare(a.Float(), b.Float())
	case reflect.Complex64, reflect.Complex128:
		if c := cmp.Compare(real(a.Complex()), real(b.Complex())); c != 0 {
			return c
		}
		return cmp.Compare(imag(a.Complex()), imag(b.Complex()))
	case reflect.Bool:
		switch {
		case a.Bool() == b.Bool():
			return 0
		case a.Bool():
			return 1
		}
		return -1
	case reflect.Ptr, reflect.Chan, reflect.UnsafePointer:
		return cmp.Compare(a.Pointer(), b.Pointer())
	case reflect.Struct:
		for i := range a.NumField() {
			if c := compareKeys(a.Field(i), b.Field(i)); c != 0 {
				return c
			}
		}
		return 0
	case reflect.Array:
		for i := range a.Len() {
			if c := compareKeys(a.Index(i), b.Index(i)); c != 0 {
				return c
			}
		}
		return 0
	case reflect.Interface:
		switch {
		case a.IsNil() || b.IsNil():
			return cmp.Compare(boolRank(!a.IsNil()), boolRank(!b.IsNil()))
		case a.Elem().Type() != b.Elem().Type():
			return cmp.Compare(a.Elem().Type().String(), b.Elem().Type().String())
		}
		return compareKeys(a.Elem(), b.Elem())
	}
	return 0
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

// containerBuilder collects converted elements into a container of type t.
type containerBuilder struct {
	t   reflect.Type
	out reflect.Value
	n   int
}

func newContainerBuilder(t reflect.Type, size int) *containerBuilder {
	b := &containerBuilder{t: t}
	switch ContainerOf(t) {
	case SliceContainer:
		b.out = reflect.MakeSlice(t, 0, size)
	case ArrayContainer:
		b.out = reflect.New(t).Elem()
	case SetContainer:
		b.out = reflect.MakeMapWithSize(t, size)
	}
	return b
}

func (b *containerBuilder) add(e reflect.Value) bool {
	switch ContainerOf(b.t) {
	case SliceContainer:
		b.out = reflect.Append(b.out, e)
	case ArrayContainer:
		if b.n >= b.t.Len() {
			return false
		}
		b.out.Index(b.n).Set(e)
	case SetContainer:
		b.out.SetMapIndex(e, reflect.Zero(emptyStructType))
	}
	b.n++
	return true
}
