package remap

import (
	"reflect"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
)

func typeOf[T any]() reflect.Type { return reflect.TypeOf((*T)(nil)).Elem() }

func TestContainerOf(t *testing.T) {
	tests := []struct {
		name  string
		typ   reflect.Type
		want  ContainerKind
		keyed bool
	}{
		{name: "slice", typ: typeOf[[]int](), want: SliceContainer},
		{name: "array", typ: typeOf[[3]int](), want: ArrayContainer},
		{name: "set", typ: typeOf[map[string]struct{}](), want: SetContainer},
		{name: "keyed map", typ: typeOf[map[string]int](), want: NotContainer, keyed: true},
		{name: "struct", typ: typeOf[Address](), want: NotContainer},
		{name: "pointer to slice", typ: typeOf[*[]int](), want: NotContainer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ContainerOf(tt.typ))
			assert.Equal(t, tt.keyed, IsKeyedMap(tt.typ))
		})
	}
}

func TestElementType_NoDepthCap(t *testing.T) {
	leaf, depth := ElementType(typeOf[[][][][][2][]map[int]struct{}]())
	assert.Equal(t, typeOf[int](), leaf)
	assert.Equal(t, 7, depth)
}

func TestIsReferenceMapping(t *testing.T) {
	tests := []struct {
		name string
		src  reflect.Type
		dst  reflect.Type
		want bool
	}{
		{name: "identical", src: typeOf[int](), dst: typeOf[int](), want: true},
		{name: "value to pointer", src: typeOf[string](), dst: typeOf[*string](), want: true},
		{name: "pointer to value", src: typeOf[*Address](), dst: typeOf[Address](), want: true},
		{name: "value to null", src: typeOf[string](), dst: typeOf[null.String](), want: true},
		{name: "null to pointer", src: typeOf[null.Time](), dst: typeOf[*time.Time](), want: true},
		{name: "widening is not a reference", src: typeOf[int](), dst: typeOf[int64](), want: false},
		{name: "distinct structs", src: typeOf[Address](), dst: typeOf[AddressDTO](), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isReferenceMapping(tt.src, tt.dst))
		})
	}
}

func TestIsNull(t *testing.T) {
	var nilPtr *string
	var nilSlice []int
	var nilMap map[string]int

	tests := []struct {
		name string
		v    reflect.Value
		want bool
	}{
		{name: "invalid", v: reflect.Value{}, want: true},
		{name: "nil pointer", v: reflect.ValueOf(nilPtr), want: true},
		{name: "nil slice", v: reflect.ValueOf(nilSlice), want: true},
		{name: "nil map", v: reflect.ValueOf(nilMap), want: true},
		{name: "invalid null", v: reflect.ValueOf(null.String{}), want: true},
		{name: "valid null", v: reflect.ValueOf(null.StringFrom("")), want: false},
		{name: "zero int", v: reflect.ValueOf(0), want: false},
		{name: "empty string", v: reflect.ValueOf(""), want: false},
		{name: "empty slice", v: reflect.ValueOf([]int{}), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isNull(tt.v))
		})
	}
}

func TestRebox(t *testing.T) {
	got := rebox(reflect.ValueOf("DL1ABC"), typeOf[null.String]())
	assert.Equal(t, null.StringFrom("DL1ABC"), got.Interface())

	got = rebox(reflect.ValueOf(null.Int64From(7)), typeOf[*int64]())
	assert.Equal(t, int64(7), *got.Interface().(*int64))

	got = rebox(reflect.ValueOf(strPtr("x")), typeOf[string]())
	assert.Equal(t, "x", got.Interface())

	got = rebox(reflect.ValueOf(null.String{}), typeOf[*string]())
	assert.Nil(t, got.Interface())
}

func TestContainerElements_SetKeysSorted(t *testing.T) {
	set := map[string]struct{}{"c": {}, "a": {}, "b": {}}
	var got []string
	for _, e := range containerElements(reflect.ValueOf(set)) {
		got = append(got, e.String())
	}
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestCompareKeys(t *testing.T) {
	type pair struct {
		A int
		b string
	}
	x, y := 1, 2
	tests := []struct {
		name string
		a, b any
		want int
	}{
		{"bools", false, true, -1},
		{"equal bools", true, true, 0},
		{"struct first field", pair{A: 1, b: "z"}, pair{A: 2, b: "a"}, -1},
		{"struct unexported field", pair{A: 1, b: "b"}, pair{A: 1, b: "a"}, 1},
		{"arrays", [2]int{1, 3}, [2]int{1, 2}, 1},
		{"complex", complex(1, 2), complex(1, 3), -1},
		{"same pointer", &x, &x, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, compareKeys(reflect.ValueOf(tt.a), reflect.ValueOf(tt.b)))
		})
	}

	p, q := reflect.ValueOf(&x), reflect.ValueOf(&y)
	assert.Equal(t, -compareKeys(p, q), compareKeys(q, p), "pointers order by address")

	ifaces := reflect.ValueOf([]any{"a", 1, nil})
	assert.Equal(t, -1, compareKeys(ifaces.Index(2), ifaces.Index(0)), "nil interface sorts first")
	assert.Equal(t, 1, compareKeys(ifaces.Index(0), ifaces.Index(1)), "int sorts before string")
}

func TestContainerBuilder_ArrayOverflow(t *testing.T) {
	b := newContainerBuilder(typeOf[[2]int](), 3)
	assert.True(t, b.add(reflect.ValueOf(1)))
	assert.True(t, b.add(reflect.ValueOf(2)))
	assert.False(t, b.add(reflect.ValueOf(3)))
	assert.Equal(t, [2]int{1, 2}, b.out.Interface())
}
