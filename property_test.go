package remap

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func propertyNamesOf(d *TypeDescriptor) []string {
	var names []string
	for _, p := range d.Properties() {
		names = append(names, p.Name)
	}
	return names
}

func TestDescribe_FlattensEmbeddedStructs(t *testing.T) {
	d, err := DescribeOf[Contact]()
	require.NoError(t, err)

	assert.Equal(t, []string{"Call", "Operator", "Grid", "Checksum", "ID", "Name", "CreatedBy", "Revision"}, propertyNamesOf(d))

	p, ok := d.Property("CreatedBy")
	require.True(t, ok)
	assert.Equal(t, reflect.TypeOf(Contact{}), p.Owner)
	assert.Equal(t, "Contact.CreatedBy", p.String())
}

func TestDescribe_Tags(t *testing.T) {
	d, err := DescribeOf[Contact]()
	require.NoError(t, err)

	_, ok := d.Property("Band")
	assert.False(t, ok, "remap:\"-\" hides the field")

	p, ok := d.Property("Checksum")
	require.True(t, ok)
	assert.False(t, p.CanWrite())

	p, ok = d.Lookup("call")
	require.True(t, ok)
	assert.Equal(t, "Call", p.Name)
	assert.Equal(t, "call", p.JSONName)
}

func TestDescribe_IgnoreTagAndUnexported(t *testing.T) {
	type row struct {
		Visible string
		Secret  string `remap:"ignore"`
		hidden  string
	}
	d, err := DescribeOf[row]()
	require.NoError(t, err)
	assert.Equal(t, []string{"Visible"}, propertyNamesOf(d))
}

type shadowInner struct {
	Name string
	Code string
}

type shadowOuter struct {
	shadowInner
	Name string
}

func TestDescribe_OuterFieldShadowsPromoted(t *testing.T) {
	d, err := DescribeOf[shadowOuter]()
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Code"}, propertyNamesOf(d))

	v := shadowOuter{shadowInner: shadowInner{Name: "inner", Code: "c"}, Name: "outer"}
	p, _ := d.Property("Name")
	got, ok := p.Get(reflect.ValueOf(v))
	require.True(t, ok)
	assert.Equal(t, "outer", got.String())

	p, _ = d.Property("Code")
	got, ok = p.Get(reflect.ValueOf(v))
	require.True(t, ok)
	assert.Equal(t, "c", got.String())
}

func TestDescribe_Errors(t *testing.T) {
	_, err := Describe(nil)
	assert.True(t, IsKind(err, InvalidArgument))

	_, err = Describe(reflect.TypeOf(42))
	assert.True(t, IsKind(err, InvalidArgument))
}

func TestDescribe_CachedAndPointerTolerant(t *testing.T) {
	a, err := Describe(reflect.TypeOf(Customer{}))
	require.NoError(t, err)
	b, err := Describe(reflect.TypeOf(&Customer{}))
	require.NoError(t, err)
	assert.Same(t, a, b)
}

func TestProperty_GetThroughNilEmbeddedPointerIsNull(t *testing.T) {
	d, _ := DescribeOf[Contact]()
	p, _ := d.Property("CreatedBy")

	_, ok := p.Get(reflect.ValueOf(Contact{}))
	assert.False(t, ok)

	got, ok := p.Get(reflect.ValueOf(Contact{Audit: &Audit{CreatedBy: "op"}}))
	require.True(t, ok)
	assert.Equal(t, "op", got.String())
}

func TestProperty_SetAllocatesEmbeddedPointer(t *testing.T) {
	d, _ := DescribeOf[Contact]()
	p, _ := d.Property("Revision")

	var c Contact
	require.NoError(t, p.Set(reflect.ValueOf(&c), reflect.ValueOf(3)))
	require.NotNil(t, c.Audit)
	assert.Equal(t, 3, c.Revision)

	require.NoError(t, p.Set(reflect.ValueOf(&c), reflect.Value{}))
	assert.Equal(t, 0, c.Revision)
}

func TestProperty_SetErrors(t *testing.T) {
	d, _ := DescribeOf[Contact]()
	var c Contact

	ro, _ := d.Property("Checksum")
	err := ro.Set(reflect.ValueOf(&c), reflect.ValueOf("x"))
	assert.True(t, IsKind(err, PropertyNotWritable))

	call, _ := d.Property("Call")
	err = call.Set(reflect.ValueOf(&c), reflect.ValueOf(12))
	assert.True(t, IsKind(err, AccessorFailure))

	err = call.Set(reflect.ValueOf(c), reflect.ValueOf("DL1ABC"))
	assert.True(t, IsKind(err, AccessorFailure), "a non-addressable struct cannot be written")
}

func TestProperty_ElementType(t *testing.T) {
	type holder struct {
		Nested [][]map[Address]struct{}
		Plain  string
	}
	d, err := DescribeOf[holder]()
	require.NoError(t, err)

	p, _ := d.Property("Nested")
	leaf, depth := p.ElementType()
	assert.Equal(t, reflect.TypeOf(Address{}), leaf)
	assert.Equal(t, 3, depth)

	p, _ = d.Property("Plain")
	leaf, depth = p.ElementType()
	assert.Equal(t, reflect.TypeOf(""), leaf)
	assert.Equal(t, 0, depth)
}
