package remap

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

const tagName = "remap"

// Property is the read/write capability of a single named field on a struct type.
// Promoted fields of embedded structs are properties of the embedding type.
type Property struct {
	Owner    reflect.Type
	Name     string
	JSONName string
	Type     reflect.Type
	index    []int
	readOnly bool
}

// String returns "Owner.Name".
func (p *Property) String() string {
	if p == nil {
		return ""
	}
	return p.Owner.Name() + "." + p.Name
}

// CanWrite reports whether the property has a write capability.
func (p *Property) CanWrite() bool { return !p.readOnly }

// ElementType unwraps nested containers and returns the innermost element type with the
// number of container levels. Non-container properties report their own type and 0.
func (p *Property) ElementType() (reflect.Type, int) { return ElementType(p.Type) }

// Get reads the property from a struct value. ok is false when a nil embedded pointer
// sits on the path, which reads as null.
func (p *Property) Get(v reflect.Value) (field reflect.Value, ok bool) {
	v = reflect.Indirect(v)
	for i, x := range p.index {
		if i > 0 && v.Kind() == reflect.Ptr {
			if v.IsNil() {
				return reflect.Value{}, false
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v, true
}

// Set writes x into the property of an addressable struct value, allocating nil embedded
// pointers on the way.
func (p *Property) Set(v reflect.Value, x reflect.Value) error {
	if p.readOnly {
		return &MappingError{Kind: PropertyNotWritable, DestinationProperty: p.String(), DestinationType: p.Type}
	}
	v = reflect.Indirect(v)
	for i, idx := range p.index {
		if i > 0 && v.Kind() == reflect.Ptr {
			if v.IsNil() {
				if !v.CanSet() {
					return &MappingError{Kind: AccessorFailure, DestinationProperty: p.String(), DestinationType: p.Type,
						Detail: "cannot allocate unexported embedded " + v.Type().String()}
				}
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(idx)
	}
	if !v.CanSet() {
		return &MappingError{Kind: AccessorFailure, DestinationProperty: p.String(), DestinationType: p.Type,
			Detail: "field is not settable"}
	}
	if !x.IsValid() {
		v.Set(reflect.Zero(p.Type))
		return nil
	}
	if !x.Type().AssignableTo(p.Type) {
		return &MappingError{Kind: AccessorFailure, DestinationProperty: p.String(), DestinationType: p.Type,
			Detail: fmt.Sprintf("value of type %s is not assignable", x.Type())}
	}
	v.Set(x)
	return nil
}

// TypeDescriptor lists the properties of a struct type. It is built once per type and
// never mutated afterwards.
type TypeDescriptor struct {
	Type       reflect.Type
	properties []Property
	depths     []int
	byName     map[string]*Property
	byJSONName map[string]*Property
}

// Properties returns the declared fields in order, followed by the promoted fields of
// each embedded struct.
func (d *TypeDescriptor) Properties() []*Property {
	out := make([]*Property, len(d.properties))
	for i := range d.properties {
		out[i] = &d.properties[i]
	}
	return out
}

// Property returns the property with the given Go field name.
func (d *TypeDescriptor) Property(name string) (*Property, bool) {
	p, ok := d.byName[name]
	return p, ok
}

// Lookup resolves a Go field name, falling back to the json tag name.
func (d *TypeDescriptor) Lookup(name string) (*Property, bool) {
	if p, ok := d.byName[name]; ok {
		return p, true
	}
	p, ok := d.byJSONName[name]
	return p, ok
}

var descriptorCache sync.Map // map[reflect.Type]*TypeDescriptor

// Describe returns the cached descriptor of a struct type (a pointer to struct is
// dereferenced once).
func Describe(t reflect.Type) (*TypeDescriptor, error) {
	if t == nil {
		return nil, newError(InvalidArgument, "nil type")
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, &MappingError{Kind: InvalidArgument, SourceType: t, Detail: "not a struct type"}
	}
	if cached, ok := descriptorCache.Load(t); ok {
		return cached.(*TypeDescriptor), nil
	}
	d := &TypeDescriptor{Type: t}
	seen := make(map[string]int)
	collectProperties(t, t, nil, 0, d, seen)
	d.byName = make(map[string]*Property, len(d.properties))
	d.byJSONName = make(map[string]*Property, len(d.properties))
	for i := range d.properties {
		p := &d.properties[i]
		d.byName[p.Name] = p
		if p.JSONName != "" {
			d.byJSONName[p.JSONName] = p
		}
	}
	actual, _ := descriptorCache.LoadOrStore(t, d)
	return actual.(*TypeDescriptor), nil
}

// DescribeOf is Describe for the static type T.
func DescribeOf[T any]() (*TypeDescriptor, error) {
	return Describe(reflect.TypeOf((*T)(nil)).Elem())
}

// collectProperties flattens embedded structs. seen maps a name to its position in
// d.properties; a shallower declaration replaces a deeper one, as the Go selector rules do.
func collectProperties(owner, typ reflect.Type, prefix []int, depth int, d *TypeDescriptor, seen map[string]int) {
	var embedded []reflect.StructField
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if f.Anonymous {
			ft := f.Type
			if ft.Kind() == reflect.Ptr {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				embedded = append(embedded, f)
				continue
			}
		}
		if f.PkgPath != "" {
			continue
		}
		tag := f.Tag.Get(tagName)
		if tag == "-" || tag == "ignore" {
			continue
		}
		prop := Property{
			Owner:    owner,
			Name:     f.Name,
			JSONName: jsonName(f.Tag),
			Type:     f.Type,
			index:    append(append([]int(nil), prefix...), i),
			readOnly: tag == "readonly",
		}
		if at, ok := seen[f.Name]; ok {
			if d.depths[at] > depth {
				d.properties[at] = prop
				d.depths[at] = depth
			}
			continue
		}
		seen[f.Name] = len(d.properties)
		d.properties = append(d.properties, prop)
		d.depths = append(d.depths, depth)
	}
	for _, f := range embedded {
		if f.Tag.Get(tagName) == "-" {
			continue
		}
		ft := f.Type
		if ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}
		idx := append(append([]int(nil), prefix...), f.Index...)
		collectProperties(owner, ft, idx, depth+1, d, seen)
	}
}

func jsonName(tag reflect.StructTag) string {
	jt, ok := tag.Lookup("json")
	if !ok {
		return ""
	}
	if i := strings.IndexByte(jt, ','); i >= 0 {
		jt = jt[:i]
	}
	if jt == "-" {
		return ""
	}
	return jt
}
