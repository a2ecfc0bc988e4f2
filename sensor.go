package remap

import (
	"fmt"
	"reflect"
)

// Selector points at a field of T by returning its address on the stand-in it is given:
//
//	func(p *Person) any { return &p.Name }
type Selector[T any] func(*T) any

// FieldReference identifies a property picked by a Selector.
type FieldReference struct {
	Owner reflect.Type
	Name  string
}

func (r FieldReference) String() string {
	if r.Owner == nil {
		return r.Name
	}
	return r.Owner.Name() + "." + r.Name
}

type addrKey struct {
	addr uintptr
	typ  reflect.Type
}

// Sensor is a field capture session over a stand-in *T. Every Observe is one intercepted
// read; the session expects exactly one of them before Reference is called.
//
// A Sensor is not safe for concurrent use.
type Sensor[T any] struct {
	standIn *T
	desc    *TypeDescriptor
	self    addrKey
	fields  map[addrKey]*Property
	names   []string
}

// NewSensor builds the stand-in for T and indexes the address of every property on it.
func NewSensor[T any]() (*Sensor[T], error) {
	if t := reflect.TypeOf((*T)(nil)).Elem(); t.Kind() != reflect.Struct {
		return nil, &MappingError{Kind: InvalidArgument, SourceType: t, Detail: "stand-in type must be a struct"}
	}
	desc, err := DescribeOf[T]()
	if err != nil {
		return nil, err
	}
	s := &Sensor[T]{desc: desc, standIn: new(T)}
	s.index()
	return s, nil
}

func (s *Sensor[T]) index() {
	root := reflect.ValueOf(s.standIn)
	s.self = addrKey{addr: root.Pointer(), typ: root.Type()}
	s.fields = make(map[addrKey]*Property, len(s.desc.properties))
	for _, p := range s.desc.Properties() {
		f, ok := s.fieldOnStandIn(root.Elem(), p)
		if !ok {
			continue
		}
		s.fields[addrKey{addr: f.UnsafeAddr(), typ: reflect.PointerTo(p.Type)}] = p
	}
}

// fieldOnStandIn walks p's index path, allocating embedded pointers so promoted fields
// have a stable address.
func (s *Sensor[T]) fieldOnStandIn(v reflect.Value, p *Property) (reflect.Value, bool) {
	for i, x := range p.index {
		if i > 0 && v.Kind() == reflect.Ptr {
			if v.IsNil() {
				if !v.CanSet() {
					return reflect.Value{}, false
				}
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v, v.CanAddr()
}

// StandIn returns the object selectors are invoked on. It never carries data.
func (s *Sensor[T]) StandIn() *T { return s.standIn }

// Observe records the field ref points at. A pointer to the stand-in itself is an
// identity operation and records nothing.
func (s *Sensor[T]) Observe(ref any) error {
	if ref == nil {
		return &MappingError{Kind: NoValueTypeOnAccessor, SourceType: s.desc.Type,
			Detail: "selector returned no value"}
	}
	v := reflect.ValueOf(ref)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return &MappingError{Kind: NotAFieldReference, SourceType: s.desc.Type,
			Detail: fmt.Sprintf("expected a pointer to a field, got %T", ref)}
	}
	key := addrKey{addr: v.Pointer(), typ: v.Type()}
	if key == s.self {
		return nil
	}
	p, ok := s.fields[key]
	if !ok {
		return &MappingError{Kind: NotAFieldReference, SourceType: s.desc.Type,
			Detail: fmt.Sprintf("%T does not address a property of %s", ref, s.desc.Type)}
	}
	if p.Type.Size() == 0 {
		return &MappingError{Kind: NoValueTypeOnAccessor, SourceProperty: p.String(), SourceType: p.Type,
			Detail: "zero-size field carries no value"}
	}
	s.names = append(s.names, p.Name)
	return nil
}

// TrackedNames returns the field names recorded in this session.
func (s *Sensor[T]) TrackedNames() []string {
	return append([]string(nil), s.names...)
}

// HasTracked reports whether anything was recorded.
func (s *Sensor[T]) HasTracked() bool { return len(s.names) > 0 }

// Reset starts a new session and clears anything a selector wrote into the stand-in.
func (s *Sensor[T]) Reset() {
	s.names = s.names[:0]
	var zero T
	*s.standIn = zero
	s.index()
}

// Reference ends the session; exactly one field must have been recorded.
func (s *Sensor[T]) Reference() (FieldReference, error) {
	if len(s.names) != 1 {
		return FieldReference{}, &MappingError{Kind: AmbiguousOrMissingCaptureSession, SourceType: s.desc.Type,
			Detail: fmt.Sprintf("expected exactly one field reference, got %d %v", len(s.names), s.names)}
	}
	return FieldReference{Owner: s.desc.Type, Name: s.names[0]}, nil
}

// Capture runs sel on a fresh session and returns the single field it referenced.
func (s *Sensor[T]) Capture(sel Selector[T]) (FieldReference, error) {
	s.Reset()
	if sel == nil {
		return FieldReference{}, newError(InvalidArgument, "nil selector")
	}
	if err := s.Observe(sel(s.standIn)); err != nil {
		return FieldReference{}, err
	}
	return s.Reference()
}

// Property resolves a reference captured by this sensor.
func (s *Sensor[T]) Property(ref FieldReference) (*Property, bool) {
	return s.desc.Property(ref.Name)
}
