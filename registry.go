package remap

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
)

// Delegate maps one structured value to another and is what the Registry hands out for
// nested properties. src is a non-pointer value of SourceType. dst is either the zero
// reflect.Value (produce a fresh destination) or a non-nil pointer to an existing
// DestinationType value to merge into. The result is a pointer to the destination.
type Delegate interface {
	SourceType() reflect.Type
	DestinationType() reflect.Type
	MapValue(src reflect.Value, dst reflect.Value) (reflect.Value, error)
}

type typePair [2]reflect.Type // [srcType, dstType]

// Registry resolves (source type, destination type) pairs to delegates. Entries are
// swapped in copy-on-write so lookups never lock.
type Registry struct {
	entries atomic.Value // holds map[typePair]Delegate
	mu      sync.Mutex   // serializes writers
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	r := &Registry{}
	r.entries.Store(make(map[typePair]Delegate))
	return r
}

func pairOf(src, dst reflect.Type) typePair {
	if src != nil && src.Kind() == reflect.Ptr {
		src = src.Elem()
	}
	if dst != nil && dst.Kind() == reflect.Ptr {
		dst = dst.Elem()
	}
	return typePair{src, dst}
}

// Register adds d for the pair. A later registration for the same pair replaces it.
func (r *Registry) Register(src, dst reflect.Type, d Delegate) {
	key := pairOf(src, dst)
	r.mu.Lock()
	defer r.mu.Unlock()
	old := r.entries.Load().(map[typePair]Delegate)
	next := make(map[typePair]Delegate, len(old)+1)
	for k, v := range old {
		next[k] = v
	}
	next[key] = d
	r.entries.Store(next)
}

// Add registers d under its own source and destination types.
func (r *Registry) Add(d Delegate) *Registry {
	r.Register(d.SourceType(), d.DestinationType(), d)
	return r
}

// Lookup returns the delegate for an exact type pair. Pointer types are normalized to
// their element type.
func (r *Registry) Lookup(src, dst reflect.Type) (Delegate, bool) {
	d, ok := r.entries.Load().(map[typePair]Delegate)[pairOf(src, dst)]
	return d, ok
}

// RequireFor is Lookup failing with NoMapperRegistered, naming both properties and types.
func (r *Registry) RequireFor(srcProp *Property, srcType reflect.Type, dstProp *Property, dstType reflect.Type) (Delegate, error) {
	if d, ok := r.Lookup(srcType, dstType); ok {
		return d, nil
	}
	key := pairOf(srcType, dstType)
	return nil, &MappingError{
		Kind:                NoMapperRegistered,
		SourceProperty:      srcProp.String(),
		SourceType:          srcType,
		DestinationProperty: dstProp.String(),
		DestinationType:     dstType,
		Detail:              fmt.Sprintf("register a mapper for %s -> %s", key[0], key[1]),
	}
}

// checkDelegate rejects delegates that would fail on every call: delegates are always
// handed unboxed values, so pointer types on either side can never match.
func checkDelegate(d Delegate) error {
	if d == nil {
		return newError(InvalidArgument, "nil delegate")
	}
	for _, t := range []reflect.Type{d.SourceType(), d.DestinationType()} {
		if t == nil || t.Kind() == reflect.Ptr {
			return newError(InvalidArgument, fmt.Sprintf("delegate types must not be pointers, got %v", t))
		}
	}
	if v, ok := d.(interface{ valid() error }); ok {
		return v.valid()
	}
	return nil
}

// Len returns the number of registered pairs.
func (r *Registry) Len() int {
	return len(r.entries.Load().(map[typePair]Delegate))
}
