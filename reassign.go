package remap

import (
	"fmt"
	"reflect"
)

type planKind int

const (
	planReference planKind = iota
	planDelegate
	planContainer
)

// reassignPlan is resolved once by validation; execution only follows it.
type reassignPlan struct {
	kind     planKind
	delegate Delegate
	leaf     leafPlan
}

// leafPlan converts a non-container value, by reference when delegate is nil.
type leafPlan struct {
	delegate Delegate
}

// validateReassign picks, in order: reference mapping, registered delegate, container
// mapping. Anything else needs a mapper and fails with NoMapperRegistered.
func (t *Transformation) validateReassign(reg *Registry) error {
	if !t.destination.CanWrite() {
		return newError(PropertyNotWritable, "")
	}
	st, dt := t.source.Type, t.destination.Type
	if IsKeyedMap(st) || IsKeyedMap(dt) {
		return newError(DisallowedMapTarget, "use a Replace transformation for keyed maps")
	}
	if isReferenceMapping(st, dt) {
		t.plan = &reassignPlan{kind: planReference}
		return nil
	}
	if d, ok := reg.Lookup(unboxed(st), unboxed(dt)); ok {
		if err := checkDelegate(d); err != nil {
			return err
		}
		t.plan = &reassignPlan{kind: planDelegate, delegate: d}
		return nil
	}
	if ContainerOf(st) != NotContainer {
		leaf, err := t.resolveContainer(reg, st, dt)
		if err != nil {
			return err
		}
		t.plan = &reassignPlan{kind: planContainer, leaf: leaf}
		return nil
	}
	_, err := reg.RequireFor(t.source, unboxed(st), t.destination, unboxed(dt))
	return err
}

func (t *Transformation) resolveContainer(reg *Registry, st, dt reflect.Type) (leafPlan, error) {
	if ContainerOf(dt) == NotContainer {
		return leafPlan{}, newError(IncompatibleContainers,
			fmt.Sprintf("%s is a container, %s is not", st, dt))
	}
	sl, sd := ElementType(st)
	dl, dd := ElementType(dt)
	if sd != dd {
		return leafPlan{}, newError(IncompatibleContainers,
			fmt.Sprintf("nesting depth %d does not match %d", sd, dd))
	}
	if IsKeyedMap(sl) || IsKeyedMap(dl) {
		return leafPlan{}, newError(DisallowedMapTarget, "containers of keyed maps cannot be reassigned")
	}
	if isReferenceMapping(sl, dl) {
		return leafPlan{}, nil
	}
	d, err := reg.RequireFor(t.source, unboxed(sl), t.destination, unboxed(dl))
	if err != nil {
		return leafPlan{}, err
	}
	if err := checkDelegate(d); err != nil {
		return leafPlan{}, err
	}
	return leafPlan{delegate: d}, nil
}

// performReassign copies the source property unless it reads as null, in which case the
// destination is left as it is.
func (t *Transformation) performReassign(src, dst reflect.Value) error {
	sv, ok := t.source.Get(src)
	if !ok || isNull(sv) {
		return nil
	}
	dt := t.destination.Type
	var (
		out reflect.Value
		err error
	)
	switch t.plan.kind {
	case planReference:
		out = rebox(sv, dt)
	case planDelegate:
		var existing reflect.Value
		if cur, ok := t.destination.Get(dst); ok {
			existing = mergeTarget(cur)
		}
		out, err = delegateTo(t.plan.delegate, sv, existing, dt)
	case planContainer:
		out, err = t.plan.leaf.convertContainer(sv, dt)
	}
	if err != nil {
		return err
	}
	return t.destination.Set(dst, out)
}

// mergeTarget returns a pointer the delegate can update, or the zero Value when the
// current destination value is null. Pointer fields are updated in place.
func mergeTarget(cur reflect.Value) reflect.Value {
	plain, ok := unbox(cur)
	if !ok {
		return reflect.Value{}
	}
	if cur.Kind() == reflect.Ptr {
		return cur
	}
	p := reflect.New(plain.Type())
	p.Elem().Set(plain)
	return p
}

// delegateTo runs d on the unboxed source and reshapes the result to dt.
func delegateTo(d Delegate, sv, existing reflect.Value, dt reflect.Type) (reflect.Value, error) {
	plain, ok := unbox(sv)
	if !ok {
		return reflect.Zero(dt), nil
	}
	res, err := d.MapValue(plain, existing)
	if err != nil {
		return reflect.Value{}, err
	}
	if !res.IsValid() {
		return reflect.Zero(dt), nil
	}
	if res.Type() == dt {
		return res, nil
	}
	if res.Kind() == reflect.Ptr {
		if res.IsNil() {
			return reflect.Zero(dt), nil
		}
		res = res.Elem()
	}
	return box(res, dt), nil
}

// convertContainer rebuilds v level by level in the container kinds of dt.
func (l leafPlan) convertContainer(v reflect.Value, dt reflect.Type) (reflect.Value, error) {
	if ContainerOf(dt) == NotContainer {
		return l.convert(v, dt)
	}
	if isNull(v) {
		return reflect.Zero(dt), nil
	}
	elems := containerElements(v)
	b := newContainerBuilder(dt, len(elems))
	et := elemOf(dt)
	for _, e := range elems {
		c, err := l.convertContainer(e, et)
		if err != nil {
			return reflect.Value{}, err
		}
		if !b.add(c) {
			return reflect.Value{}, newError(AccessorFailure,
				fmt.Sprintf("%s cannot hold %d elements", dt, len(elems)))
		}
	}
	return b.out, nil
}

func (l leafPlan) convert(v reflect.Value, dt reflect.Type) (reflect.Value, error) {
	if l.delegate == nil {
		return rebox(v, dt), nil
	}
	return delegateTo(l.delegate, v, reflect.Value{}, dt)
}
