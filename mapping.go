package remap

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/Station-Manager/errors"
)

// State is the lifecycle position of a Mapping.
type State int

const (
	StateBuilding State = iota
	StateValidating
	StateValid
	StateInvalid
)

func (s State) String() string {
	switch s {
	case StateBuilding:
		return "building"
	case StateValidating:
		return "validating"
	case StateValid:
		return "valid"
	case StateInvalid:
		return "invalid"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Mapping declares how a D is populated from an S. Declarations are appended while the
// mapping is building; Build validates them once and produces an immutable Spec.
// Configuration errors are kept and reported by Build; the first one wins.
//
// A Mapping is not safe for concurrent use. Calls made after Build are ignored.
type Mapping[S, D any] struct {
	registry        *Registry
	opts            Options
	srcSensor       *Sensor[S]
	dstSensor       *Sensor[D]
	transformations []*Transformation
	mapped          map[string]bool
	omittedDst      map[string]bool
	omittedSrc      map[string]bool
	omitOthersDst   bool
	omitOthersSrc   bool
	state           State
	err             error
	spec            *Spec[S, D]
}

// NewMapping starts a mapping from S to D. Nested properties resolve their delegates
// from reg when Build runs.
func NewMapping[S, D any](reg *Registry, opts ...Option) *Mapping[S, D] {
	m := &Mapping[S, D]{
		registry:   reg,
		opts:       newOptions(opts),
		mapped:     make(map[string]bool),
		omittedDst: make(map[string]bool),
		omittedSrc: make(map[string]bool),
	}
	if reg == nil {
		m.fail(newError(InvalidArgument, "nil registry"))
		return m
	}
	var err error
	if m.srcSensor, err = NewSensor[S](); err != nil {
		m.fail(err)
		return m
	}
	if m.dstSensor, err = NewSensor[D](); err != nil {
		m.fail(err)
	}
	return m
}

func (m *Mapping[S, D]) fail(err error) {
	if m.err == nil {
		m.err = err
	}
}

func (m *Mapping[S, D]) open() bool {
	return m.state == StateBuilding && m.err == nil
}

// State reports where the mapping is in its lifecycle.
func (m *Mapping[S, D]) State() State { return m.state }

// Reassign copies the selected source property to the selected destination property.
func (m *Mapping[S, D]) Reassign(src Selector[S], dst Selector[D]) *Mapping[S, D] {
	if !m.open() {
		return m
	}
	sp, dp, ok := m.capture(src, dst)
	if ok {
		m.add(newReassign(sp, dp))
	}
	return m
}

// ReassignByName is Reassign with literal property names.
func (m *Mapping[S, D]) ReassignByName(src, dst string) *Mapping[S, D] {
	if !m.open() {
		return m
	}
	sp, dp, ok := m.lookup(src, dst)
	if ok {
		m.add(newReassign(sp, dp))
	}
	return m
}

// Replace populates the destination property with fn applied to the source property.
func (m *Mapping[S, D]) Replace(src Selector[S], dst Selector[D], fn Transformer, opts ...TransformOption) *Mapping[S, D] {
	if !m.open() {
		return m
	}
	sp, dp, ok := m.capture(src, dst)
	if ok {
		m.add(newReplace(sp, dp, fn, opts))
	}
	return m
}

// ReplaceByName is Replace with literal property names.
func (m *Mapping[S, D]) ReplaceByName(src, dst string, fn Transformer, opts ...TransformOption) *Mapping[S, D] {
	if !m.open() {
		return m
	}
	sp, dp, ok := m.lookup(src, dst)
	if ok {
		m.add(newReplace(sp, dp, fn, opts))
	}
	return m
}

// OmitInDestination marks a destination property as intentionally left unwritten.
func (m *Mapping[S, D]) OmitInDestination(dst Selector[D]) *Mapping[S, D] {
	if !m.open() {
		return m
	}
	ref, err := m.dstSensor.Capture(dst)
	if err != nil {
		m.fail(err)
		return m
	}
	dp, _ := m.dstSensor.Property(ref)
	m.omitDestination(dp)
	return m
}

// OmitInSource marks a source property as intentionally left unread.
func (m *Mapping[S, D]) OmitInSource(src Selector[S]) *Mapping[S, D] {
	if !m.open() {
		return m
	}
	ref, err := m.srcSensor.Capture(src)
	if err != nil {
		m.fail(err)
		return m
	}
	sp, _ := m.srcSensor.Property(ref)
	m.omittedSrc[sp.Name] = true
	return m
}

// OmitOthersInDestination turns off the completeness check for destination properties.
func (m *Mapping[S, D]) OmitOthersInDestination() *Mapping[S, D] {
	if m.open() {
		m.omitOthersDst = true
	}
	return m
}

// OmitOthersInSource turns off the completeness check for source properties.
func (m *Mapping[S, D]) OmitOthersInSource() *Mapping[S, D] {
	if m.open() {
		m.omitOthersSrc = true
	}
	return m
}

func (m *Mapping[S, D]) capture(src Selector[S], dst Selector[D]) (*Property, *Property, bool) {
	sref, err := m.srcSensor.Capture(src)
	if err != nil {
		m.fail(err)
		return nil, nil, false
	}
	dref, err := m.dstSensor.Capture(dst)
	if err != nil {
		m.fail(err)
		return nil, nil, false
	}
	sp, _ := m.srcSensor.Property(sref)
	dp, _ := m.dstSensor.Property(dref)
	return sp, dp, true
}

func (m *Mapping[S, D]) lookup(src, dst string) (*Property, *Property, bool) {
	sp, ok := m.srcSensor.desc.Lookup(src)
	if !ok {
		m.fail(&MappingError{Kind: UnknownProperty, SourceProperty: src, SourceType: m.srcSensor.desc.Type})
		return nil, nil, false
	}
	dp, ok := m.dstSensor.desc.Lookup(dst)
	if !ok {
		m.fail(&MappingError{Kind: UnknownProperty, DestinationProperty: dst, DestinationType: m.dstSensor.desc.Type})
		return nil, nil, false
	}
	return sp, dp, true
}

func (m *Mapping[S, D]) add(t *Transformation) {
	name := t.destination.Name
	if m.mapped[name] || m.omittedDst[name] {
		m.fail(withEndpoints(newError(AlreadyMapped, "destination is already mapped or omitted"),
			t.variant, t.source, t.destination))
		return
	}
	m.mapped[name] = true
	m.transformations = append(m.transformations, t)
}

func (m *Mapping[S, D]) omitDestination(dp *Property) {
	if m.mapped[dp.Name] || m.omittedDst[dp.Name] {
		m.fail(&MappingError{Kind: AlreadyMapped, DestinationProperty: dp.String(), DestinationType: dp.Type,
			Detail: "destination is already mapped or omitted"})
		return
	}
	m.omittedDst[dp.Name] = true
}

// Build validates the mapping once. A valid mapping yields the same Spec on every call,
// an invalid one the same error.
func (m *Mapping[S, D]) Build() (*Spec[S, D], error) {
	switch m.state {
	case StateValid:
		return m.spec, nil
	case StateInvalid:
		return nil, m.err
	}
	m.state = StateValidating
	spec, err := m.validate()
	if err != nil {
		m.state = StateInvalid
		m.err = err
		m.opts.Logger.Debug("remap: mapping invalid", "error", err)
		return nil, err
	}
	m.state = StateValid
	m.spec = spec
	m.opts.Logger.Debug("remap: mapping valid",
		"source", spec.source.String(),
		"destination", spec.destination.String(),
		"transformations", len(spec.transformations))
	return spec, nil
}

// Mapper builds the mapping and wraps the resulting Spec.
func (m *Mapping[S, D]) Mapper() (*Mapper[S, D], error) {
	spec, err := m.Build()
	if err != nil {
		return nil, err
	}
	return NewMapper(spec)
}

func (m *Mapping[S, D]) validate() (*Spec[S, D], error) {
	if m.err != nil {
		return nil, m.err
	}
	srcDesc, dstDesc := m.srcSensor.desc, m.dstSensor.desc
	ts := append([]*Transformation(nil), m.transformations...)
	if !m.opts.DisableImplicitMappings {
		for _, dp := range dstDesc.Properties() {
			if m.mapped[dp.Name] || m.omittedDst[dp.Name] || !dp.CanWrite() {
				continue
			}
			sp, ok := srcDesc.Property(dp.Name)
			if !ok || m.omittedSrc[sp.Name] {
				continue
			}
			t := newReassign(sp, dp)
			t.implicit = true
			ts = append(ts, t)
		}
	}

	written := make(map[string]bool, len(ts))
	read := make(map[string]bool, len(ts))
	for _, t := range ts {
		if err := t.validate(m.registry); err != nil {
			return nil, err
		}
		written[t.destination.Name] = true
		read[t.source.Name] = true
	}

	if !m.omitOthersDst {
		var missing []*Property
		for _, dp := range dstDesc.Properties() {
			if dp.CanWrite() && !written[dp.Name] && !m.omittedDst[dp.Name] {
				missing = append(missing, dp)
			}
		}
		if len(missing) > 0 {
			return nil, &MappingError{Kind: UnmappedProperty, DestinationProperty: missing[0].String(),
				DestinationType: dstDesc.Type, Detail: "destination properties not mapped: " + propertyNames(missing)}
		}
	}
	if !m.omitOthersSrc {
		var missing []*Property
		for _, sp := range srcDesc.Properties() {
			if !read[sp.Name] && !m.omittedSrc[sp.Name] {
				missing = append(missing, sp)
			}
		}
		if len(missing) > 0 {
			return nil, &MappingError{Kind: UnmappedProperty, SourceProperty: missing[0].String(),
				SourceType: srcDesc.Type, Detail: "source properties not mapped: " + propertyNames(missing)}
		}
	}

	return &Spec[S, D]{
		source:          srcDesc.Type,
		destination:     dstDesc.Type,
		transformations: ts,
		factory:         m.opts.Factory,
	}, nil
}

func propertyNames(ps []*Property) string {
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = p.Name
	}
	return strings.Join(names, ", ")
}

// Spec is a validated, immutable mapping from S to D. It is safe for concurrent use.
type Spec[S, D any] struct {
	source          reflect.Type
	destination     reflect.Type
	transformations []*Transformation
	factory         Factory
}

func (s *Spec[S, D]) SourceType() reflect.Type { return s.source }
func (s *Spec[S, D]) DestinationType() reflect.Type { return s.destination }

// Transformations returns the transformations in execution order.
func (s *Spec[S, D]) Transformations() []*Transformation {
	return append([]*Transformation(nil), s.transformations...)
}

func (s *Spec[S, D]) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Mapping from %s\n           to %s\n", s.source, s.destination)
	for _, t := range s.transformations {
		b.WriteString(t.String())
		b.WriteByte('\n')
	}
	return b.String()
}

func (s *Spec[S, D]) newDestination() (reflect.Value, error) {
	const op errors.Op = "remap.Spec.newDestination"
	v, err := s.factory(s.destination)
	if err != nil {
		return reflect.Value{}, &MappingError{Kind: AccessorFailure, DestinationType: s.destination,
			Detail: "factory failed", Err: errors.New(op).Err(err)}
	}
	if !v.IsValid() || v.Type() != reflect.PointerTo(s.destination) || v.IsNil() {
		return reflect.Value{}, &MappingError{Kind: InvalidArgument, DestinationType: s.destination,
			Detail: "factory must return a non-nil pointer to the destination type"}
	}
	return v, nil
}

// execute runs every transformation in order and stops at the first failure. Writes
// already made stay in dst.
func (s *Spec[S, D]) execute(src, dst reflect.Value) error {
	for _, t := range s.transformations {
		if err := t.perform(src, dst); err != nil {
			return err
		}
	}
	return nil
}
