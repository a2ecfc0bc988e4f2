// Package remap provides declarative, validated struct-to-struct mapping.
//
// A Mapping declares once how each property of a destination type D is populated from a
// source type S. Build validates the declaration eagerly (completeness and type
// compatibility) and yields an immutable Spec; a Mapper executes the Spec any number of
// times.
//
// # Basic Usage
//
//	reg := remap.NewRegistry()
//	mapper, err := remap.NewMapping[Contact, ContactRow](reg).
//		Reassign(func(s *Contact) any { return &s.Call }, func(d *ContactRow) any { return &d.Callsign }).
//		Mapper()
//	row, err := mapper.Map(&contact)
//
// # Selecting Properties
//
// Properties are picked with selectors that return the address of a field on the
// stand-in they receive. The selector runs once, at declaration time, against a
// zero-valued stand-in; it must reference exactly one field. ReassignByName and
// ReplaceByName take literal names instead (Go field name, falling back to the json tag).
//
// # Transformations
//
// Reassign copies a source property to a destination property. What the copy does is
// decided by Build from the two property types, in this order:
//  1. Keyed maps (any map whose value type is not struct{}) are rejected; use Replace
//  2. Identical types, or two boxed forms of the same type (T, *T and the aarondl/null
//     wrappers), are copied directly
//  3. A delegate registered for the (unboxed) type pair maps the value, merging into the
//     destination's current value when there is one
//  4. Slices, arrays and sets (map[K]struct{}) of the same nesting depth are rebuilt
//     element by element
//  5. Anything else fails with NoMapperRegistered
//
// A source that reads as null (nil pointer, slice, map or interface, an invalid null.X,
// or a nil embedded pointer on the way) leaves the destination untouched.
//
// Replace applies a Transformer. Func wraps a typed function so Build can check it against
// both property types; SkipWhenNull suppresses the call (and the write) on null sources.
//
// # Implicit Mappings and Completeness
//
// Destination properties without a declaration are reassigned from the source property
// of the same name, unless WithoutImplicitMappings is given. After that, every writable
// destination property must be written and every source property read, or Build fails
// with UnmappedProperty. OmitInDestination, OmitInSource and the OmitOthers variants
// switch the check off where intended.
//
// # Nested Types
//
// A Mapper is itself a Delegate. Add it to the Registry (Use does both steps) so that
// mappings built later can reassign properties of its source type:
//
//	remap.Use(reg, remap.NewMapping[Address, AddressDTO](reg))
//	remap.NewMapping[Customer, CustomerDTO](reg) // Home Address -> Home AddressDTO
//
// Convert turns a plain function into a Delegate for scalar pairs such as int -> int64.
//
// # Struct Tags
//
//	type Contact struct {
//	    Call     string
//	    Password string `remap:"-"`        // not a property
//	    Token    string `remap:"ignore"`   // alternative syntax
//	    Checksum string `remap:"readonly"` // readable, never written
//	}
//
// Embedded struct fields (including pointer-to-struct) are flattened and treated as if
// they were declared directly on the embedding type.
//
// # Errors
//
// Every failure is a *MappingError carrying a Kind and, where known, the transformation
// variant and both endpoints. Use IsKind or KindOf to branch on it.
//
// # Thread Safety
//
// Spec and Mapper are immutable and safe for concurrent use. The Registry is safe for
// concurrent reads and writes (copy-on-write). Mapping and Sensor are single-goroutine
// builders.
package remap
