package remap

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"
)

// Kind classifies a MappingError.
type Kind int

const (
	KindUnknown Kind = iota
	// NotAFieldReference: a capture session observed something other than a field read.
	NotAFieldReference
	// NoValueTypeOnAccessor: the referenced accessor carries no value type.
	NoValueTypeOnAccessor
	// DisallowedMapTarget: a reassign touches a keyed map.
	DisallowedMapTarget
	// NoMapperRegistered: a delegate is required but the registry has none.
	NoMapperRegistered
	// AmbiguousOrMissingCaptureSession: a capture session recorded zero or several fields.
	AmbiguousOrMissingCaptureSession
	// AccessorFailure: reading, converting or writing a live value failed.
	AccessorFailure
	UnknownProperty
	PropertyNotWritable
	AlreadyMapped
	UnmappedProperty
	IncompatibleContainers
	TransformTypeMismatch
	NilTransform
	InvalidArgument
)

var kindNames = map[Kind]string{
	KindUnknown:                      "unknown",
	NotAFieldReference:               "not a field reference",
	NoValueTypeOnAccessor:            "no value type on read accessor",
	DisallowedMapTarget:              "reassign on keyed map denied",
	NoMapperRegistered:               "no mapper registered",
	AmbiguousOrMissingCaptureSession: "ambiguous or missing field reference",
	AccessorFailure:                  "accessor failure",
	UnknownProperty:                  "unknown property",
	PropertyNotWritable:              "property not writable",
	AlreadyMapped:                    "property already mapped",
	UnmappedProperty:                 "unmapped property",
	IncompatibleContainers:           "incompatible containers",
	TransformTypeMismatch:            "transform type mismatch",
	NilTransform:                     "nil transform function",
	InvalidArgument:                  "invalid argument",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MappingError is the structured failure produced by configuration and execution.
// Message formatting beyond Error() is left to the caller.
type MappingError struct {
	Kind                Kind
	Variant             Variant
	SourceProperty      string
	DestinationProperty string
	SourceType          reflect.Type
	DestinationType     reflect.Type
	Detail              string
	Err                 error
}

func (e *MappingError) Error() string {
	var b strings.Builder
	b.WriteString("remap: ")
	b.WriteString(e.Kind.String())
	if e.Variant != VariantNone {
		b.WriteString(" (")
		b.WriteString(e.Variant.String())
		b.WriteString(")")
	}
	if e.SourceProperty != "" || e.SourceType != nil {
		b.WriteString(" from ")
		b.WriteString(endpoint(e.SourceProperty, e.SourceType))
	}
	if e.DestinationProperty != "" || e.DestinationType != nil {
		b.WriteString(" to ")
		b.WriteString(endpoint(e.DestinationProperty, e.DestinationType))
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *MappingError) Unwrap() error { return e.Err }

func endpoint(prop string, t reflect.Type) string {
	switch {
	case prop != "" && t != nil:
		return prop + " [" + t.String() + "]"
	case t != nil:
		return t.String()
	default:
		return prop
	}
}

// IsKind reports whether err, or any error it wraps, is a MappingError of kind k.
func IsKind(err error, k Kind) bool {
	var me *MappingError
	if !stderrors.As(err, &me) {
		return false
	}
	return me.Kind == k
}

// KindOf returns the kind of the outermost MappingError in err's chain.
func KindOf(err error) Kind {
	var me *MappingError
	if stderrors.As(err, &me) {
		return me.Kind
	}
	return KindUnknown
}

func newError(k Kind, detail string) *MappingError {
	return &MappingError{Kind: k, Detail: detail}
}

// withEndpoints fills in the property context of err when it is not set yet.
func withEndpoints(err error, v Variant, src, dst *Property) error {
	var me *MappingError
	if !stderrors.As(err, &me) {
		return err
	}
	if me.Variant == VariantNone {
		me.Variant = v
	}
	if me.SourceProperty == "" && src != nil {
		me.SourceProperty = src.String()
		if me.SourceType == nil {
			me.SourceType = src.Type
		}
	}
	if me.DestinationProperty == "" && dst != nil {
		me.DestinationProperty = dst.String()
		if me.DestinationType == nil {
			me.DestinationType = dst.Type
		}
	}
	return err
}
