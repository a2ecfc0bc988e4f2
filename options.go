package remap

import (
	"log/slog"
	"reflect"
)

// Factory creates a destination instance and returns a non-nil pointer to it.
type Factory func(t reflect.Type) (reflect.Value, error)

// NewInstance is the default Factory: a zero value from reflect.New.
func NewInstance(t reflect.Type) (reflect.Value, error) { return reflect.New(t), nil }

type Options struct {
	Factory                 Factory      // creates destinations when no merge target is given
	Logger                  *slog.Logger // configuration-time diagnostics
	DisableImplicitMappings bool         // when true, same-name properties are not reassigned implicitly
}

type Option func(*Options)

func WithFactory(f Factory) Option { return func(o *Options) { o.Factory = f } }
func WithLogger(l *slog.Logger) Option { return func(o *Options) { o.Logger = l } }
func WithoutImplicitMappings() Option { return func(o *Options) { o.DisableImplicitMappings = true } }

func newOptions(opts []Option) Options {
	o := Options{Factory: NewInstance, Logger: slog.New(slog.DiscardHandler)}
	for _, f := range opts {
		f(&o)
	}
	if o.Factory == nil {
		o.Factory = NewInstance
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// TransformOption configures a Replace transformation.
type TransformOption func(*Transformation)

// SkipWhenNull omits the destination write when the source reads as null.
func SkipWhenNull() TransformOption { return func(t *Transformation) { t.skipWhenNull = true } }
