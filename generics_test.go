package remap

import (
	"errors"
	"reflect"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert_Delegate(t *testing.T) {
	d := Convert(func(i int) (string, error) { return strconv.Itoa(i), nil })
	assert.Equal(t, typeOf[int](), d.SourceType())
	assert.Equal(t, typeOf[string](), d.DestinationType())

	out, err := d.MapValue(reflect.ValueOf(42), reflect.Value{})
	require.NoError(t, err)
	assert.Equal(t, "42", out.Elem().String())

	_, err = d.MapValue(reflect.ValueOf("42"), reflect.Value{})
	assert.True(t, IsKind(err, InvalidArgument))

	failing := Convert(func(int) (string, error) { return "", errors.New("nope") })
	_, err = failing.MapValue(reflect.ValueOf(1), reflect.Value{})
	assert.True(t, IsKind(err, AccessorFailure))
}

func TestConvert_RejectedAtBuild(t *testing.T) {
	type ptrSrc struct{ V *int }
	type plainDst struct{ V string }
	type plainSrc struct{ V int }

	tests := []struct {
		name  string
		d     Delegate
		build func(*Registry) error
	}{
		{
			name: "pointer source type",
			d:    Convert(func(p *int) (string, error) { return strconv.Itoa(*p), nil }),
			build: func(reg *Registry) error {
				_, err := NewMapping[ptrSrc, plainDst](reg).Build()
				return err
			},
		},
		{
			name: "pointer destination type",
			d:    Convert(func(i int) (*string, error) { s := strconv.Itoa(i); return &s, nil }),
			build: func(reg *Registry) error {
				_, err := NewMapping[plainSrc, plainDst](reg).Build()
				return err
			},
		},
		{
			name: "nil function",
			d:    Convert[int, string](nil),
			build: func(reg *Registry) error {
				_, err := NewMapping[plainSrc, plainDst](reg).Build()
				return err
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry()
			reg.Add(tt.d)
			err := tt.build(reg)
			require.Error(t, err)
			assert.True(t, IsKind(err, InvalidArgument), err.Error())
		})
	}
}

func TestUseAndMap(t *testing.T) {
	reg := NewRegistry()
	mapper, err := Use(reg, addressMapping(reg))
	require.NoError(t, err)
	assert.Equal(t, 1, reg.Len())

	dto, err := Map(mapper, Address{City: "Kiel"})
	require.NoError(t, err)
	assert.Equal(t, AddressDTO{City: "Kiel"}, dto)

	_, err = Use(reg, NewMapping[wide, narrow](reg))
	assert.True(t, IsKind(err, UnmappedProperty))
	assert.Equal(t, 1, reg.Len())
}
