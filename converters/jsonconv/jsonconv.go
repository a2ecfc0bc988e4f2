// Package jsonconv holds JSON backed transforms. They fit the properties a Reassign
// cannot take, keyed maps in particular, and loosely aligned nested values:
//
//	m.Replace(func(s *Contact) any { return &s.Extra },
//		func(d *ContactRow) any { return &d.AdditionalData },
//		remap.TransformFunc(jsonconv.ToNullJSON))
//
// Encoding uses goccy/go-json. A value that encodes to JSON null becomes an empty
// types.JSON or an invalid null.JSON.
package jsonconv

import (
	"bytes"

	"github.com/Station-Manager/errors"
	"github.com/aarondl/null/v8"
	boilertypes "github.com/aarondl/sqlboiler/v4/types"
	"github.com/goccy/go-json"
)

var jsonNull = []byte("null")

func marshal(op errors.Op, src any) ([]byte, error) {
	if src == nil {
		return nil, nil
	}
	data, err := json.Marshal(src)
	if err != nil {
		return nil, errors.New(op).Err(err)
	}
	if bytes.Equal(data, jsonNull) {
		return nil, nil
	}
	return data, nil
}

// ToJSON encodes src as a sqlboiler types.JSON.
func ToJSON(src any) (any, error) {
	const op errors.Op = "converters.jsonconv.ToJSON"
	data, err := marshal(op, src)
	if err != nil {
		return boilertypes.JSON(nil), err
	}
	return boilertypes.JSON(data), nil
}

// ToNullJSON encodes src as a null.JSON.
func ToNullJSON(src any) (any, error) {
	const op errors.Op = "converters.jsonconv.ToNullJSON"
	data, err := marshal(op, src)
	if err != nil {
		return null.JSON{}, err
	}
	if data == nil {
		return null.JSON{}, nil
	}
	return null.JSONFrom(data), nil
}

// raw extracts the encoded bytes from the JSON carriers FromJSON accepts. ok is false for
// an unsupported type.
func raw(src any) (data []byte, ok bool) {
	switch v := src.(type) {
	case nil:
		return nil, true
	case boilertypes.JSON:
		return v, true
	case null.JSON:
		if !v.Valid {
			return nil, true
		}
		return v.JSON, true
	case []byte:
		return v, true
	case string:
		return []byte(v), true
	case json.RawMessage:
		return v, true
	}
	return nil, false
}

// FromJSON decodes a types.JSON, null.JSON, []byte or string source into a T. Empty and
// null sources give the zero T.
func FromJSON[T any](src any) (any, error) {
	const op errors.Op = "converters.jsonconv.FromJSON"
	var out T
	data, ok := raw(src)
	if !ok {
		return out, errors.New(op).Errorf("Given parameter not a JSON carrier, got %T", src)
	}
	if len(data) == 0 || bytes.Equal(data, jsonNull) {
		return out, nil
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, errors.New(op).Err(err)
	}
	return out, nil
}

// ViaJSON converts src to a T with a JSON round trip. Fields are matched by their JSON
// names, so it only suits types whose encodings line up; prefer a registered mapper for
// anything else.
func ViaJSON[T any](src any) (any, error) {
	const op errors.Op = "converters.jsonconv.ViaJSON"
	var out T
	data, err := marshal(op, src)
	if err != nil || data == nil {
		return out, err
	}
	if err = json.Unmarshal(data, &out); err != nil {
		return out, errors.New(op).Err(err)
	}
	return out, nil
}
