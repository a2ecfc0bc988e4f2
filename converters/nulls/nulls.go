// Package nulls converts between plain values and their aarondl/null wrappers.
//
// The typed functions are meant for remap.Func, which lets Build check them against the
// property types:
//
//	m.Replace(func(s *Contact) any { return &s.Comment },
//		func(d *ContactRow) any { return &d.Comment },
//		remap.Func(nulls.StringToNull))
//
// Plain zero values (empty string, zero time) become invalid (null) wrappers; invalid
// wrappers become the plain zero value.
package nulls

import (
	"time"

	"github.com/Station-Manager/errors"
	"github.com/Station-Manager/remap/converters"
	"github.com/aarondl/null/v8"
)

func StringToNull(s string) (null.String, error) {
	if s == "" {
		return null.String{}, nil
	}
	return null.StringFrom(s), nil
}

func NullToString(n null.String) (string, error) {
	if !n.Valid {
		return "", nil
	}
	return n.String, nil
}

func BoolToNull(b bool) (null.Bool, error) { return null.BoolFrom(b), nil }

func NullToBool(n null.Bool) (bool, error) {
	if !n.Valid {
		return false, nil
	}
	return n.Bool, nil
}

func Int64ToNull(i int64) (null.Int64, error) { return null.Int64From(i), nil }

func NullToInt64(n null.Int64) (int64, error) {
	if !n.Valid {
		return 0, nil
	}
	return n.Int64, nil
}

func Float64ToNull(f float64) (null.Float64, error) { return null.Float64From(f), nil }

func NullToFloat64(n null.Float64) (float64, error) {
	if !n.Valid {
		return 0, nil
	}
	return n.Float64, nil
}

// TimeToNull stores t in UTC. The zero time is null.
func TimeToNull(t time.Time) (null.Time, error) {
	if t.IsZero() {
		return null.Time{}, nil
	}
	return null.TimeFrom(t.UTC()), nil
}

func NullToTime(n null.Time) (time.Time, error) {
	if !n.Valid {
		return time.Time{}, nil
	}
	return n.Time, nil
}

// ToNullInt64 is an untyped transform for sources of any integer kind (or a JSON decoded
// float64). A nil source gives an invalid null.Int64.
func ToNullInt64(src any) (any, error) {
	const op errors.Op = "converters.nulls.ToNullInt64"
	if src == nil {
		return null.Int64{}, nil
	}
	i, err := converters.CheckInt64(op, src)
	if err != nil {
		return null.Int64{}, errors.New(op).Err(err)
	}
	return null.Int64From(i), nil
}

// ToNullFloat64 is the untyped transform for float32, float64 and null.Float64 sources.
func ToNullFloat64(src any) (any, error) {
	const op errors.Op = "converters.nulls.ToNullFloat64"
	if src == nil {
		return null.Float64{}, nil
	}
	f, err := converters.CheckFloat64(op, src)
	if err != nil {
		return null.Float64{}, errors.New(op).Err(err)
	}
	return null.Float64From(f), nil
}

// ToNullString is the untyped transform for string and null.String sources. Empty and
// null sources give an invalid null.String.
func ToNullString(src any) (any, error) {
	const op errors.Op = "converters.nulls.ToNullString"
	switch v := src.(type) {
	case nil:
		return null.String{}, nil
	case string:
		return StringToNull(v)
	case null.String:
		return v, nil
	}
	s, err := converters.CheckString(op, src)
	if err != nil {
		return null.String{}, errors.New(op).Err(err)
	}
	return null.StringFrom(s), nil
}

// ToNullTime is the untyped transform for time.Time, *time.Time and null.Time sources.
func ToNullTime(src any) (any, error) {
	const op errors.Op = "converters.nulls.ToNullTime"
	if src == nil {
		return null.Time{}, nil
	}
	if p, ok := src.(*time.Time); ok && p == nil {
		return null.Time{}, nil
	}
	if n, ok := src.(null.Time); ok && !n.Valid {
		return n, nil
	}
	t, err := converters.CheckTime(op, src)
	if err != nil {
		return null.Time{}, errors.New(op).Err(err)
	}
	return TimeToNull(t)
}
