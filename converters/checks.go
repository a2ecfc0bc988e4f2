// Package converters holds ready-made transform functions for remap Replace
// transformations, grouped by concern in sub packages, and the argument checks they share.
package converters

import (
	"math"
	"time"

	"github.com/Station-Manager/errors"
	"github.com/aarondl/null/v8"
)

// CheckString returns the string held by src, which may be a string or a valid
// null.String. Empty strings are rejected.
func CheckString(op errors.Op, src any) (string, error) {
	var srcVal string
	switch v := src.(type) {
	case string:
		srcVal = v
	case null.String:
		if !v.Valid {
			return "", errors.New(op).Msg(ErrMsgParamNull)
		}
		srcVal = v.String
	default:
		return "", errors.New(op).Errorf("Given parameter not a string, got %T", src)
	}
	if srcVal == "" {
		return "", errors.New(op).Msg(ErrMsgParamEmpty)
	}
	return srcVal, nil
}

// CheckFloat64 accepts float64, float32 and a valid null.Float64.
func CheckFloat64(op errors.Op, src any) (float64, error) {
	switch v := src.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case null.Float64:
		if !v.Valid {
			return 0, errors.New(op).Msg(ErrMsgParamNull)
		}
		return v.Float64, nil
	}
	return 0, errors.New(op).Errorf("Given parameter not a float64, got %T", src)
}

// CheckInt64 accepts every integer kind, a valid null.Int64, and a float64 without a
// fractional part (numbers decoded from JSON arrive as float64).
func CheckInt64(op errors.Op, src any) (int64, error) {
	switch v := src.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case uint:
		if uint64(v) > math.MaxInt64 {
			return -1, errors.New(op).Msg(ErrMsgIntegerOverrun)
		}
		return int64(v), nil
	case uint64:
		if v > math.MaxInt64 {
			return -1, errors.New(op).Msg(ErrMsgIntegerOverrun)
		}
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint8:
		return int64(v), nil
	case float64:
		if v != math.Trunc(v) {
			return -1, errors.New(op).Msg(ErrMsgNotIntegral)
		}
		if v >= math.MaxInt64 || v < math.MinInt64 {
			return -1, errors.New(op).Msg(ErrMsgIntegerOverrun)
		}
		return int64(v), nil
	case null.Int64:
		if !v.Valid {
			return -1, errors.New(op).Msg(ErrMsgParamNull)
		}
		return v.Int64, nil
	}
	return -1, errors.New(op).Errorf("Given parameter not a int64, got %T", src)
}

// CheckTime accepts time.Time, a non-nil *time.Time and a valid null.Time.
func CheckTime(op errors.Op, src any) (time.Time, error) {
	switch v := src.(type) {
	case time.Time:
		return v, nil
	case *time.Time:
		if v == nil {
			return time.Time{}, errors.New(op).Msg(ErrMsgParamNull)
		}
		return *v, nil
	case null.Time:
		if !v.Valid {
			return time.Time{}, errors.New(op).Msg(ErrMsgParamNull)
		}
		return v.Time, nil
	}
	return time.Time{}, errors.New(op).Errorf("Given parameter not a time.Time, got %T", src)
}
