// Package timefmt converts between time.Time values and the compact date and time-of-day
// strings used by logbook formats. Dates are written as YYYYMMDD and read as YYYYMMDD or
// YYYY-MM-DD. Times of day are written as HHMM and read as HHMM or HH:MM.
package timefmt

import (
	"time"

	"github.com/Station-Manager/errors"
	"github.com/Station-Manager/remap/converters"
	"github.com/aarondl/null/v8"
)

const (
	DateLayout    = "20060102"
	DateLayoutISO = "2006-01-02"
	TimeLayout    = "1504"
	TimeLayoutISO = "15:04"
)

// isEmpty reports the sources that read as no value: nil, "" and an invalid null.String.
func isEmpty(src any) bool {
	switch v := src.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case null.String:
		return !v.Valid || v.String == ""
	}
	return false
}

// isNullTime reports the time sources that read as no value.
func isNullTime(src any) bool {
	switch v := src.(type) {
	case nil:
		return true
	case *time.Time:
		return v == nil
	case null.Time:
		return !v.Valid
	}
	return false
}

// DateToString formats a time.Time, *time.Time or null.Time as YYYYMMDD in UTC. Null
// sources give "".
func DateToString(src any) (any, error) {
	const op errors.Op = "converters.timefmt.DateToString"
	if isNullTime(src) {
		return "", nil
	}
	t, err := converters.CheckTime(op, src)
	if err != nil {
		return "", errors.New(op).Err(err)
	}
	return t.UTC().Format(DateLayout), nil
}

// StringToDate parses a YYYYMMDD or YYYY-MM-DD string (or null.String) into a UTC
// midnight time.Time. Empty sources give the zero time.
func StringToDate(src any) (any, error) {
	const op errors.Op = "converters.timefmt.StringToDate"
	if isEmpty(src) {
		return time.Time{}, nil
	}
	srcVal, err := converters.CheckString(op, src)
	if err != nil {
		return time.Time{}, errors.New(op).Err(err)
	}

	var retVal time.Time
	switch {
	case len(srcVal) == 8:
		retVal, err = time.Parse(DateLayout, srcVal)
	case len(srcVal) == 10 && srcVal[4] == '-' && srcVal[7] == '-':
		retVal, err = time.Parse(DateLayoutISO, srcVal)
	default:
		return time.Time{}, errors.New(op).Msg(converters.ErrMsgBadDateFormat)
	}
	if err != nil {
		return time.Time{}, errors.New(op).Err(err).Msg(converters.ErrMsgBadDateFormat)
	}
	return retVal, nil
}

// TimeToString formats the time of day of a time.Time, *time.Time or null.Time as HHMM
// in UTC. Null sources give "".
func TimeToString(src any) (any, error) {
	const op errors.Op = "converters.timefmt.TimeToString"
	if isNullTime(src) {
		return "", nil
	}
	t, err := converters.CheckTime(op, src)
	if err != nil {
		return "", errors.New(op).Err(err)
	}
	return t.UTC().Format(TimeLayout), nil
}

// StringToTime parses an HHMM or HH:MM string (or null.String). The result carries only
// the hour and minute, on the zero date in UTC. Empty sources give the zero time.
func StringToTime(src any) (any, error) {
	const op errors.Op = "converters.timefmt.StringToTime"
	if isEmpty(src) {
		return time.Time{}, nil
	}
	srcVal, err := converters.CheckString(op, src)
	if err != nil {
		return time.Time{}, errors.New(op).Err(err)
	}

	var retVal time.Time
	switch {
	case len(srcVal) == 5 && srcVal[2] == ':':
		retVal, err = time.Parse(TimeLayoutISO, srcVal)
	case len(srcVal) == 4:
		retVal, err = time.Parse(TimeLayout, srcVal)
	default:
		return time.Time{}, errors.New(op).Msg(converters.ErrMsgBadTimeFormat)
	}
	if err != nil {
		return time.Time{}, errors.New(op).Err(err).Msg(converters.ErrMsgBadTimeFormat)
	}
	return retVal, nil
}
