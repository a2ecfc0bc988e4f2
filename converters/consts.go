package converters

const (
	ErrMsgParamEmpty     = "Parameter cannot be empty."
	ErrMsgParamNull      = "Parameter is null."
	ErrMsgNotIntegral    = "Parameter has a fractional part, expected a whole number"
	ErrMsgIntegerOverrun = "Parameter does not fit in an int64"
	ErrMsgBadTimeFormat  = "Bad time format, expected HH:MM or HHMM"
	ErrMsgBadDateFormat  = "Bad date format, expected YYYYMMDD or YYYY-MM-DD"
)
