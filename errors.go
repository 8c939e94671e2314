package ihex

import (
	"github.com/narpfel/ihex/internal/translate"
)

var f = translate.From

// ErrorType classifies every failure reported by this package.
// It implements error so it can be used as an errors.Is target.
type ErrorType uint

const (
	FormatError   ErrorType = 1 // Malformed line, unknown record type or missing end of file
	ChecksumError ErrorType = 2 // Record checksum mismatch
	NotFoundError ErrorType = 3 // Address not covered by any area
	ConfigError   ErrorType = 4 // Row width or mode out of range
	RangeError    ErrorType = 5 // Address range not representable
)

func (et ErrorType) Error() string {
	switch et {
	case FormatError:
		return f("format error")
	case ChecksumError:
		return f("checksum error")
	case NotFoundError:
		return f("not found error")
	case ConfigError:
		return f("config error")
	case RangeError:
		return f("range error")
	}
	return f("error")
}

// Error is the concrete error returned by all operations.
type Error struct {
	ErrorType ErrorType
	Message   string
	LineNum   uint  // 1-based input line, 0 when not decoding
	Err       error // Underlying cause, if any
}

func (e *Error) Error() string {
	if e.LineNum == 0 {
		return f("%v: %v", e.ErrorType, e.Message)
	}
	return f("%v: %v at line %d", e.ErrorType, e.Message, e.LineNum)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the ErrorType of e.
func (e *Error) Is(target error) bool {
	et, ok := target.(ErrorType)
	return ok && et == e.ErrorType
}

func newError(et ErrorType, msg string) error {
	return &Error{ErrorType: et, Message: msg}
}

func wrapError(et ErrorType, msg string, err error) error {
	return &Error{ErrorType: et, Message: msg, Err: err}
}

// atLine stamps a decode error with the line it came from.
func atLine(err error, line uint) error {
	if e, ok := err.(*Error); ok && e.LineNum == 0 {
		e.LineNum = line
	}
	return err
}
