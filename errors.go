package toio

import (
	"errors"
	"fmt"
)

// ErrParse matches every *ParseError via errors.Is
var ErrParse = errors.New("parse error")

// ErrUnexpectedReading is returned by typed reads when the device answers
// with a different kind of sensor packet
var ErrUnexpectedReading = errors.New("unexpected sensor reading")

// ParseError is returned when a sensor packet is malformed or of an unknown type.
// No partial reading is ever returned alongside it.
type ParseError struct {
	Reason string
	Buffer []byte
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s (% x)", e.Reason, e.Buffer)
}

func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// TransportError wraps a failure reported by the underlying characteristic
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("unable to %s characteristic: %s", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
