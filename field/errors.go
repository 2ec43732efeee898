package field

import "errors"

var (
	// ErrUnknownFieldType is returned for a field type without a renderer.
	ErrUnknownFieldType = errors.New("field: unknown field type")

	// ErrUnknownEvent is returned by ParseEvent.
	ErrUnknownEvent = errors.New("field: unknown event")

	// ErrInvalidValue is returned when a submitted value cannot be decoded.
	ErrInvalidValue = errors.New("field: invalid value")
)
