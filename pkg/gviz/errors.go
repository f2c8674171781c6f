package gviz

import (
	"errors"
	"fmt"
)

var (
	// ErrPayloadMarkersNotFound is returned when the body does not contain a
	// '{' ... '}' span to decode.
	ErrPayloadMarkersNotFound = errors.New("gviz: payload markers not found")
	// ErrMissingTable is returned when the decoded payload has no table rows.
	ErrMissingTable = errors.New("gviz: table structure missing")
	// ErrEmptyBody is returned for zero-length responses.
	ErrEmptyBody = errors.New("gviz: empty body")
)

// DecodeError wraps a JSON syntax or type error raised while decoding the
// payload span.
type DecodeError struct {
	Offset int
	Err    error
}

func (e *DecodeError) Error() string {
	if e == nil || e.Err == nil {
		return "gviz: decode payload"
	}
	return fmt.Sprintf("gviz: decode payload at offset %d: %v", e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
