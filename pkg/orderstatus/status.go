package orderstatus

import (
	"errors"
	"fmt"
)

// ErrInvalidStatus is returned when a wire value is not a known status.
var ErrInvalidStatus = errors.New("orderstatus: invalid status")

// Status is the order outcome selected on the form.
type Status string

const (
	StatusUnset Status = ""
	// StatusYes marks the order as received.
	StatusYes Status = "yes"
	// StatusNo marks the order as lost.
	StatusNo Status = "no"
	// StatusHold marks the order as on hold.
	StatusHold Status = "hold"
)

// Statuses lists the selectable statuses in display order.
func Statuses() []Status {
	return []Status{StatusYes, StatusNo, StatusHold}
}

// ParseStatus maps a wire value onto a Status. The empty string is unset.
func ParseStatus(raw string) (Status, error) {
	switch s := Status(raw); s {
	case StatusUnset, StatusYes, StatusNo, StatusHold:
		return s, nil
	default:
		return StatusUnset, fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
}

// Label returns the human readable name of the status.
func (s Status) Label() string {
	switch s {
	case StatusYes:
		return "Order received"
	case StatusNo:
		return "Order lost"
	case StatusHold:
		return "On hold"
	default:
		return "Not selected"
	}
}

func (s Status) String() string {
	if s == StatusUnset {
		return "unset"
	}
	return string(s)
}
