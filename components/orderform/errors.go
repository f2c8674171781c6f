package orderform

import (
	"errors"
	"net/http"

	"github.com/goliatone/go-orderstatus/pkg/orderstatus"
)

var ErrSessionNotFound = errors.New("orderform: session not found")

type HTTPError interface {
	error
	StatusCode() int
}

type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

func badRequest(err error) error {
	return StatusError{Code: http.StatusBadRequest, Err: err}
}

// statusCode maps an error onto the response code: HTTPError values carry
// their own, field and status parse errors are client errors.
func statusCode(err error, fallback int) int {
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		if code := httpErr.StatusCode(); code > 0 {
			return code
		}
	}
	switch {
	case errors.Is(err, orderstatus.ErrUnknownField), errors.Is(err, orderstatus.ErrInvalidStatus):
		return http.StatusBadRequest
	case errors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound
	}
	return fallback
}

func writeError(w http.ResponseWriter, err error, fallback int) {
	if w == nil {
		return
	}
	code := fallback
	if err != nil {
		code = statusCode(err, fallback)
	}
	http.Error(w, http.StatusText(code), code)
}
