package render

import "github.com/goliatone/go-orderstatus/pkg/orderstatus"

// RenderOptions describe per-request data renderers use without touching the
// component state.
type RenderOptions struct {
	// ChangeAction is the endpoint that receives one field change per request.
	ChangeAction string
	// SubmitAction is the form's submit target.
	SubmitAction string
	// OptionsURL lets client code poll for dropdown lists while they load.
	OptionsURL string
	// Hidden carries extra inputs such as the session id or a CSRF token.
	Hidden map[string]string
	// Errors surfaces messages keyed by field (for example missing required
	// fields after a submit attempt).
	Errors map[orderstatus.FieldName][]string
}
