// Package orderform hosts the order status component over net/http. Each
// browser session owns its form data and one mounted component; the handler
// serves the form page, accepts one field change per request, reports the
// dropdown lists while they load, and validates required fields on submit.
package orderform
