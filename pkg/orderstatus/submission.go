package orderstatus

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-orderstatus/pkg/dropdowns"
)

// SubmitPolicy decides what happens to values entered in branches that are
// no longer selected.
type SubmitPolicy string

const (
	// KeepHidden submits every stored key, including hidden branches.
	KeepHidden SubmitPolicy = "keep"
	// DropHidden submits the status and the selected branch only.
	DropHidden SubmitPolicy = "drop"
)

// ParseSubmitPolicy maps a config value onto a policy. Empty means KeepHidden.
func ParseSubmitPolicy(raw string) (SubmitPolicy, error) {
	switch SubmitPolicy(strings.ToLower(strings.TrimSpace(raw))) {
	case "", KeepHidden:
		return KeepHidden, nil
	case DropHidden:
		return DropHidden, nil
	default:
		return "", fmt.Errorf("orderstatus: unknown submit policy %q", raw)
	}
}

// Collect gathers the values to submit for status under policy.
func Collect(data FormData, status Status, policy SubmitPolicy) map[FieldName]Value {
	out := make(map[FieldName]Value)
	if data == nil {
		return out
	}
	for _, field := range AllFields() {
		value, ok := data.Get(field)
		if !ok {
			continue
		}
		if policy == DropHidden {
			branch := field.Branch()
			if branch != StatusUnset && branch != status {
				continue
			}
		}
		out[field] = value
	}
	return out
}

// MissingRequired lists the required fields that have no value: the always
// visible fields, the status itself, then the required fields of the status
// section. Whitespace-only text counts as missing.
func MissingRequired(data FormData, status Status) []FieldName {
	var missing []FieldName
	for _, field := range commonFields {
		if field.Required && !hasValue(data, field.Name) {
			missing = append(missing, field.Name)
		}
	}
	if status == StatusUnset {
		return append(missing, FieldOrderStatus)
	}
	section, ok := SectionFor(status, dropdowns.Set{})
	if !ok {
		return missing
	}
	for _, field := range section.Fields {
		if field.Required && !hasValue(data, field.Name) {
			missing = append(missing, field.Name)
		}
	}
	return missing
}

func hasValue(data FormData, field FieldName) bool {
	if data == nil {
		return false
	}
	value, ok := data.Get(field)
	if !ok {
		return false
	}
	return value.IsFile() || strings.TrimSpace(value.Text()) != ""
}
