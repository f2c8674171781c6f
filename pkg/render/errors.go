package render

import (
	"strings"

	"github.com/goliatone/go-orderstatus/pkg/orderstatus"
)

// RequiredMessage is the default text attached to a missing required field.
const RequiredMessage = "This field is required."

// RequiredErrors maps missing fields onto the field error shape renderers
// consume.
func RequiredErrors(missing []orderstatus.FieldName) map[orderstatus.FieldName][]string {
	if len(missing) == 0 {
		return nil
	}
	out := make(map[orderstatus.FieldName][]string, len(missing))
	for _, field := range missing {
		out[field] = MergeMessages(out[field], RequiredMessage)
	}
	return out
}

// MergeMessages concatenates message slices, trimming whitespace and removing
// duplicates while preserving order.
func MergeMessages(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(messages))
	out := make([]string, 0, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
