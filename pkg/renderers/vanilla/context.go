package vanilla

import (
	"html"
	"sort"
	"strconv"
	"strings"

	theme "github.com/goliatone/go-theme"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-orderstatus/pkg/orderstatus"
	"github.com/goliatone/go-orderstatus/pkg/render"
)

// Option labels come from the dropdown sheet; the strict policy strips any
// markup a sheet editor typed into a cell before the template escapes it.
var labelPolicy = bluemonday.StrictPolicy()

func scrubLabel(label string) string {
	if label == "" {
		return ""
	}
	return html.UnescapeString(labelPolicy.Sanitize(label))
}

func buildFormContext(view orderstatus.View, options render.RenderOptions) map[string]any {
	form := map[string]any{
		"change_action": options.ChangeAction,
		"submit_action": options.SubmitAction,
		"options_url":   options.OptionsURL,
		"loading":       view.Loading,
		"loading_attr":  strconv.FormatBool(view.Loading),
		"origin":        string(view.Origin),
		"status":        view.Status.String(),
		"statuses":      statusOptions(view),
		"status_errors": options.Errors[orderstatus.FieldOrderStatus],
		"common":        commonContext(view, options),
		"hidden":        hiddenInputs(options.Hidden),
	}
	if view.Section != nil {
		form["section"] = sectionContext(*view.Section, view, options)
	}
	return form
}

func statusOptions(view orderstatus.View) []map[string]any {
	out := make([]map[string]any, 0, len(view.Statuses))
	for _, status := range view.Statuses {
		value := string(status)
		out = append(out, map[string]any{
			"id":      fieldID(orderstatus.FieldOrderStatus, value),
			"value":   value,
			"label":   status.Label(),
			"checked": status == view.Status,
		})
	}
	return out
}

func commonContext(view orderstatus.View, options render.RenderOptions) []map[string]any {
	fields := make([]map[string]any, 0, len(view.Common))
	for _, spec := range view.Common {
		fields = append(fields, fieldContext(spec, view, options.Errors[spec.Name]))
	}
	return fields
}

func sectionContext(section orderstatus.Section, view orderstatus.View, options render.RenderOptions) map[string]any {
	fields := make([]map[string]any, 0, len(section.Fields))
	for _, spec := range section.Fields {
		fields = append(fields, fieldContext(spec, view, options.Errors[spec.Name]))
	}
	return map[string]any{
		"status": string(section.Status),
		"title":  section.Title,
		"fields": fields,
	}
}

func fieldContext(spec orderstatus.FieldSpec, view orderstatus.View, errors []string) map[string]any {
	value := view.Text(spec.Name)
	field := map[string]any{
		"id":       fieldID(spec.Name, ""),
		"name":     string(spec.Name),
		"label":    spec.Label,
		"kind":     string(spec.Kind),
		"required": spec.Required,
		"accept":   spec.Accept,
		"value":    value,
		"errors":   errors,
		"has_min":  spec.Min != nil,
	}
	if spec.Min != nil {
		field["min"] = strconv.FormatFloat(*spec.Min, 'f', -1, 64)
	}
	if spec.Kind == orderstatus.KindSelect {
		opts := make([]map[string]any, 0, len(spec.Options))
		selected := orderstatus.OptionValue(value)
		for _, option := range spec.Options {
			optionValue := orderstatus.OptionValue(option)
			opts = append(opts, map[string]any{
				"value":    optionValue,
				"label":    scrubLabel(option),
				"selected": value != "" && optionValue == selected,
			})
		}
		field["options"] = opts
	}
	return field
}

func hiddenInputs(hidden map[string]string) []map[string]any {
	fields := render.SortedHiddenFields(hidden)
	out := make([]map[string]any, 0, len(fields))
	for _, field := range fields {
		out = append(out, map[string]any{"name": field.Name, "value": field.Value})
	}
	return out
}

func buildThemeContext(cfg *theme.RendererConfig) map[string]any {
	if cfg == nil {
		return map[string]any{}
	}
	return map[string]any{
		"name":    cfg.Theme,
		"variant": cfg.Variant,
		"style":   cssVarsStyle(cfg.CSSVars),
	}
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		if strings.HasPrefix(key, "--") {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, key := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteByte(';')
	}
	return b.String()
}

func fieldID(name orderstatus.FieldName, suffix string) string {
	id := "field-" + string(name)
	if suffix != "" {
		id += "-" + suffix
	}
	return id
}
