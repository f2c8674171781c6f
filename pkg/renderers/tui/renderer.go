package tui

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-orderstatus/pkg/orderstatus"
	"github.com/goliatone/go-orderstatus/pkg/render"
)

const dateLayout = "2006-01-02"

// Renderer drives the order status form from a terminal. Fill prompts through
// a mounted component so every answer reaches the owner as a field update;
// Render serializes a snapshot without prompting.
type Renderer struct {
	driver       PromptDriver
	outputFormat OutputFormat
	policy       orderstatus.SubmitPolicy
	files        FileResolver
	confirm      bool
	theme        Theme
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output,
// hidden branch values kept).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		driver:       newSurveyDriver(),
		outputFormat: OutputFormatJSON,
		policy:       orderstatus.KeepHidden,
		files:        osFileResolver,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if _, ok := ParseOutputFormat(string(r.outputFormat)); !ok {
		return nil, fmt.Errorf("tui: unknown output format %q", r.outputFormat)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render and Fill.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render serializes the values held in view. Only the status and the visible
// section are part of a snapshot.
func (r *Renderer) Render(ctx context.Context, view orderstatus.View, _ render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.serialize(view.Values)
}

// Fill prompts for the common fields, the status and the fields of its
// section. Answers go
// through component so the owner receives them as updates; the output is
// collected from data under the configured submit policy.
func (r *Renderer) Fill(ctx context.Context, component *orderstatus.Component, data orderstatus.FormData) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if component == nil {
		return nil, ErrNoComponent
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}

	if component.IsLoadingDropdowns() {
		r.info(ctx, "Loading dropdown options...")
	}
	if err := component.Wait(ctx); err != nil {
		return nil, err
	}

	for _, field := range orderstatus.CommonFields() {
		if err := r.promptField(ctx, component, field); err != nil {
			return nil, err
		}
	}

	status, err := r.promptStatus(ctx, component)
	if err != nil {
		return nil, err
	}

	section, ok := component.Section()
	if ok {
		r.info(ctx, section.Title)
		for _, field := range section.Fields {
			if err := r.promptField(ctx, component, field); err != nil {
				return nil, err
			}
		}
	}

	if r.confirm {
		submit, err := r.driver.Confirm(ctx, ConfirmConfig{Message: "Submit order status?", Default: true})
		if err != nil {
			return nil, err
		}
		if !submit {
			return nil, ErrNotSubmitted
		}
	}

	return r.serialize(orderstatus.Collect(data, status, r.policy))
}

func (r *Renderer) promptStatus(ctx context.Context, component *orderstatus.Component) (orderstatus.Status, error) {
	statuses := orderstatus.Statuses()
	labels := make([]string, len(statuses))
	defaultIndex := 0
	for i, status := range statuses {
		labels[i] = status.Label()
		if status == component.Status() {
			defaultIndex = i
		}
	}

	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      "Order status",
		Options:      labels,
		DefaultIndex: defaultIndex,
	})
	if err != nil {
		return orderstatus.StatusUnset, err
	}
	if idx < 0 || idx >= len(statuses) {
		return orderstatus.StatusUnset, fmt.Errorf("tui: status selection %d out of range", idx)
	}
	status := statuses[idx]
	if err := component.SelectStatus(status); err != nil {
		return orderstatus.StatusUnset, err
	}
	return status, nil
}

func (r *Renderer) promptField(ctx context.Context, component *orderstatus.Component, field orderstatus.FieldSpec) error {
	current, _ := component.Value(field.Name)
	label := promptLabel(field)

	switch field.Kind {
	case orderstatus.KindSelect:
		return r.promptSelect(ctx, component, field, label, current.Text())
	case orderstatus.KindFile:
		return r.promptFile(ctx, component, field, label)
	case orderstatus.KindTextArea:
		for {
			answer, err := r.driver.TextArea(ctx, TextAreaConfig{Message: label, Default: current.Text()})
			if err != nil {
				return err
			}
			if field.Required && strings.TrimSpace(answer) == "" {
				r.fail(ctx, fmt.Sprintf("%s is required", field.Label))
				continue
			}
			component.OnFieldChange(field.Name, answer)
			return nil
		}
	default:
		answer, err := r.driver.Input(ctx, InputConfig{
			Message:   label,
			Default:   current.Text(),
			Help:      inputHelp(field),
			Validator: inputValidator(field),
		})
		if err != nil {
			return err
		}
		component.OnFieldChange(field.Name, answer)
		return nil
	}
}

func (r *Renderer) promptSelect(ctx context.Context, component *orderstatus.Component, field orderstatus.FieldSpec, label, current string) error {
	if len(field.Options) == 0 {
		r.fail(ctx, fmt.Sprintf("No options available for %s", field.Label))
		answer, err := r.driver.Input(ctx, InputConfig{Message: label, Default: current, Validator: inputValidator(field)})
		if err != nil {
			return err
		}
		component.OnFieldChange(field.Name, answer)
		return nil
	}

	values := make([]string, len(field.Options))
	for i, option := range field.Options {
		values[i] = orderstatus.OptionValue(option)
	}
	defaultIndex := -1
	if current != "" {
		defaultIndex = indexOf(values, orderstatus.OptionValue(current))
	}

	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      label,
		Options:      field.Options,
		DefaultIndex: defaultIndex,
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(values) {
		return fmt.Errorf("tui: %s selection %d out of range", field.Name, idx)
	}
	component.OnFieldChange(field.Name, values[idx])
	return nil
}

func (r *Renderer) promptFile(ctx context.Context, component *orderstatus.Component, field orderstatus.FieldSpec, label string) error {
	for {
		path, err := r.driver.Input(ctx, InputConfig{
			Message: label,
			Help:    "Path to a file; leave empty to skip",
		})
		if err != nil {
			return err
		}
		path = strings.TrimSpace(path)
		if path == "" {
			component.OnFileChange(field.Name, nil)
			return nil
		}
		handle, err := r.files(path)
		if err != nil {
			r.fail(ctx, err.Error())
			continue
		}
		component.OnFileChange(field.Name, []orderstatus.FileHandle{handle})
		return nil
	}
}

func (r *Renderer) info(ctx context.Context, msg string) {
	_ = r.driver.Info(ctx, r.theme.info(msg))
}

func (r *Renderer) fail(ctx context.Context, msg string) {
	_ = r.driver.Info(ctx, r.theme.failure(msg))
}

func promptLabel(field orderstatus.FieldSpec) string {
	if field.Required {
		return field.Label + " *"
	}
	return field.Label
}

func inputHelp(field orderstatus.FieldSpec) string {
	switch field.Kind {
	case orderstatus.KindDate:
		return "Format: YYYY-MM-DD"
	case orderstatus.KindNumber:
		if field.Min != nil {
			return "Number, at least " + strconv.FormatFloat(*field.Min, 'f', -1, 64)
		}
		return "Number"
	default:
		return ""
	}
}

func inputValidator(field orderstatus.FieldSpec) func(string) error {
	return func(answer string) error {
		trimmed := strings.TrimSpace(answer)
		if trimmed == "" {
			if field.Required {
				return fmt.Errorf("%s is required", field.Label)
			}
			return nil
		}
		switch field.Kind {
		case orderstatus.KindNumber:
			n, err := strconv.ParseFloat(trimmed, 64)
			if err != nil {
				return fmt.Errorf("%s must be a number", field.Label)
			}
			if field.Min != nil && n < *field.Min {
				return fmt.Errorf("%s must be at least %s", field.Label, strconv.FormatFloat(*field.Min, 'f', -1, 64))
			}
		case orderstatus.KindDate:
			if _, err := time.Parse(dateLayout, trimmed); err != nil {
				return fmt.Errorf("%s must be a date (YYYY-MM-DD)", field.Label)
			}
		}
		return nil
	}
}

func (r *Renderer) serialize(values map[orderstatus.FieldName]orderstatus.Value) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		form := url.Values{}
		for field, value := range values {
			form.Set(string(field), value.Text())
		}
		return []byte(form.Encode()), nil
	case OutputFormatPrettyText:
		return prettyText(values), nil
	default:
		out, err := json.Marshal(orderstatus.PayloadDocument(values))
		if err != nil {
			return nil, fmt.Errorf("tui: encode json: %w", err)
		}
		return out, nil
	}
}

func prettyText(values map[orderstatus.FieldName]orderstatus.Value) []byte {
	order := make(map[orderstatus.FieldName]int)
	for i, field := range orderstatus.AllFields() {
		order[field] = i
	}
	fields := make([]orderstatus.FieldName, 0, len(values))
	for field := range values {
		fields = append(fields, field)
	}
	sort.Slice(fields, func(i, j int) bool { return order[fields[i]] < order[fields[j]] })

	var b strings.Builder
	for _, field := range fields {
		b.WriteString(string(field))
		b.WriteString(": ")
		b.WriteString(values[field].Text())
		b.WriteByte('\n')
	}
	return []byte(b.String())
}
