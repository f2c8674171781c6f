package orderstatus

import (
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-orderstatus/pkg/dropdowns"
)

const branchExtension = "x-order-status-branch"

// PayloadSchema describes the submitted form data. Select fields carry the
// lowercased option values as enums; file fields are binary strings.
func PayloadSchema(set dropdowns.Set) *openapi3.Schema {
	schema := openapi3.NewObjectSchema()
	schema.Description = "Order status form data"
	for _, field := range CommonFields() {
		schema.WithProperty(string(field.Name), fieldSchema(field))
		if field.Required {
			schema.Required = append(schema.Required, string(field.Name))
		}
	}
	schema.WithProperty(string(FieldOrderStatus), statusSchema())
	schema.Required = append(schema.Required, string(FieldOrderStatus))

	for _, section := range Sections(set) {
		for _, field := range section.Fields {
			prop := fieldSchema(field)
			prop.Extensions = map[string]any{branchExtension: string(section.Status)}
			schema.WithProperty(string(field.Name), prop)
		}
	}
	return schema
}

// ChangeSchema describes a single field change: the wire name and its raw
// value.
func ChangeSchema() *openapi3.Schema {
	names := make([]any, 0, len(AllFields()))
	for _, field := range AllFields() {
		names = append(names, string(field))
	}
	schema := openapi3.NewObjectSchema()
	schema.WithProperty("name", openapi3.NewStringSchema().WithEnum(names...))
	schema.WithProperty("value", openapi3.NewStringSchema())
	schema.Required = []string{"name"}
	return schema
}

// Document returns an OpenAPI description of the host endpoints mounted at
// changePath and submitPath.
func Document(changePath, submitPath string, set dropdowns.Set) *openapi3.T {
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   "Order status form",
			Version: "1.0.0",
		},
		Paths: openapi3.NewPaths(),
	}

	change := openapi3.NewOperation()
	change.OperationID = "changeOrderStatusField"
	change.Summary = "Forward one field change to the form owner"
	change.RequestBody = &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().
			WithRequired(true).
			WithSchema(ChangeSchema(), []string{"application/x-www-form-urlencoded", "multipart/form-data"}),
	}
	change.AddResponse(http.StatusNoContent, openapi3.NewResponse().WithDescription("Change forwarded"))
	change.AddResponse(http.StatusBadRequest, openapi3.NewResponse().WithDescription("Unknown field or status"))
	doc.AddOperation(changePath, http.MethodPost, change)

	submit := openapi3.NewOperation()
	submit.OperationID = "submitOrderStatus"
	submit.Summary = "Collect the form data for submission"
	submit.AddResponse(http.StatusOK, openapi3.NewResponse().
		WithDescription("Collected form data").
		WithJSONSchema(PayloadSchema(set)))
	submit.AddResponse(http.StatusUnprocessableEntity, openapi3.NewResponse().WithDescription("Required fields missing"))
	doc.AddOperation(submitPath, http.MethodPost, submit)

	return doc
}

// PayloadDocument converts collected values into the JSON shape described by
// PayloadSchema: text values stay strings, files become their names, and
// paymentTerms becomes a number when it parses as one.
func PayloadDocument(values map[FieldName]Value) map[string]any {
	out := make(map[string]any, len(values))
	for field, value := range values {
		if field == FieldPaymentTerms && !value.IsFile() {
			if n, ok := parseNumber(value.Text()); ok {
				out[string(field)] = n
				continue
			}
		}
		out[string(field)] = value.Text()
	}
	return out
}

func statusSchema() *openapi3.Schema {
	values := make([]any, 0, len(Statuses()))
	for _, status := range Statuses() {
		values = append(values, string(status))
	}
	return openapi3.NewStringSchema().WithEnum(values...)
}

func fieldSchema(field FieldSpec) *openapi3.Schema {
	var schema *openapi3.Schema
	switch field.Kind {
	case KindSelect:
		schema = openapi3.NewStringSchema()
		if len(field.Options) > 0 {
			options := OptionValues(field.Options)
			values := make([]any, 0, len(options))
			for _, option := range options {
				values = append(values, option)
			}
			schema.WithEnum(values...)
		}
	case KindNumber:
		schema = openapi3.NewFloat64Schema()
		if field.Min != nil {
			schema.WithMin(*field.Min)
		}
	case KindDate:
		schema = openapi3.NewStringSchema().WithFormat("date")
	case KindFile:
		schema = openapi3.NewStringSchema().WithFormat("binary")
	default:
		schema = openapi3.NewStringSchema()
	}
	schema.Title = field.Label
	return schema
}
