package orderstatus

import (
	"strings"

	"github.com/goliatone/go-orderstatus/pkg/dropdowns"
)

// FieldKind selects the input control used for a field.
type FieldKind string

const (
	KindText     FieldKind = "text"
	KindRadio    FieldKind = "radio"
	KindSelect   FieldKind = "select"
	KindNumber   FieldKind = "number"
	KindFile     FieldKind = "file"
	KindDate     FieldKind = "date"
	KindTextArea FieldKind = "textarea"
)

// FieldSpec describes one input inside a section. Required is a presentation
// hint; the component does not validate.
type FieldSpec struct {
	Name     FieldName          `json:"name"`
	Label    string             `json:"label"`
	Kind     FieldKind          `json:"kind"`
	Required bool               `json:"required"`
	Category dropdowns.Category `json:"category,omitempty"`
	Options  []string           `json:"options,omitempty"`
	Accept   string             `json:"accept,omitempty"`
	Min      *float64           `json:"min,omitempty"`
}

// OptionValue is the submitted value for a select option: the option text
// lowercased. The option text itself stays the visible label.
func OptionValue(option string) string {
	return strings.ToLower(option)
}

// OptionValues maps options to their submitted values, dropping repeats while
// keeping first-seen order.
func OptionValues(options []string) []string {
	out := make([]string, 0, len(options))
	seen := make(map[string]struct{}, len(options))
	for _, option := range options {
		value := OptionValue(option)
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}

// Section is the field group shown for a status.
type Section struct {
	Status Status      `json:"status"`
	Title  string      `json:"title"`
	Fields []FieldSpec `json:"fields"`
}

var zero = 0.0

// commonFields are shown above the status selector regardless of status.
var commonFields = []FieldSpec{
	{Name: FieldQuotationNumber, Label: "Quotation number", Kind: KindText, Required: true},
}

var sectionLayouts = map[Status]Section{
	StatusYes: {
		Status: StatusYes,
		Title:  "Order details",
		Fields: []FieldSpec{
			{Name: FieldAcceptanceVia, Label: "Accepted via", Kind: KindSelect, Required: true, Category: dropdowns.CategoryAcceptanceVia},
			{Name: FieldPaymentMode, Label: "Payment mode", Kind: KindSelect, Required: true, Category: dropdowns.CategoryPaymentMode},
			{Name: FieldPaymentTerms, Label: "Payment terms (days)", Kind: KindNumber, Required: true, Min: &zero},
			{Name: FieldOrderVideo, Label: "Order video", Kind: KindFile, Accept: "video/*"},
			{Name: FieldAcceptanceFile, Label: "Acceptance document", Kind: KindFile},
			{Name: FieldOrderRemark, Label: "Remark", Kind: KindTextArea},
		},
	},
	StatusNo: {
		Status: StatusNo,
		Title:  "Lost order",
		Fields: []FieldSpec{
			{Name: FieldApologyVideo, Label: "Apology video", Kind: KindFile, Accept: "video/*"},
			{Name: FieldReasonStatus, Label: "Reason", Kind: KindSelect, Required: true, Category: dropdowns.CategoryReasonStatus},
			{Name: FieldReasonRemark, Label: "Reason remark", Kind: KindTextArea},
		},
	},
	StatusHold: {
		Status: StatusHold,
		Title:  "Order on hold",
		Fields: []FieldSpec{
			{Name: FieldHoldReason, Label: "Hold reason", Kind: KindSelect, Required: true, Category: dropdowns.CategoryHoldReason},
			{Name: FieldHoldingDate, Label: "Holding date", Kind: KindDate, Required: true},
			{Name: FieldHoldRemark, Label: "Hold remark", Kind: KindTextArea},
		},
	},
}

// SectionFor returns the field group gated by status, with select options
// taken from set. Unset yields no section.
func SectionFor(status Status, set dropdowns.Set) (Section, bool) {
	layout, ok := sectionLayouts[status]
	if !ok {
		return Section{}, false
	}

	section := Section{
		Status: layout.Status,
		Title:  layout.Title,
		Fields: make([]FieldSpec, len(layout.Fields)),
	}
	for i, field := range layout.Fields {
		if field.Category != "" {
			field.Options = append([]string{}, set.Get(field.Category)...)
		}
		section.Fields[i] = field
	}
	return section, true
}

// Sections returns every section in status order.
func Sections(set dropdowns.Set) []Section {
	out := make([]Section, 0, len(sectionLayouts))
	for _, status := range Statuses() {
		section, _ := SectionFor(status, set)
		out = append(out, section)
	}
	return out
}

// CommonFields returns the fields rendered for every status, unset included.
func CommonFields() []FieldSpec {
	return append([]FieldSpec{}, commonFields...)
}

// AllFields lists every field name in form order.
func AllFields() []FieldName {
	out := make([]FieldName, 0, len(fieldBranches))
	for _, field := range commonFields {
		out = append(out, field.Name)
	}
	out = append(out, FieldOrderStatus)
	for _, status := range Statuses() {
		for _, field := range sectionLayouts[status].Fields {
			out = append(out, field.Name)
		}
	}
	return out
}

// Kind returns the input control used for the field, or "" for unknown names.
func (f FieldName) Kind() FieldKind {
	if f == FieldOrderStatus {
		return KindRadio
	}
	for _, field := range commonFields {
		if field.Name == f {
			return field.Kind
		}
	}
	for _, section := range sectionLayouts {
		for _, field := range section.Fields {
			if field.Name == f {
				return field.Kind
			}
		}
	}
	return ""
}
