package orderstatus

import "github.com/goliatone/go-orderstatus/pkg/dropdowns"

// View is a render-ready snapshot of a mounted component.
type View struct {
	Status   Status
	Loading  bool
	Origin   dropdowns.Origin
	Options  dropdowns.Set
	Common   []FieldSpec
	Section  *Section
	Values   map[FieldName]Value
	Statuses []Status
}

// Snapshot captures the state renderers need. Values holds the owner's data
// for the common fields, the status field and the visible section only.
func (c *Component) Snapshot() View {
	c.mu.RLock()
	view := View{
		Status:   c.status,
		Loading:  c.loading,
		Origin:   c.origin,
		Options:  c.options.Clone(),
		Common:   CommonFields(),
		Statuses: Statuses(),
	}
	c.mu.RUnlock()

	view.Values = make(map[FieldName]Value)
	for _, field := range view.Common {
		if value, ok := c.Value(field.Name); ok {
			view.Values[field.Name] = value
		}
	}
	if value, ok := c.Value(FieldOrderStatus); ok {
		view.Values[FieldOrderStatus] = value
	}
	if section, ok := SectionFor(view.Status, view.Options); ok {
		view.Section = &section
		for _, field := range section.Fields {
			if value, ok := c.Value(field.Name); ok {
				view.Values[field.Name] = value
			}
		}
	}
	return view
}

// Text returns the text of a field in the snapshot, or "".
func (v View) Text(field FieldName) string {
	return v.Values[field].Text()
}
