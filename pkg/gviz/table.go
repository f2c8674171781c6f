package gviz

import "strconv"

// Response mirrors the subset of the feed envelope this package reads.
type Response struct {
	Version string `json:"version,omitempty"`
	Status  string `json:"status,omitempty"`
	Table   *Table `json:"table"`
}

// Table holds the rows of a sheet. Columns are positional.
type Table struct {
	Cols []Column `json:"cols,omitempty"`
	Rows []Row    `json:"rows"`
}

// Column describes a sheet column as reported by the feed.
type Column struct {
	ID    string `json:"id,omitempty"`
	Label string `json:"label,omitempty"`
	Type  string `json:"type,omitempty"`
}

// Row is a single sheet row. Cells may be nil where the sheet has no value.
type Row struct {
	Cells []*Cell `json:"c"`
}

// Cell carries the raw value and, for typed cells, the formatted text.
type Cell struct {
	V any    `json:"v"`
	F string `json:"f,omitempty"`
}

// Text returns the raw value of the cell as text. Strings are returned as-is,
// numbers use the shortest decimal form and booleans their literal. The
// formatted text is never consulted; see Label. Nil cells and null values
// yield "".
func (c *Cell) Text() string {
	if c == nil || c.V == nil {
		return ""
	}
	switch v := c.V.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// Label returns the formatted text when the feed supplied one, otherwise Text.
func (c *Cell) Label() string {
	if c != nil && c.F != "" {
		return c.F
	}
	return c.Text()
}

// Cell returns the cell at index or nil when the row is shorter.
func (r Row) Cell(index int) *Cell {
	if index < 0 || index >= len(r.Cells) {
		return nil
	}
	return r.Cells[index]
}

// Strings flattens the row into raw cell text, one entry per cell.
func (r Row) Strings() []string {
	out := make([]string, len(r.Cells))
	for i, cell := range r.Cells {
		out[i] = cell.Text()
	}
	return out
}

// Records flattens the table into raw cell text rows.
func (t *Table) Records() [][]string {
	if t == nil {
		return nil
	}
	out := make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		out = append(out, row.Strings())
	}
	return out
}
