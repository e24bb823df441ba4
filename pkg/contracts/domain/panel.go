package domain

import (
	"strconv"
)

// PanelKind identifies how a dashboard panel is drawn
type PanelKind string

const (
	PanelKindChoropleth PanelKind = "choropleth"
	PanelKindLine       PanelKind = "line"
	PanelKindBar        PanelKind = "bar"
	PanelKindStackedBar PanelKind = "stacked_bar"
	PanelKindDonut      PanelKind = "donut"
	PanelKindHistogram  PanelKind = "histogram"
	PanelKindTable      PanelKind = "table"
)

// Table is the small aggregated result behind a panel
type Table struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// Len returns the number of rows
func (t Table) Len() int {
	return len(t.Rows)
}

// StringRows formats every cell for CSV or terminal output
func (t Table) StringRows() [][]string {
	out := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = FormatCell(v)
		}
		out[i] = cells
	}
	return out
}

// FormatCell renders a table cell as plain text
func FormatCell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case NullString:
		return val.String
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// Figure is a Plotly-compatible chart specification
type Figure struct {
	Data   []map[string]any `json:"data"`
	Layout map[string]any   `json:"layout"`
}

// Panel is one fully computed dashboard panel
type Panel struct {
	ID      string    `json:"id"`
	Heading string    `json:"heading"`
	Title   string    `json:"title"`
	Kind    PanelKind `json:"kind"`
	Table   Table     `json:"table"`
	Figure  *Figure   `json:"figure,omitempty"`
	// Degraded is set when the panel shows a placeholder instead of data
	Degraded bool `json:"degraded,omitempty"`
}

// PanelInfo describes a panel without computing it
type PanelInfo struct {
	ID       string    `json:"id"`
	Heading  string    `json:"heading"`
	Kind     PanelKind `json:"kind"`
	HasImage bool      `json:"has_image"`
}
