package models

// ComponentKind is the declared type of a visualization.
type ComponentKind string

const (
	KindBarChart     ComponentKind = "BarChart"
	KindLineChart    ComponentKind = "LineChart"
	KindPieChart     ComponentKind = "PieChart"
	KindTable        ComponentKind = "Table"
	KindCard         ComponentKind = "Card"
	KindAreaChart    ComponentKind = "AreaChart"
	KindScatterChart ComponentKind = "ScatterChart"
)

// ComponentAuto is accepted as a hint only and lets the model choose the kind.
const ComponentAuto = "Auto"

const DefaultDataKey = "value"

var componentKinds = []ComponentKind{
	KindBarChart,
	KindLineChart,
	KindPieChart,
	KindTable,
	KindCard,
	KindAreaChart,
	KindScatterChart,
}

// ComponentKinds returns the recognized kinds in canonical order.
func ComponentKinds() []ComponentKind {
	out := make([]ComponentKind, len(componentKinds))
	copy(out, componentKinds)
	return out
}

// ParseComponentKind matches s case-sensitively against the recognized kinds.
func ParseComponentKind(s string) (ComponentKind, bool) {
	for _, k := range componentKinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// DataPoint is one row of plotted or tabulated data. Values are string or float64.
type DataPoint map[string]any

type Column struct {
	Key    string `json:"key"`
	Header string `json:"header"`
}

// VisualizationSpec is a validated description of one visualization.
// Type may hold an unrecognized kind; rendering falls back for those.
type VisualizationSpec struct {
	Type    string      `json:"type"`
	Title   string      `json:"title"`
	Data    []DataPoint `json:"data"`
	DataKey string      `json:"dataKey,omitempty"`
	Columns []Column    `json:"columns,omitempty"`
}

// Visualization is a spec that has been accepted into the store.
type Visualization struct {
	VisualizationSpec
	ID string `json:"id"`
}

// Clone returns a deep copy so callers never share data slices or points.
func (s VisualizationSpec) Clone() VisualizationSpec {
	out := s
	if s.Data != nil {
		out.Data = make([]DataPoint, len(s.Data))
		for i, p := range s.Data {
			cp := make(DataPoint, len(p))
			for k, v := range p {
				cp[k] = v
			}
			out.Data[i] = cp
		}
	}
	if s.Columns != nil {
		out.Columns = make([]Column, len(s.Columns))
		copy(out.Columns, s.Columns)
	}
	return out
}

// FallbackSpec returns the fixed bar chart used whenever generation or parsing fails.
func FallbackSpec() VisualizationSpec {
	return VisualizationSpec{
		Type:  string(KindBarChart),
		Title: "Sample Data",
		Data: []DataPoint{
			{"name": "Item A", "value": float64(400)},
			{"name": "Item B", "value": float64(300)},
			{"name": "Item C", "value": float64(200)},
		},
		DataKey: DefaultDataKey,
	}
}
