package services

import (
	"github.com/GregMSThompson/viz-backend/internal/dto"
	"github.com/GregMSThompson/viz-backend/internal/models"
)

const cardValueUnavailable = "N/A"

// Resolve maps a visualization's declared type to the widget that draws it.
// Unrecognized types render as a bar chart rather than failing.
func Resolve(v models.Visualization) dto.RenderInstruction {
	out := dto.RenderInstruction{
		VisualizationID: v.ID,
		DeclaredType:    v.Type,
	}

	kind, known := models.ParseComponentKind(v.Type)
	if !known {
		out.Fallback = true
	}

	switch kind {
	case models.KindLineChart, models.KindAreaChart, models.KindPieChart, models.KindBarChart:
		out.Widget = kind
		out.Props = chartProps(v)
	case models.KindTable:
		out.Widget = models.KindTable
		out.Props = tableProps(v)
	case models.KindCard:
		out.Widget = models.KindCard
		out.Props = dto.CardProps{
			Title:   v.Title,
			Data:    v.Data,
			DataKey: dataKey(v),
			Value:   cardValue(v.Data),
		}
	case models.KindScatterChart:
		// no scatter widget exists; it shares the bar rendering
		out.Widget = models.KindBarChart
		out.Props = chartProps(v)
	default:
		out.Widget = models.KindBarChart
		out.Props = chartProps(v)
	}

	return out
}

// dataKey is the plotted field, "value" unless the visualization names one.
func dataKey(v models.Visualization) string {
	if v.DataKey == "" {
		return models.DefaultDataKey
	}
	return v.DataKey
}

func chartProps(v models.Visualization) dto.ChartProps {
	return dto.ChartProps{Title: v.Title, Data: v.Data, DataKey: dataKey(v)}
}

func tableProps(v models.Visualization) dto.TableProps {
	cols := v.Columns
	if cols == nil {
		cols = []models.Column{}
	}
	return dto.TableProps{Title: v.Title, Data: v.Data, DataKey: dataKey(v), Columns: cols}
}

// cardValue is the "value" field of the first point, or N/A.
func cardValue(data []models.DataPoint) any {
	if len(data) == 0 {
		return cardValueUnavailable
	}
	if v, ok := data[0][models.DefaultDataKey]; ok && v != nil {
		return v
	}
	return cardValueUnavailable
}
