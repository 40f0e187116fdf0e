package dto

import "github.com/GregMSThompson/viz-backend/internal/models"

// --- Request types ---

type GenerateVisualizationRequest struct {
	Prompt    string `json:"prompt"`
	Component string `json:"component,omitempty"`
}

// --- Render types ---

// RenderInstruction names the widget that draws a visualization and the props it receives.
// Props is one of ChartProps, TableProps or CardProps.
type RenderInstruction struct {
	VisualizationID string               `json:"visualizationId"`
	DeclaredType    string               `json:"declaredType"`
	Widget          models.ComponentKind `json:"widget"`
	Fallback        bool                 `json:"fallback"`
	Props           any                  `json:"props"`
}

type ChartProps struct {
	Title   string             `json:"title"`
	Data    []models.DataPoint `json:"data"`
	DataKey string             `json:"dataKey"`
}

type TableProps struct {
	Title   string             `json:"title"`
	Data    []models.DataPoint `json:"data"`
	DataKey string             `json:"dataKey"`
	Columns []models.Column    `json:"columns"`
}

// CardProps carries the full dataset as well as the resolved display value.
type CardProps struct {
	Title   string             `json:"title"`
	Data    []models.DataPoint `json:"data"`
	DataKey string             `json:"dataKey"`
	Value   any                `json:"value"`
}

// --- Catalog types ---

type CatalogResponse struct {
	Components  []string           `json:"components"`
	Suggestions []PromptSuggestion `json:"suggestions"`
}

type PromptSuggestion struct {
	Text string `json:"text"`
	Icon string `json:"icon"`
}
