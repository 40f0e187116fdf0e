package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/GregMSThompson/viz-backend/internal/errs"
	"github.com/GregMSThompson/viz-backend/internal/models"
)

const codeFence = "```"

// ParseSpec turns raw generated text into a validated VisualizationSpec.
// Invalid data points are dropped; everything else is all-or-nothing.
func ParseSpec(raw string) (models.VisualizationSpec, error) {
	spec, _, err := parseSpec(raw)
	return spec, err
}

// parseSpec also reports how many data points were dropped.
func parseSpec(raw string) (models.VisualizationSpec, int, error) {
	cleaned := cleanResponse(raw)
	if cleaned == "" {
		return models.VisualizationSpec{}, 0, errs.NewMalformedResponseError("response is empty", nil)
	}

	var decoded any
	if err := json.Unmarshal([]byte(cleaned), &decoded); err != nil {
		return models.VisualizationSpec{}, 0, errs.NewMalformedResponseError(
			fmt.Sprintf("response is not valid JSON: %v", err), err)
	}
	obj, ok := decoded.(map[string]any)
	if !ok {
		return models.VisualizationSpec{}, 0, errs.NewMalformedResponseError("response is not a JSON object", nil)
	}

	return validateSpec(obj)
}

// cleanResponse strips markdown fences, language tags and any prose around the
// outermost JSON object.
func cleanResponse(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, codeFence) {
		if i := strings.IndexByte(s, '\n'); i >= 0 {
			s = s[i+1:]
		} else {
			s = strings.TrimPrefix(s, codeFence)
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, codeFence)
	s = strings.TrimSpace(s)

	if !strings.HasPrefix(s, "{") || !strings.HasSuffix(s, "}") {
		start := strings.IndexByte(s, '{')
		end := strings.LastIndexByte(s, '}')
		if start >= 0 && end > start {
			s = s[start : end+1]
		}
	}
	return s
}

func validateSpec(obj map[string]any) (models.VisualizationSpec, int, error) {
	var spec models.VisualizationSpec

	// stored verbatim; dispatch matches kinds byte for byte
	typ, ok := obj["type"].(string)
	if !ok || strings.TrimSpace(typ) == "" {
		return spec, 0, errs.NewMalformedResponseError(`"type" must be a non-empty string`, nil)
	}
	spec.Type = typ

	switch title := obj["title"].(type) {
	case nil:
	case string:
		spec.Title = title
	default:
		return spec, 0, errs.NewMalformedResponseError(`"title" must be a string`, nil)
	}

	if dataKey, ok := obj["dataKey"].(string); ok {
		spec.DataKey = strings.TrimSpace(dataKey)
	}

	rawData, ok := obj["data"].([]any)
	if !ok {
		return spec, 0, errs.NewEmptyDatasetError(`"data" is missing or not an array`)
	}
	if len(rawData) == 0 {
		return spec, 0, errs.NewEmptyDatasetError(`"data" is empty`)
	}

	requireName := requiresName(spec.Type)
	spec.Data = make([]models.DataPoint, 0, len(rawData))
	for _, item := range rawData {
		if p, ok := toDataPoint(item, requireName); ok {
			spec.Data = append(spec.Data, p)
		}
	}
	dropped := len(rawData) - len(spec.Data)
	if len(spec.Data) == 0 {
		return spec, dropped, errs.NewEmptyDatasetError(
			fmt.Sprintf("all %d data points were invalid", len(rawData)))
	}

	spec.Columns = toColumns(obj["columns"])
	if spec.Type == string(models.KindTable) && len(spec.Columns) == 0 {
		return spec, dropped, errs.NewMissingColumnsError()
	}

	return spec, dropped, nil
}

// requiresName reports whether points of this kind are labelled by "name".
// Tables and cards conventionally carry it but are not checked.
func requiresName(typ string) bool {
	switch models.ComponentKind(typ) {
	case models.KindTable, models.KindCard:
		return false
	}
	return true
}

func toDataPoint(item any, requireName bool) (models.DataPoint, bool) {
	obj, ok := item.(map[string]any)
	if !ok {
		return nil, false
	}
	p := make(models.DataPoint, len(obj))
	for k, v := range obj {
		switch v.(type) {
		case string, float64:
			p[k] = v
		default:
			return nil, false
		}
	}
	if requireName {
		if _, ok := p["name"].(string); !ok {
			return nil, false
		}
	}
	return p, true
}

// toColumns accepts both {"key","header"} and {"accessorKey","header"} entries.
func toColumns(raw any) []models.Column {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	cols := make([]models.Column, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		key, _ := obj["key"].(string)
		if key == "" {
			key, _ = obj["accessorKey"].(string)
		}
		if key == "" {
			continue
		}
		header, _ := obj["header"].(string)
		if header == "" {
			header = key
		}
		cols = append(cols, models.Column{Key: key, Header: header})
	}
	if len(cols) == 0 {
		return nil
	}
	return cols
}
