package services

import (
	"fmt"
	"strings"

	"github.com/GregMSThompson/viz-backend/internal/models"
)

const (
	minDataPoints = 3
	maxDataPoints = 7
)

// BuildPrompt turns the user's request and an optional component hint into the
// single instruction sent to the generation service. An empty hint or Auto lets
// the model choose.
func BuildPrompt(userText string, hint models.ComponentKind) string {
	kinds := models.ComponentKinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}

	var b strings.Builder

	fmt.Fprintf(&b, "Based on the following user request: \"%s\"\n\n", userText)

	b.WriteString("Please provide:\n")
	fmt.Fprintf(&b, "1. The most appropriate chart/table type from this list: %s\n", strings.Join(names, ", "))
	b.WriteString("2. A title for the visualization\n")
	b.WriteString("3. Appropriate illustrative data that matches the request\n")
	b.WriteString("4. The data key that holds the plotted value\n\n")

	b.WriteString(`Format your response as a JSON object with this structure:
{
  "type": "component_type",
  "title": "Visualization Title",
  "data": [
    {"name": "Item1", "value": 100},
    {"name": "Item2", "value": 200}
  ],
  "dataKey": "value"
}

`)

	fmt.Fprintf(&b, `For the %s type, include a "columns" array with one entry per field:
"columns": [
  {"key": "name", "header": "Name"},
  {"key": "value", "header": "Value"}
]

`, models.KindTable)

	fmt.Fprintf(&b, "For the %s type, return a single data object whose \"value\" field is the number to display.\n\n", models.KindCard)

	b.WriteString("Important rules:\n")
	b.WriteString("- Always include a \"name\" field (a string) in every data object\n")
	fmt.Fprintf(&b, "- Include between %d and %d data points\n", minDataPoints, maxDataPoints)
	b.WriteString("- Every value must be a string or a number\n")
	b.WriteString("- Use realistic numbers based on the context\n")
	b.WriteString("- Respond with ONLY the JSON object: no prose, no markdown, no code fences\n")

	if hint != "" && string(hint) != models.ComponentAuto {
		fmt.Fprintf(&b, "- Use the %s component for this visualization\n", hint)
	} else {
		b.WriteString("- Choose the most appropriate component type for the request\n")
	}

	return b.String()
}
