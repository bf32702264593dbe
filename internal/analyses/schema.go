package analyses

import "encoding/json"

// JSON Schema shown to the model:
// {
//   "type": "object",
//   "properties": {
//     "summary":         {"type": "string"},
//     "key_entities":    {"type": "array", "items": {"type": "string"}},
//     "sentiment":       {"type": "string"},
//     "recommendations": {"type": "array", "items": {"type": "string"}},
//     "potential_risks": {"type": "array", "items": {"type": "string"}}
//   },
//   "required": [...all five...]
// }
type outputSchema struct {
	Type       string           `json:"type"`
	Properties outputProperties `json:"properties"`
	Required   []string         `json:"required"`
}

type outputProperties struct {
	Summary         propertySchema `json:"summary"`
	KeyEntities     propertySchema `json:"key_entities"`
	Sentiment       propertySchema `json:"sentiment"`
	Recommendations propertySchema `json:"recommendations"`
	PotentialRisks  propertySchema `json:"potential_risks"`
}

type propertySchema struct {
	Type        string          `json:"type"`
	Description string          `json:"description,omitempty"`
	Items       *propertySchema `json:"items,omitempty"`
}

func stringList(description string) propertySchema {
	return propertySchema{Type: "array", Description: description, Items: &propertySchema{Type: "string"}}
}

var resultSchema = outputSchema{
	Type: "object",
	Properties: outputProperties{
		Summary:         propertySchema{Type: "string", Description: "A brief, one-paragraph summary of the provided text."},
		KeyEntities:     stringList("A list of key financial entities or terms mentioned."),
		Sentiment:       propertySchema{Type: "string", Description: "Overall sentiment (Positive, Negative, Neutral)."},
		Recommendations: stringList("A list of 2-3 actionable financial recommendations based on the text."),
		PotentialRisks:  stringList("A list of potential risks or downsides identified from the text."),
	},
	Required: []string{"summary", "key_entities", "sentiment", "recommendations", "potential_risks"},
}

// computed once at init
var schemaText = mustMarshal(resultSchema)

// SchemaJSON returns the serialized output schema embedded in every prompt.
func SchemaJSON() string {
	return schemaText
}

func mustMarshal(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}
