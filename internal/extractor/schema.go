package extractor

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildReceiptSchema returns the JSON Schema the extractor output must
// satisfy, as a generic map. It constrains the model's structured output and
// validates the response locally before it enters the core.
func BuildReceiptSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"store_name":       map[string]any{"type": []any{"string", "null"}},
			"transaction_date": map[string]any{"type": []any{"string", "null"}},
			"transaction_time": map[string]any{"type": []any{"string", "null"}},
			"line_items": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"item_description": map[string]any{"type": "string"},
						"quantity":         numberOrString(),
						"item_total_price": numberOrString(),
					},
					"required": []any{"item_description", "item_total_price"},
				},
			},
			"discounts": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"description": map[string]any{"type": "string"},
						"amount":      numberOrString(),
					},
					"required": []any{"description", "amount"},
				},
			},
			"tax_details": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"tax_label":  map[string]any{"type": "string"},
						"tax_amount": numberOrString(),
					},
					"required": []any{"tax_label", "tax_amount"},
				},
			},
			"subtotal":     numberOrStringOrNull(),
			"total_amount": numberOrStringOrNull(),
			"tip_amount":   numberOrStringOrNull(),
		},
	}
}

// numberOrString tolerates the model emitting either "12.50" or 12.5; the
// numeric package normalizes both.
func numberOrString() map[string]any {
	return map[string]any{"type": []any{"number", "string"}}
}

func numberOrStringOrNull() map[string]any {
	return map[string]any{"type": []any{"number", "string", "null"}}
}

// ValidateAgainstSchema validates data against schemaMap.
func ValidateAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("receipt.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("receipt.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("extractor output does not match schema: %w", err)
	}
	return nil
}
