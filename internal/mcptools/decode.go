package mcptools

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/transparencyportal/ai-service/internal/validation"
)

// decodeArguments maps the tool arguments onto dst and validates it.
// The returned message is non-empty when the arguments are unusable.
func decodeArguments(req mcp.CallToolRequest, dst any, v *validation.Validator) string {
	raw, err := json.Marshal(req.GetArguments())
	if err != nil {
		return fmt.Sprintf("invalid arguments: %v", err)
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return describe(err)
	}
	if err := v.ValidateStruct(dst); err != nil {
		return describe(err)
	}
	return ""
}

// describe renders validation problems one per line, using the same
// locations the HTTP API reports.
func describe(err error) string {
	fields := validation.FieldErrors(err)
	if len(fields) == 0 {
		return "invalid arguments: " + err.Error()
	}

	var b strings.Builder
	b.WriteString("Validation error:")
	for _, fe := range fields {
		fmt.Fprintf(&b, "\n- %s: %s (%s)", strings.TrimPrefix(fe.Location, "body -> "), fe.Message, fe.Type)
	}
	return b.String()
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

func productSchema() map[string]any {
	str := func(desc string) map[string]any {
		return map[string]any{"type": "string", "description": desc}
	}
	return map[string]any{
		"name":                  str("Product name (required)"),
		"description":           str("Free text product description"),
		"category":              str("Product category"),
		"ingredients":           str("Ingredient list as disclosed on the label"),
		"manufacturing_process": str("How the product is made"),
		"country_of_origin":     str("Where the product comes from"),
		"certifications": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"description": "Third-party certifications, e.g. USDA Organic",
		},
	}
}
