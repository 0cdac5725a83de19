package mcptools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/transparencyportal/ai-service/internal/domain"
	"github.com/transparencyportal/ai-service/internal/validation"
)

// ScoreTool handles the calculate_transparency_score MCP tool.
type ScoreTool struct {
	scorer    domain.TransparencyScorer
	validator *validation.Validator
}

// NewScoreTool creates a ScoreTool backed by the given scorer.
func NewScoreTool(scorer domain.TransparencyScorer, v *validation.Validator) *ScoreTool {
	return &ScoreTool{scorer: scorer, validator: v}
}

// Definition returns the MCP tool definition for registration.
func (t *ScoreTool) Definition() mcp.Tool {
	return mcp.NewTool("calculate_transparency_score",
		mcp.WithDescription(
			"Score how transparent a product's disclosures are on a 0-10 scale. "+
				"Returns the score, narrative feedback, up to five improvement areas "+
				"and per-criterion scores as JSON.",
		),
		mcp.WithObject("product",
			mcp.Required(),
			mcp.Description("Product details. Only name is required."),
			mcp.Properties(productSchema()),
		),
		mcp.WithObject("answers",
			mcp.Required(),
			mcp.Description("Map of question text to the answer given for it. May be empty."),
			mcp.AdditionalProperties(map[string]any{"type": "string"}),
		),
	)
}

// Handle processes the calculate_transparency_score tool call.
func (t *ScoreTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args domain.TransparencyScoreRequest
	if msg := decodeArguments(req, &args, t.validator); msg != "" {
		return mcp.NewToolResultError(msg), nil
	}

	return jsonResult(t.scorer.CalculateScore(*args.Product, args.Answers))
}
