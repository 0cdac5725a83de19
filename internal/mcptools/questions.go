package mcptools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/transparencyportal/ai-service/internal/domain"
	"github.com/transparencyportal/ai-service/internal/validation"
)

// QuestionsTool handles the generate_questions MCP tool.
type QuestionsTool struct {
	generator domain.QuestionGenerator
	validator *validation.Validator
}

// NewQuestionsTool creates a QuestionsTool backed by the given generator.
func NewQuestionsTool(generator domain.QuestionGenerator, v *validation.Validator) *QuestionsTool {
	return &QuestionsTool{generator: generator, validator: v}
}

// Definition returns the MCP tool definition for registration.
func (t *QuestionsTool) Definition() mcp.Tool {
	return mcp.NewTool("generate_questions",
		mcp.WithDescription(
			"Generate follow-up questions that help a producer disclose more about a product. "+
				"Returns a JSON object with a 'questions' array of exactly num_questions entries.",
		),
		mcp.WithObject("product",
			mcp.Required(),
			mcp.Description("Product details. Only name is required."),
			mcp.Properties(productSchema()),
		),
		mcp.WithNumber("num_questions",
			mcp.Description(fmt.Sprintf("How many questions to return, 1 to 20 (default %d)", domain.DefaultNumQuestions)),
			mcp.Min(1),
			mcp.Max(20),
		),
	)
}

// Handle processes the generate_questions tool call.
func (t *QuestionsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args domain.GenerateQuestionsRequest
	if msg := decodeArguments(req, &args, t.validator); msg != "" {
		return mcp.NewToolResultError(msg), nil
	}

	questions, err := t.generator.GenerateQuestions(ctx, *args.Product, args.Count())
	if err != nil {
		return mcp.NewToolResultError("Failed to generate questions: " + err.Error()), nil
	}

	return jsonResult(domain.GenerateQuestionsResponse{Questions: questions})
}
