// Package mcptools exposes question generation and transparency scoring
// as MCP tools.
package mcptools

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/transparencyportal/ai-service/internal/domain"
	"github.com/transparencyportal/ai-service/internal/validation"
)

// NewServer creates an MCP server with both tools registered.
func NewServer(version string, questions domain.QuestionGenerator, scorer domain.TransparencyScorer) *server.MCPServer {
	s := server.NewMCPServer(
		"transparency-ai",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(
			"Tools for product transparency reviews. Call generate_questions to get follow-up "+
				"questions for a product, collect answers, then call calculate_transparency_score.",
		),
	)

	v := validation.New()

	questionsTool := NewQuestionsTool(questions, v)
	s.AddTool(questionsTool.Definition(), questionsTool.Handle)

	scoreTool := NewScoreTool(scorer, v)
	s.AddTool(scoreTool.Definition(), scoreTool.Handle)

	return s
}
