package mcptools

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"
	"github.com/transparencyportal/ai-service/internal/domain"
	"github.com/transparencyportal/ai-service/internal/usecase"
	"github.com/transparencyportal/ai-service/internal/validation"
)

// makeReq builds a mcp.CallToolRequest with the given arguments.
func makeReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// resultText extracts the text content from a tool result.
func resultText(r *mcp.CallToolResult) string {
	if r == nil || len(r.Content) == 0 {
		return ""
	}
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

type fakeQuestions struct {
	err       error
	gotName   string
	gotCount  int
	questions []string
}

func (f *fakeQuestions) GenerateQuestions(ctx context.Context, product domain.ProductInfo, n int) ([]string, error) {
	f.gotName = product.Name
	f.gotCount = n
	if f.err != nil {
		return nil, f.err
	}
	out := make([]string, n)
	for i := range out {
		out[i] = product.Name + " question " + string(rune('A'+i))
	}
	f.questions = out
	return out, nil
}

func (f *fakeQuestions) ModelID() string { return "fake" }

// ─── QuestionsTool ──────────────────────────────────────────────────────────

func TestQuestionsTool_Definition(t *testing.T) {
	tool := NewQuestionsTool(&fakeQuestions{}, validation.New())
	def := tool.Definition()

	if def.Name != "generate_questions" {
		t.Errorf("Name = %q, want generate_questions", def.Name)
	}
	if len(def.InputSchema.Required) != 1 || def.InputSchema.Required[0] != "product" {
		t.Errorf("Required = %v, want [product]", def.InputSchema.Required)
	}
	if _, ok := def.InputSchema.Properties["num_questions"]; !ok {
		t.Error("num_questions property missing")
	}
}

func TestQuestionsTool_Handle(t *testing.T) {
	t.Run("returns requested questions", func(t *testing.T) {
		fake := &fakeQuestions{}
		tool := NewQuestionsTool(fake, validation.New())

		result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
			"product":       map[string]interface{}{"name": "Acme Bar", "category": "Snacks"},
			"num_questions": float64(3),
		}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %s", resultText(result))
		}

		var resp domain.GenerateQuestionsResponse
		if err := json.Unmarshal([]byte(resultText(result)), &resp); err != nil {
			t.Fatalf("result is not JSON: %v", err)
		}
		if len(resp.Questions) != 3 {
			t.Errorf("len(questions) = %d, want 3", len(resp.Questions))
		}
		if fake.gotName != "Acme Bar" || fake.gotCount != 3 {
			t.Errorf("generator called with %q/%d", fake.gotName, fake.gotCount)
		}
	})

	t.Run("defaults count", func(t *testing.T) {
		fake := &fakeQuestions{}
		tool := NewQuestionsTool(fake, validation.New())

		result, _ := tool.Handle(context.Background(), makeReq(map[string]interface{}{
			"product": map[string]interface{}{"name": "Acme Bar"},
		}))
		if result.IsError {
			t.Fatalf("unexpected tool error: %s", resultText(result))
		}
		if fake.gotCount != domain.DefaultNumQuestions {
			t.Errorf("count = %d, want %d", fake.gotCount, domain.DefaultNumQuestions)
		}
	})

	t.Run("validation failures are tool errors", func(t *testing.T) {
		tests := []struct {
			name string
			args map[string]interface{}
			want string
		}{
			{name: "missing product", args: map[string]interface{}{}, want: "product: field required"},
			{name: "missing name", args: map[string]interface{}{"product": map[string]interface{}{}}, want: "product -> name: field required"},
			{
				name: "count out of range",
				args: map[string]interface{}{"product": map[string]interface{}{"name": "A"}, "num_questions": float64(40)},
				want: "num_questions: ensure this value is less than or equal to 20",
			},
			{
				name: "fractional count",
				args: map[string]interface{}{"product": map[string]interface{}{"name": "A"}, "num_questions": 2.5},
				want: "num_questions: value is not a valid integer",
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				fake := &fakeQuestions{}
				tool := NewQuestionsTool(fake, validation.New())

				result, err := tool.Handle(context.Background(), makeReq(tt.args))
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if !result.IsError {
					t.Fatal("expected tool error")
				}
				if !strings.Contains(resultText(result), tt.want) {
					t.Errorf("result = %q, want to contain %q", resultText(result), tt.want)
				}
				if fake.gotCount != 0 {
					t.Error("generator should not be called")
				}
			})
		}
	})

	t.Run("generation failure is a tool error", func(t *testing.T) {
		tool := NewQuestionsTool(&fakeQuestions{err: errors.New("model offline")}, validation.New())

		result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
			"product": map[string]interface{}{"name": "Acme Bar"},
		}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError || !strings.Contains(resultText(result), "Failed to generate questions: model offline") {
			t.Errorf("result = %q", resultText(result))
		}
	})
}

// ─── ScoreTool ──────────────────────────────────────────────────────────────

func newScoreTool() *ScoreTool {
	scorer := usecase.NewTransparencyScorer(usecase.TransparencyScorerConfig{}, zerolog.Nop())
	return NewScoreTool(scorer, validation.New())
}

func TestScoreTool_Definition(t *testing.T) {
	def := newScoreTool().Definition()

	if def.Name != "calculate_transparency_score" {
		t.Errorf("Name = %q", def.Name)
	}
	if len(def.InputSchema.Required) != 2 {
		t.Errorf("Required = %v, want product and answers", def.InputSchema.Required)
	}
}

func TestScoreTool_Handle(t *testing.T) {
	t.Run("scores product", func(t *testing.T) {
		result, err := newScoreTool().Handle(context.Background(), makeReq(map[string]interface{}{
			"product": map[string]interface{}{
				"name":           "Acme Bar",
				"certifications": []interface{}{"USDA Organic"},
			},
			"answers": map[string]interface{}{
				"How is purity checked?": "verified by USDA, tested at 5% tolerance",
			},
		}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %s", resultText(result))
		}

		var score domain.ScoreResult
		if err := json.Unmarshal([]byte(resultText(result)), &score); err != nil {
			t.Fatalf("result is not JSON: %v", err)
		}
		if score.Score <= 0 || score.Score > 10 {
			t.Errorf("score = %v", score.Score)
		}
		if score.CriteriaScores[domain.CriterionVerifiability] != 10 {
			t.Errorf("verifiability = %v, want 10", score.CriteriaScores[domain.CriterionVerifiability])
		}
	})

	t.Run("missing answers", func(t *testing.T) {
		result, err := newScoreTool().Handle(context.Background(), makeReq(map[string]interface{}{
			"product": map[string]interface{}{"name": "Acme Bar"},
		}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError || !strings.Contains(resultText(result), "answers: field required") {
			t.Errorf("result = %q", resultText(result))
		}
	})

	t.Run("non string answer", func(t *testing.T) {
		result, _ := newScoreTool().Handle(context.Background(), makeReq(map[string]interface{}{
			"product": map[string]interface{}{"name": "Acme Bar"},
			"answers": map[string]interface{}{"q": float64(1)},
		}))
		if !result.IsError {
			t.Errorf("expected tool error, got %q", resultText(result))
		}
	})
}

func TestNewServer(t *testing.T) {
	scorer := usecase.NewTransparencyScorer(usecase.TransparencyScorerConfig{}, zerolog.Nop())
	if s := NewServer("test", &fakeQuestions{}, scorer); s == nil {
		t.Fatal("NewServer returned nil")
	}
}
