package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/testology/psyengine/internal/adapters/outbound/answers"
	"github.com/testology/psyengine/internal/adapters/outbound/tui"
	"github.com/testology/psyengine/internal/application"
	"github.com/testology/psyengine/internal/domain/recommend"
)

// registerTools registers all psyengine MCP tools on the given server.
func registerTools(s *server.MCPServer, svc Services) {
	// 1. psyengine_score
	s.AddTool(
		mcplib.NewTool("psyengine_score",
			mcplib.WithDescription("Scores one submission of a test and returns the result as JSON"),
			mcplib.WithString("test",
				mcplib.Required(),
				mcplib.Description("Test id or slug, e.g. GAD7 or gad-7"),
			),
			mcplib.WithString("answers",
				mcplib.Required(),
				mcplib.Description(`JSON answers: [{"questionId":1,"value":3}] or {"answers":[...]}`),
			),
			mcplib.WithString("user_id", mcplib.Description("User the result belongs to (required with save)")),
			mcplib.WithBoolean("save", mcplib.Description("Append the result to the user's history")),
		),
		handleScore(svc, false),
	)

	// 2. psyengine_score_debug
	s.AddTool(
		mcplib.NewTool("psyengine_score_debug",
			mcplib.WithDescription("Scores one submission and returns the result with a per-item scoring trace"),
			mcplib.WithString("test",
				mcplib.Required(),
				mcplib.Description("Test id or slug"),
			),
			mcplib.WithString("answers",
				mcplib.Required(),
				mcplib.Description("JSON answers, optionally with a questions map of id to text"),
			),
			mcplib.WithString("user_id", mcplib.Description("User the result belongs to (required with save)")),
			mcplib.WithBoolean("save", mcplib.Description("Append the result to the user's history")),
		),
		handleScore(svc, true),
	)

	// 3. psyengine_recommend
	s.AddTool(
		mcplib.NewTool("psyengine_recommend",
			mcplib.WithDescription("Ranks the next tests a user should take based on their history"),
			mcplib.WithString("user_id",
				mcplib.Required(),
				mcplib.Description("User whose history is read"),
			),
			mcplib.WithNumber("limit", mcplib.Description("Maximum number of recommendations (default 6)")),
		),
		handleRecommend(svc),
	)

	// 4. psyengine_list_tests
	s.AddTool(
		mcplib.NewTool("psyengine_list_tests",
			mcplib.WithDescription("Lists the ids and titles of every loaded test definition"),
		),
		handleListTests(svc),
	)

	// 5. psyengine_history
	s.AddTool(
		mcplib.NewTool("psyengine_history",
			mcplib.WithDescription("Returns a user's saved results, newest first"),
			mcplib.WithString("user_id",
				mcplib.Required(),
				mcplib.Description("User whose history is read"),
			),
		),
		handleHistory(svc),
	)
}

func handleScore(svc Services, debug bool) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		test, err := request.RequireString("test")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		raw, err := request.RequireString("answers")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		doc, err := answers.Parse([]byte(raw))
		if err != nil {
			return errorResult(err.Error()), nil
		}

		args := request.GetArguments()
		userID, _ := args["user_id"].(string)
		save, _ := args["save"].(bool)

		sub, err := svc.Score.Submit(ctx, application.SubmitRequest{
			UserID:       userID,
			Test:         test,
			Answers:      doc.Answers,
			QuestionText: doc.Questions,
			Debug:        debug,
			Save:         save,
		})
		if err != nil {
			return errorResult(fmt.Sprintf("scoring failed: %v", err)), nil
		}
		return jsonResult(sub)
	}
}

func handleRecommend(svc Services) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		userID, err := request.RequireString("user_id")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		limit := recommend.DefaultLimit
		if n, ok := request.GetArguments()["limit"].(float64); ok {
			limit = int(n)
		}

		payload, err := svc.Recommend.Recommend(ctx, userID, limit)
		if err != nil {
			return errorResult(fmt.Sprintf("recommend failed: %v", err)), nil
		}
		return jsonResult(payload)
	}
}

type testSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Title       string `json:"title"`
	ScoringType string `json:"scoringType"`
}

func handleListTests(svc Services) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		return jsonResult(listTests(svc))
	}
}

func listTests(svc Services) []testSummary {
	reg := svc.Score.Registry()
	out := make([]testSummary, 0, reg.Len())
	for _, id := range reg.IDs() {
		cfg, _ := reg.Lookup(id)
		out = append(out, testSummary{
			ID:          id,
			Name:        tui.DisplayName(id),
			Title:       cfg.Title,
			ScoringType: string(cfg.ScoringType),
		})
	}
	return out
}

func handleHistory(svc Services) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		userID, err := request.RequireString("user_id")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		if strings.TrimSpace(userID) == "" {
			return errorResult(application.ErrUserRequired.Error()), nil
		}

		records, err := svc.Recommend.History(ctx, userID)
		if err != nil {
			return errorResult(fmt.Sprintf("loading history: %v", err)), nil
		}
		return jsonResult(records)
	}
}

// jsonResult marshals v into an indented JSON text result.
func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns a tool-level error the client can show.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
