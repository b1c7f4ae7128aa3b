package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"interview-engine/internal/app"
	"interview-engine/internal/domain"
	"interview-engine/internal/store"
)

type toolset struct {
	env *app.Env
}

func registerTools(s *server.MCPServer, t toolset) {
	classifyTool := mcp.NewTool("classify_email",
		mcp.WithDescription("Decide whether an email is an interview invitation and extract stage, company, start time and meeting link"),
	)
	classifyTool.InputSchema = mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]interface{}{
			"subject": map[string]interface{}{"type": "string", "description": "Subject line"},
			"from":    map[string]interface{}{"type": "string", "description": "Sender, e.g. Jane <jane@acme.io>"},
			"body":    map[string]interface{}{"type": "string", "description": "Plain-text body"},
			"now":     map[string]interface{}{"type": "string", "description": "Reference time, RFC3339 (optional)"},
		},
		Required: []string{"subject"},
	}
	s.AddTool(classifyTool, t.classifyEmail)

	signalsTool := mcp.NewTool("list_signals",
		mcp.WithDescription("List stored interview signals, newest first"),
	)
	signalsTool.InputSchema = mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]interface{}{
			"bucket":  map[string]interface{}{"type": "string", "description": "calendar, action or all (default all)"},
			"company": map[string]interface{}{"type": "string", "description": "Filter by company (optional)"},
			"limit":   map[string]interface{}{"type": "integer", "description": "Max rows (default 50)"},
		},
	}
	s.AddTool(signalsTool, t.listSignals)

	questionsTool := mcp.NewTool("past_questions",
		mcp.WithDescription("Past interview questions for a company, from the local bank or a web search"),
	)
	questionsTool.InputSchema = mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]interface{}{
			"company": map[string]interface{}{"type": "string", "description": "Company name"},
			"role":    map[string]interface{}{"type": "string", "description": "Role (optional)"},
			"fetch":   map[string]interface{}{"type": "boolean", "description": "Search the web when nothing is stored"},
		},
		Required: []string{"company"},
	}
	s.AddTool(questionsTool, t.pastQuestions)
}

func arguments(req mcp.CallToolRequest) (map[string]interface{}, bool) {
	args, ok := req.Params.Arguments.(map[string]interface{})
	return args, ok
}

func str(args map[string]interface{}, key string) string {
	v, _ := args[key].(string)
	return strings.TrimSpace(v)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

func (t toolset) classifyEmail(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := arguments(req)
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}
	e := domain.Email{
		Subject: str(args, "subject"),
		From:    str(args, "from"),
		Body:    str(args, "body"),
	}
	if e.Subject == "" && e.Body == "" {
		return mcp.NewToolResultError("subject or body is required"), nil
	}

	now := time.Now()
	if s := str(args, "now"); s != "" {
		ts, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return mcp.NewToolResultError("now must be RFC3339"), nil
		}
		now = ts
	}
	return jsonResult(t.env.Classifier().Trace(e, now))
}

func (t toolset) listSignals(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := arguments(req)
	if !ok {
		args = map[string]interface{}{}
	}
	limit := 50
	if v, ok := args["limit"].(float64); ok && v > 0 {
		limit = int(v)
	}
	bucket := strings.ToLower(str(args, "bucket"))
	switch bucket {
	case "", "all", "calendar", "action":
	default:
		return mcp.NewToolResultError("bucket must be calendar, action or all"), nil
	}

	sigs, err := store.ListSignals(ctx, t.env.DB.Pool, store.ListSignalsOpts{
		Bucket:  bucket,
		Company: str(args, "company"),
		Limit:   limit,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list signals: %v", err)), nil
	}
	if sigs == nil {
		sigs = []store.Signal{}
	}
	return jsonResult(sigs)
}

func (t toolset) pastQuestions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := arguments(req)
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}
	company := str(args, "company")
	if company == "" {
		return mcp.NewToolResultError("company is required"), nil
	}
	fetch, _ := args["fetch"].(bool)

	bank, err := t.env.Research()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Research unavailable: %v", err)), nil
	}
	got, err := bank.Past(ctx, company, str(args, "role"), t.env.Config().Research.MaxQuestions, fetch)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to load questions: %v", err)), nil
	}
	if len(got) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No stored questions for %s.", company)), nil
	}
	return jsonResult(got)
}
