package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/require"

	"github.com/comigor/portfolio-chat/internal/config"
	"github.com/comigor/portfolio-chat/internal/history"
	"github.com/comigor/portfolio-chat/pkg/mcptool"
)

type mockLLM struct {
	calls    []openai.ChatCompletionResponse
	requests []openai.ChatCompletionRequest
	err      error
}

func (m *mockLLM) CreateChatCompletion(_ context.Context, r openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	m.requests = append(m.requests, r)
	if m.err != nil {
		return openai.ChatCompletionResponse{}, m.err
	}
	if len(m.calls) == 0 {
		panic("mockLLM: no more responses configured for request: " + r.Messages[len(r.Messages)-1].Content)
	}
	resp := m.calls[0]
	m.calls = m.calls[1:]
	return resp, nil
}

func content(s string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: s}}}}
}

func toolCall(id, name, args string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{Choices: []openai.ChatCompletionChoice{{
		Message: openai.ChatCompletionMessage{ToolCalls: []openai.ToolCall{{
			ID:       id,
			Type:     openai.ToolTypeFunction,
			Function: openai.FunctionCall{Name: name, Arguments: args},
		}}},
	}}}
}

func testConfig() config.Config {
	return config.Config{
		LLM:       config.LLMConfig{Model: "gpt", HistoryLimit: 10},
		Portfolio: config.PortfolioConfig{Owner: "Henry", About: "Product designer and Go developer."},
	}
}

type staticMCP struct {
	tools []mcp.Tool
	call  func(req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

func (s *staticMCP) ListTools(context.Context, mcp.ListToolsRequest) (*mcp.ListToolsResult, error) {
	return &mcp.ListToolsResult{Tools: s.tools}, nil
}

func (s *staticMCP) CallTool(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.call(req)
}

func (s *staticMCP) Close() error { return nil }

// TestAgentReply_Direct covers a plain answer on a fresh session.
func TestAgentReply_Direct(t *testing.T) {
	llmClient := &mockLLM{calls: []openai.ChatCompletionResponse{content("Henry builds design systems in Go and React.")}}
	store := history.Open("")
	a := New(llmClient, testConfig(), store, nil)

	out, err := a.Reply(context.Background(), "", "What are Henry's skills?")
	require.NoError(t, err)
	require.Equal(t, "Henry builds design systems in Go and React.", out.Text)
	require.NotEmpty(t, out.SessionID)
	require.NotEmpty(t, out.MessageID)
	require.Equal(t, IntentSkills, out.Intent)

	sys := llmClient.requests[0].Messages[0]
	require.Equal(t, openai.ChatMessageRoleSystem, sys.Role)
	require.Contains(t, sys.Content, "Henry's personal portfolio")
	require.Contains(t, sys.Content, "Product designer and Go developer.")

	saved, err := store.List(context.Background(), out.SessionID, 0)
	require.NoError(t, err)
	require.Len(t, saved, 2)
}

// TestAgentReply_UsesHistory verifies earlier turns of the session reach the LLM.
func TestAgentReply_UsesHistory(t *testing.T) {
	llmClient := &mockLLM{calls: []openai.ChatCompletionResponse{content("first"), content("second")}}
	a := New(llmClient, testConfig(), history.Open(""), nil)

	first, err := a.Reply(context.Background(), "", "hi")
	require.NoError(t, err)
	_, err = a.Reply(context.Background(), first.SessionID, "and projects?")
	require.NoError(t, err)

	msgs := llmClient.requests[1].Messages
	require.Len(t, msgs, 4) // system, hi, first, and projects?
	require.Equal(t, "hi", msgs[1].Content)
	require.Equal(t, "first", msgs[2].Content)
}

// TestAgentReply_ToolLoop covers LLM -> MCP tool -> LLM.
func TestAgentReply_ToolLoop(t *testing.T) {
	llmClient := &mockLLM{calls: []openai.ChatCompletionResponse{
		toolCall("call_1", "list_projects", `{"limit": 2}`),
		content("Henry's latest projects are Atlas and Lumen."),
	}}
	tools := mcptool.NewRegistry()
	require.NoError(t, tools.Add(context.Background(), "portfolio-data", &staticMCP{
		tools: []mcp.Tool{{Name: "list_projects", Description: "Lists projects"}},
		call: func(req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			require.Equal(t, "list_projects", req.Params.Name)
			return &mcp.CallToolResult{Content: []mcp.Content{mcp.TextContent{Type: "text", Text: `["Atlas","Lumen"]`}}}, nil
		},
	}))

	a := New(llmClient, testConfig(), history.Open(""), tools)
	out, err := a.Reply(context.Background(), "s", "Show me Henry's projects")
	require.NoError(t, err)
	require.Equal(t, "Henry's latest projects are Atlas and Lumen.", out.Text)
	require.Equal(t, IntentProjects, out.Intent)

	require.Len(t, llmClient.requests, 2)
	require.Len(t, llmClient.requests[0].Tools, 1)
	last := llmClient.requests[1].Messages[len(llmClient.requests[1].Messages)-1]
	require.Equal(t, openai.ChatMessageRoleTool, last.Role)
	require.Equal(t, "call_1", last.ToolCallID)
	require.Equal(t, `["Atlas","Lumen"]`, last.Content)
}

// TestAgentReply_MaxTurns stops an LLM that keeps requesting tools.
func TestAgentReply_MaxTurns(t *testing.T) {
	cfg := testConfig()
	cfg.LLM.MaxTurns = 2
	llmClient := &mockLLM{calls: []openai.ChatCompletionResponse{
		toolCall("a", "nope", `{}`),
		toolCall("b", "nope", `{}`),
	}}
	a := New(llmClient, cfg, history.Open(""), nil)

	_, err := a.Reply(context.Background(), "s", "loop forever")
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "maximum interaction turns"))
}

func TestAgentReply_LLMError(t *testing.T) {
	store := history.Open("")
	a := New(&mockLLM{err: context.DeadlineExceeded}, testConfig(), store, nil)

	_, err := a.Reply(context.Background(), "s", "hi")
	require.Error(t, err)
	require.True(t, errors.Is(err, context.DeadlineExceeded))

	saved, _ := store.List(context.Background(), "s", 0)
	require.Empty(t, saved, "failed turns are not persisted")
}

func TestAgentReply_EmptyMessage(t *testing.T) {
	a := New(&mockLLM{}, testConfig(), history.Open(""), nil)
	_, err := a.Reply(context.Background(), "", "")
	require.ErrorIs(t, err, ErrEmptyMessage)
}

func TestClassify(t *testing.T) {
	cases := map[string]Intent{
		"What are Henry's skills?":         IntentSkills,
		"tell me about your projects":      IntentProjects,
		"where has he worked? career path": IntentExperience,
		"what's your design philosophy":    IntentPhilosophy,
		"any client testimonials?":         IntentReviews,
		"how do I contact him by email":    IntentContact,
		"hello":                            IntentGeneral,
		"":                                 IntentGeneral,
	}
	for in, want := range cases {
		got := Classify(in)
		require.Equal(t, want, got.Intent, in)
		require.GreaterOrEqual(t, got.Confidence, 0.0)
		require.LessOrEqual(t, got.Confidence, 1.0)
	}
	require.Equal(t, []string{"projects"}, Classify("projects").Sources)
}
