// Package mcptool connects to MCP servers and exposes their tools to an
// OpenAI-style chat completion loop.
package mcptool

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sashabaranov/go-openai"

	"github.com/comigor/portfolio-chat/internal/config"
	"github.com/comigor/portfolio-chat/internal/logger"
)

var emptySchema = json.RawMessage(`{"type": "object", "properties": {}}`)

// Client is the part of an MCP client the registry uses.
type Client interface {
	ListTools(ctx context.Context, req mcp.ListToolsRequest) (*mcp.ListToolsResult, error)
	CallTool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
	Close() error
}

// Registry maps tool names to the MCP client that serves them.
type Registry struct {
	mu      sync.RWMutex
	tools   []openai.Tool
	owners  map[string]Client
	clients []Client
	prompts []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{owners: make(map[string]Client)}
}

// Connect starts every configured server and registers its tools. Servers
// that fail are logged and skipped.
func Connect(ctx context.Context, servers []config.MCPServerConfig) *Registry {
	r := NewRegistry()
	for _, sc := range servers {
		c, err := dial(ctx, sc)
		if err != nil {
			logger.L.Error("Failed to connect MCP server", "name", sc.Name, "type", sc.Type, "error", err)
			continue
		}
		if p := firstPrompt(ctx, c, sc.Name); p != "" {
			r.mu.Lock()
			r.prompts = append(r.prompts, p)
			r.mu.Unlock()
		}
		if err := r.Add(ctx, sc.Name, c); err != nil {
			logger.L.Warn("Failed to list tools for MCP client", "name", sc.Name, "error", err)
		}
	}
	if len(r.clients) == 0 && len(servers) > 0 {
		logger.L.Warn("No MCP clients were successfully initialized despite servers configured.", "length", len(servers))
	}
	return r
}

func dial(ctx context.Context, sc config.MCPServerConfig) (*client.Client, error) {
	var (
		c   *client.Client
		err error
	)
	switch sc.Type {
	case config.ClientTypeSSE:
		var opts []transport.ClientOption
		if len(sc.Headers) > 0 {
			opts = append(opts, transport.WithHeaders(sc.Headers))
		}
		c, err = client.NewSSEMCPClient(sc.URL, opts...)
	case config.ClientTypeStreamableHTTP:
		var opts []transport.StreamableHTTPCOption
		if len(sc.Headers) > 0 {
			opts = append(opts, transport.WithHTTPHeaders(sc.Headers))
		}
		c, err = client.NewStreamableHttpClient(sc.URL, opts...)
	case config.ClientTypeStdio:
		var env []string
		for k, v := range sc.Env {
			env = append(env, fmt.Sprintf("%s=%s", k, v))
		}
		c, err = client.NewStdioMCPClient(sc.Command, env, sc.Args...)
	default:
		return nil, fmt.Errorf("unsupported MCP server type %q (want sse, streamable_http or stdio)", sc.Type)
	}
	if err != nil {
		return nil, err
	}

	// stdio clients are started on creation
	if sc.Type != config.ClientTypeStdio {
		if err := c.Start(ctx); err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("start transport: %w", err)
		}
	}

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{Name: "portfolio-assistant", Version: "1.0.0"}
	if _, err := c.Initialize(ctx, initReq); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("initialize: %w", err)
	}
	logger.L.Info("MCP server initialized", "name", sc.Name)
	return c, nil
}

// firstPrompt returns the assistant text of the server's first argument-free
// prompt, used to extend the system prompt.
func firstPrompt(ctx context.Context, c *client.Client, name string) string {
	prompts, err := c.ListPrompts(ctx, mcp.ListPromptsRequest{})
	if err != nil || prompts == nil {
		logger.L.Debug("MCP server offers no prompts", "name", name, "error", err)
		return ""
	}
	i := slices.IndexFunc(prompts.Prompts, func(p mcp.Prompt) bool { return len(p.Arguments) == 0 })
	if i == -1 {
		return ""
	}
	getReq := mcp.GetPromptRequest{}
	getReq.Params.Name = prompts.Prompts[i].Name
	got, err := c.GetPrompt(ctx, getReq)
	if err != nil || got == nil {
		logger.L.Warn("Failed to get prompt", "name", name, "error", err)
		return ""
	}
	for _, m := range got.Messages {
		if m.Role != mcp.RoleAssistant {
			continue
		}
		if text, ok := m.Content.(mcp.TextContent); ok {
			logger.L.Info("Discovered system prompt from MCP server", "name", name)
			return text.Text
		}
	}
	return ""
}

// Add lists c's tools and registers the ones whose names are still free.
func (r *Registry) Add(ctx context.Context, name string, c Client) error {
	r.mu.Lock()
	r.clients = append(r.clients, c)
	r.mu.Unlock()

	listed, err := c.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return err
	}
	if listed == nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range listed.Tools {
		if _, exists := r.owners[t.Name]; exists {
			logger.L.Warn("Tool already registered from another server. Skipping.", "tool", t.Name, "name", name)
			continue
		}
		r.owners[t.Name] = c
		r.tools = append(r.tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  schemaOf(t),
			},
		})
		logger.L.Info("Registered tool from MCP server", "tool", t.Name, "name", name)
	}
	return nil
}

func schemaOf(t mcp.Tool) json.RawMessage {
	if len(t.RawInputSchema) > 0 && string(t.RawInputSchema) != "null" {
		return t.RawInputSchema
	}
	if t.InputSchema.Type == "" {
		return emptySchema
	}
	b, err := json.Marshal(t.InputSchema)
	if err != nil || string(b) == "{}" || string(b) == "null" {
		return emptySchema
	}
	return b
}

// Tools returns the registered tools in registration order.
func (r *Registry) Tools() []openai.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.tools)
}

// Prompts returns the system prompt fragments discovered from servers.
func (r *Registry) Prompts() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.prompts)
}

// Call runs a tool and flattens its result to text for the LLM. Failures
// are reported as text so the model can react to them.
func (r *Registry) Call(ctx context.Context, name, rawArgs string) string {
	r.mu.RLock()
	c, ok := r.owners[name]
	r.mu.RUnlock()
	if !ok {
		return "Error: unknown tool " + name
	}

	var args map[string]any
	if rawArgs != "" {
		if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
			logger.L.Error("Failed to unmarshal tool arguments", "tool", name, "error", err)
			return "Error: could not parse arguments for tool " + name
		}
	}

	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	res, err := c.CallTool(ctx, req)
	if err != nil {
		logger.L.Warn("MCP CallTool failed", "tool", name, "error", err)
		return "Error: tool " + name + " failed: " + err.Error()
	}
	if res == nil {
		return "Error: tool " + name + " returned no result"
	}

	for _, item := range res.Content {
		if text, ok := item.(mcp.TextContent); ok {
			return text.Text
		}
	}
	if res.IsError {
		return "Tool execution resulted in an error without specific text."
	}
	b, err := json.Marshal(res)
	if err != nil {
		return "Tool executed successfully, but result could not be formatted."
	}
	return string(b)
}

// Close closes every client.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.clients {
		if err := c.Close(); err != nil {
			logger.L.Warn("MCP client close error", "error", err)
		}
	}
	r.clients = nil
}
