package assistant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/qmuntal/stateless"
	"github.com/sashabaranov/go-openai"

	"github.com/comigor/portfolio-chat/internal/config"
	"github.com/comigor/portfolio-chat/internal/history"
	"github.com/comigor/portfolio-chat/internal/llm"
	"github.com/comigor/portfolio-chat/internal/logger"
	"github.com/comigor/portfolio-chat/pkg/mcptool"
)

// FSM States
type fsmState string

const (
	stateStart          fsmState = "Start"
	stateReadyToCallLLM fsmState = "ReadyToCallLLM"
	stateExecutingTools fsmState = "ExecutingTools"
	stateDone           fsmState = "Done"  // Terminal: successful completion
	stateError          fsmState = "Error" // Terminal: error state
)

// FSM Triggers
type fsmTrigger string

const (
	triggerProcessInput            fsmTrigger = "ProcessInput"
	triggerLLMRespondedWithContent fsmTrigger = "LLMRespondedWithContent"
	triggerLLMRequestedTools       fsmTrigger = "LLMRequestedTools"
	triggerToolsExecutionCompleted fsmTrigger = "ToolsExecutionCompleted"
	triggerErrorOccurred           fsmTrigger = "ErrorOccurred"
)

// ErrEmptyMessage is returned for blank visitor messages.
var ErrEmptyMessage = errors.New("message is required")

// Tools is the tool surface offered to the LLM; *mcptool.Registry satisfies it.
type Tools interface {
	Tools() []openai.Tool
	Prompts() []string
	Call(ctx context.Context, name, rawArgs string) string
}

// Reply is one assistant answer.
type Reply struct {
	Text      string
	SessionID string
	MessageID string
	Timestamp time.Time
	Classification
}

// Agent answers portfolio visitors, keeping per-session history.
type Agent struct {
	llmClient    llm.Client
	cfg          config.LLMConfig
	store        *history.Store
	tools        Tools
	systemPrompt string
	maxTurns     int
	now          func() time.Time
}

// New creates an agent. tools may be nil.
func New(llmClient llm.Client, appCfg config.Config, store *history.Store, tools Tools) *Agent {
	if tools == nil {
		tools = mcptool.NewRegistry()
	}
	maxTurns := appCfg.LLM.MaxTurns
	if maxTurns <= 0 {
		maxTurns = 5
	}
	a := &Agent{
		llmClient:    llmClient,
		cfg:          appCfg.LLM,
		store:        store,
		tools:        tools,
		systemPrompt: buildSystemPrompt(appCfg.LLM, appCfg.Portfolio, tools.Prompts()),
		maxTurns:     maxTurns,
		now:          time.Now,
	}
	logger.L.Debug("assistant system prompt", "prompt", a.systemPrompt)
	return a
}

// Reply answers message within sessionID, creating a session when it is empty.
func (a *Agent) Reply(ctx context.Context, sessionID, message string) (*Reply, error) {
	if message == "" {
		return nil, ErrEmptyMessage
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
		logger.L.Info("new assistant session", "session_id", sessionID)
	}

	past, err := a.store.List(ctx, sessionID, a.cfg.HistoryLimit)
	if err != nil {
		logger.L.Warn("history unavailable, answering without it", "session_id", sessionID, "error", err)
		past = nil
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(past)+2)
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: a.systemPrompt})
	for _, m := range past {
		switch m.Role {
		case openai.ChatMessageRoleUser, openai.ChatMessageRoleAssistant:
			messages = append(messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
		}
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: message})

	content, err := a.complete(ctx, messages)
	if err != nil {
		return nil, err
	}

	now := a.now().UTC()
	reply := &Reply{
		Text:           content,
		SessionID:      sessionID,
		MessageID:      uuid.NewString(),
		Timestamp:      now,
		Classification: Classify(message),
	}

	a.save(ctx, history.Message{MessageID: uuid.NewString(), SessionID: sessionID, Role: openai.ChatMessageRoleUser, Content: message, CreatedAt: now})
	a.save(ctx, history.Message{MessageID: reply.MessageID, SessionID: sessionID, Role: openai.ChatMessageRoleAssistant, Content: content, CreatedAt: now})
	return reply, nil
}

func (a *Agent) save(ctx context.Context, m history.Message) {
	if err := a.store.Save(ctx, m); err != nil {
		logger.L.Error("failed to save message", "session_id", m.SessionID, "error", err)
	}
}

// complete drives the LLM until it answers with content, executing any tool
// calls it requests in between.
func (a *Agent) complete(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	var (
		llmResponse  *openai.ChatCompletionResponse
		finalContent string
		lastError    error
		currentTurn  int
	)

	fsm := stateless.NewStateMachineWithMode(stateStart, stateless.FiringQueued)

	fsm.Configure(stateStart).
		Permit(triggerProcessInput, stateReadyToCallLLM)

	// State: ReadyToCallLLM
	// Action: Call LLM with current messages.
	fsm.Configure(stateReadyToCallLLM).
		OnEntry(func(ctx context.Context, _ ...any) error {
			if currentTurn >= a.maxTurns {
				logger.L.Warn("Max interaction turns reached.", "maxTurns", a.maxTurns)
				lastError = errors.New("exceeded maximum interaction turns")
				return fsm.FireCtx(ctx, triggerErrorOccurred)
			}
			currentTurn++
			logger.L.Debug("FSM: Entering ReadyToCallLLM", "turn", currentTurn)

			resp, err := a.llmClient.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
				Model:    a.cfg.Model,
				Messages: messages,
				Tools:    a.tools.Tools(),
			})
			if err != nil {
				logger.L.Error("LLM call failed", "error", err)
				lastError = fmt.Errorf("llm completion: %w", err)
				return fsm.FireCtx(ctx, triggerErrorOccurred)
			}
			if len(resp.Choices) == 0 {
				lastError = errors.New("llm returned no choices")
				return fsm.FireCtx(ctx, triggerErrorOccurred)
			}
			llmResponse = &resp

			if len(resp.Choices[0].Message.ToolCalls) > 0 {
				return fsm.FireCtx(ctx, triggerLLMRequestedTools)
			}
			return fsm.FireCtx(ctx, triggerLLMRespondedWithContent)
		}).
		Permit(triggerLLMRequestedTools, stateExecutingTools).
		Permit(triggerLLMRespondedWithContent, stateDone).
		Permit(triggerErrorOccurred, stateError)

	// State: ExecutingTools
	// Action: Run every requested tool and append the results for the next LLM call.
	fsm.Configure(stateExecutingTools).
		OnEntry(func(ctx context.Context, _ ...any) error {
			logger.L.Debug("FSM: Entering ExecutingTools")
			msg := llmResponse.Choices[0].Message
			messages = append(messages, msg)
			for _, tc := range msg.ToolCalls {
				messages = append(messages, openai.ChatCompletionMessage{
					Role:       openai.ChatMessageRoleTool,
					Content:    a.tools.Call(ctx, tc.Function.Name, tc.Function.Arguments),
					ToolCallID: tc.ID,
					Name:       tc.Function.Name,
				})
			}
			return fsm.FireCtx(ctx, triggerToolsExecutionCompleted)
		}).
		Permit(triggerToolsExecutionCompleted, stateReadyToCallLLM)

	fsm.Configure(stateDone).
		OnEntry(func(context.Context, ...any) error {
			finalContent = llmResponse.Choices[0].Message.Content
			return nil
		})

	fsm.Configure(stateError).
		OnEntry(func(context.Context, ...any) error {
			if lastError == nil {
				lastError = errors.New("FSM: reached error state without a specific error")
			}
			return nil
		})

	if err := fsm.FireCtx(ctx, triggerProcessInput); err != nil {
		return "", fmt.Errorf("FSM error: %w", err)
	}

	switch state := fsm.MustState(); state {
	case stateDone:
		return finalContent, nil
	case stateError:
		return "", lastError
	default:
		return "", fmt.Errorf("FSM ended in an unexpected state: %v", state)
	}
}
