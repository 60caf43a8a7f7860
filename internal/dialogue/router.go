package dialogue

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/qmuntal/stateless"

	"github.com/comigor/portfolio-chat/internal/logger"
	"github.com/comigor/portfolio-chat/internal/remote"
	"github.com/comigor/portfolio-chat/internal/style"
)

// TurnState is a state of the per-turn machine.
type TurnState string

const (
	StateIdle                TurnState = "Idle"
	StateSubmitted           TurnState = "Submitted"
	StateActionsApplied      TurnState = "ActionsApplied"
	StateRemoteCallSkipped   TurnState = "RemoteCallSkipped"
	StateRemoteCallPending   TurnState = "RemoteCallPending"
	StateRemoteCallSucceeded TurnState = "RemoteCallSucceeded"
	StateRemoteCallFailed    TurnState = "RemoteCallFailed"
)

type turnTrigger string

const (
	triggerSubmit  turnTrigger = "Submit"
	triggerApply   turnTrigger = "Apply"
	triggerSkip    turnTrigger = "Skip"
	triggerForward turnTrigger = "Forward"
	triggerSucceed turnTrigger = "Succeed"
	triggerFail    turnTrigger = "Fail"
	triggerFinish  turnTrigger = "Finish"
)

// Fallback lines appended when the assistant cannot be reached.
const (
	FallbackWithActions = "Your style changes were applied, but I couldn't reach the assistant for more context right now. Please try again in a moment."
	FallbackNoActions   = "Sorry, I couldn't reach the assistant right now. Please try again in a moment."
)

// errNoReply is recorded when an assistant returns neither a reply nor an error.
var errNoReply = errors.New("assistant returned no reply")

// questionMarkers force a remote call even when the utterance produced actions.
var questionMarkers = []string{"?", "who", "what", "tell me"}

// Assistant is the remote side of a turn; remote.Client satisfies it.
type Assistant interface {
	Ask(ctx context.Context, req remote.Request) (*remote.Response, error)
}

// TurnResult reports what one turn did.
type TurnResult struct {
	Actions      []style.Action
	Effects      []style.Effect
	Confirmation string
	RemoteCalled bool
	RemoteErr    error
	Reply        *remote.Response
	Appended     []Message
	Path         []TurnState
}

// Router runs turns: local style actions first, then at most one remote call.
// mu guards the engine, transcript and session but is not held while the
// assistant is asked, so a later turn's style actions apply while an earlier
// call is pending. Replies land in the order the calls return.
type Router struct {
	mu         sync.Mutex
	engine     *style.Engine
	assistant  Assistant
	transcript *Transcript
	sessionID  string
	now        func() time.Time
}

// NewRouter wires a router to its engine, assistant and transcript.
func NewRouter(engine *style.Engine, assistant Assistant, transcript *Transcript) *Router {
	return &Router{
		engine:     engine,
		assistant:  assistant,
		transcript: transcript,
		now:        time.Now,
	}
}

// SessionID is the remote session adopted on the first successful exchange.
func (r *Router) SessionID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessionID
}

// Transcript returns the transcript the router appends to.
func (r *Router) Transcript() *Transcript { return r.transcript }

// NeedsRemote reports whether a turn must reach the assistant.
func NeedsRemote(utterance string, actions []style.Action) bool {
	if len(actions) == 0 {
		return true
	}
	lower := strings.ToLower(utterance)
	for _, m := range questionMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// Route runs one turn for utterance. It never fails: remote errors end in a
// fallback message and the machine always returns to Idle.
func (r *Router) Route(ctx context.Context, utterance string) TurnResult {
	res := &TurnResult{}
	fsm := stateless.NewStateMachineWithMode(StateIdle, stateless.FiringQueued)
	fsm.OnTransitioned(func(_ context.Context, tr stateless.Transition) {
		if s, ok := tr.Destination.(TurnState); ok {
			res.Path = append(res.Path, s)
		}
	})

	fire := func(ctx context.Context, t turnTrigger) error {
		return fsm.FireCtx(ctx, t)
	}

	fsm.Configure(StateIdle).
		Permit(triggerSubmit, StateSubmitted)

	fsm.Configure(StateSubmitted).
		OnEntry(func(ctx context.Context, _ ...any) error {
			r.mu.Lock()
			r.appendMessage(res, RoleUser, utterance)
			r.mu.Unlock()
			res.Actions = style.Parse(utterance)
			logger.L.Debug("turn submitted", "utterance", utterance, "actions", len(res.Actions))
			if len(res.Actions) > 0 {
				return fire(ctx, triggerApply)
			}
			return fire(ctx, triggerForward)
		}).
		Permit(triggerApply, StateActionsApplied).
		Permit(triggerForward, StateRemoteCallPending)

	fsm.Configure(StateActionsApplied).
		OnEntry(func(ctx context.Context, _ ...any) error {
			r.mu.Lock()
			for _, a := range res.Actions {
				res.Effects = append(res.Effects, r.engine.Apply(a))
			}
			res.Confirmation = style.Confirmation(res.Actions[0])
			r.appendMessage(res, RoleAssistant, res.Confirmation)
			r.mu.Unlock()
			if NeedsRemote(utterance, res.Actions) {
				return fire(ctx, triggerForward)
			}
			return fire(ctx, triggerSkip)
		}).
		Permit(triggerSkip, StateRemoteCallSkipped).
		Permit(triggerForward, StateRemoteCallPending)

	fsm.Configure(StateRemoteCallSkipped).
		OnEntry(func(ctx context.Context, _ ...any) error {
			logger.L.Debug("remote call skipped, action-only turn")
			return fire(ctx, triggerFinish)
		}).
		Permit(triggerFinish, StateIdle)

	fsm.Configure(StateRemoteCallPending).
		OnEntry(func(ctx context.Context, _ ...any) error {
			res.RemoteCalled = true
			r.mu.Lock()
			sessionID := r.sessionID
			r.mu.Unlock()

			reply, err := r.assistant.Ask(ctx, remote.Request{Message: utterance, SessionID: sessionID})
			if err == nil && reply == nil {
				err = errNoReply
			}
			if err != nil {
				res.RemoteErr = err
				return fire(ctx, triggerFail)
			}
			res.Reply = reply
			return fire(ctx, triggerSucceed)
		}).
		Permit(triggerSucceed, StateRemoteCallSucceeded).
		Permit(triggerFail, StateRemoteCallFailed)

	fsm.Configure(StateRemoteCallSucceeded).
		OnEntry(func(ctx context.Context, _ ...any) error {
			r.mu.Lock()
			if r.sessionID == "" && res.Reply.SessionID != "" {
				r.sessionID = res.Reply.SessionID
				logger.L.Info("assistant session adopted", "session_id", r.sessionID)
			}
			r.appendMessage(res, RoleAssistant, res.Reply.Reply)
			r.mu.Unlock()
			return fire(ctx, triggerFinish)
		}).
		Permit(triggerFinish, StateIdle)

	fsm.Configure(StateRemoteCallFailed).
		OnEntry(func(ctx context.Context, _ ...any) error {
			logger.L.Warn("assistant call failed", "error", res.RemoteErr)
			msg := FallbackNoActions
			if len(res.Effects) > 0 {
				msg = FallbackWithActions
			}
			r.mu.Lock()
			r.appendMessage(res, RoleAssistant, msg)
			r.mu.Unlock()
			return fire(ctx, triggerFinish)
		}).
		Permit(triggerFinish, StateIdle)

	if err := fire(ctx, triggerSubmit); err != nil {
		logger.L.Error("turn state machine error", "error", err)
	}
	if state := fsm.MustState(); state != StateIdle {
		logger.L.Error("turn did not return to idle", "state", state)
	}
	return *res
}

// appendMessage must be called with mu held.
func (r *Router) appendMessage(res *TurnResult, role Role, content string) {
	m := Message{Role: role, Content: content, Timestamp: r.now()}
	r.transcript.append(m)
	res.Appended = append(res.Appended, m)
}
