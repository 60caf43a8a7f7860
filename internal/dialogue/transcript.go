package dialogue

import (
	"slices"
	"sync"
	"time"
)

// Role of a transcript message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one immutable transcript entry.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Transcript is the append-only message log of one open chat widget. It is
// safe for concurrent use.
type Transcript struct {
	mu       sync.RWMutex
	messages []Message
}

// NewTranscript returns a transcript seeded with the given messages.
func NewTranscript(seed ...Message) *Transcript {
	return &Transcript{messages: slices.Clone(seed)}
}

func (t *Transcript) append(m Message) {
	t.mu.Lock()
	t.messages = append(t.messages, m)
	t.mu.Unlock()
}

// Len is the number of messages so far.
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.messages)
}

// Messages returns a copy of the log.
func (t *Transcript) Messages() []Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.messages)
}

// LastExchange returns the latest assistant message and the user message
// preceding it. Either may be empty.
func (t *Transcript) LastExchange() (assistant, user string) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	i := len(t.messages) - 1
	for ; i >= 0; i-- {
		if t.messages[i].Role == RoleAssistant {
			assistant = t.messages[i].Content
			break
		}
	}
	for i--; i >= 0; i-- {
		if t.messages[i].Role == RoleUser {
			user = t.messages[i].Content
			break
		}
	}
	return assistant, user
}
