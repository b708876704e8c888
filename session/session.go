package session

import (
	"errors"
	"strings"
	"sync"
	"time"
)

// Roles a transcript message can carry.
const (
	RoleUser            = "user"
	RoleAssistant       = "assistant"
	RoleOperationResult = "operation_result"
)

// ErrInvalidMessage is returned when a message is appended without a role.
var ErrInvalidMessage = errors.New("session: message role is required")

// Message is one rendered transcript entry. Operation results carry the
// operation name and outcome so the UI can show what ran during a turn.
type Message struct {
	Role      string    `json:"role"`
	Text      string    `json:"text,omitempty"`
	Operation string    `json:"operation,omitempty"`
	Failed    bool      `json:"failed,omitempty"`
	Time      time.Time `json:"time"`
}

// Session holds the ordered message transcript of one conversation.
//
// The transcript is append-only during a turn and cleared only by Reset.
// State lives in memory for the lifetime of the process; nothing is
// persisted. Independent sessions share nothing, so separate users are
// isolated by construction.
type Session struct {
	mu       sync.RWMutex
	messages []Message
	now      func() time.Time
}

// New returns an empty session.
func New() *Session {
	return &Session{
		messages: make([]Message, 0, 16),
		now:      time.Now,
	}
}

// Append adds a message to the transcript in arrival order.
func (s *Session) Append(msg Message) error {
	if strings.TrimSpace(msg.Role) == "" {
		return ErrInvalidMessage
	}
	if msg.Time.IsZero() {
		msg.Time = s.now()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
	return nil
}

// Messages returns a copy of the transcript in order.
func (s *Session) Messages() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of transcript messages.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// Reset clears the transcript. This is the only way history shrinks.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = s.messages[:0]
}
