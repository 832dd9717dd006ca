// Package session keeps bounded per-conversation message history for the
// lifetime of the process.
package session

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Message is one conversational turn kept as history context.
type Message struct {
	Role    string // "user" or "assistant"
	Content string
}

// Store holds sessions keyed by id. History is capped at the most recent
// maxHistory exchanges (2 × maxHistory messages), evicting oldest first.
// Safe for concurrent use across sessions; callers serialize per session.
type Store struct {
	mu         sync.Mutex
	maxHistory int
	sessions   map[string][]Message
}

func NewStore(maxHistory int) *Store {
	if maxHistory <= 0 {
		maxHistory = 2
	}
	return &Store{maxHistory: maxHistory, sessions: make(map[string][]Message)}
}

// Create allocates a fresh session with empty history and returns its id.
func (s *Store) Create() string {
	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = nil
	s.mu.Unlock()
	return id
}

// AddExchange appends a question/answer pair, creating the session if the id
// is unknown, then trims history to the cap.
func (s *Store) AddExchange(id, userText, assistantText string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := append(s.sessions[id],
		Message{Role: "user", Content: userText},
		Message{Role: "assistant", Content: assistantText},
	)
	if limit := s.maxHistory * 2; len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	s.sessions[id] = msgs
}

// HistoryText renders the session's messages as "Role: content" lines for use
// as conversational context, or "" for unknown or empty sessions.
func (s *Store) HistoryText(id string) string {
	s.mu.Lock()
	msgs := s.sessions[id]
	s.mu.Unlock()
	if len(msgs) == 0 {
		return ""
	}
	lines := make([]string, 0, len(msgs))
	for _, m := range msgs {
		lines = append(lines, title(m.Role)+": "+m.Content)
	}
	return strings.Join(lines, "\n")
}

// Clear empties a session's history without deleting the id.
func (s *Store) Clear(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; ok {
		s.sessions[id] = nil
	}
}

// Len reports the number of messages currently held for id.
func (s *Store) Len(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions[id])
}

func title(role string) string {
	if role == "" {
		return role
	}
	return strings.ToUpper(role[:1]) + role[1:]
}
