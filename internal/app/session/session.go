// Package session holds the conversation state for one drafting
// interaction: the ordered turn history and the summarization-readiness
// flag. Sessions live only as long as the drafting flow that owns them.
package session

import (
	"errors"
	"strings"
	"sync"

	"github.com/PabloGalante/diario/internal/domain"
)

// Greeting is the synthetic assistant turn every session starts with.
// It is shown locally and never sent on its own to the reply service.
const Greeting = "Hi! I'm here to help you write your journal.\n\nHow was your day?"

// ErrEmptyTurn is returned when a user-authored turn has no text.
var ErrEmptyTurn = errors.New("turn text is empty")

// Session owns the ordered turn history for one drafting interaction.
// Turns are never edited, retracted or reordered once appended.
type Session struct {
	mu    sync.RWMutex
	turns []domain.Turn
	ready bool
}

// New returns a session seeded with the assistant greeting.
func New() *Session {
	return &Session{
		turns: []domain.Turn{{Role: domain.RoleAssistant, Text: Greeting}},
	}
}

// Append adds a turn to the end of the history. User-authored turns must
// carry non-empty text; assistant turns are appended as-is.
func (s *Session) Append(t domain.Turn) error {
	if t.Role == domain.RoleUser && strings.TrimSpace(t.Text) == "" {
		return ErrEmptyTurn
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.turns = append(s.turns, t)
	return nil
}

// Turns returns a copy of the history in chronological order.
func (s *Session) Turns() []domain.Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Len reports the number of turns in the history.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.turns)
}

// SetReadyToSummarize overwrites the readiness flag. Only the reply
// service's response decides this value; it is never computed locally.
func (s *Session) SetReadyToSummarize(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ready = v
}

// ReadyToSummarize reports whether the backend has signaled that the
// conversation holds enough material for a journal entry.
func (s *Session) ReadyToSummarize() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.ready
}
