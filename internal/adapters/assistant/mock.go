// Package assistant provides a scripted, offline implementation of the
// backend ports for development without a running server.
package assistant

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/PabloGalante/diario/internal/domain"
)

// minExchanges is how many user turns the scripted assistant wants
// before it signals the conversation can become a journal entry.
const minExchanges = 4

var prompts = []string{
	"That sounds interesting. How did it make you feel?",
	"What was the best moment of it?",
	"Is there anything you would do differently?",
	"Got it. Do you have any photos from today you'd like to attach?",
}

// Mock mimics the backend's chat endpoints with canned follow-ups.
type Mock struct{}

var (
	_ domain.Assistant = (*Mock)(nil)
)

func NewMock() *Mock {
	return &Mock{}
}

// NextReply cycles through canned follow-up questions and flips the
// summarize signal once enough user turns have accumulated.
func (m *Mock) NextReply(_ context.Context, turns []domain.Turn) (domain.Turn, bool, error) {
	userTurns := 0
	for _, t := range turns {
		if t.Role == domain.RoleUser {
			userTurns++
		}
	}
	if userTurns == 0 {
		return domain.Turn{}, false, fmt.Errorf("no user turn to reply to")
	}

	text := prompts[(userTurns-1)%len(prompts)]
	return domain.Turn{Role: domain.RoleAssistant, Text: text}, userTurns >= minExchanges, nil
}

// Summarize stitches the user's side of the conversation into a draft.
func (m *Mock) Summarize(_ context.Context, turns []domain.Turn) (string, string, error) {
	var lines []string
	for _, t := range turns {
		if t.Role == domain.RoleUser {
			lines = append(lines, t.Text)
		}
	}
	if len(lines) == 0 {
		return "", "", fmt.Errorf("nothing to summarize")
	}

	return truncate(lines[0], 40), strings.Join(lines, "\n\n"), nil
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}

// MemoryUploader keeps no bytes and mints stable fake URLs, enough for
// the drafting flow to run end to end offline.
type MemoryUploader struct {
	mu sync.Mutex
	n  int
}

var _ domain.Uploader = (*MemoryUploader)(nil)

func NewMemoryUploader() *MemoryUploader {
	return &MemoryUploader{}
}

func (u *MemoryUploader) Upload(_ context.Context, f domain.File) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.n++
	return fmt.Sprintf("memory://uploads/%03d-%s", u.n, f.Name), nil
}
