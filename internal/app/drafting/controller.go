// Package drafting orchestrates the chat-to-journal-entry flow: it
// mediates between user input, the attachment manager and the backend's
// reply and summarize endpoints.
package drafting

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/PabloGalante/diario/internal/app/attach"
	"github.com/PabloGalante/diario/internal/app/session"
	"github.com/PabloGalante/diario/internal/domain"
	"github.com/PabloGalante/diario/internal/observability"
)

var (
	// ErrEmptyInput means the submitted text was empty after trimming.
	ErrEmptyInput = errors.New("input text is empty")
	// ErrReplyInFlight means a previous SubmitTurn has not settled yet.
	ErrReplyInFlight = errors.New("a reply is already in flight")
	// ErrNotReady means the backend has not signaled readiness yet.
	ErrNotReady = errors.New("conversation is not ready to summarize")
	// ErrSummarizeInFlight means a summarize call has not settled yet.
	ErrSummarizeInFlight = errors.New("a summarize call is already in flight")
)

// Controller drives one drafting interaction. It appends turns
// optimistically, classifies reply failures into synthetic assistant
// turns, and emits the final draft together with the attachment URLs.
type Controller struct {
	session     *session.Session
	assistant   domain.Assistant
	attachments *attach.Manager

	onAppend func()

	mu            sync.Mutex
	awaitingReply bool
	summarizing   bool
}

// NewController wires a controller around an existing session and
// attachment manager.
func NewController(s *session.Session, assistant domain.Assistant, attachments *attach.Manager) *Controller {
	return &Controller{
		session:     s,
		assistant:   assistant,
		attachments: attachments,
	}
}

// SetOnTurnAppended registers a callback invoked after every turn append
// so consumers can keep the newest turn visible. Must be set before the
// first SubmitTurn.
func (c *Controller) SetOnTurnAppended(fn func()) {
	c.onAppend = fn
}

// Session exposes the turn history for rendering.
func (c *Controller) Session() *session.Session {
	return c.session
}

// Attachments exposes the attachment manager for ingestion and removal.
func (c *Controller) Attachments() *attach.Manager {
	return c.attachments
}

// AwaitingReply reports whether a SubmitTurn call is in flight. The
// caller is expected to disable the submission affordance while true.
func (c *Controller) AwaitingReply() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.awaitingReply
}

// Summarizing reports whether a Summarize call is in flight.
func (c *Controller) Summarizing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.summarizing
}

// SubmitTurn appends the user's turn and asks the backend for the next
// assistant reply, sending the entire history including the seeded
// greeting. A transport failure is a normal, user-visible outcome: the
// user turn stays and a synthetic assistant turn describing the failure
// is appended in its place. Only precondition violations return an error.
func (c *Controller) SubmitTurn(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyInput
	}

	c.mu.Lock()
	if c.awaitingReply {
		c.mu.Unlock()
		return ErrReplyInFlight
	}
	c.awaitingReply = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.awaitingReply = false
		c.mu.Unlock()
	}()

	log := observability.LoggerFromContext(ctx).With("turns", c.session.Len())
	log.Info("submitting turn")

	c.append(domain.Turn{Role: domain.RoleUser, Text: text})

	reply, ready, err := c.assistant.NextReply(ctx, c.session.Turns())
	if err != nil {
		log.Error("reply request failed", "error", err, "kind", domain.KindOf(err))
		c.append(domain.Turn{Role: domain.RoleAssistant, Text: failureText(domain.KindOf(err))})
		return nil
	}

	c.append(reply)
	c.session.SetReadyToSummarize(ready)

	log.Info("reply received", "ready_to_summarize", ready)
	return nil
}

// Summarize asks the backend to turn the whole conversation into a
// journal draft and attaches the uploaded image URLs in list order.
// Unlike SubmitTurn, a transport failure here is returned to the caller
// and leaves the chat transcript untouched.
func (c *Controller) Summarize(ctx context.Context) (domain.Draft, error) {
	c.mu.Lock()
	if !c.session.ReadyToSummarize() {
		c.mu.Unlock()
		return domain.Draft{}, ErrNotReady
	}
	if c.summarizing {
		c.mu.Unlock()
		return domain.Draft{}, ErrSummarizeInFlight
	}
	c.summarizing = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.summarizing = false
		c.mu.Unlock()
	}()

	log := observability.LoggerFromContext(ctx).With("turns", c.session.Len())
	log.Info("summarizing conversation")

	title, content, err := c.assistant.Summarize(ctx, c.session.Turns())
	if err != nil {
		log.Error("summarize request failed", "error", err)
		return domain.Draft{}, fmt.Errorf("summarize conversation: %w", err)
	}

	draft := domain.Draft{
		Title:     title,
		Content:   content,
		ImageURLs: c.attachments.RemoteURLs(),
	}

	log.Info("draft ready", "title", draft.Title, "images", len(draft.ImageURLs))
	return draft, nil
}

func (c *Controller) append(t domain.Turn) {
	if err := c.session.Append(t); err != nil {
		// Text is validated before this point, appends cannot fail.
		return
	}
	if c.onAppend != nil {
		c.onAppend()
	}
}

// failureText maps an error classification to the fixed assistant turn
// shown inline in the transcript.
func failureText(kind domain.ErrorKind) string {
	switch kind {
	case domain.KindRateLimited:
		return "⚠️ The AI service has hit its rate limit.\n\nPlease wait a little while and try again."
	default:
		return "Something went wrong. Please try again."
	}
}
