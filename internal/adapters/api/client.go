// Package api is the REST adapter for the journaling backend. It
// implements the domain Assistant and Uploader ports over three
// endpoints and classifies failures into typed domain errors at this
// boundary, so no caller ever inspects message strings.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/google/uuid"

	"github.com/PabloGalante/diario/internal/domain"
	"github.com/PabloGalante/diario/internal/observability"
)

const (
	chatMessagePath   = "/api/v1/chat/message"
	chatSummarizePath = "/api/v1/chat/summarize"
	uploadPath        = "/api/v1/uploads/image"
)

// Client talks to the journaling backend.
type Client struct {
	baseURL string
	http    *http.Client
}

var (
	_ domain.Assistant = (*Client)(nil)
	_ domain.Uploader  = (*Client)(nil)
)

// NewClient builds a client for the backend at baseURL. The token is
// attached as a bearer credential on every request.
func NewClient(baseURL, token string) *Client {
	return NewClientWithTransport(baseURL, token, http.DefaultTransport)
}

// NewClientWithTransport lets tests substitute the base transport.
func NewClientWithTransport(baseURL, token string, base http.RoundTripper) *Client {
	transport := chainRoundTrippers(base,
		withLogging,
		withBearerToken(token),
	)
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Transport: transport},
	}
}

// ─────────────────────────────────────────────
// Wire DTOs
// ─────────────────────────────────────────────

type chatRequest struct {
	Messages []domain.Turn `json:"messages"`
}

type chatResponse struct {
	Message         domain.Turn `json:"message"`
	ShouldSummarize bool        `json:"should_summarize"`
}

type summarizeResponse struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type uploadResponse struct {
	URL string `json:"url"`
}

// errorResponse covers the error body shapes the backend emits.
type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

// ─────────────────────────────────────────────
// Port implementations
// ─────────────────────────────────────────────

// NextReply implements domain.Assistant.
func (c *Client) NextReply(ctx context.Context, turns []domain.Turn) (domain.Turn, bool, error) {
	ctx = ensureRequestID(ctx)

	var out chatResponse
	if err := c.postJSON(ctx, chatMessagePath, chatRequest{Messages: turns}, &out); err != nil {
		return domain.Turn{}, false, err
	}
	return out.Message, out.ShouldSummarize, nil
}

// Summarize implements domain.Assistant.
func (c *Client) Summarize(ctx context.Context, turns []domain.Turn) (string, string, error) {
	ctx = ensureRequestID(ctx)

	var out summarizeResponse
	if err := c.postJSON(ctx, chatSummarizePath, chatRequest{Messages: turns}, &out); err != nil {
		return "", "", err
	}
	return out.Title, out.Content, nil
}

// Upload implements domain.Uploader by posting the raw bytes as a
// multipart "file" field.
func (c *Client) Upload(ctx context.Context, file domain.File) (string, error) {
	ctx = ensureRequestID(ctx)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename=%q`, file.Name))
	mediaType := file.MediaType
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	header.Set("Content-Type", mediaType)

	part, err := w.CreatePart(header)
	if err != nil {
		return "", &domain.Error{Kind: domain.KindGeneric, Cause: err}
	}
	if _, err := part.Write(file.Data); err != nil {
		return "", &domain.Error{Kind: domain.KindGeneric, Cause: err}
	}
	if err := w.Close(); err != nil {
		return "", &domain.Error{Kind: domain.KindGeneric, Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+uploadPath, &body)
	if err != nil {
		return "", &domain.Error{Kind: domain.KindGeneric, Cause: err}
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var out uploadResponse
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}

// ─────────────────────────────────────────────
// HTTP helpers
// ─────────────────────────────────────────────

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return &domain.Error{Kind: domain.KindGeneric, Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return &domain.Error{Kind: domain.KindGeneric, Cause: err}
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return &domain.Error{Kind: domain.KindGeneric, Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return &domain.Error{Kind: domain.KindGeneric, Cause: err}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return classify(resp.StatusCode, body)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &domain.Error{
			Kind:    domain.KindGeneric,
			Message: "unexpected response from backend",
			Cause:   err,
		}
	}
	return nil
}

// classify turns a non-2xx response into a typed error. HTTP 429 and
// backends that report quota exhaustion in the error body both map to
// the rate-limited kind.
func classify(status int, body []byte) *domain.Error {
	msg := errorMessage(body)
	if msg == "" {
		msg = http.StatusText(status)
	}

	kind := domain.KindGeneric
	if status == http.StatusTooManyRequests || containsRateLimitHint(msg) {
		kind = domain.KindRateLimited
	}

	return &domain.Error{
		Kind:    kind,
		Message: fmt.Sprintf("backend returned %d: %s", status, msg),
	}
}

func errorMessage(body []byte) string {
	var er errorResponse
	if err := json.Unmarshal(body, &er); err == nil {
		if er.Error != "" {
			return er.Error
		}
		if er.Detail != "" {
			return er.Detail
		}
	}
	return strings.TrimSpace(string(body))
}

func containsRateLimitHint(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "rate limit") ||
		strings.Contains(lower, "rate-limit") ||
		strings.Contains(lower, "quota") ||
		strings.Contains(lower, "429")
}

// ensureRequestID mints a request id when the caller did not bring one,
// so each outbound call is traceable in the logs.
func ensureRequestID(ctx context.Context) context.Context {
	if observability.RequestIDFromContext(ctx) != "" {
		return ctx
	}
	return observability.WithRequestID(ctx, uuid.NewString())
}
