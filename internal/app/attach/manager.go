// Package attach ingests images for a drafting session: it validates,
// previews and uploads files, and maintains the resulting attachment
// list. Files arrive from three modalities (explicit pick, drop, paste)
// that differ only in how non-image input is filtered.
package attach

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/PabloGalante/diario/internal/domain"
)

// DefaultMaxSizeMB is the upload size cap applied when none is configured.
const DefaultMaxSizeMB = 50

// allowedTypes is the declared-media-type allow-list. A file with an
// empty declared type is deliberately not rejected by type: some
// platforms omit the MIME type for formats like HEIC.
var allowedTypes = map[string]struct{}{
	"image/jpeg":    {},
	"image/png":     {},
	"image/gif":     {},
	"image/webp":    {},
	"image/bmp":     {},
	"image/tiff":    {},
	"image/heic":    {},
	"image/heif":    {},
	"image/svg+xml": {},
}

const acceptedFormats = "JPG, PNG, GIF, WebP, BMP, TIFF, HEIC, SVG"

// Manager owns the attachment list for one drafting session. Uploads in
// a batch run concurrently; each completion appends to whatever the list
// currently is, so list order reflects completion order.
type Manager struct {
	uploader  domain.Uploader
	maxSizeMB int64

	mu          sync.Mutex
	attachments []domain.Attachment
	lastErr     string
}

// NewManager creates a manager uploading through the given uploader.
// A maxSizeMB of zero or less falls back to DefaultMaxSizeMB.
func NewManager(uploader domain.Uploader, maxSizeMB int64) *Manager {
	if maxSizeMB <= 0 {
		maxSizeMB = DefaultMaxSizeMB
	}
	return &Manager{
		uploader:  uploader,
		maxSizeMB: maxSizeMB,
	}
}

// AddFiles ingests explicitly picked files. Every file is validated and,
// if accepted, previewed and uploaded independently of the others; a
// rejected or failed file never aborts the rest of the batch. AddFiles
// returns when the whole batch has settled.
func (m *Manager) AddFiles(ctx context.Context, files ...domain.File) {
	if len(files) == 0 {
		return
	}

	m.mu.Lock()
	m.lastErr = ""
	m.mu.Unlock()

	var wg sync.WaitGroup
	for _, f := range files {
		if msg := m.validate(f); msg != "" {
			m.setError(msg)
			continue
		}

		wg.Add(1)
		go func(f domain.File) {
			defer wg.Done()
			m.ingest(ctx, f)
		}(f)
	}
	wg.Wait()
}

// AddDropped ingests dropped files. Entries whose declared type does not
// indicate an image are silently ignored before validation.
func (m *Manager) AddDropped(ctx context.Context, files ...domain.File) {
	images := filterImages(files)
	if len(images) == 0 {
		return
	}
	m.AddFiles(ctx, images...)
}

// AddPasted ingests clipboard items. It reports whether any image item
// was present; when it returns false the caller should let the default
// paste-as-text behavior proceed.
func (m *Manager) AddPasted(ctx context.Context, files ...domain.File) bool {
	images := filterImages(files)
	if len(images) == 0 {
		return false
	}
	m.AddFiles(ctx, images...)
	return true
}

// RemoveAt deletes exactly one attachment by position. Out-of-range
// indexes are ignored. The remote object is not deleted.
func (m *Manager) RemoveAt(i int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if i < 0 || i >= len(m.attachments) {
		return
	}
	m.attachments = append(m.attachments[:i], m.attachments[i+1:]...)
}

// Attachments returns a copy of the current attachment list.
func (m *Manager) Attachments() []domain.Attachment {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.Attachment, len(m.attachments))
	copy(out, m.attachments)
	return out
}

// RemoteURLs returns the uploaded URLs in attachment-list order.
func (m *Manager) RemoteURLs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	urls := make([]string, len(m.attachments))
	for i, a := range m.attachments {
		urls[i] = a.RemoteURL
	}
	return urls
}

// Len reports the number of attachments currently held.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.attachments)
}

// Err returns the current user-visible error message, if any. It is
// overwritten by later failures and cleared at the start of each batch.
func (m *Manager) Err() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.lastErr
}

// validate applies the size and declared-type rules. It returns an empty
// string when the file is accepted.
func (m *Manager) validate(f domain.File) string {
	if f.Size() > m.maxSizeMB*1024*1024 {
		return fmt.Sprintf("file is too large (limit %d MB)", m.maxSizeMB)
	}
	if f.MediaType != "" {
		if _, ok := allowedTypes[strings.ToLower(f.MediaType)]; !ok {
			return "unsupported file format (accepted: " + acceptedFormats + ")"
		}
	}
	return ""
}

// ingest runs the per-file pipeline: derive the preview, upload, then
// append to the current list. The preview is derived before the upload
// so it exists even when the upload fails.
func (m *Manager) ingest(ctx context.Context, f domain.File) {
	preview := DataURL(f)

	url, err := m.uploader.Upload(ctx, f)
	if err != nil {
		m.setError("upload failed: " + err.Error())
		return
	}

	m.mu.Lock()
	m.attachments = append(m.attachments, domain.Attachment{
		RemoteURL: url,
		Preview:   preview,
	})
	m.mu.Unlock()
}

func (m *Manager) setError(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastErr = msg
}

func filterImages(files []domain.File) []domain.File {
	var images []domain.File
	for _, f := range files {
		if strings.HasPrefix(f.MediaType, "image/") {
			images = append(images, f)
		}
	}
	return images
}
