package attach_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/diario/internal/app/attach"
	"github.com/PabloGalante/diario/internal/domain"
)

// fakeUploader records calls and answers through a per-call function.
type fakeUploader struct {
	mu    sync.Mutex
	calls []string
	fn    func(domain.File) (string, error)
}

func (u *fakeUploader) Upload(_ context.Context, f domain.File) (string, error) {
	u.mu.Lock()
	u.calls = append(u.calls, f.Name)
	u.mu.Unlock()

	if u.fn != nil {
		return u.fn(f)
	}
	return "https://img.example/" + f.Name, nil
}

func (u *fakeUploader) callCount() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.calls)
}

func pngFile(name string, size int) domain.File {
	return domain.File{Name: name, MediaType: "image/png", Data: make([]byte, size)}
}

func TestDefaultSizeCap(t *testing.T) {
	assert.Equal(t, 50, attach.DefaultMaxSizeMB)
}

func TestRejectsOversizedFile(t *testing.T) {
	up := &fakeUploader{}
	m := attach.NewManager(up, 1)

	m.AddFiles(context.Background(), pngFile("big.png", 2*1024*1024))

	assert.Equal(t, 0, up.callCount(), "oversized file must never reach the uploader")
	assert.Equal(t, 0, m.Len())
	assert.Contains(t, m.Err(), "limit 1 MB")
}

func TestRejectsDisallowedType(t *testing.T) {
	up := &fakeUploader{}
	m := attach.NewManager(up, 0)

	m.AddFiles(context.Background(), domain.File{
		Name:      "doc.pdf",
		MediaType: "application/pdf",
		Data:      []byte("%PDF-"),
	})

	assert.Equal(t, 0, up.callCount())
	assert.Contains(t, m.Err(), "unsupported file format")
	assert.Contains(t, m.Err(), "JPG, PNG, GIF, WebP, BMP, TIFF, HEIC, SVG")
}

func TestEmptyDeclaredTypeIsNotRejected(t *testing.T) {
	up := &fakeUploader{}
	m := attach.NewManager(up, 0)

	m.AddFiles(context.Background(), domain.File{Name: "IMG_0001", Data: []byte{0x01}})

	assert.Equal(t, 1, up.callCount())
	assert.Equal(t, 1, m.Len())
	assert.Empty(t, m.Err())
}

func TestBatchContinuesPastRejection(t *testing.T) {
	up := &fakeUploader{}
	m := attach.NewManager(up, 0)

	m.AddFiles(context.Background(),
		domain.File{Name: "doc.pdf", MediaType: "application/pdf", Data: []byte{0x01}},
		pngFile("ok.png", 16),
	)

	assert.Equal(t, 1, up.callCount())
	require.Equal(t, 1, m.Len())
	assert.Equal(t, "https://img.example/ok.png", m.RemoteURLs()[0])
	assert.Contains(t, m.Err(), "unsupported file format")
}

func TestUploadFailureLeavesOtherAttachmentsIntact(t *testing.T) {
	up := &fakeUploader{}
	m := attach.NewManager(up, 0)

	m.AddFiles(context.Background(), pngFile("first.png", 16))
	require.Equal(t, 1, m.Len())

	up.fn = func(domain.File) (string, error) {
		return "", errors.New("connection reset")
	}
	m.AddFiles(context.Background(), pngFile("second.png", 16))

	assert.Equal(t, 1, m.Len(), "failed upload must not add a partial attachment")
	assert.Equal(t, "https://img.example/first.png", m.RemoteURLs()[0])
	assert.Contains(t, m.Err(), "connection reset")
}

func TestConcurrentUploadsAppendInCompletionOrder(t *testing.T) {
	release := map[string]chan struct{}{
		"a.png": make(chan struct{}),
		"b.png": make(chan struct{}),
	}
	up := &fakeUploader{fn: func(f domain.File) (string, error) {
		<-release[f.Name]
		return "https://img.example/" + f.Name, nil
	}}
	m := attach.NewManager(up, 0)

	done := make(chan struct{})
	go func() {
		m.AddFiles(context.Background(), pngFile("a.png", 16), pngFile("b.png", 16))
		close(done)
	}()

	// Resolve the second file's upload first.
	close(release["b.png"])
	require.Eventually(t, func() bool { return m.Len() == 1 }, time.Second, time.Millisecond)
	close(release["a.png"])

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("batch did not settle")
	}

	// Both appends survived and list order is completion order.
	require.Equal(t, []string{"https://img.example/b.png", "https://img.example/a.png"}, m.RemoteURLs())

	m.RemoveAt(0)
	assert.Equal(t, []string{"https://img.example/a.png"}, m.RemoteURLs())
}

func TestPreviewIsDerivedBeforeUpload(t *testing.T) {
	up := &fakeUploader{}
	m := attach.NewManager(up, 0)

	m.AddFiles(context.Background(), domain.File{
		Name:      "dot.png",
		MediaType: "image/png",
		Data:      []byte{0x89, 0x50},
	})

	atts := m.Attachments()
	require.Len(t, atts, 1)
	assert.True(t, strings.HasPrefix(atts[0].Preview, "data:image/png;base64,"))
}

func TestDroppedNonImageIsSilentlyIgnored(t *testing.T) {
	up := &fakeUploader{}
	m := attach.NewManager(up, 0)

	m.AddDropped(context.Background(), domain.File{
		Name:      "notes.txt",
		MediaType: "text/plain",
		Data:      []byte("hello"),
	})

	assert.Equal(t, 0, up.callCount())
	assert.Equal(t, 0, m.Len())
	assert.Empty(t, m.Err(), "non-image drops are filtered before validation")
}

func TestDroppedImagesAreIngested(t *testing.T) {
	up := &fakeUploader{}
	m := attach.NewManager(up, 0)

	m.AddDropped(context.Background(),
		domain.File{Name: "notes.txt", MediaType: "text/plain", Data: []byte("x")},
		pngFile("shot.png", 16),
	)

	assert.Equal(t, 1, m.Len())
}

func TestPastedReportsWhetherImagesWereConsumed(t *testing.T) {
	up := &fakeUploader{}
	m := attach.NewManager(up, 0)

	handled := m.AddPasted(context.Background(), domain.File{
		Name:      "clip.txt",
		MediaType: "text/plain",
		Data:      []byte("just text"),
	})
	assert.False(t, handled, "text-only paste falls through to the input field")
	assert.Equal(t, 0, m.Len())

	handled = m.AddPasted(context.Background(), pngFile("clip.png", 16))
	assert.True(t, handled)
	assert.Equal(t, 1, m.Len())
}

func TestRemoveAtMiddle(t *testing.T) {
	up := &fakeUploader{}
	m := attach.NewManager(up, 0)

	for _, name := range []string{"a.png", "b.png", "c.png"} {
		m.AddFiles(context.Background(), pngFile(name, 16))
	}
	require.Equal(t, 3, m.Len())

	m.RemoveAt(1)

	assert.Equal(t, []string{"https://img.example/a.png", "https://img.example/c.png"}, m.RemoteURLs())
}

func TestRemoveAtOutOfRangeIsNoOp(t *testing.T) {
	up := &fakeUploader{}
	m := attach.NewManager(up, 0)
	m.AddFiles(context.Background(), pngFile("a.png", 16))

	m.RemoveAt(-1)
	m.RemoveAt(5)

	assert.Equal(t, 1, m.Len())
}

func TestDataURLFallsBackToOctetStream(t *testing.T) {
	got := attach.DataURL(domain.File{Name: "raw", Data: []byte{0x01}})
	assert.True(t, strings.HasPrefix(got, "data:application/octet-stream;base64,"))
}
