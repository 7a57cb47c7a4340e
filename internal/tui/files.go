package tui

import (
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/PabloGalante/diario/internal/domain"
	"github.com/PabloGalante/diario/internal/observability"
)

// extTypes covers image extensions the platform mime table may omit.
// Unknown extensions yield an empty declared type, which the manager
// accepts on purpose.
var extTypes = map[string]string{
	".heic": "image/heic",
	".heif": "image/heif",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".bmp":  "image/bmp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".svg":  "image/svg+xml",
}

// droppedPaths interprets input text as one or more file paths, the way
// a file dragged onto a terminal arrives. It returns nil unless every
// token names an existing file.
func droppedPaths(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	if p := unquote(text); isExistingFile(p) {
		return []string{p}
	}

	fields := strings.Fields(text)
	if len(fields) < 2 {
		return nil
	}
	paths := make([]string, 0, len(fields))
	for _, f := range fields {
		p := unquote(f)
		if !isExistingFile(p) {
			return nil
		}
		paths = append(paths, p)
	}
	return paths
}

func unquote(s string) string {
	return strings.Trim(s, `"'`)
}

func isExistingFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// LoadFiles reads paths into ingestion candidates, skipping unreadable
// files. The CLI uses it for --attach; the TUI for every modality.
func LoadFiles(paths []string) []domain.File {
	files := make([]domain.File, 0, len(paths))
	for _, p := range paths {
		f, err := loadFile(p)
		if err != nil {
			observability.Logger().Warn("skipping unreadable file", "path", p, "error", err)
			continue
		}
		files = append(files, f)
	}
	return files
}

func loadFile(path string) (domain.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.File{}, err
	}
	return domain.File{
		Name:      filepath.Base(path),
		MediaType: mediaTypeForPath(path),
		Data:      data,
	}, nil
}

// mediaTypeForPath derives the declared type from the extension alone;
// the bytes are never sniffed.
func mediaTypeForPath(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if t, ok := extTypes[ext]; ok {
		return t
	}
	t := mime.TypeByExtension(ext)
	if t == "" {
		return ""
	}
	if base, _, found := strings.Cut(t, ";"); found {
		return strings.TrimSpace(base)
	}
	return t
}
