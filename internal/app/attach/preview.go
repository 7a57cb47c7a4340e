package attach

import (
	"encoding/base64"

	"github.com/PabloGalante/diario/internal/domain"
)

// DataURL derives a locally renderable encoding of the file's raw bytes.
// It needs no network access and is independent of the upload outcome.
func DataURL(f domain.File) string {
	mediaType := f.MediaType
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(f.Data)
}
