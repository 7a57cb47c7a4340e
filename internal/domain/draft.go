package domain

// Draft is the result of summarizing a drafting conversation, handed to
// the enclosing flow for further editing.
type Draft struct {
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	ImageURLs []string `json:"image_urls"`
}

// Attachment is an image contributed during drafting. Preview is a data
// URL derived locally from the raw bytes; RemoteURL is assigned only
// after the upload succeeds.
type Attachment struct {
	RemoteURL string
	Preview   string
}

// File is one ingestion candidate for the attachment manager. MediaType
// is the declared type as reported by the source (possibly empty); the
// manager never sniffs bytes to make a reject decision.
type File struct {
	Name      string
	MediaType string
	Data      []byte
}

// Size returns the payload size in bytes.
func (f File) Size() int64 {
	return int64(len(f.Data))
}
