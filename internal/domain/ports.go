package domain

import "context"

// Assistant defines how the drafting flow talks to the backend's chat
// endpoints. Implementations classify their failures as *Error values.
type Assistant interface {
	// NextReply sends the full turn history (seeded greeting included)
	// and returns the assistant's reply plus whether the conversation
	// has gathered enough material to be summarized.
	NextReply(ctx context.Context, turns []Turn) (Turn, bool, error)

	// Summarize turns the whole conversation into a journal draft.
	Summarize(ctx context.Context, turns []Turn) (title, content string, err error)
}

// Uploader stores an image on the backing image host and returns its URL.
type Uploader interface {
	Upload(ctx context.Context, file File) (string, error)
}
