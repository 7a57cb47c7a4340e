package assistant_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/diario/internal/adapters/assistant"
	"github.com/PabloGalante/diario/internal/domain"
)

func TestMockSignalsReadinessAfterEnoughExchanges(t *testing.T) {
	m := assistant.NewMock()
	turns := []domain.Turn{{Role: domain.RoleAssistant, Text: "hi"}}

	var ready bool
	for i := 0; i < 4; i++ {
		turns = append(turns, domain.Turn{Role: domain.RoleUser, Text: "something happened"})

		reply, r, err := m.NextReply(context.Background(), turns)
		require.NoError(t, err)
		require.Equal(t, domain.RoleAssistant, reply.Role)
		require.NotEmpty(t, reply.Text)

		turns = append(turns, reply)
		ready = r
		if i < 3 {
			assert.False(t, ready, "not ready after %d user turns", i+1)
		}
	}

	assert.True(t, ready, "ready after four user turns")
}

func TestMockSummarizeUsesUserTurns(t *testing.T) {
	m := assistant.NewMock()

	title, content, err := m.Summarize(context.Background(), []domain.Turn{
		{Role: domain.RoleAssistant, Text: "how was your day?"},
		{Role: domain.RoleUser, Text: "I baked bread"},
		{Role: domain.RoleAssistant, Text: "nice"},
		{Role: domain.RoleUser, Text: "it came out great"},
	})
	require.NoError(t, err)
	assert.Equal(t, "I baked bread", title)
	assert.Contains(t, content, "it came out great")
}

func TestMemoryUploaderMintsDistinctURLs(t *testing.T) {
	u := assistant.NewMemoryUploader()

	a, err := u.Upload(context.Background(), domain.File{Name: "a.png"})
	require.NoError(t, err)
	b, err := u.Upload(context.Background(), domain.File{Name: "a.png"})
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}
