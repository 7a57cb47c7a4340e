package tui

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte{0x01, 0x02}, 0o600))
	return path
}

func TestDroppedPathsSingleFile(t *testing.T) {
	path := writeTemp(t, "photo.png")

	assert.Equal(t, []string{path}, droppedPaths(path))
	assert.Equal(t, []string{path}, droppedPaths("'"+path+"'"), "terminals may quote dropped paths")
}

func TestDroppedPathsMultipleFiles(t *testing.T) {
	a := writeTemp(t, "a.png")
	b := writeTemp(t, "b.jpg")

	assert.Equal(t, []string{a, b}, droppedPaths(a+" "+b))
}

func TestDroppedPathsRejectsOrdinaryText(t *testing.T) {
	assert.Nil(t, droppedPaths("today I went to the beach"))
	assert.Nil(t, droppedPaths(""))
	assert.Nil(t, droppedPaths("/no/such/file.png"))
}

func TestMediaTypeForPath(t *testing.T) {
	assert.Equal(t, "image/heic", mediaTypeForPath("IMG_0001.HEIC"))
	assert.Equal(t, "image/png", mediaTypeForPath("shot.png"))
	assert.Equal(t, "image/svg+xml", mediaTypeForPath("icon.svg"))
	assert.Equal(t, "", mediaTypeForPath("mystery.xyzimg"))
}

func TestLoadFile(t *testing.T) {
	path := writeTemp(t, "pic.jpeg")

	f, err := loadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "pic.jpeg", f.Name)
	assert.Equal(t, "image/jpeg", f.MediaType)
	assert.Equal(t, int64(2), f.Size())
}
