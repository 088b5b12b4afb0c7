package receipts

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestSaveAcceptsPNG(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	url, err := store.Save("user123", bytes.NewReader(pngHeader), int64(len(pngHeader)))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, "/"), "url is an absolute path: %s", url)
	assert.True(t, strings.HasSuffix(url, ".png"), "png extension: %s", url)
	assert.Contains(t, url, "user123")

	// the file landed on disk
	entries, err := os.ReadDir(filepath.Join(dir, "user123"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestSaveAcceptsPDF(t *testing.T) {
	store := NewStore(t.TempDir())
	data := []byte("%PDF-1.4 fake receipt")

	url, err := store.Save("user123", bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(url, ".pdf"))
}

func TestSaveAcceptsJPEG(t *testing.T) {
	store := NewStore(t.TempDir())
	data := []byte("\xff\xd8\xff\xe0\x00\x10JFIF")

	url, err := store.Save("user123", bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(url, ".jpg"))
}

func TestSaveRejectsDeclaredOversize(t *testing.T) {
	store := NewStore(t.TempDir())

	_, err := store.Save("user123", bytes.NewReader(pngHeader), MaxSize+1)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestSaveRejectsActualOversize(t *testing.T) {
	store := NewStore(t.TempDir())
	big := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, MaxSize)...)

	// declared size lies, the byte count does not
	_, err := store.Save("user123", bytes.NewReader(big), 100)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestSaveRejectsDisallowedType(t *testing.T) {
	store := NewStore(t.TempDir())
	data := []byte("GIF89a fake animation")

	_, err := store.Save("user123", bytes.NewReader(data), int64(len(data)))
	assert.ErrorIs(t, err, ErrBadType)
}

func TestSaveGeneratesUniqueNames(t *testing.T) {
	store := NewStore(t.TempDir())

	first, err := store.Save("user123", bytes.NewReader(pngHeader), int64(len(pngHeader)))
	require.NoError(t, err)
	second, err := store.Save("user123", bytes.NewReader(pngHeader), int64(len(pngHeader)))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
