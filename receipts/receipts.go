// Package receipts stores customer-uploaded payment proofs and enforces the
// upload contract: at most 5 MB, jpeg, png or pdf.
package receipts

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxSize is the upload limit in bytes.
const MaxSize = 5 << 20

var (
	ErrTooLarge = errors.New("receipts: file exceeds the 5 MB limit")
	ErrBadType  = errors.New("receipts: file must be a jpeg, png or pdf")
)

var extensions = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"application/pdf": ".pdf",
}

// Store writes receipts below a base directory, one subdirectory per user.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Save validates and stores an uploaded receipt and returns its URL path.
// The content type is sniffed from the bytes, not taken from the client.
func (s *Store) Save(userID string, r io.Reader, declaredSize int64) (string, error) {
	if declaredSize > MaxSize {
		return "", ErrTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxSize+1))
	if err != nil {
		return "", fmt.Errorf("receipts: reading upload: %w", err)
	}
	if len(data) > MaxSize {
		return "", ErrTooLarge
	}

	ext, ok := extensions[sniffType(data)]
	if !ok {
		return "", ErrBadType
	}

	userDir := filepath.Join(s.dir, userID)
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		return "", fmt.Errorf("receipts: creating upload directory: %w", err)
	}

	name := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(userDir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("receipts: writing file: %w", err)
	}

	return "/" + filepath.ToSlash(filepath.Join(s.dir, userID, name)), nil
}

func sniffType(data []byte) string {
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	contentType := http.DetectContentType(head)
	// DetectContentType appends parameters for some types
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return contentType
}
