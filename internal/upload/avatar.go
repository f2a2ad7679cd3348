package upload

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	apperrors "valkyrie/internal/errors"
)

// MaxAvatarSize is the upload size limit in bytes.
const MaxAvatarSize = 5 * 1024 * 1024

const publicPrefix = "/users/uploads/avatars"

// extensions maps accepted sniffed content types to file extensions. The
// declared Content-Type header is ignored; only the sniffed type counts.
var extensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// AvatarStore writes avatar images to local disk under a public static path.
type AvatarStore struct {
	dir string
}

// NewAvatarStore creates a store rooted at dir, creating it if needed.
func NewAvatarStore(dir string) (*AvatarStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &AvatarStore{dir: dir}, nil
}

// Save validates and stores an avatar image and returns its public path.
// size is the caller-known upload size; oversized or non-image content is
// rejected before anything touches disk.
func (s *AvatarStore) Save(r io.Reader, size int64) (string, error) {
	if size > MaxAvatarSize {
		return "", apperrors.ErrAvatarTooLarge
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]

	ext, ok := extensions[http.DetectContentType(head)]
	if !ok {
		return "", apperrors.ErrInvalidAvatarType
	}

	fileName := fmt.Sprintf("%s.%s", uuid.New().String(), ext)
	filePath := filepath.Join(s.dir, fileName)

	out, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("create avatar file: %w", err)
	}
	defer out.Close()

	if _, err := out.Write(head); err != nil {
		return "", fmt.Errorf("write avatar: %w", err)
	}
	// LimitReader guards against callers lying about size.
	if _, err := io.Copy(out, io.LimitReader(r, MaxAvatarSize)); err != nil {
		return "", fmt.Errorf("write avatar: %w", err)
	}

	return publicPrefix + "/" + fileName, nil
}
