package upload

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "valkyrie/internal/errors"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}

func TestAvatarStore_SavePNG(t *testing.T) {
	dir := t.TempDir()
	store, err := NewAvatarStore(dir)
	assert.NoError(t, err)

	payload := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0x00}, 64)...)
	publicPath, err := store.Save(bytes.NewReader(payload), int64(len(payload)))
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(publicPath, "/users/uploads/avatars/"))
	assert.True(t, strings.HasSuffix(publicPath, ".png"))

	written, err := os.ReadFile(filepath.Join(dir, filepath.Base(publicPath)))
	assert.NoError(t, err)
	assert.Equal(t, payload, written)
}

func TestAvatarStore_RejectsNonImageContent(t *testing.T) {
	store, err := NewAvatarStore(t.TempDir())
	assert.NoError(t, err)

	_, err = store.Save(strings.NewReader("definitely not an image"), 23)
	assert.ErrorIs(t, err, apperrors.ErrInvalidAvatarType)
}

func TestAvatarStore_RejectsOversizedUpload(t *testing.T) {
	dir := t.TempDir()
	store, err := NewAvatarStore(dir)
	assert.NoError(t, err)

	_, err = store.Save(bytes.NewReader(pngHeader), MaxAvatarSize+1)
	assert.ErrorIs(t, err, apperrors.ErrAvatarTooLarge)

	entries, err := os.ReadDir(dir)
	assert.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAvatarStore_UniqueFileNames(t *testing.T) {
	store, err := NewAvatarStore(t.TempDir())
	assert.NoError(t, err)

	first, err := store.Save(bytes.NewReader(pngHeader), int64(len(pngHeader)))
	assert.NoError(t, err)
	second, err := store.Save(bytes.NewReader(pngHeader), int64(len(pngHeader)))
	assert.NoError(t, err)

	assert.NotEqual(t, first, second)
}
