package upload

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeFileHeader(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, filename))
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	require.Len(t, form.File["image"], 1)
	return form.File["image"][0]
}

func TestImageStore_SaveValidImage(t *testing.T) {
	dir := t.TempDir()
	store, err := NewImageStore(dir)
	require.NoError(t, err)

	fh := makeFileHeader(t, "tee.png", "image/png", []byte("not-really-a-png"))
	path, err := store.Save(fh)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(path, PublicPrefix))
	assert.True(t, strings.HasSuffix(path, ".png"))

	stored := filepath.Join(dir, strings.TrimPrefix(path, PublicPrefix))
	data, err := os.ReadFile(stored)
	require.NoError(t, err)
	assert.Equal(t, []byte("not-really-a-png"), data)
}

func TestImageStore_GeneratedNamesDoNotCollide(t *testing.T) {
	store, err := NewImageStore(t.TempDir())
	require.NoError(t, err)

	fh := makeFileHeader(t, "tee.png", "image/png", []byte("x"))
	first, err := store.Save(fh)
	require.NoError(t, err)
	second, err := store.Save(fh)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestImageStore_RejectsBadUploads(t *testing.T) {
	store, err := NewImageStore(t.TempDir())
	require.NoError(t, err)

	t.Run("Disallowed extension", func(t *testing.T) {
		fh := makeFileHeader(t, "malware.exe", "application/octet-stream", []byte("x"))
		_, err := store.Save(fh)
		assert.ErrorIs(t, err, ErrNotAnImage)
	})

	t.Run("Image extension with non-image MIME type", func(t *testing.T) {
		fh := makeFileHeader(t, "fake.png", "text/html", []byte("<script/>"))
		_, err := store.Save(fh)
		assert.ErrorIs(t, err, ErrNotAnImage)
	})

	t.Run("Oversized file", func(t *testing.T) {
		fh := makeFileHeader(t, "big.jpg", "image/jpeg", bytes.Repeat([]byte("a"), maxImageSize+1))
		_, err := store.Save(fh)
		assert.ErrorIs(t, err, ErrTooLarge)
	})
}

func TestImageStore_Remove(t *testing.T) {
	dir := t.TempDir()
	store, err := NewImageStore(dir)
	require.NoError(t, err)

	fh := makeFileHeader(t, "tee.webp", "image/webp", []byte("x"))
	path, err := store.Save(fh)
	require.NoError(t, err)

	require.NoError(t, store.Remove(path))
	_, statErr := os.Stat(filepath.Join(dir, strings.TrimPrefix(path, PublicPrefix)))
	assert.True(t, os.IsNotExist(statErr))

	t.Run("Removing twice is a no-op", func(t *testing.T) {
		assert.NoError(t, store.Remove(path))
	})

	t.Run("External URLs are never touched", func(t *testing.T) {
		assert.NoError(t, store.Remove("https://cdn.example.com/tee.png"))
		assert.False(t, store.Managed("https://cdn.example.com/tee.png"))
	})
}
