package upload

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartRequest(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestStorage_Save(t *testing.T) {
	dir := t.TempDir()
	storage := NewStorage(dir, 1<<20, "http://localhost:8080/")

	req := multipartRequest(t, "image", "photo.png", []byte("fake png bytes"))

	url, err := storage.Save(req, "image", "post-images")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, "http://localhost:8080/uploads/post-images/img-"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	// The file is written under dir/subdir with the generated name
	filename := url[strings.LastIndex(url, "/")+1:]
	written, err := os.ReadFile(filepath.Join(dir, "post-images", filename))
	require.NoError(t, err)
	assert.Equal(t, []byte("fake png bytes"), written)
}

func TestStorage_Save_UppercaseExtension(t *testing.T) {
	storage := NewStorage(t.TempDir(), 1<<20, "http://localhost:8080/")

	req := multipartRequest(t, "image", "PHOTO.JPG", []byte("fake jpg bytes"))

	url, err := storage.Save(req, "image", "post-images")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(url, ".jpg"))
}

func TestStorage_Save_UnsupportedType(t *testing.T) {
	storage := NewStorage(t.TempDir(), 1<<20, "http://localhost:8080/")

	req := multipartRequest(t, "image", "script.sh", []byte("#!/bin/sh"))

	_, err := storage.Save(req, "image", "post-images")
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestStorage_Save_MissingFile(t *testing.T) {
	storage := NewStorage(t.TempDir(), 1<<20, "http://localhost:8080/")

	req := multipartRequest(t, "other-field", "photo.png", []byte("fake png bytes"))

	_, err := storage.Save(req, "image", "post-images")
	assert.ErrorIs(t, err, ErrNoFile)
}

func TestStorage_Save_TooLarge(t *testing.T) {
	storage := NewStorage(t.TempDir(), 64, "http://localhost:8080/")

	req := multipartRequest(t, "image", "photo.png", bytes.Repeat([]byte("x"), 4096))

	_, err := storage.Save(req, "image", "post-images")
	assert.Error(t, err)
}
