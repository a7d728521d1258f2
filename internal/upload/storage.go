package upload

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var (
	ErrNoFile          = errors.New("no file in request")
	ErrUnsupportedType = errors.New("unsupported file type")
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Storage saves uploaded images to local disk and hands back the public URL
// they will be served from.
type Storage struct {
	dir      string
	maxBytes int64
	baseURL  string
}

func NewStorage(dir string, maxBytes int64, baseURL string) *Storage {
	return &Storage{
		dir:      dir,
		maxBytes: maxBytes,
		baseURL:  baseURL,
	}
}

// Dir returns the root directory uploads are written to.
func (s *Storage) Dir() string {
	return s.dir
}

// Save reads the named multipart field from the request, stores it under
// dir/subdir with a generated filename, and returns the public URL.
func (s *Storage) Save(r *http.Request, field, subdir string) (string, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, s.maxBytes)

	file, header, err := r.FormFile(field)
	if err != nil {
		return "", ErrNoFile
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		return "", ErrUnsupportedType
	}

	filename := fmt.Sprintf("img-%d%s", time.Now().UnixNano(), ext)

	targetDir := filepath.Join(s.dir, subdir)
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	dst, err := os.Create(filepath.Join(targetDir, filename))
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}

	return s.baseURL + "uploads/" + subdir + "/" + filename, nil
}
