package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Purpose segments the upload tree by what a file is for.
type Purpose string

const (
	PurposeResume   Purpose = "resumes"
	PurposePhoto    Purpose = "photos"
	PurposeFeedback Purpose = "feedback-documents"
	PurposeTemp     Purpose = "temp"
)

// LocalStorage persists uploaded documents on disk under a base directory,
// one subdirectory per purpose. Records reference files by the relative path
// returned from Save.
type LocalStorage struct {
	baseDir string
}

// NewLocalStorage ensures the upload tree exists and returns a handle.
func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	if baseDir == "" {
		baseDir = "./uploads"
	}
	for _, p := range []Purpose{PurposeResume, PurposePhoto, PurposeFeedback, PurposeTemp} {
		if err := os.MkdirAll(filepath.Join(baseDir, string(p)), 0o755); err != nil {
			return nil, fmt.Errorf("create upload directory: %w", err)
		}
	}
	return &LocalStorage{baseDir: baseDir}, nil
}

// Save streams the reader into a timestamped file under the purpose
// directory and returns the relative path to store on the record.
func (s *LocalStorage) Save(purpose Purpose, filename string, r io.Reader) (string, error) {
	rel := filepath.Join(string(purpose), fmt.Sprintf("%d-%s", time.Now().UnixNano(), filepath.Base(filename)))
	path := filepath.Join(s.baseDir, rel)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer file.Close() //nolint:errcheck
	if _, err := io.Copy(file, r); err != nil {
		return "", fmt.Errorf("write upload stream: %w", err)
	}
	return rel, nil
}

// Open returns a read-only handle for a stored file.
func (s *LocalStorage) Open(rel string) (*os.File, error) {
	file, err := os.Open(s.Path(rel))
	if err != nil {
		return nil, fmt.Errorf("open upload file: %w", err)
	}
	return file, nil
}

// Exists reports whether the referenced file is present on disk.
func (s *LocalStorage) Exists(rel string) bool {
	if rel == "" {
		return false
	}
	info, err := os.Stat(s.Path(rel))
	return err == nil && !info.IsDir()
}

// Delete removes a stored file if present.
func (s *LocalStorage) Delete(rel string) error {
	if err := os.Remove(s.Path(rel)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete upload file: %w", err)
	}
	return nil
}

// Path resolves the absolute path for a stored relative path.
func (s *LocalStorage) Path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(s.baseDir, rel)
}
