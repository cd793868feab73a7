package export

import (
	"archive/zip"
	"fmt"
	"io"
)

// ZipEntry names a single file to place in an archive along with the
// reader that supplies its content.
type ZipEntry struct {
	Name   string
	Reader io.ReadCloser
}

// StreamZip writes a zip archive to w, one entry at a time. Entries are
// consumed lazily through next so callers can open files on demand
// instead of holding every document in memory. next returns io.EOF when
// the sequence is exhausted.
func StreamZip(w io.Writer, next func() (ZipEntry, error)) error {
	archive := zip.NewWriter(w)
	for {
		entry, err := next()
		if err == io.EOF {
			break
		}
		if err != nil {
			archive.Close()
			return err
		}
		dst, err := archive.Create(entry.Name)
		if err != nil {
			entry.Reader.Close()
			archive.Close()
			return fmt.Errorf("create zip entry %s: %w", entry.Name, err)
		}
		if _, err := io.Copy(dst, entry.Reader); err != nil {
			entry.Reader.Close()
			archive.Close()
			return fmt.Errorf("copy zip entry %s: %w", entry.Name, err)
		}
		if err := entry.Reader.Close(); err != nil {
			archive.Close()
			return fmt.Errorf("close zip entry %s: %w", entry.Name, err)
		}
	}
	if err := archive.Close(); err != nil {
		return fmt.Errorf("finalize zip: %w", err)
	}
	return nil
}
