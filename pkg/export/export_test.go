package export

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Title:   "Student Report",
		Headers: []string{"Register Number", "Name", "CGPA"},
		Rows: []map[string]string{
			{"Register Number": "21CS001", "Name": "Anita Raj", "CGPA": "8.50"},
			{"Register Number": "21CS002", "Name": "Bala, K", "CGPA": "7.20"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	payload, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(payload)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Register Number", "Name", "CGPA"}, records[0])
	assert.Equal(t, "Bala, K", records[2][1])
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	payload, err := NewPDFExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(payload, []byte("%PDF")))
}

func TestStreamZipIsLazy(t *testing.T) {
	contents := []string{"first file", "second file"}
	opened := 0
	next := func() (ZipEntry, error) {
		if opened >= len(contents) {
			return ZipEntry{}, io.EOF
		}
		entry := ZipEntry{
			Name:   []string{"a.pdf", "b.pdf"}[opened],
			Reader: io.NopCloser(strings.NewReader(contents[opened])),
		}
		opened++
		return entry, nil
	}

	var buf bytes.Buffer
	require.NoError(t, StreamZip(&buf, next))
	assert.Equal(t, 2, opened)

	archive, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, archive.File, 2)
	assert.Equal(t, "a.pdf", archive.File[0].Name)

	reader, err := archive.File[1].Open()
	require.NoError(t, err)
	defer reader.Close()
	content, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "second file", string(content))
}

func TestStreamZipPropagatesSourceError(t *testing.T) {
	boom := errors.New("open failed")
	next := func() (ZipEntry, error) { return ZipEntry{}, boom }

	var buf bytes.Buffer
	err := StreamZip(&buf, next)
	assert.ErrorIs(t, err, boom)
}

func TestStreamZipEmptyArchive(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, StreamZip(&buf, func() (ZipEntry, error) { return ZipEntry{}, io.EOF }))

	archive, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	assert.Empty(t, archive.File)
}
