package storage

import (
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndOpenRoundTrip(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	rel, err := store.Save(PurposeResume, "resume.pdf", strings.NewReader("%PDF content"))
	require.NoError(t, err)
	assert.Equal(t, string(PurposeResume), filepath.Dir(rel))
	assert.True(t, strings.HasSuffix(rel, "-resume.pdf"))
	assert.True(t, store.Exists(rel))

	file, err := store.Open(rel)
	require.NoError(t, err)
	defer file.Close()
	content, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Equal(t, "%PDF content", string(content))
}

func TestSaveStripsDirectoryComponents(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	rel, err := store.Save(PurposeFeedback, "../../etc/passwd", strings.NewReader("nope"))
	require.NoError(t, err)
	assert.Equal(t, string(PurposeFeedback), filepath.Dir(rel))
	assert.True(t, strings.HasSuffix(rel, "-passwd"))
}

func TestDeleteIsIdempotent(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	rel, err := store.Save(PurposePhoto, "me.jpg", strings.NewReader("jpeg"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(rel))
	assert.False(t, store.Exists(rel))
	assert.NoError(t, store.Delete(rel))
}

func TestExistsOnEmptyPath(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	assert.False(t, store.Exists(""))
}
