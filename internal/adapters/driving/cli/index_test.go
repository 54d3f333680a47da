package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grimoire-notes/grimoire/internal/core/domain"
)

func TestIndexCmd_Files(t *testing.T) {
	ts := setupTestServices(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "cats.md")
	require.NoError(t, os.WriteFile(path, []byte("Cats purr. Cats sleep."), 0o600))

	out, err := execute(t, "index", path)

	require.NoError(t, err)
	require.Len(t, ts.index.docs, 1)
	assert.Empty(t, ts.index.docs[0].Title, "title is left to the normalisers")
	assert.Equal(t, "Cats purr. Cats sleep.", ts.index.docs[0].Content)
	assert.Equal(t, filepath.ToSlash(path), ts.index.docs[0].URL)
	assert.Contains(t, out, "2 chunks")
	assert.Contains(t, out, "Added 2 chunks")
	assert.Contains(t, out, "Store: 1 records, dimension 3")
	assert.Empty(t, ts.overrides)
}

func TestIndexCmd_Text(t *testing.T) {
	ts := setupTestServices(t)

	out, err := execute(t, "index", "--text", "One.", "--text", "Two. Three.")

	require.NoError(t, err)
	require.Len(t, ts.index.docs, 2)
	assert.Equal(t, "Two. Three.", ts.index.docs[1].Content)
	assert.Contains(t, out, "Added 3 chunks")
}

func TestIndexCmd_Raw(t *testing.T) {
	ts := setupTestServices(t)

	out, err := execute(t, "index", "--raw", "--text", "keep me whole")

	require.NoError(t, err)
	assert.Equal(t, []string{"keep me whole"}, ts.index.texts)
	assert.Empty(t, ts.index.docs)
	assert.Contains(t, out, "Indexed 1 of 1 texts")
}

func TestIndexCmd_RawCountsOnlyStoredTexts(t *testing.T) {
	ts := setupTestServices(t)

	out, err := execute(t, "index", "--raw", "--text", "kept", "--text", "   ", "--text", "also kept")

	require.NoError(t, err)
	assert.Equal(t, []string{"kept", "also kept"}, ts.index.texts)
	assert.Contains(t, out, "Indexed 2 of 3 texts")
}

func TestIndexCmd_RawRejectsFiles(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "index", "--raw", "notes.md")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIndexCmd_NothingToIndex(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "index")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIndexCmd_MissingFile(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "index", filepath.Join(t.TempDir(), "missing.md"))

	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestIndexCmd_ChunkerOverrides(t *testing.T) {
	ts := setupTestServices(t)
	ts.settings.settings.Chunker = domain.ChunkerSettings{ChunkSize: 300, Overlap: 30}

	_, err := execute(t, "index", "--overlap", "0", "--text", "One.")

	require.NoError(t, err)
	require.Len(t, ts.overrides, 1)
	assert.Equal(t, domain.ChunkerSettings{ChunkSize: 300, Overlap: 0}, ts.overrides[0])
}

func TestIndexCmd_InvalidChunkSize(t *testing.T) {
	ts := setupTestServices(t)

	_, err := execute(t, "index", "--chunk-size", "0", "--text", "One.")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, ts.overrides)
}

func TestIndexCmd_ServiceError(t *testing.T) {
	ts := setupTestServices(t)
	ts.index.err = domain.ErrDimensionMismatch

	_, err := execute(t, "index", "--text", "One.")

	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}
