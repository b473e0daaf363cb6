package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adfharrison1/go-cms/pkg/domain"
)

func TestSaveAndLoadSnapshot(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, "snapshot"+FileExtension)

	engine := NewEngine()
	created, err := engine.Create(context.Background(), "posts", domain.Document{"title": "persisted", "views": int64(7)})
	require.NoError(t, err)
	_, err = engine.Create(context.Background(), "users", domain.Document{"email": "alice@example.com"})
	require.NoError(t, err)

	require.NoError(t, engine.SaveToFile(filename))

	restored := NewEngine()
	require.NoError(t, restored.LoadFromFile(filename))

	doc, err := restored.FindByID(context.Background(), "posts", created.ID())
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "persisted", doc["title"])

	count, err := restored.Count(context.Background(), "users", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestLoadFromFile_MissingFileIsNotAnError(t *testing.T) {
	engine := NewEngine()
	err := engine.LoadFromFile(filepath.Join(t.TempDir(), "nope"+FileExtension))
	assert.NoError(t, err)
}

func TestLoadFromFile_RejectsWrongMagic(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, "bogus"+FileExtension)
	require.NoError(t, os.WriteFile(filename, []byte("XXXX0000garbage"), 0o644))

	engine := NewEngine()
	err := engine.LoadFromFile(filename)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid file header")
}

func TestHeaderRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf, FlagRawPayload))

	header, err := ReadHeader(&buf)
	require.NoError(t, err)
	assert.Equal(t, MagicBytes, string(header.Magic[:]))
	assert.Equal(t, uint8(FormatVersion), header.Version)
	assert.Equal(t, FlagRawPayload, header.Flags)
}

func TestSaveToFile_RequiresFilename(t *testing.T) {
	engine := NewEngine()
	assert.Error(t, engine.SaveToFile(""))
}

func TestSaveToFile_UsesConfiguredDataFile(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, "configured"+FileExtension)

	engine := NewEngine(WithDataFile(filename))
	_, err := engine.Create(context.Background(), "posts", domain.Document{"title": "x"})
	require.NoError(t, err)

	require.NoError(t, engine.SaveToFile(""))
	_, err = os.Stat(filename)
	assert.NoError(t, err)
}
