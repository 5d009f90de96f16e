package includestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "includes.def")
	require.NoError(t, os.WriteFile(path, []byte(`saved = "status:active"`), 0o644))

	s := NewStore()
	require.NoError(t, LoadFile(s, path))
	def, ok := s.Get("saved")
	require.True(t, ok)
	assert.Equal(t, "status:active", def.Query)
}

func TestLoadFile_MissingFile(t *testing.T) {
	s := NewStore()
	err := LoadFile(s, filepath.Join(t.TempDir(), "nope.def"))
	assert.Error(t, err)
}

func TestLoadTOMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "includes.toml")
	content := "[includes]\nsaved = \"status:active\"\nother = \"region:ca\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s := NewStore()
	require.NoError(t, LoadTOMLFile(s, path))
	def, ok := s.Get("saved")
	require.True(t, ok)
	assert.Equal(t, "status:active", def.Query)
	def, ok = s.Get("other")
	require.True(t, ok)
	assert.Equal(t, "region:ca", def.Query)
}

func TestFileBackedResolver_ResolvesExistingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "saved.lucene"), []byte("status:active"), 0o644))

	resolver := NewFileBackedResolver(dir).Resolver()
	text, err := resolver(context.Background(), "saved")
	require.NoError(t, err)
	assert.Equal(t, "status:active", text)
}

func TestFileBackedResolver_MissingFileIsUnresolvedNotError(t *testing.T) {
	resolver := NewFileBackedResolver(t.TempDir()).Resolver()
	text, err := resolver(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, text)
}
