package ingestion

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_Directory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("alpha"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.md"), []byte("beta"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip.bin"), []byte("nope"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "c.html"), []byte("gamma"), 0o644))

	resolver, err := NewResolver()
	require.NoError(t, err)

	files, err := resolver.Resolve(dir)
	require.NoError(t, err)
	require.Len(t, files, 3)

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	assert.ElementsMatch(t, []string{"a.txt", "b.md", "c.html"}, names)
}

func TestResolve_DirectoryOpensContent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "doc.txt"), []byte("the content"), 0o644))

	resolver, err := NewResolver()
	require.NoError(t, err)

	files, err := resolver.Resolve(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)

	r, err := files[0].Open()
	require.NoError(t, err)
	defer r.Close()

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "the content", string(data))
}

func TestResolve_MissingDirectory(t *testing.T) {
	resolver, err := NewResolver()
	require.NoError(t, err)

	_, err = resolver.Resolve("/does/not/exist")
	assert.ErrorIs(t, err, ErrSourceNotFound)
}

func TestResolve_FileInsteadOfDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plain.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	resolver, err := NewResolver()
	require.NoError(t, err)

	_, err = resolver.Resolve(path)
	assert.ErrorIs(t, err, ErrSourceNotFound)
}

func TestResolve_FSRoot(t *testing.T) {
	fsys := fstest.MapFS{
		"docs/one.txt":   {Data: []byte("one")},
		"docs/two.pdf":   {Data: []byte("two")},
		"docs/ignore.go": {Data: []byte("three")},
	}

	resolver, err := NewResolver(WithFS("assets", fsys))
	require.NoError(t, err)

	files, err := resolver.Resolve("fs:assets")
	require.NoError(t, err)
	require.Len(t, files, 2)

	for _, f := range files {
		assert.Contains(t, f.URI, "fs:assets/")
	}
}

func TestResolve_UnknownFSRoot(t *testing.T) {
	resolver, err := NewResolver()
	require.NoError(t, err)

	_, err = resolver.Resolve("fs:nowhere")
	assert.ErrorIs(t, err, ErrSourceNotFound)
}

func TestResolve_ZeroMatchesIsNotAnError(t *testing.T) {
	resolver, err := NewResolver()
	require.NoError(t, err)

	files, err := resolver.Resolve(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestResolve_CaseInsensitiveExtensions(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "LOUD.TXT"), []byte("x"), 0o644))

	resolver, err := NewResolver()
	require.NoError(t, err)

	files, err := resolver.Resolve(dir)
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestResolve_CustomExtensions(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.org"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	resolver, err := NewResolver(WithExtensions([]string{"org"}))
	require.NoError(t, err)

	files, err := resolver.Resolve(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "notes.org", files[0].Name)
}
