package packer

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCollector(limits Limits) *FileCollector {
	return NewFileCollector(limits, DefaultExclusions(), NewPathValidator(limits))
}

// writeTree creates files under root from relative path -> content pairs.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
}

func TestFileCollector_Collect_SortsAndRendersTree(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"dir/b.txt": "world",
		"a.txt":     "hello",
	})

	collector := newTestCollector(DefaultLimits())
	files, tree, err := collector.Collect(root, "project")
	require.NoError(t, err)

	require.Len(t, files, 2)
	assert.Equal(t, "a.txt", files[0].Path)
	assert.Equal(t, int64(5), files[0].Size)
	assert.Equal(t, "dir/b.txt", files[1].Path)
	assert.Equal(t, int64(5), files[1].Size)

	expected := "project\n" +
		"└── a.txt\n" +
		"├── dir\n" +
		"  └── b.txt"
	assert.Equal(t, expected, tree)
}

func TestFileCollector_Collect_SkipsExcludedAndHiddenEntries(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/main.go":          "package main",
		"node_modules/x.js":    "junk",
		".hidden":              "secret",
		"vendor/dep/dep.go":    "package dep",
		"package-lock.json":    "{}",
		"assets/logo.png":      "\x89PNG",
		".github/workflows/ci": "steps",
	})

	collector := newTestCollector(DefaultLimits())
	files, _, err := collector.Collect(root, "project")
	require.NoError(t, err)

	require.Len(t, files, 1)
	assert.Equal(t, "src/main.go", files[0].Path)
}

func TestFileCollector_Collect_NeverFollowsSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation requires privileges on windows")
	}
	root := t.TempDir()
	outside := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(outside, "secret.txt"), []byte("secret"), 0o644))
	writeTree(t, root, map[string]string{"a.txt": "hello"})
	require.NoError(t, os.Symlink(outside, filepath.Join(root, "link")))
	require.NoError(t, os.Symlink(filepath.Join(outside, "secret.txt"), filepath.Join(root, "link.txt")))

	collector := newTestCollector(DefaultLimits())
	files, _, err := collector.Collect(root, "project")
	require.NoError(t, err)

	require.Len(t, files, 1)
	assert.Equal(t, "a.txt", files[0].Path)
}

func TestFileCollector_Collect_SkipsOversizedFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"small.txt": "ok",
		"big.txt":   "this is far too large",
	})

	limits := DefaultLimits()
	limits.MaxFileSize = 5
	collector := newTestCollector(limits)
	files, _, err := collector.Collect(root, "project")
	require.NoError(t, err)

	require.Len(t, files, 1)
	assert.Equal(t, "small.txt", files[0].Path)
}

func TestFileCollector_Collect_SkipsBinaryContent(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "blob.dat"), []byte{0x00, 0x01, 0x02}, 0o644))
	writeTree(t, root, map[string]string{"a.txt": "text"})

	collector := newTestCollector(DefaultLimits())
	files, _, err := collector.Collect(root, "project")
	require.NoError(t, err)

	require.Len(t, files, 1)
	assert.Equal(t, "a.txt", files[0].Path)
}

func TestFileCollector_Collect_CumulativeBreachAborts(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.txt": "12345",
		"b.txt": "67890",
	})

	limits := DefaultLimits()
	limits.MaxTotalSize = 8
	collector := newTestCollector(limits)
	_, _, err := collector.Collect(root, "project")
	require.Error(t, err)
	assert.True(t, IsCode(err, ErrSizeLimit))
}

func TestFileCollector_Collect_FileCountBreachAborts(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.txt": "1",
		"b.txt": "2",
		"c.txt": "3",
	})

	limits := DefaultLimits()
	limits.MaxFileCount = 2
	collector := newTestCollector(limits)
	_, _, err := collector.Collect(root, "project")
	require.Error(t, err)
	assert.True(t, IsCode(err, ErrSizeLimit))
}

func TestFileCollector_Collect_DeterministicTree(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"z.txt":         "z",
		"a/one.txt":     "1",
		"a/two.txt":     "2",
		"b/deep/x.go":   "x",
		"b/deep/y.go":   "y",
		"b/shallow.txt": "s",
	})

	collector := newTestCollector(DefaultLimits())
	_, first, err := collector.Collect(root, "proj")
	require.NoError(t, err)
	_, second, err := collector.Collect(root, "proj")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRenderTree_SegmentsAppearOnce(t *testing.T) {
	tree := RenderTree("proj", []string{"a/one.txt", "a/two.txt", "b.txt"})

	expected := "proj\n" +
		"├── a\n" +
		"  └── one.txt\n" +
		"  └── two.txt\n" +
		"└── b.txt"
	assert.Equal(t, expected, tree)
}

func TestRenderTree_EmptyFileSet(t *testing.T) {
	assert.Equal(t, "proj", RenderTree("proj", nil))
}
