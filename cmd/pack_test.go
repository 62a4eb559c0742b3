package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageDirectory_FiltersJunkAndSymlinks(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "node_modules", "dep"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "main.go"), []byte("package main"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "node_modules", "dep", "x.js"), []byte("junk"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# readme"), 0o644))

	uploads, err := stageDirectory(dir)
	require.NoError(t, err)

	names := make([]string, len(uploads))
	for i, upload := range uploads {
		names[i] = upload.Filename
	}
	assert.ElementsMatch(t, []string{"src/main.go", "README.md"}, names)
}

func TestWritePackedProjectNaming(t *testing.T) {
	outDir := t.TempDir()
	prev := packOutputDir
	packOutputDir = outDir
	defer func() { packOutputDir = prev }()

	project := samplePackedProject()
	outPath, err := writePackedProject(project, "/tmp/myproject.zip")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "myproject.packed.txt"), outPath)

	content, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, project.PackedContent, string(content))
}
