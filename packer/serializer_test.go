package packer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meysamhadeli/codepack/packer/models"
	"github.com/meysamhadeli/codepack/token_management"
)

func newTestSerializer(threshold int) *ProjectPackSerializer {
	return NewProjectPackSerializer(token_management.NewTokenEstimator(threshold))
}

func sampleFiles() []models.ProjectFile {
	return []models.ProjectFile{
		{Path: "a.txt", Filename: "a.txt", Content: "hello", Size: 5},
		{Path: "dir/b.txt", Filename: "b.txt", Content: "world", Size: 5},
	}
}

func TestProjectPackSerializer_Serialize_Format(t *testing.T) {
	serializer := newTestSerializer(200_000)
	tree := RenderTree("project", []string{"a.txt", "dir/b.txt"})

	project := serializer.Serialize("project.zip", tree, sampleFiles())

	assert.Equal(t, "project.zip", project.Source)
	assert.Equal(t, tree, project.DirectoryStructure)
	require.Len(t, project.Files, 2)

	content := project.PackedContent
	assert.True(t, strings.HasPrefix(content, packedFileHeader))
	assert.Contains(t, content, "Source: project.zip\n")
	assert.Contains(t, content, "Directory Structure:\n"+tree)
	assert.Contains(t, content, separatorLine+"\nFile: a.txt\n"+separatorLine+"\nhello\n")
	assert.Contains(t, content, separatorLine+"\nFile: dir/b.txt\n"+separatorLine+"\nworld\n")

	// Files appear in path-sorted order.
	assert.Less(t, strings.Index(content, "File: a.txt"), strings.Index(content, "File: dir/b.txt"))
}

func TestProjectPackSerializer_Serialize_TokenCountLaw(t *testing.T) {
	serializer := newTestSerializer(200_000)

	project := serializer.Serialize("src", "root", sampleFiles())

	expected := (len(project.PackedContent) + 3) / 4
	assert.Equal(t, expected, project.TokenCount)
	assert.False(t, project.ExceedsTokenLimit)
}

func TestProjectPackSerializer_Serialize_OverLimitFlagIsAdvisory(t *testing.T) {
	serializer := newTestSerializer(10)

	project := serializer.Serialize("src", "root", sampleFiles())

	assert.True(t, project.ExceedsTokenLimit)
	assert.NotEmpty(t, project.PackedContent, "the over-limit flag never blocks serialization")
}

func TestProjectPackSerializer_Serialize_ChecksumIsStable(t *testing.T) {
	serializer := newTestSerializer(200_000)

	first := serializer.Serialize("src", "root", sampleFiles())
	second := serializer.Serialize("src", "root", sampleFiles())

	assert.NotEmpty(t, first.Checksum)
	assert.Equal(t, first.Checksum, second.Checksum)
	assert.Equal(t, first.PackedContent, second.PackedContent)
}
