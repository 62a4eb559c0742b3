package packer

import (
	"fmt"
	"strings"

	"github.com/zeebo/xxh3"

	"github.com/meysamhadeli/codepack/packer/models"
	"github.com/meysamhadeli/codepack/token_management/contracts"
)

const separatorLine = "================================================================"

const packedFileHeader = `This file is a packed representation of an entire project's source tree,
merged into a single document for analysis. It contains a directory
structure section followed by the full content of every collected file.
Binary files, dependency caches, build output, and version-control
metadata are excluded.`

// ProjectPackSerializer renders a collected file set into the final composite
// document and its metadata.
type ProjectPackSerializer struct {
	estimator contracts.ITokenEstimator
}

// NewProjectPackSerializer creates a serializer using the given token
// estimator.
func NewProjectPackSerializer(estimator contracts.ITokenEstimator) *ProjectPackSerializer {
	return &ProjectPackSerializer{estimator: estimator}
}

// Serialize builds the PackedProject for the given source description, tree
// rendering, and path-sorted file list. The input slice is not copied; callers
// hand over ownership.
func (s *ProjectPackSerializer) Serialize(source string, tree string, files []models.ProjectFile) models.PackedProject {
	var b strings.Builder
	b.WriteString(packedFileHeader)
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Source: %s\n\n", source))
	b.WriteString("Directory Structure:\n")
	b.WriteString(tree)
	b.WriteString("\n\n")

	for _, file := range files {
		b.WriteString(separatorLine)
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("File: %s\n", file.Path))
		b.WriteString(separatorLine)
		b.WriteString("\n")
		b.WriteString(file.Content)
		b.WriteString("\n")
	}

	packed := b.String()
	tokenCount := s.estimator.EstimateTokens(packed)

	return models.PackedProject{
		Source:             source,
		DirectoryStructure: tree,
		Files:              files,
		TokenCount:         tokenCount,
		ExceedsTokenLimit:  s.estimator.ExceedsThreshold(tokenCount),
		PackedContent:      packed,
		Checksum:           fmt.Sprintf("%016x", xxh3.HashString(packed)),
	}
}
