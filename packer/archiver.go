package packer

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"

	"github.com/klauspost/compress/flate"

	"github.com/meysamhadeli/codepack/packer/models"
)

// ArchiveBuilder is the inverse of ArchiveExtractor: it serializes a validated
// file list into an archive buffer.
type ArchiveBuilder struct {
	limits Limits
}

// NewArchiveBuilder creates a builder bound to the given limits.
func NewArchiveBuilder(limits Limits) *ArchiveBuilder {
	return &ArchiveBuilder{limits: limits}
}

// Build validates every file and writes them into a zip buffer. The first
// invalid entry fails the whole call; no partial archive is ever returned.
func (b *ArchiveBuilder) Build(files []models.ProjectFile) ([]byte, error) {
	if len(files) == 0 {
		return nil, NewError(ErrInvalidInput, "no files to archive")
	}

	// Validate the whole set before writing a single entry.
	var totalSize int64
	for _, file := range files {
		if file.Path == "" || strings.ContainsRune(file.Path, '\x00') {
			return nil, NewError(ErrInvalidInput, "invalid filename %q", file.Path)
		}
		if strings.Contains(file.Path, "..") || strings.HasPrefix(file.Path, "/") {
			return nil, NewError(ErrPathTraversal, "filename %q contains a traversal token", file.Path)
		}
		if int64(len(file.Content)) > b.limits.MaxFileSize {
			return nil, NewError(ErrSizeLimit, "file %q exceeds the per-file limit %d", file.Path, b.limits.MaxFileSize)
		}
		totalSize += int64(len(file.Content))
		if totalSize > b.limits.MaxTotalSize {
			return nil, NewError(ErrSizeLimit, "archive would exceed the total size limit %d", b.limits.MaxTotalSize)
		}
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestSpeed)
	})

	for _, file := range files {
		w, err := zw.Create(file.Path)
		if err != nil {
			return nil, WrapError(ErrInvalidInput, err, "failed to add entry %q", file.Path)
		}
		if _, err := w.Write([]byte(file.Content)); err != nil {
			return nil, WrapError(ErrInvalidInput, err, "failed to write entry %q", file.Path)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, WrapError(ErrInvalidInput, err, "failed to finalize archive")
	}
	return buf.Bytes(), nil
}
