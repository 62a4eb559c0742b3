package packer

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/flate"
	"github.com/rs/zerolog"

	"github.com/meysamhadeli/codepack/logging"
	"github.com/meysamhadeli/codepack/utils"
)

// ArchiveExtractor unpacks an untrusted archive buffer into a bounded
// temporary directory. Validation is two-phase and fail-closed: every entry is
// checked before a single byte is written.
type ArchiveExtractor struct {
	limits    Limits
	validator *PathValidator
	logger    zerolog.Logger
}

// NewArchiveExtractor creates an extractor bound to the given limits.
func NewArchiveExtractor(limits Limits, validator *PathValidator) *ArchiveExtractor {
	return &ArchiveExtractor{
		limits:    limits,
		validator: validator,
		logger:    logging.GetLogger("extractor"),
	}
}

// Extract validates and unpacks buffer into a fresh temp root and returns its
// path. The caller owns removal of the returned root on success; on any
// failure the root is removed here before the error propagates.
func (e *ArchiveExtractor) Extract(buffer []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(buffer), int64(len(buffer)))
	if err != nil {
		return "", WrapError(ErrInvalidInput, err, "buffer is not a valid archive")
	}
	reader.RegisterDecompressor(zip.Deflate, func(r io.Reader) io.ReadCloser {
		return flate.NewReader(r)
	})

	tempRoot := utils.TempRootPath()

	// Phase 1: pre-scan every entry. Nothing is written until all pass.
	var totalDeclared int64
	fileCount := 0
	for _, entry := range reader.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		fileCount++
		if fileCount > e.limits.MaxFileCount {
			return "", NewError(ErrSizeLimit, "archive exceeds maximum file count %d", e.limits.MaxFileCount)
		}
		declared := int64(entry.UncompressedSize64)
		if declared > e.limits.MaxFileSize {
			return "", NewError(ErrSizeLimit, "entry %q declares %d bytes, limit is %d", entry.Name, declared, e.limits.MaxFileSize).
				WithDetail("entry", entry.Name)
		}
		totalDeclared += declared
		if totalDeclared > e.limits.MaxTotalSize {
			return "", NewError(ErrSizeLimit, "archive declares more than %d total bytes", e.limits.MaxTotalSize)
		}
		if strings.ContainsRune(entry.Name, '\x00') {
			return "", NewError(ErrInvalidInput, "entry name contains a null byte")
		}
		sanitized := e.validator.Sanitize(entry.Name)
		if sanitized == "" || !e.validator.IsSafe(sanitized, tempRoot) {
			return "", NewError(ErrPathTraversal, "entry %q escapes the extraction root", entry.Name).
				WithDetail("entry", entry.Name)
		}
	}

	if fileCount == 0 {
		return "", NewError(ErrInvalidInput, "archive contains no files")
	}

	if err := os.MkdirAll(tempRoot, 0o755); err != nil {
		return "", WrapError(ErrInvalidInput, err, "failed to create extraction root")
	}

	// Phase 2: write out. Every entry already passed validation, but names are
	// re-sanitized and written sizes are checked against declarations.
	for _, entry := range reader.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		if err := e.writeEntry(entry, tempRoot); err != nil {
			os.RemoveAll(tempRoot)
			return "", err
		}
	}

	e.logger.Debug().Str("root", tempRoot).Int("files", fileCount).Msg("archive extracted")
	return tempRoot, nil
}

func (e *ArchiveExtractor) writeEntry(entry *zip.File, tempRoot string) error {
	sanitized := e.validator.Sanitize(entry.Name)
	if sanitized == "" || !e.validator.IsSafe(sanitized, tempRoot) {
		return NewError(ErrPathTraversal, "entry %q escapes the extraction root", entry.Name)
	}
	destPath := filepath.Join(tempRoot, filepath.FromSlash(sanitized))

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return WrapError(ErrInvalidInput, err, "failed to create directory for %q", sanitized)
	}

	src, err := entry.Open()
	if err != nil {
		return WrapError(ErrInvalidInput, err, "failed to open entry %q", sanitized)
	}
	defer src.Close()

	dst, err := os.Create(destPath)
	if err != nil {
		return WrapError(ErrInvalidInput, err, "failed to create %q", sanitized)
	}
	defer dst.Close()

	declared := int64(entry.UncompressedSize64)

	// Copy at most declared+1 bytes so a lying entry is detected without
	// letting it write past its declaration.
	written, err := io.Copy(dst, io.LimitReader(src, declared+1))
	if err != nil {
		return WrapError(ErrIntegrityMismatch, err, "failed to decompress entry %q", sanitized)
	}
	if written != declared {
		return NewError(ErrIntegrityMismatch, "entry %q declared %d bytes but produced %d", sanitized, declared, written).
			WithDetail("entry", sanitized)
	}
	return nil
}
