package packer

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/meysamhadeli/codepack/logging"
	"github.com/meysamhadeli/codepack/packer/contracts"
	"github.com/meysamhadeli/codepack/packer/models"
	token_contracts "github.com/meysamhadeli/codepack/token_management/contracts"
	"github.com/meysamhadeli/codepack/utils"
)

// ProjectPacker composes extraction, collection, and serialization into the
// two packing entry points. Each invocation owns its temp-root lifecycle:
// acquired before the first write, removed on every exit path.
type ProjectPacker struct {
	limits     Limits
	validator  *PathValidator
	extractor  *ArchiveExtractor
	collector  *FileCollector
	serializer *ProjectPackSerializer
	builder    *ArchiveBuilder
	logger     zerolog.Logger
}

// NewProjectPacker wires the packing pipeline from immutable limit and
// exclusion values.
func NewProjectPacker(limits Limits, exclusions Exclusions, estimator token_contracts.ITokenEstimator) contracts.IProjectPacker {
	validator := NewPathValidator(limits)
	return &ProjectPacker{
		limits:     limits,
		validator:  validator,
		extractor:  NewArchiveExtractor(limits, validator),
		collector:  NewFileCollector(limits, exclusions, validator),
		serializer: NewProjectPackSerializer(estimator),
		builder:    NewArchiveBuilder(limits),
		logger:     logging.GetLogger("packer"),
	}
}

// PackFromArchive validates, extracts, walks, and serializes an untrusted
// archive buffer into a PackedProject.
func (p *ProjectPacker) PackFromArchive(ctx context.Context, buffer []byte, filename string) (*models.PackedProject, error) {
	if len(buffer) == 0 {
		return nil, NewError(ErrInvalidInput, "archive buffer is empty")
	}
	if int64(len(buffer)) > p.limits.MaxTotalSize {
		return nil, NewError(ErrSizeLimit, "archive buffer exceeds the total size limit %d", p.limits.MaxTotalSize)
	}
	if err := validateUploadName(filename); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tempRoot, err := p.extractor.Extract(buffer)
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tempRoot)

	return p.packRoot(ctx, tempRoot, filename)
}

// PackFromFiles materializes a set of discrete uploads into a fresh temp root
// and packs it exactly like an extracted archive.
func (p *ProjectPacker) PackFromFiles(ctx context.Context, uploads []models.UploadedFile) (*models.PackedProject, error) {
	if len(uploads) == 0 {
		return nil, NewError(ErrInvalidInput, "no files provided")
	}

	// Validate the whole set before the first write.
	var totalSize int64
	if len(uploads) > p.limits.MaxFileCount {
		return nil, NewError(ErrSizeLimit, "upload exceeds maximum file count %d", p.limits.MaxFileCount)
	}
	for _, upload := range uploads {
		if err := validateUploadName(upload.Filename); err != nil {
			return nil, err
		}
		if int64(len(upload.Content)) > p.limits.MaxFileSize {
			return nil, NewError(ErrSizeLimit, "file %q exceeds the per-file limit %d", upload.Filename, p.limits.MaxFileSize)
		}
		totalSize += int64(len(upload.Content))
		if totalSize > p.limits.MaxTotalSize {
			return nil, NewError(ErrSizeLimit, "uploads exceed the total size limit %d", p.limits.MaxTotalSize)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tempRoot := utils.TempRootPath()
	if err := os.MkdirAll(tempRoot, 0o755); err != nil {
		return nil, WrapError(ErrInvalidInput, err, "failed to create staging root")
	}
	defer os.RemoveAll(tempRoot)

	for _, upload := range uploads {
		sanitized := p.validator.Sanitize(upload.Filename)
		if sanitized == "" || !p.validator.IsSafe(sanitized, tempRoot) {
			return nil, NewError(ErrPathTraversal, "filename %q cannot be made safe", upload.Filename)
		}
		destPath := filepath.Join(tempRoot, filepath.FromSlash(sanitized))
		if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
			return nil, WrapError(ErrInvalidInput, err, "failed to stage %q", sanitized)
		}
		if err := os.WriteFile(destPath, upload.Content, 0o644); err != nil {
			return nil, WrapError(ErrInvalidInput, err, "failed to stage %q", sanitized)
		}
	}

	source := "uploaded files"
	if len(uploads) == 1 {
		source = uploads[0].Filename
	}
	return p.packRoot(ctx, tempRoot, source)
}

// BuildArchive delegates to the archive builder.
func (p *ProjectPacker) BuildArchive(files []models.ProjectFile) ([]byte, error) {
	return p.builder.Build(files)
}

// packRoot runs the shared walk-and-serialize tail of both packing paths.
func (p *ProjectPacker) packRoot(ctx context.Context, root string, source string) (*models.PackedProject, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	files, tree, err := p.collector.Collect(root, rootLabel(source))
	if err != nil {
		return nil, err
	}
	project := p.serializer.Serialize(source, tree, files)
	p.logger.Info().
		Str("source", source).
		Int("files", len(project.Files)).
		Int("tokens", project.TokenCount).
		Msg("project packed")
	return &project, nil
}

// validateUploadName rejects names that are empty, contain null bytes, or
// carry traversal tokens. Deeper path checks happen against the temp root.
func validateUploadName(name string) error {
	if strings.TrimSpace(name) == "" {
		return NewError(ErrInvalidInput, "filename is empty")
	}
	if strings.ContainsRune(name, '\x00') {
		return NewError(ErrInvalidInput, "filename contains a null byte")
	}
	if strings.Contains(name, "..") {
		return NewError(ErrInvalidInput, "filename %q contains a traversal token", name)
	}
	return nil
}

// rootLabel derives the tree's root line from the source description.
func rootLabel(source string) string {
	base := filepath.Base(strings.TrimSpace(source))
	if ext := filepath.Ext(base); ext == ".zip" {
		base = strings.TrimSuffix(base, ext)
	}
	if base == "" || base == "." || base == "/" {
		return "project"
	}
	return base
}
