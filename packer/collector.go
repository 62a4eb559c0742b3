package packer

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/meysamhadeli/codepack/logging"
	"github.com/meysamhadeli/codepack/packer/models"
	"github.com/meysamhadeli/codepack/utils"
)

// FileCollector walks a rooted directory under the same safety and resource
// rules as extraction, producing an ordered file list and a rendered tree.
type FileCollector struct {
	limits     Limits
	exclusions Exclusions
	validator  *PathValidator
	logger     zerolog.Logger
}

// NewFileCollector creates a collector bound to the given limits and
// exclusion lists.
func NewFileCollector(limits Limits, exclusions Exclusions, validator *PathValidator) *FileCollector {
	return &FileCollector{
		limits:     limits,
		exclusions: exclusions,
		validator:  validator,
		logger:     logging.GetLogger("collector"),
	}
}

// Collect walks root and returns its files sorted lexicographically by path,
// plus a directory-tree rendering labeled rootLabel. Isolated problems
// (oversized, unreadable, binary, symlink) are logged and skipped; a
// cumulative-size or file-count breach aborts the whole walk.
func (c *FileCollector) Collect(root string, rootLabel string) ([]models.ProjectFile, string, error) {
	var files []models.ProjectFile
	var totalSize int64

	// Explicit stack keeps depth bounded against adversarially deep trees.
	stack := []string{root}
	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := os.ReadDir(dir)
		if err != nil {
			c.logger.Warn().Err(err).Str("dir", dir).Msg("skipping unreadable directory")
			continue
		}

		for _, entry := range entries {
			fullPath := filepath.Join(dir, entry.Name())
			rel, err := filepath.Rel(root, fullPath)
			if err != nil || !c.validator.IsSafe(rel, root) {
				return nil, "", NewError(ErrPathTraversal, "walk produced unsafe path %q", fullPath).
					WithDetail("path", fullPath)
			}
			relPath := filepath.ToSlash(rel)

			if c.exclusions.IsExcluded(relPath) {
				c.logger.Debug().Str("path", relPath).Msg("skipping excluded entry")
				continue
			}
			if entry.Type()&fs.ModeSymlink != 0 {
				c.logger.Warn().Str("path", relPath).Msg("skipping symbolic link")
				continue
			}
			if entry.IsDir() {
				stack = append(stack, fullPath)
				continue
			}
			if c.exclusions.IsBinaryName(entry.Name()) {
				c.logger.Debug().Str("path", relPath).Msg("skipping binary extension")
				continue
			}

			info, err := entry.Info()
			if err != nil {
				c.logger.Warn().Err(err).Str("path", relPath).Msg("skipping unreadable entry")
				continue
			}
			if info.Size() > c.limits.MaxFileSize {
				c.logger.Warn().Str("path", relPath).Int64("size", info.Size()).Msg("skipping oversized file")
				continue
			}

			content, err := os.ReadFile(fullPath)
			if err != nil {
				c.logger.Warn().Err(err).Str("path", relPath).Msg("skipping unreadable file")
				continue
			}
			if !utils.IsLikelyText(content) {
				c.logger.Warn().Str("path", relPath).Msg("skipping non-text file")
				continue
			}

			if len(files)+1 > c.limits.MaxFileCount {
				return nil, "", NewError(ErrSizeLimit, "walk exceeds maximum file count %d", c.limits.MaxFileCount)
			}
			totalSize += int64(len(content))
			if totalSize > c.limits.MaxTotalSize {
				return nil, "", NewError(ErrSizeLimit, "walk exceeds maximum total size %d", c.limits.MaxTotalSize)
			}

			files = append(files, models.ProjectFile{
				Path:     relPath,
				Filename: entry.Name(),
				Content:  string(content),
				Size:     int64(len(content)),
				Language: utils.DetectLanguage(entry.Name()),
			})
		}
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	return files, RenderTree(rootLabel, paths), nil
}

// RenderTree renders the canonical directory-tree string for a set of
// relative paths: the root label, then one line per unique path segment in
// path-sorted order. Indentation depth equals the segment's ancestor count;
// a path's final segment gets the terminal glyph, intermediate ones the
// continuing glyph. Identical inputs always render byte-identical output.
func RenderTree(rootLabel string, paths []string) string {
	sorted := make([]string, len(paths))
	copy(sorted, paths)
	sort.Strings(sorted)

	var b strings.Builder
	b.WriteString(rootLabel)
	seen := make(map[string]bool)
	for _, p := range sorted {
		segments := strings.Split(p, "/")
		prefix := ""
		for depth, segment := range segments {
			full := prefix + segment
			prefix = full + "/"
			if seen[full] {
				continue
			}
			seen[full] = true
			glyph := "├── "
			if depth == len(segments)-1 {
				glyph = "└── "
			}
			b.WriteString("\n")
			b.WriteString(strings.Repeat("  ", depth))
			b.WriteString(glyph)
			b.WriteString(segment)
		}
	}
	return b.String()
}
