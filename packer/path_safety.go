package packer

import (
	"path"
	"path/filepath"
	"strings"
)

// PathValidator decides whether candidate relative paths resolve strictly
// inside a root directory, and rewrites unsafe-looking names into safe ones.
type PathValidator struct {
	limits Limits
}

// NewPathValidator creates a validator bound to the given limits.
func NewPathValidator(limits Limits) *PathValidator {
	return &PathValidator{limits: limits}
}

// IsSafe reports whether candidate is a relative path that resolves to a
// strict descendant of (or exactly) root. Absolute paths, drive-letter
// prefixes, traversal segments, and over-long paths are all rejected.
func (v *PathValidator) IsSafe(candidate string, root string) bool {
	if candidate == "" || len(candidate) > v.limits.MaxPathLength {
		return false
	}
	if strings.ContainsRune(candidate, '\x00') {
		return false
	}
	slashed := strings.ReplaceAll(candidate, "\\", "/")
	if strings.HasPrefix(slashed, "/") || hasDrivePrefix(slashed) {
		return false
	}
	cleaned := path.Clean(slashed)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return false
	}
	// Resolve against the root and require the result to stay inside it.
	resolved := filepath.Clean(filepath.Join(root, filepath.FromSlash(cleaned)))
	cleanRoot := filepath.Clean(root)
	if resolved == cleanRoot {
		return true
	}
	return strings.HasPrefix(resolved, cleanRoot+string(filepath.Separator))
}

// Sanitize strips traversal segments and leading separators from name and
// returns a cleaned relative path. Callers must re-check the result with
// IsSafe and treat a failure as fatal for the whole operation.
func (v *PathValidator) Sanitize(name string) string {
	slashed := strings.ReplaceAll(name, "\\", "/")
	slashed = strings.ReplaceAll(slashed, "\x00", "")
	if hasDrivePrefix(slashed) {
		slashed = slashed[2:]
	}
	var kept []string
	for _, part := range strings.Split(slashed, "/") {
		if part == "" || part == "." || part == ".." {
			continue
		}
		kept = append(kept, part)
	}
	return strings.Join(kept, "/")
}

// hasDrivePrefix detects Windows-style "C:" prefixes on a slashed path.
func hasDrivePrefix(p string) bool {
	if len(p) < 2 || p[1] != ':' {
		return false
	}
	c := p[0]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
