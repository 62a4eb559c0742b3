package packer

import "strings"

// Limits holds the fixed resource ceilings for one packing operation. A Limits
// value is built once and passed into each component; components never consult
// mutable globals.
type Limits struct {
	// MaxTotalSize caps the cumulative bytes materialized or collected in one
	// operation.
	MaxTotalSize int64
	// MaxFileCount caps the number of files in one operation.
	MaxFileCount int
	// MaxFileSize caps the size of any single file.
	MaxFileSize int64
	// MaxPathLength caps the length of any relative path.
	MaxPathLength int
	// TokenWarningThreshold is the soft token-count ceiling. Exceeding it only
	// sets an advisory flag on the result.
	TokenWarningThreshold int
}

// DefaultLimits returns the operation ceilings used in production.
func DefaultLimits() Limits {
	return Limits{
		MaxTotalSize:          500 * 1024 * 1024,
		MaxFileCount:          100_000,
		MaxFileSize:           100 * 1024 * 1024,
		MaxPathLength:         260,
		TokenWarningThreshold: 200_000,
	}
}

// Exclusions holds the fixed name patterns and extensions skipped during
// collection. Patterns match by substring against each path segment.
type Exclusions struct {
	NamePatterns     []string
	BinaryExtensions []string
}

// DefaultExclusions returns the built-in skip lists: dependency caches, build
// output, VCS and CI directories, lockfiles, and binary media extensions.
func DefaultExclusions() Exclusions {
	return Exclusions{
		NamePatterns: []string{
			"node_modules",
			"bower_components",
			"vendor",
			".git",
			".svn",
			".hg",
			".idea",
			".vscode",
			"__pycache__",
			".pytest_cache",
			".gradle",
			".terraform",
			"cdk.out",
			"dist",
			"build",
			"target",
			"bin",
			"obj",
			"out",
			"coverage",
			".github",
			".gitlab-ci",
			".circleci",
			"package-lock.json",
			"yarn.lock",
			"pnpm-lock.yaml",
			"poetry.lock",
			"Pipfile.lock",
			"Gemfile.lock",
			"Cargo.lock",
			"composer.lock",
			"go.sum",
		},
		BinaryExtensions: []string{
			".png", ".jpg", ".jpeg", ".gif", ".bmp", ".ico", ".svg", ".webp",
			".mp4", ".mkv", ".avi", ".mov", ".wmv",
			".mp3", ".wav", ".aac", ".flac", ".ogg",
			".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx",
			".exe", ".dll", ".so", ".dylib", ".bin", ".class", ".o", ".a",
			".zip", ".tar", ".gz", ".bz2", ".xz", ".7z", ".rar", ".jar", ".war",
			".woff", ".woff2", ".ttf", ".eot",
		},
	}
}

// IsExcluded reports whether any segment of the relative path matches an
// exclusion pattern by substring, or the entry is hidden (leading dot).
func (e Exclusions) IsExcluded(relPath string) bool {
	for _, part := range strings.Split(relPath, "/") {
		if part == "" || part == "." {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
		for _, pattern := range e.NamePatterns {
			if strings.Contains(part, pattern) {
				return true
			}
		}
	}
	return false
}

// IsBinaryName reports whether the filename carries a known binary or media
// extension.
func (e Exclusions) IsBinaryName(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range e.BinaryExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
