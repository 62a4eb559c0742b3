package packer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathValidator_IsSafe_AcceptsContainedPaths(t *testing.T) {
	validator := NewPathValidator(DefaultLimits())
	root := t.TempDir()

	cases := []string{
		"a.txt",
		"dir/b.txt",
		"deeply/nested/path/to/file.go",
		"dir/./c.txt",
		"name with spaces.md",
	}
	for _, candidate := range cases {
		assert.True(t, validator.IsSafe(candidate, root), "expected %q to be safe", candidate)
	}
}

func TestPathValidator_IsSafe_RejectsEscapingPaths(t *testing.T) {
	validator := NewPathValidator(DefaultLimits())
	root := t.TempDir()

	cases := []string{
		"",
		"../evil.txt",
		"../../etc/passwd",
		"dir/../../evil.txt",
		"..",
		"/etc/passwd",
		"/absolute/path.txt",
		"C:/windows/system32",
		"c:\\windows\\system32",
		"..\\..\\evil.txt",
		"dir/file\x00.txt",
	}
	for _, candidate := range cases {
		assert.False(t, validator.IsSafe(candidate, root), "expected %q to be rejected", candidate)
	}
}

func TestPathValidator_IsSafe_RejectsOverlongPaths(t *testing.T) {
	validator := NewPathValidator(DefaultLimits())
	root := t.TempDir()

	long := strings.Repeat("a", 261)
	assert.False(t, validator.IsSafe(long, root))
	assert.True(t, validator.IsSafe(strings.Repeat("a", 260), root))
}

func TestPathValidator_Sanitize(t *testing.T) {
	validator := NewPathValidator(DefaultLimits())

	cases := map[string]string{
		"../../etc/passwd":   "etc/passwd",
		"/absolute/path.txt": "absolute/path.txt",
		"dir/./b.txt":        "dir/b.txt",
		"..\\..\\win.txt":    "win.txt",
		"C:\\temp\\x.txt":    "temp/x.txt",
		"a.txt":              "a.txt",
		"../..":              "",
		"evil\x00.txt":       "evil.txt",
	}
	for input, want := range cases {
		assert.Equal(t, want, validator.Sanitize(input), "sanitize(%q)", input)
	}
}

func TestPathValidator_SanitizedResultIsSafe(t *testing.T) {
	validator := NewPathValidator(DefaultLimits())
	root := t.TempDir()

	for _, hostile := range []string{"../../etc/passwd", "/abs/x.txt", "..\\..\\y.txt"} {
		sanitized := validator.Sanitize(hostile)
		if sanitized != "" {
			assert.True(t, validator.IsSafe(sanitized, root), "sanitized %q -> %q should be safe", hostile, sanitized)
		}
	}
}
