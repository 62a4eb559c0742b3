package models

// ArchiveEntry is one record inside an input archive. It only lives during
// extraction validation and write-out.
type ArchiveEntry struct {
	Name         string
	IsDir        bool
	DeclaredSize int64
	Data         []byte
}

// UploadedFile is one discrete file supplied by a caller instead of an archive.
type UploadedFile struct {
	Filename    string
	Content     []byte
	ContentType string
}

// ProjectFile holds one collected file. It is created during collection, owned
// by the PackedProject that contains it, and never mutated afterward.
type ProjectFile struct {
	// Path is the relative, root-anchored path using forward slashes.
	Path     string
	Filename string
	Content  string
	Size     int64
	// Language is an advisory tag from lexer matching, used for CLI summaries
	// only. It never appears in the packed content.
	Language string
}

// PackedProject is the composite result of one packing operation. It is
// created once per operation and immutable afterward.
type PackedProject struct {
	Source             string
	DirectoryStructure string
	// Files is sorted lexicographically by Path.
	Files             []ProjectFile
	TokenCount        int
	ExceedsTokenLimit bool
	PackedContent     string
	// Checksum is the xxh3 hex digest of PackedContent.
	Checksum string
}
