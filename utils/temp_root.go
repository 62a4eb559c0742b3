package utils

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// TempRootPath returns a unique, not-yet-created path for one operation's
// extraction root. UUID naming keeps concurrent operations from ever aliasing
// each other's directories.
func TempRootPath() string {
	return filepath.Join(os.TempDir(), "codepack-"+uuid.NewString())
}
