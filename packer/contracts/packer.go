package contracts

import (
	"context"

	"github.com/meysamhadeli/codepack/packer/models"
)

// IProjectPacker packs untrusted inputs into a PackedProject and builds
// archives back from validated file sets.
type IProjectPacker interface {
	PackFromArchive(ctx context.Context, buffer []byte, filename string) (*models.PackedProject, error)
	PackFromFiles(ctx context.Context, uploads []models.UploadedFile) (*models.PackedProject, error)
	BuildArchive(files []models.ProjectFile) ([]byte, error)
}
