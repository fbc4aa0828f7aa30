package repositories

import (
	"context"

	"github.com/xnmeet/evem/internal/domain/entities"
)

// ChangeFileRepository stores the change files authored between releases.
type ChangeFileRepository interface {
	// List loads and validates every change file under dir.
	List(ctx context.Context, dir string) ([]entities.ChangeFile, error)

	// Save writes a new change file and returns its path.
	Save(ctx context.Context, dir, branch string, file entities.ChangeFile) (string, error)

	// Delete removes the given change files.
	Delete(ctx context.Context, paths []string) error
}
