package changelog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/xnmeet/evem/internal/domain/entities"
)

const (
	jsonFileName     = "CHANGELOG.json"
	markdownFileName = "CHANGELOG.md"
	fileMode         = 0o644
)

// Repository keeps CHANGELOG.json as the source of truth and regenerates CHANGELOG.md from it.
type Repository struct {
	now func() time.Time
}

// NewRepository creates a changelog repository using the wall clock.
func NewRepository() *Repository {
	return &Repository{now: time.Now}
}

// NewRepositoryWithClock creates a changelog repository with a fixed time source.
func NewRepositoryWithClock(now func() time.Time) *Repository {
	return &Repository{now: now}
}

// Load reads dir/CHANGELOG.json. A missing file yields an empty changelog.
func (r *Repository) Load(_ context.Context, dir, packageName string) (*entities.Changelog, error) {
	filePath := filepath.Join(dir, jsonFileName)
	changelog := &entities.Changelog{Name: packageName, Entries: []entities.ChangelogEntry{}}

	content, err := os.ReadFile(filePath)
	if errors.Is(err, fs.ErrNotExist) {
		return changelog, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filePath, err)
	}
	if err = json.Unmarshal(content, changelog); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filePath, err)
	}
	changelog.Name = packageName
	if changelog.Entries == nil {
		changelog.Entries = []entities.ChangelogEntry{}
	}
	return changelog, nil
}

// Save writes CHANGELOG.json and its markdown rendering.
func (r *Repository) Save(_ context.Context, dir string, changelog *entities.Changelog) error {
	content, err := json.MarshalIndent(changelog, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode the changelog of %s: %w", changelog.Name, err)
	}

	jsonPath := filepath.Join(dir, jsonFileName)
	if err = os.WriteFile(jsonPath, append(content, '\n'), fileMode); err != nil {
		return fmt.Errorf("failed to write %s: %w", jsonPath, err)
	}

	markdownPath := filepath.Join(dir, markdownFileName)
	markdown := entities.RenderChangelogMarkdown(changelog, r.now())
	if err = os.WriteFile(markdownPath, []byte(markdown), fileMode); err != nil {
		return fmt.Errorf("failed to write %s: %w", markdownPath, err)
	}

	logger.Debugf("Updated changelog of %s in %s", changelog.Name, dir)
	return nil
}
