package changefiles

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	logger "github.com/sirupsen/logrus"

	"github.com/xnmeet/evem/internal/domain/entities"
)

const (
	changeFilePattern = "**/*.json"
	timestampLayout   = "2006-01-02-15-04"
	dirMode           = 0o755
	fileMode          = 0o644
)

var unsafeFileNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// Repository stores change files as JSON documents below the changes folder.
type Repository struct {
	now func() time.Time
}

// NewRepository creates a change-file repository using the wall clock.
func NewRepository() *Repository {
	return &Repository{now: time.Now}
}

// NewRepositoryWithClock creates a change-file repository with a fixed time source.
func NewRepositoryWithClock(now func() time.Time) *Repository {
	return &Repository{now: now}
}

// List loads every change file under dir. A missing folder holds no changes.
func (r *Repository) List(_ context.Context, dir string) ([]entities.ChangeFile, error) {
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return []entities.ChangeFile{}, nil
	}

	matches, err := doublestar.Glob(os.DirFS(dir), changeFilePattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to list change files in %s: %w", dir, err)
	}
	slices.Sort(matches)

	files := make([]entities.ChangeFile, 0, len(matches))
	for _, match := range matches {
		filePath := filepath.Join(dir, filepath.FromSlash(match))
		file, loadErr := loadChangeFile(filePath)
		if loadErr != nil {
			return nil, loadErr
		}
		files = append(files, file)
	}
	logger.Debugf("Loaded %d change file(s) from %s", len(files), dir)
	return files, nil
}

// Save writes file to dir/<package path>/<branch>_<timestamp>.json and returns the path.
func (r *Repository) Save(_ context.Context, dir, branch string, file entities.ChangeFile) (string, error) {
	timestamp := r.now().UTC().Format(timestampLayout)
	fileName := timestamp + ".json"
	if branch != "" {
		fileName = unsafeFileNameChars.ReplaceAllString(branch+"_"+timestamp+".json", "-")
	} else {
		logger.Debug("Could not detect the git branch, naming the change file after the timestamp only")
	}

	segments := append([]string{dir}, strings.Split(file.PackageName, "/")...)
	filePath := filepath.Join(append(segments, fileName)...)

	content, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode change file: %w", err)
	}
	if err = os.MkdirAll(filepath.Dir(filePath), dirMode); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", filepath.Dir(filePath), err)
	}
	if err = os.WriteFile(filePath, append(content, '\n'), fileMode); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", filePath, err)
	}
	return filePath, nil
}

// Delete removes the given files. Files already gone are ignored.
func (r *Repository) Delete(_ context.Context, paths []string) error {
	for _, filePath := range paths {
		logger.Debugf(" - deleting %s", filePath)
		if err := os.Remove(filePath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to delete change file %s: %w", filePath, err)
		}
	}
	return nil
}

func loadChangeFile(filePath string) (entities.ChangeFile, error) {
	var file entities.ChangeFile

	content, err := os.ReadFile(filePath)
	if err != nil {
		return file, fmt.Errorf("failed to read change file %s: %w", filePath, err)
	}
	if err = json.Unmarshal(content, &file); err != nil {
		return file, fmt.Errorf("%w %q: %w. Please fix or remove it", entities.ErrInvalidChangeFile, filePath, err)
	}
	file.Path = filePath
	if err = file.Validate(); err != nil {
		return file, fmt.Errorf("%w. Please fix or remove it", err)
	}
	return file, nil
}
