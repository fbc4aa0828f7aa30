//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	testkit "github.com/rios0rios0/testkit/pkg/test"

	"github.com/xnmeet/evem/internal/domain/entities"
)

// ChangeFileBuilder helps create change files with a fluent interface.
type ChangeFileBuilder struct {
	*testkit.BaseBuilder
	packageName string
	path        string
	email       string
	changes     []entities.ChangeInfo
}

// NewChangeFileBuilder creates a new change file builder with sensible defaults.
func NewChangeFileBuilder() *ChangeFileBuilder {
	return &ChangeFileBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		packageName: "test-package",
		path:        ".evem/changes/test-package/main_2024-01-01-00-00.json",
	}
}

// WithPackageName sets the top-level package name.
func (b *ChangeFileBuilder) WithPackageName(name string) *ChangeFileBuilder {
	b.packageName = name
	return b
}

// WithPath sets the path the file was loaded from.
func (b *ChangeFileBuilder) WithPath(path string) *ChangeFileBuilder {
	b.path = path
	return b
}

// WithEmail sets the author email.
func (b *ChangeFileBuilder) WithEmail(email string) *ChangeFileBuilder {
	b.email = email
	return b
}

// WithChange appends a change for the top-level package.
func (b *ChangeFileBuilder) WithChange(bump entities.BumpType, comment string) *ChangeFileBuilder {
	b.changes = append(b.changes, entities.ChangeInfo{
		PackageName: b.packageName,
		Type:        bump,
		Comment:     comment,
	})
	return b
}

// WithChangeFor appends a change for another package of the same session.
func (b *ChangeFileBuilder) WithChangeFor(packageName string, bump entities.BumpType, comment string) *ChangeFileBuilder {
	b.changes = append(b.changes, entities.ChangeInfo{
		PackageName: packageName,
		Type:        bump,
		Comment:     comment,
	})
	return b
}

// Build creates the change file (satisfies testkit.Builder interface).
func (b *ChangeFileBuilder) Build() interface{} {
	return b.BuildChangeFile()
}

// BuildChangeFile creates the change file with a concrete return type.
func (b *ChangeFileBuilder) BuildChangeFile() entities.ChangeFile {
	changes := make([]entities.ChangeInfo, 0, len(b.changes))
	changes = append(changes, b.changes...)
	return entities.ChangeFile{
		PackageName: b.packageName,
		Changes:     changes,
		Email:       b.email,
		Path:        b.path,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *ChangeFileBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.packageName = "test-package"
	b.path = ".evem/changes/test-package/main_2024-01-01-00-00.json"
	b.email = ""
	b.changes = nil
	return b
}

// Clone creates a deep copy of the ChangeFileBuilder.
func (b *ChangeFileBuilder) Clone() testkit.Builder {
	return &ChangeFileBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		packageName: b.packageName,
		path:        b.path,
		email:       b.email,
		changes:     append([]entities.ChangeInfo(nil), b.changes...),
	}
}
