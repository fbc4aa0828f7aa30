//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"maps"
	"path/filepath"

	testkit "github.com/rios0rios0/testkit/pkg/test"

	"github.com/xnmeet/evem/internal/domain/entities"
)

// PackageBuilder helps create workspace packages with a fluent interface.
type PackageBuilder struct {
	*testkit.BaseBuilder
	name    string
	version string
	dir     string
	private bool
	publish *entities.PublishConfig
	ranges  map[entities.DependencyKind]map[string]string
}

// NewPackageBuilder creates a new package builder with sensible defaults.
func NewPackageBuilder() *PackageBuilder {
	return &PackageBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		name:        "test-package",
		version:     "1.0.0",
		ranges:      map[entities.DependencyKind]map[string]string{},
	}
}

// WithName sets the package name.
func (b *PackageBuilder) WithName(name string) *PackageBuilder {
	b.name = name
	return b
}

// WithVersion sets the manifest version.
func (b *PackageBuilder) WithVersion(version string) *PackageBuilder {
	b.version = version
	return b
}

// WithDir sets the package directory (defaults to packages/<name>).
func (b *PackageBuilder) WithDir(dir string) *PackageBuilder {
	b.dir = dir
	return b
}

// WithPrivate marks the package as private.
func (b *PackageBuilder) WithPrivate(private bool) *PackageBuilder {
	b.private = private
	return b
}

// WithPublishConfig sets the publishConfig block.
func (b *PackageBuilder) WithPublishConfig(config entities.PublishConfig) *PackageBuilder {
	b.publish = &config
	return b
}

// WithDependency adds a regular dependency.
func (b *PackageBuilder) WithDependency(name, versionRange string) *PackageBuilder {
	return b.WithRange(entities.Dependencies, name, versionRange)
}

// WithDevDependency adds a dev dependency.
func (b *PackageBuilder) WithDevDependency(name, versionRange string) *PackageBuilder {
	return b.WithRange(entities.DevDependencies, name, versionRange)
}

// WithPeerDependency adds a peer dependency.
func (b *PackageBuilder) WithPeerDependency(name, versionRange string) *PackageBuilder {
	return b.WithRange(entities.PeerDependencies, name, versionRange)
}

// WithRange adds a dependency of an arbitrary kind.
func (b *PackageBuilder) WithRange(kind entities.DependencyKind, name, versionRange string) *PackageBuilder {
	if b.ranges[kind] == nil {
		b.ranges[kind] = map[string]string{}
	}
	b.ranges[kind][name] = versionRange
	return b
}

// Build creates the package (satisfies testkit.Builder interface).
func (b *PackageBuilder) Build() interface{} {
	return b.BuildPackage()
}

// BuildPackage creates the package with a concrete return type.
func (b *PackageBuilder) BuildPackage() entities.Package {
	dir := b.dir
	if dir == "" {
		dir = filepath.Join("packages", b.name)
	}

	manifest := entities.Manifest{
		Name:                 b.name,
		Version:              b.version,
		Private:              b.private,
		Dependencies:         maps.Clone(b.ranges[entities.Dependencies]),
		DevDependencies:      maps.Clone(b.ranges[entities.DevDependencies]),
		PeerDependencies:     maps.Clone(b.ranges[entities.PeerDependencies]),
		OptionalDependencies: maps.Clone(b.ranges[entities.OptionalDependencies]),
	}
	if b.publish != nil {
		config := *b.publish
		manifest.PublishConfig = &config
	}

	return entities.Package{
		Name:        b.name,
		Dir:         dir,
		RelativeDir: dir,
		Manifest:    manifest,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *PackageBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.name = "test-package"
	b.version = "1.0.0"
	b.dir = ""
	b.private = false
	b.publish = nil
	b.ranges = map[entities.DependencyKind]map[string]string{}
	return b
}

// Clone creates a deep copy of the PackageBuilder.
func (b *PackageBuilder) Clone() testkit.Builder {
	ranges := make(map[entities.DependencyKind]map[string]string, len(b.ranges))
	for kind, deps := range b.ranges {
		ranges[kind] = maps.Clone(deps)
	}
	clone := &PackageBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		name:        b.name,
		version:     b.version,
		dir:         b.dir,
		private:     b.private,
		ranges:      ranges,
	}
	if b.publish != nil {
		config := *b.publish
		clone.publish = &config
	}
	return clone
}

// NewPackages wraps packages into a workspace rooted at "/repo".
func NewPackages(packages ...entities.Package) *entities.Packages {
	return &entities.Packages{
		Tool:     entities.ToolPnpm,
		RootDir:  "/repo",
		Packages: packages,
	}
}
