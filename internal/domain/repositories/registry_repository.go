package repositories

import (
	"context"

	"github.com/xnmeet/evem/internal/domain/entities"
)

// PackageInfo is the registry view of a package.
type PackageInfo struct {
	Name      string
	Versions  []string
	Published bool
}

// PublishRequest describes a single publish invocation.
type PublishRequest struct {
	Package entities.Package
	RootDir string
	Tool    entities.ToolKind
	Access  string
	Tag     string
}

// RegistryRepository talks to the package registry through the package manager CLI.
type RegistryRepository interface {
	// Info returns the published versions; an unpublished package is not an error.
	Info(ctx context.Context, pkg entities.Package) (PackageInfo, error)

	// Publish publishes the package and reports the raw CLI output.
	Publish(ctx context.Context, req PublishRequest) (string, error)
}
