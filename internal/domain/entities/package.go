package entities

import "maps"

// DependencyKind names one of the manifest dependency maps.
type DependencyKind string

const (
	Dependencies         DependencyKind = "dependencies"
	DevDependencies      DependencyKind = "devDependencies"
	PeerDependencies     DependencyKind = "peerDependencies"
	OptionalDependencies DependencyKind = "optionalDependencies"
)

// DependencyKinds lists the dependency maps in the order they are inspected.
var DependencyKinds = []DependencyKind{ //nolint:gochecknoglobals // fixed lookup order
	Dependencies,
	DevDependencies,
	PeerDependencies,
	OptionalDependencies,
}

// PublishConfig mirrors the "publishConfig" block of a package manifest.
type PublishConfig struct {
	Registry  string `json:"registry,omitempty"`
	Access    string `json:"access,omitempty"`
	Directory string `json:"directory,omitempty"`
}

// Manifest holds the package.json fields evem reads and rewrites.
type Manifest struct {
	Name                 string            `json:"name"`
	Version              string            `json:"version"`
	Private              bool              `json:"private,omitempty"`
	PublishConfig        *PublishConfig    `json:"publishConfig,omitempty"`
	Dependencies         map[string]string `json:"dependencies,omitempty"`
	DevDependencies      map[string]string `json:"devDependencies,omitempty"`
	PeerDependencies     map[string]string `json:"peerDependencies,omitempty"`
	OptionalDependencies map[string]string `json:"optionalDependencies,omitempty"`
}

// Ranges returns the dependency map for the given kind (nil when absent).
func (m *Manifest) Ranges(kind DependencyKind) map[string]string {
	switch kind {
	case Dependencies:
		return m.Dependencies
	case DevDependencies:
		return m.DevDependencies
	case PeerDependencies:
		return m.PeerDependencies
	case OptionalDependencies:
		return m.OptionalDependencies
	default:
		return nil
	}
}

// SetRange replaces the declared range of a dependency that already exists in the given map.
func (m *Manifest) SetRange(kind DependencyKind, name, versionRange string) {
	ranges := m.Ranges(kind)
	if ranges == nil {
		return
	}
	ranges[name] = versionRange
}

// Clone returns a deep copy so derived manifests never alias the loaded one.
func (m *Manifest) Clone() Manifest {
	clone := *m
	if m.PublishConfig != nil {
		pc := *m.PublishConfig
		clone.PublishConfig = &pc
	}
	clone.Dependencies = maps.Clone(m.Dependencies)
	clone.DevDependencies = maps.Clone(m.DevDependencies)
	clone.PeerDependencies = maps.Clone(m.PeerDependencies)
	clone.OptionalDependencies = maps.Clone(m.OptionalDependencies)
	return clone
}

// Package is a single workspace package.
type Package struct {
	Name        string
	Dir         string
	RelativeDir string
	Manifest    Manifest
}

// Version is the version currently declared in the manifest.
func (p *Package) Version() string {
	return p.Manifest.Version
}

// ToolKind identifies the workspace tool that owns the repository layout.
type ToolKind string

const (
	ToolPnpm  ToolKind = "pnpm"
	ToolYarn  ToolKind = "yarn"
	ToolNpm   ToolKind = "npm"
	ToolLerna ToolKind = "lerna"
	ToolRush  ToolKind = "rush"
	ToolRoot  ToolKind = "root"
)

// Packages is the full workspace as handed to the release planner.
type Packages struct {
	Tool        ToolKind
	RootDir     string
	Packages    []Package
	RootPackage *Package
}

// ByName indexes the workspace packages (the root package is not included).
func (p *Packages) ByName() map[string]*Package {
	index := make(map[string]*Package, len(p.Packages))
	for i := range p.Packages {
		index[p.Packages[i].Name] = &p.Packages[i]
	}
	return index
}

// Names returns the package names in workspace order.
func (p *Packages) Names() []string {
	names := make([]string, 0, len(p.Packages))
	for _, pkg := range p.Packages {
		names = append(names, pkg.Name)
	}
	return names
}
