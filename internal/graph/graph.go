package graph

import (
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/xnmeet/evem/internal/domain/entities"
	"github.com/xnmeet/evem/internal/versioning"
)

// Graph maps a package name to a list of package names.
type Graph map[string][]string

// Options selects which manifest edges count as in-workspace dependencies.
type Options struct {
	WorkspaceProtocolOnly bool
	IgnoreDevDependencies bool
	// Silent suppresses the mismatch warnings; they are still returned.
	Silent bool
}

// OptionsFrom derives graph options from a version context.
func OptionsFrom(ctx entities.VersionContext) Options {
	return Options{
		WorkspaceProtocolOnly: ctx.WorkspaceProtocolOnly,
		IgnoreDevDependencies: ctx.IgnoreDevDependencies,
	}
}

// DependencyGraph is the dependency graph of a workspace together with its transpose.
type DependencyGraph struct {
	// Dependencies maps a package (root package included) to its in-workspace dependencies.
	Dependencies Graph
	// Dependents maps every workspace package to the packages that depend on it.
	Dependents Graph
	// Valid is false when at least one in-workspace range does not match the local version.
	Valid bool
	// Warnings lists the mismatched ranges.
	Warnings []string
}

// Build computes the dependency and dependents graphs of the workspace.
func Build(packages *entities.Packages, opts Options) *DependencyGraph {
	result := &DependencyGraph{
		Dependencies: Graph{},
		Dependents:   Graph{},
		Valid:        true,
	}

	byName := map[string]*entities.Package{}
	queue := make([]*entities.Package, 0, len(packages.Packages)+1)
	if packages.RootPackage != nil {
		byName[packages.RootPackage.Name] = packages.RootPackage
		queue = append(queue, packages.RootPackage)
	}
	for i := range packages.Packages {
		pkg := &packages.Packages[i]
		byName[pkg.Name] = pkg
		queue = append(queue, pkg)
	}

	for _, pkg := range queue {
		dependencies := make([]string, 0)

		for _, dep := range collectDependencies(&pkg.Manifest, opts) {
			match, ok := byName[dep.name]
			if !ok {
				continue
			}

			expected := match.Version()
			depRange := dep.versionRange
			if versioning.IsWorkspaceRange(depRange) {
				if versioning.IsWorkspaceAlias(depRange) {
					dependencies = append(dependencies, dep.name)
					continue
				}
				depRange = versioning.StripWorkspace(depRange)
			} else if opts.WorkspaceProtocolOnly {
				continue
			}

			constraints, parsed := versioning.ParseRange(depRange)
			if versioning.HasProtocol(depRange) || (parsed && !versioning.Satisfies(expected, depRange)) {
				result.Valid = false
				warning := fmt.Sprintf(
					"Package %q must depend on the current version of %q: %q vs %q",
					pkg.Name, dep.name, expected, depRange,
				)
				result.Warnings = append(result.Warnings, warning)
				if !opts.Silent {
					logger.Warn(warning)
				}
				continue
			}

			// a dist-tag was used on purpose, so the package is not a local consumer
			if constraints == nil {
				continue
			}

			dependencies = append(dependencies, dep.name)
		}

		result.Dependencies[pkg.Name] = dependencies
	}

	for _, pkg := range packages.Packages {
		result.Dependents[pkg.Name] = make([]string, 0)
	}
	for _, pkg := range packages.Packages {
		for _, dependency := range result.Dependencies[pkg.Name] {
			if _, ok := result.Dependents[dependency]; !ok {
				continue
			}
			result.Dependents[dependency] = append(result.Dependents[dependency], pkg.Name)
		}
	}

	return result
}

type declaredDependency struct {
	name         string
	versionRange string
}

// collectDependencies flattens the dependency maps; a later kind overrides an earlier one.
func collectDependencies(manifest *entities.Manifest, opts Options) []declaredDependency {
	index := map[string]int{}
	result := make([]declaredDependency, 0)

	for _, kind := range entities.DependencyKinds {
		ranges := manifest.Ranges(kind)
		for _, name := range sortedKeys(ranges) {
			depRange := ranges[name]
			if versioning.IsLocalPathRange(depRange) {
				continue
			}
			if kind == entities.DevDependencies && opts.IgnoreDevDependencies {
				continue
			}
			if i, seen := index[name]; seen {
				result[i].versionRange = depRange
				continue
			}
			index[name] = len(result)
			result = append(result, declaredDependency{name: name, versionRange: depRange})
		}
	}
	return result
}

// Contains reports whether name is listed under key.
func (g Graph) Contains(key, name string) bool {
	for _, candidate := range g[key] {
		if candidate == name {
			return true
		}
	}
	return false
}

// Reachable returns every node reachable from starts through at least one edge, in
// breadth-first order, without duplicates and without the starts themselves.
func (g Graph) Reachable(starts []string) []string {
	visited := make(map[string]bool, len(starts))
	for _, start := range starts {
		visited[start] = true
	}

	result := make([]string, 0)
	queue := append([]string(nil), starts...)
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, next := range g[current] {
			if visited[next] {
				continue
			}
			visited[next] = true
			result = append(result, next)
			queue = append(queue, next)
		}
	}
	return result
}
