package graph

import (
	"slices"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/xnmeet/evem/internal/domain/entities"
)

// SortByDependencyOrder returns the packages so that every package comes after its
// in-workspace dependencies. Cycles are reported and broken at the edge that closes them.
func SortByDependencyOrder(packages []entities.Package) []entities.Package {
	present := make(map[string]bool, len(packages))
	byName := make(map[string]entities.Package, len(packages))
	for _, pkg := range packages {
		present[pkg.Name] = true
		byName[pkg.Name] = pkg
	}

	edges := make(map[string][]string, len(packages))
	for _, pkg := range packages {
		deps := make([]string, 0)
		for _, kind := range entities.DependencyKinds {
			for _, name := range sortedKeys(pkg.Manifest.Ranges(kind)) {
				if present[name] && !slices.Contains(deps, name) {
					deps = append(deps, name)
				}
			}
		}
		edges[pkg.Name] = deps
	}

	visited := make(map[string]bool, len(packages))
	recStack := make(map[string]bool)
	result := make([]entities.Package, 0, len(packages))

	var visit func(node string, path []string)
	visit = func(node string, path []string) {
		if visited[node] {
			return
		}
		if recStack[node] {
			logger.Warnf("Circular dependency detected: %s", strings.Join(append(path, node), " -> "))
			return
		}
		recStack[node] = true
		for _, dep := range edges[node] {
			visit(dep, append(path, node))
		}
		delete(recStack, node)
		visited[node] = true
		result = append(result, byName[node])
	}

	for _, pkg := range packages {
		visit(pkg.Name, nil)
	}
	return result
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}
