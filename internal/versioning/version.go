package versioning

import (
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
	modsemver "golang.org/x/mod/semver"
)

// Compare orders two versions. It returns -1, 0 or +1.
// Valid semver is compared by precedence; anything else falls back to string order.
func Compare(a, b string) int {
	na, nb := normalizeVersion(a), normalizeVersion(b)
	if modsemver.IsValid(na) && modsemver.IsValid(nb) {
		return modsemver.Compare(na, nb)
	}

	va, errA := semver.NewVersion(a)
	vb, errB := semver.NewVersion(b)
	if errA == nil && errB == nil {
		return va.Compare(vb)
	}
	return strings.Compare(a, b)
}

// IsNewerVersion returns true if candidate has higher precedence than current.
func IsNewerVersion(current, candidate string) bool {
	return Compare(candidate, current) > 0
}

// Highest returns the highest version of the list, or "" for an empty list.
func Highest(versions []string) string {
	highest := ""
	for _, version := range versions {
		if highest == "" || IsNewerVersion(highest, version) {
			highest = version
		}
	}
	return highest
}

// SortDescending sorts versions from newest to oldest in place.
func SortDescending(versions []string) {
	slices.SortStableFunc(versions, func(a, b string) int {
		return Compare(b, a)
	})
}

// IsPrerelease reports whether version carries a prerelease component.
func IsPrerelease(version string) bool {
	v, err := semver.NewVersion(version)
	if err != nil {
		return false
	}
	return v.Prerelease() != ""
}

// IsValid reports whether version parses as semver.
func IsValid(version string) bool {
	_, err := semver.NewVersion(version)
	return err == nil
}

// normalizeVersion ensures version has 'v' prefix for semver compatibility
func normalizeVersion(version string) string {
	version = strings.TrimSpace(version)
	if strings.HasPrefix(version, "v") {
		return version
	}
	return "v" + version
}
