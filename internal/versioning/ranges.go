package versioning

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

const workspacePrefix = "workspace:"

// IsWorkspaceRange reports whether r uses the workspace protocol.
func IsWorkspaceRange(r string) bool {
	return strings.HasPrefix(r, workspacePrefix)
}

// StripWorkspace removes a leading "workspace:" from r.
func StripWorkspace(r string) string {
	return strings.TrimPrefix(r, workspacePrefix)
}

// WithWorkspace prefixes r with "workspace:".
func WithWorkspace(r string) string {
	return workspacePrefix + r
}

// IsWorkspaceAlias reports the "always latest local" forms: workspace:*, workspace:^ and workspace:~.
func IsWorkspaceAlias(r string) bool {
	if !IsWorkspaceRange(r) {
		return false
	}
	switch StripWorkspace(r) {
	case "*", "^", "~":
		return true
	default:
		return false
	}
}

// IsLocalPathRange reports file: and link: ranges, which never take part in versioning.
func IsLocalPathRange(r string) bool {
	return strings.HasPrefix(r, "file:") || strings.HasPrefix(r, "link:")
}

// HasProtocol reports a protocol range such as "npm:", "git+https:" or "workspace:".
func HasProtocol(r string) bool {
	return strings.Contains(r, ":")
}

// ParseRange parses a semver range; protocol ranges and dist-tags return false.
func ParseRange(r string) (*semver.Constraints, bool) {
	if HasProtocol(r) {
		return nil, false
	}
	trimmed := strings.TrimSpace(r)
	if trimmed == "" {
		trimmed = "*"
	}
	constraints, err := semver.NewConstraint(trimmed)
	if err != nil {
		return nil, false
	}
	return constraints, true
}

// Satisfies reports whether version is inside r. Unparseable input never satisfies.
func Satisfies(version, r string) bool {
	constraints, ok := ParseRange(r)
	if !ok {
		return false
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return false
	}
	return constraints.Check(v)
}

// IsWildcardRange reports ranges that match any version ("", "*", "x", "X").
func IsWildcardRange(r string) bool {
	switch strings.TrimSpace(r) {
	case "", "*", "x", "X":
		return true
	default:
		return false
	}
}

// RangeOperator returns the leading operator of r: "^", "~", ">=", "<=", ">" or "".
func RangeOperator(r string) string {
	switch {
	case strings.HasPrefix(r, "^"):
		return "^"
	case strings.HasPrefix(r, "~"):
		return "~"
	case strings.HasPrefix(r, ">="):
		return ">="
	case strings.HasPrefix(r, "<="):
		return "<="
	case strings.HasPrefix(r, ">"):
		return ">"
	default:
		return ""
	}
}
