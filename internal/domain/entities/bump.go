package entities

import "fmt"

// BumpType is the severity requested for a package release.
type BumpType string

const (
	BumpNone  BumpType = "none"
	BumpPatch BumpType = "patch"
	BumpMinor BumpType = "minor"
	BumpMajor BumpType = "major"
)

// Level returns the ordinal of the bump: none=0 < patch=1 < minor=2 < major=3.
func (b BumpType) Level() int {
	switch b {
	case BumpPatch:
		return 1
	case BumpMinor:
		return 2 //nolint:mnd // ordinal scale
	case BumpMajor:
		return 3 //nolint:mnd // ordinal scale
	default:
		return 0
	}
}

// IsValid reports whether b is one of the four known severities.
func (b BumpType) IsValid() bool {
	switch b {
	case BumpNone, BumpPatch, BumpMinor, BumpMajor:
		return true
	default:
		return false
	}
}

// ParseBumpType converts a raw string into a BumpType.
func ParseBumpType(raw string) (BumpType, error) {
	b := BumpType(raw)
	if !b.IsValid() {
		return BumpNone, fmt.Errorf("unknown bump type %q (expected major, minor, patch or none)", raw)
	}
	return b, nil
}

// MaxBump returns the higher of two severities.
func MaxBump(a, b BumpType) BumpType {
	if b.Level() > a.Level() {
		return b
	}
	return a
}

// Cause records why a release plan entry carries its current severity.
type Cause int

const (
	CauseDeclared Cause = iota
	CauseDependency
	CauseFixedGroup
)

func (c Cause) String() string {
	switch c {
	case CauseDependency:
		return "dependency"
	case CauseFixedGroup:
		return "fixed-group"
	default:
		return "declared"
	}
}

// Induced is true for entries created or raised by propagation or group unification.
func (c Cause) Induced() bool {
	return c == CauseDependency || c == CauseFixedGroup
}

// MarshalText renders the cause in JSON plan listings.
func (c Cause) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// ChangeKind is the changelog bucket of a single comment.
type ChangeKind string

const (
	KindNone       ChangeKind = "none"
	KindDependency ChangeKind = "dependency"
	KindPatch      ChangeKind = "patch"
	KindMinor      ChangeKind = "minor"
	KindMajor      ChangeKind = "major"
)

// KindOf maps a declared bump to its changelog bucket.
func KindOf(b BumpType) ChangeKind {
	switch b {
	case BumpPatch:
		return KindPatch
	case BumpMinor:
		return KindMinor
	case BumpMajor:
		return KindMajor
	default:
		return KindNone
	}
}
