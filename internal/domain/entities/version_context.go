package entities

import "strings"

// VersionContext holds the run-scoped options that steer release planning.
type VersionContext struct {
	// PreName is the prerelease label; a label with a dot is used verbatim as the suffix.
	PreName string
	// WorkspaceProtocolOnly limits dependency tracking to "workspace:" ranges.
	WorkspaceProtocolOnly bool
	// OnlyUpdatePeerDependentsWhenOutOfRange gates the peer-major rule on range satisfaction.
	OnlyUpdatePeerDependentsWhenOutOfRange bool
	// OnlyNone inverts declared severities for prerelease runs (none becomes patch, the rest none).
	OnlyNone bool
	// Fixed lists glob rule sets whose members always share one version.
	Fixed [][]string
	// Include filters packages by relative directory glob.
	Include []string
	// Independent disables the dependents closure in target mode.
	Independent bool
	// IgnoreDevDependencies drops dev-only edges from propagation.
	IgnoreDevDependencies bool
}

// IsPrerelease reports whether this run produces prerelease versions.
func (c *VersionContext) IsPrerelease() bool {
	return strings.TrimSpace(c.PreName) != ""
}

// IsOnlyNone reports whether the severity inversion applies (requires a prerelease label).
func (c *VersionContext) IsOnlyNone() bool {
	return c.OnlyNone && c.IsPrerelease()
}
