package entities

// ReleasePlan is one entry of the release plan, keyed by package name.
type ReleasePlan struct {
	Name       string       `json:"name"`
	Bump       BumpType     `json:"type"`
	Cause      Cause        `json:"cause"`
	OldVersion string       `json:"oldVersion"`
	NewVersion string       `json:"newVersion"`
	Changes    []ChangeInfo `json:"changes,omitempty"`
	Order      int          `json:"order"`
}

// Clone returns a copy whose change log can be appended to independently.
func (r *ReleasePlan) Clone() *ReleasePlan {
	clone := *r
	clone.Changes = append([]ChangeInfo(nil), r.Changes...)
	return &clone
}

// ManifestUpdate is a rewritten manifest that must be written back to disk.
type ManifestUpdate struct {
	PackageName string
	Dir         string
	Manifest    Manifest
}
