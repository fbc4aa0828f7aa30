package entities

import (
	"errors"
	"fmt"
	"strings"
)

// ChangeInfo is a single comment inside a change file, or a note added by the planner.
type ChangeInfo struct {
	PackageName  string         `json:"packageName"`
	Type         BumpType       `json:"type"`
	Comment      string         `json:"comment"`
	Author       string         `json:"author,omitempty"`
	Commit       string         `json:"commit,omitempty"`
	CustomFields map[string]any `json:"customFields,omitempty"`
	// Kind is the changelog bucket; it is derived from Type for declared changes.
	Kind ChangeKind `json:"-"`
}

// Bucket returns the changelog bucket of the comment.
func (c *ChangeInfo) Bucket() ChangeKind {
	if c.Kind != "" {
		return c.Kind
	}
	return KindOf(c.Type)
}

// ChangeFile is one authored change session stored under the changes folder.
type ChangeFile struct {
	PackageName string       `json:"packageName"`
	Changes     []ChangeInfo `json:"changes"`
	Email       string       `json:"email,omitempty"`
	// Path is where the file was loaded from; it is never serialized.
	Path string `json:"-"`
}

// ErrInvalidChangeFile is wrapped by every change-file validation failure.
var ErrInvalidChangeFile = errors.New("invalid change file")

// Validate checks the structural rules a change file must satisfy.
func (f *ChangeFile) Validate() error {
	if strings.TrimSpace(f.PackageName) == "" {
		return fmt.Errorf("%w %q: missing packageName", ErrInvalidChangeFile, f.Path)
	}
	if f.Changes == nil {
		return fmt.Errorf("%w %q: missing changes", ErrInvalidChangeFile, f.Path)
	}
	for i, change := range f.Changes {
		if !change.Type.IsValid() {
			return fmt.Errorf("%w %q: change %d has unknown type %q", ErrInvalidChangeFile, f.Path, i, change.Type)
		}
		if strings.TrimSpace(change.Comment) == "" {
			return fmt.Errorf("%w %q: change %d has an empty comment", ErrInvalidChangeFile, f.Path, i)
		}
	}
	return nil
}

// ReferencedPackages returns every package name the file mentions, top-level name first.
func (f *ChangeFile) ReferencedPackages() []string {
	seen := map[string]bool{f.PackageName: true}
	names := []string{f.PackageName}
	for _, change := range f.Changes {
		if change.PackageName == "" || seen[change.PackageName] {
			continue
		}
		seen[change.PackageName] = true
		names = append(names, change.PackageName)
	}
	return names
}
