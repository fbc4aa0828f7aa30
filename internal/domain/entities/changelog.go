package entities

import (
	"strings"
	"time"
)

const (
	// ChangelogDateLayout matches the UTC date format stored in CHANGELOG.json.
	ChangelogDateLayout = "Mon, 02 Jan 2006 15:04:05 GMT"

	h1Prefix     = "# "
	h2Prefix     = "## "
	h3Prefix     = "### "
	bulletPrefix = "- "
)

// ChangelogComment is one bullet of a changelog entry.
type ChangelogComment struct {
	Comment      string         `json:"comment"`
	Author       string         `json:"author,omitempty"`
	Commit       string         `json:"commit,omitempty"`
	CustomFields map[string]any `json:"customFields,omitempty"`
}

// ChangelogEntry is a released version inside CHANGELOG.json.
type ChangelogEntry struct {
	Version  string                            `json:"version"`
	Tag      string                            `json:"tag"`
	Date     string                            `json:"date,omitempty"`
	Comments map[ChangeKind][]ChangelogComment `json:"comments"`
}

// Changelog is the content of CHANGELOG.json.
type Changelog struct {
	Name    string           `json:"name"`
	Entries []ChangelogEntry `json:"entries"`
}

// TagName builds the "name@version" tag stored on every changelog entry.
func TagName(name, version string) string {
	return name + "@" + version
}

// HasVersion reports whether an entry for version already exists.
func (c *Changelog) HasVersion(version string) bool {
	for _, entry := range c.Entries {
		if entry.Version == version {
			return true
		}
	}
	return false
}

// Prepend adds entry as the newest version.
func (c *Changelog) Prepend(entry ChangelogEntry) {
	c.Entries = append([]ChangelogEntry{entry}, c.Entries...)
}

// NewChangelogEntry groups the release comments by changelog bucket.
func NewChangelogEntry(release *ReleasePlan, now time.Time) ChangelogEntry {
	entry := ChangelogEntry{
		Version:  release.NewVersion,
		Tag:      TagName(release.Name, release.NewVersion),
		Date:     now.UTC().Format(ChangelogDateLayout),
		Comments: map[ChangeKind][]ChangelogComment{},
	}

	for _, change := range release.Changes {
		if change.Comment == "" {
			continue
		}
		bucket := change.Bucket()
		entry.Comments[bucket] = append(entry.Comments[bucket], ChangelogComment{
			Comment:      change.Comment,
			Author:       change.Author,
			Commit:       change.Commit,
			CustomFields: change.CustomFields,
		})
	}
	return entry
}

// RenderChangelogMarkdown renders the whole CHANGELOG.md from the JSON changelog.
func RenderChangelogMarkdown(changelog *Changelog, generatedAt time.Time) string {
	var sb strings.Builder

	sb.WriteString(h1Prefix + changelog.Name + "\n\n")
	sb.WriteString("This log was last generated on " + generatedAt.UTC().Format(ChangelogDateLayout) +
		" and should not be manually modified.\n\n")

	for i, entry := range changelog.Entries {
		sb.WriteString(h2Prefix + entry.Version + "\n")
		if entry.Date != "" {
			sb.WriteString(entry.Date + "\n")
		}
		sb.WriteString("\n")

		updates := append(append([]ChangelogComment{}, entry.Comments[KindNone]...), entry.Comments[KindDependency]...)
		sections := renderSection("Breaking changes", entry.Comments[KindMajor]) +
			renderSection("Minor changes", entry.Comments[KindMinor]) +
			renderSection("Patches", entry.Comments[KindPatch]) +
			renderSection("Updates", updates)

		if sections != "" {
			sb.WriteString(sections)
			continue
		}
		if i == len(changelog.Entries)-1 {
			sb.WriteString("Initial release\n\n")
		} else {
			sb.WriteString("Version update only\n\n")
		}
	}
	return sb.String()
}

// renderSection returns an empty string when there is nothing to list.
func renderSection(title string, comments []ChangelogComment) string {
	if len(comments) == 0 {
		return ""
	}

	lines := make([]string, 0, len(comments)+3) //nolint:mnd // heading, blank line and trailer
	lines = append(lines, h3Prefix+title, "")
	for _, comment := range comments {
		lines = append(lines, bulletPrefix+comment.Comment)
	}
	return strings.Join(lines, "\n") + "\n\n"
}
