package scheduler

import "github.com/xnmeet/evem/internal/domain/entities"

// State is the release plan under construction. Entries keep their insertion order so
// that every pass over the plan is deterministic.
type State struct {
	releases map[string]*entities.ReleasePlan
	names    []string
}

// NewState creates an empty plan.
func NewState() *State {
	return &State{releases: map[string]*entities.ReleasePlan{}}
}

// Get returns the entry of name, or nil.
func (s *State) Get(name string) *entities.ReleasePlan {
	return s.releases[name]
}

// Set adds or replaces the entry of release.Name.
func (s *State) Set(release *entities.ReleasePlan) {
	if _, ok := s.releases[release.Name]; !ok {
		s.names = append(s.names, release.Name)
	}
	s.releases[release.Name] = release
}

// Names returns the entry names in insertion order.
func (s *State) Names() []string {
	return append([]string(nil), s.names...)
}

// Len is the number of entries.
func (s *State) Len() int {
	return len(s.names)
}

// Clone deep-copies the plan so a transition never aliases its input.
func (s *State) Clone() *State {
	clone := &State{
		releases: make(map[string]*entities.ReleasePlan, len(s.releases)),
		names:    append([]string(nil), s.names...),
	}
	for name, release := range s.releases {
		clone.releases[name] = release.Clone()
	}
	return clone
}

// Retain drops every entry whose name is not accepted by keep.
func (s *State) Retain(keep func(name string) bool) {
	names := s.names[:0]
	for _, name := range s.names {
		if keep(name) {
			names = append(names, name)
			continue
		}
		delete(s.releases, name)
	}
	s.names = names
}

// Baseline is the severity and version of each entry as aggregated from change files.
type Baseline map[string]BaselineEntry

// BaselineEntry is one record of a Baseline.
type BaselineEntry struct {
	Bump    entities.BumpType
	Version string
}

// Snapshot records the current severity and baseline version of every entry.
func (s *State) Snapshot() Baseline {
	baseline := make(Baseline, len(s.names))
	for _, name := range s.names {
		release := s.releases[name]
		baseline[name] = BaselineEntry{Bump: release.Bump, Version: release.OldVersion}
	}
	return baseline
}
