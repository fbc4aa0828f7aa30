package entities

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// ConfigDir is the folder holding the evem configuration and change files.
	ConfigDir = ".evem"
	// ConfigFileName is the configuration file inside ConfigDir.
	ConfigFileName = "config.json"

	defaultBaseBranch    = "main"
	defaultTagSeparator  = "@"
	defaultChangesFolder = ".evem/changes"
)

// Settings is the repository configuration read from .evem/config.json.
type Settings struct {
	Schema                                 string     `yaml:"$schema,omitempty"                                json:"$schema,omitempty"`
	BaseBranch                             string     `yaml:"baseBranch"                                       json:"baseBranch"`
	Access                                 string     `yaml:"access,omitempty"                                 json:"access,omitempty"`
	TagSeparator                           string     `yaml:"tagSeparator,omitempty"                           json:"tagSeparator,omitempty"`
	PublishSync                            bool       `yaml:"publishSync,omitempty"                            json:"publishSync,omitempty"`
	BumpVersionsWithWorkspaceProtocolOnly  bool       `yaml:"bumpVersionsWithWorkspaceProtocolOnly,omitempty"  json:"bumpVersionsWithWorkspaceProtocolOnly,omitempty"`
	OnlyUpdatePeerDependentsWhenOutOfRange bool       `yaml:"onlyUpdatePeerDependentsWhenOutOfRange,omitempty" json:"onlyUpdatePeerDependentsWhenOutOfRange,omitempty"`
	ChangesFolder                          string     `yaml:"changesFolder,omitempty"                          json:"changesFolder,omitempty"`
	Fixed                                  [][]string `yaml:"fixed,omitempty"                                  json:"fixed,omitempty"`
	Include                                []string   `yaml:"include,omitempty"                                json:"include,omitempty"`
	IgnoreDevDependencies                  *bool      `yaml:"ignoreDevDependencies,omitempty"                  json:"ignoreDevDependencies,omitempty"`

	// RootDir is the directory that contains the .evem folder.
	RootDir string `yaml:"-" json:"-"`
}

// DefaultSettings returns the configuration written by "evem init".
func DefaultSettings() *Settings {
	ignoreDev := true
	return &Settings{
		BaseBranch:            defaultBaseBranch,
		Access:                "public",
		TagSeparator:          defaultTagSeparator,
		ChangesFolder:         defaultChangesFolder,
		Fixed:                 [][]string{},
		IgnoreDevDependencies: &ignoreDev,
	}
}

// NewSettings reads and validates the configuration file at path.
func NewSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	var settings Settings
	if unmarshalErr := yaml.Unmarshal(data, &settings); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	absPath, absErr := filepath.Abs(path)
	if absErr != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", absErr)
	}
	settings.RootDir = filepath.Dir(filepath.Dir(absPath))
	settings.applyDefaults()

	if validateErr := validate(&settings); validateErr != nil {
		return nil, validateErr
	}
	return &settings, nil
}

// FindConfigFile walks up from dir looking for .evem/config.json.
func FindConfigFile(dir string) (string, error) {
	current, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q: %w", dir, err)
	}

	for {
		candidate := filepath.Join(current, ConfigDir, ConfigFileName)
		if _, statErr := os.Stat(candidate); statErr == nil {
			return candidate, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", errors.New("could not find .evem/config.json, run \"evem init\" first")
		}
		current = parent
	}
}

// ShouldIgnoreDevDependencies defaults to true when the field is absent.
func (s *Settings) ShouldIgnoreDevDependencies() bool {
	return s.IgnoreDevDependencies == nil || *s.IgnoreDevDependencies
}

// ChangesDir is the absolute path of the change-file folder.
func (s *Settings) ChangesDir() string {
	if filepath.IsAbs(s.ChangesFolder) {
		return s.ChangesFolder
	}
	return filepath.Join(s.RootDir, s.ChangesFolder)
}

// VersionContext builds the planner options from the settings and CLI overrides.
func (s *Settings) VersionContext(preName string, onlyNone, independent bool) VersionContext {
	return VersionContext{
		PreName:                                preName,
		WorkspaceProtocolOnly:                  s.BumpVersionsWithWorkspaceProtocolOnly,
		OnlyUpdatePeerDependentsWhenOutOfRange: s.OnlyUpdatePeerDependentsWhenOutOfRange,
		OnlyNone:                               onlyNone,
		Fixed:                                  s.Fixed,
		Include:                                s.Include,
		Independent:                            independent,
		IgnoreDevDependencies:                  s.ShouldIgnoreDevDependencies(),
	}
}

func (s *Settings) applyDefaults() {
	if s.BaseBranch == "" {
		s.BaseBranch = defaultBaseBranch
	}
	if s.TagSeparator == "" {
		s.TagSeparator = defaultTagSeparator
	}
	if s.ChangesFolder == "" {
		s.ChangesFolder = defaultChangesFolder
	}
}

// validate checks the configuration for semantic errors.
func validate(settings *Settings) error {
	switch settings.Access {
	case "", "public", "restricted":
	default:
		return fmt.Errorf("access must be \"public\" or \"restricted\", got %q", settings.Access)
	}

	for i, group := range settings.Fixed {
		if len(group) == 0 {
			return fmt.Errorf("fixed group %d is empty", i)
		}
	}
	return nil
}
