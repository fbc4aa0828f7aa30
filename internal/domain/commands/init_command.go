package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	logger "github.com/sirupsen/logrus"

	"github.com/xnmeet/evem/internal/domain/entities"
)

const (
	configDirMode  = 0o755
	configFileMode = 0o644
	gitkeepName    = ".gitkeep"
)

// Init is the interface for the init command.
type Init interface {
	Execute(ctx context.Context, opts InitOptions) (*InitResult, error)
}

// InitOptions holds the answers used to seed the configuration.
type InitOptions struct {
	RootDir       string
	BaseBranch    string
	ChangesFolder string
}

// InitResult reports what init did.
type InitResult struct {
	ConfigPath string
	// Created is false when a configuration already existed.
	Created bool
}

// InitCommand writes .evem/config.json with the default settings.
type InitCommand struct{}

// NewInitCommand creates a new InitCommand.
func NewInitCommand() *InitCommand {
	return &InitCommand{}
}

// Execute creates the configuration and the changes folder. An existing configuration is
// left untouched.
func (it *InitCommand) Execute(_ context.Context, opts InitOptions) (*InitResult, error) {
	rootDir, err := filepath.Abs(opts.RootDir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	configPath := filepath.Join(rootDir, entities.ConfigDir, entities.ConfigFileName)
	result := &InitResult{ConfigPath: configPath}

	if _, statErr := os.Stat(configPath); statErr == nil {
		logger.Infof("Evem configuration already exists at %s", configPath)
		return result, nil
	} else if !errors.Is(statErr, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to check %s: %w", configPath, statErr)
	}

	settings := entities.DefaultSettings()
	if opts.BaseBranch != "" {
		settings.BaseBranch = opts.BaseBranch
	}
	if opts.ChangesFolder != "" {
		settings.ChangesFolder = opts.ChangesFolder
	}

	content, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode the configuration: %w", err)
	}
	if err = os.MkdirAll(filepath.Dir(configPath), configDirMode); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", filepath.Dir(configPath), err)
	}
	if err = os.WriteFile(configPath, append(content, '\n'), configFileMode); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", configPath, err)
	}

	settings.RootDir = rootDir
	changesDir := settings.ChangesDir()
	if err = os.MkdirAll(changesDir, configDirMode); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", changesDir, err)
	}
	if err = os.WriteFile(filepath.Join(changesDir, gitkeepName), nil, configFileMode); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", changesDir, err)
	}

	result.Created = true
	logger.Infof("Evem initialized at %s", configPath)
	return result, nil
}
