//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/xnmeet/evem/internal/domain/commands"
	"github.com/xnmeet/evem/internal/domain/entities"
)

// StubChangeCommand is a stub implementation of commands.Change.
type StubChangeCommand struct {
	ExecuteCallCount int
	ExecuteErr       error
	LastSettings     *entities.Settings
	LastOpts         commands.ChangeOptions
}

var _ commands.Change = (*StubChangeCommand)(nil)

func (s *StubChangeCommand) Execute(
	_ context.Context,
	settings *entities.Settings,
	opts commands.ChangeOptions,
) (*commands.ChangeResult, error) {
	s.ExecuteCallCount++
	s.LastSettings = settings
	s.LastOpts = opts
	if s.ExecuteErr != nil {
		return nil, s.ExecuteErr
	}
	return &commands.ChangeResult{Packages: opts.Targets}, nil
}
