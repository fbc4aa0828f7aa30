package npm

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
)

// Command is a single package-manager invocation.
type Command struct {
	Name string
	Args []string
	Dir  string
	Env  []string
}

// Result is the captured outcome of a Command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// CommandRunner runs package-manager commands. The error is reserved for commands that
// could not be started; a non-zero exit is reported through Result.ExitCode.
type CommandRunner interface {
	Run(ctx context.Context, command Command) (Result, error)
}

// ExecRunner runs commands as child processes.
type ExecRunner struct{}

// NewExecRunner creates an ExecRunner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

func (r *ExecRunner) Run(ctx context.Context, command Command) (Result, error) {
	cmd := exec.CommandContext(ctx, command.Name, command.Args...)
	cmd.Dir = command.Dir
	cmd.Env = append(os.Environ(), command.Env...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := Result{Stdout: stdout.String(), Stderr: stderr.String()}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}
	return result, err
}
