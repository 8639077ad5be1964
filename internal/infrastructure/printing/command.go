package printing

import (
	"bytes"
	"context"
	"os/exec"
	"time"
)

// CommandResult holds the captured output of an external command
type CommandResult struct {
	Stdout []byte
	Stderr []byte
}

// CommandRunner runs an external program to completion. Cancelling ctx
// kills the process.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (*CommandResult, error)
}

// ExecRunner runs commands with os/exec
type ExecRunner struct {
	// WaitDelay bounds how long Run waits for output pipes after the process is killed
	WaitDelay time.Duration
}

// Run executes the command, capturing stdout and stderr. The result is
// returned even when the command fails.
func (r ExecRunner) Run(ctx context.Context, name string, args ...string) (*CommandResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = r.WaitDelay
	if cmd.WaitDelay == 0 {
		cmd.WaitDelay = 2 * time.Second
	}

	err := cmd.Run()
	return &CommandResult{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}, err
}

var _ CommandRunner = ExecRunner{}
