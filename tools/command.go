package tools

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// CmdOutput is the result of a shell command.
type CmdOutput struct {
	// Success is true when the command exited with status 0.
	Success bool
	Stdout  string
	Stderr  string
}

// RunCmd runs a shell command via `sh -c`.
func RunCmd(command string) (*CmdOutput, error) {
	return runShell("", command)
}

// RunCmdInDir runs a shell command via `sh -c` in the given directory.
func RunCmdInDir(dir, command string) (*CmdOutput, error) {
	return runShell(dir, command)
}

func runShell(dir, command string) (*CmdOutput, error) {
	cmd := exec.Command("sh", "-c", command)
	cmd.Dir = dir

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := &CmdOutput{
		Success: err == nil,
		Stdout:  stdout.String(),
		Stderr:  stderr.String(),
	}
	if err != nil {
		// Nonzero exit is a result, not an error; anything else
		// (missing dir, unrunnable shell) is.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return out, nil
		}
		return nil, fmt.Errorf("run %q: %w", command, err)
	}
	return out, nil
}
