// Package command runs external programs and captures their output.
package command

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"strings"
)

// Result holds the captured output of a finished process.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Success reports whether the process exited with status 0.
func (r *Result) Success() bool {
	return r != nil && r.ExitCode == 0
}

// Runner executes external commands.
// Run returns nil when the program could not be started at all; a non-zero
// exit status is still a Result.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) *Result
}

// ExecRunner executes real system commands.
type ExecRunner struct {
	logger *slog.Logger
}

// NewExecRunner creates a runner backed by os/exec.
func NewExecRunner(logger *slog.Logger) *ExecRunner {
	return &ExecRunner{logger: logger}
}

// Run executes name with args and waits for it to finish.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) *Result {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if r.logger != nil {
		r.logger.Debug("running command", "command", name, "args", args)
	}

	err := cmd.Run()
	exitCode := extractExitCode(err)
	if err != nil && exitCode < 0 {
		if r.logger != nil {
			r.logger.Error("failed to run command",
				"command", name,
				"args", args,
				"error", err)
		}
		return nil
	}

	return &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}
}

// extractExitCode returns 0 for a nil error, the exit status for an
// *exec.ExitError and -1 for anything else.
func extractExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// Privileged prefixes every command with an elevation program such as sudo.
type Privileged struct {
	next    Runner
	program string
	args    []string
}

// WithPrivilege wraps next so that commands run through program.
// An empty program returns next unchanged, which is what a root user wants.
func WithPrivilege(next Runner, program string, args ...string) Runner {
	if strings.TrimSpace(program) == "" {
		return next
	}
	return &Privileged{next: next, program: program, args: args}
}

// Run executes the command through the elevation program.
func (p *Privileged) Run(ctx context.Context, name string, args ...string) *Result {
	full := make([]string, 0, len(p.args)+len(args)+1)
	full = append(full, p.args...)
	full = append(full, name)
	full = append(full, args...)
	return p.next.Run(ctx, p.program, full...)
}
