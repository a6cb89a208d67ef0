// Package installer makes sure the external tools usbscan drives are present,
// installing them through apt when they are missing.
package installer

import (
	"context"
	"log/slog"
	"strings"

	"github.com/clean-dependency-project/usbscan/internal/command"
	"github.com/clean-dependency-project/usbscan/internal/console"
)

// Dependency is a command and the packages that provide it.
type Dependency struct {
	Command  string
	Packages []string
}

// Installer probes for commands and installs missing packages.
type Installer struct {
	runner     command.Runner // unprivileged, used for probing
	privileged command.Runner // used for apt
	printer    *console.Printer
	logger     *slog.Logger
}

// New creates an installer. runner probes for commands; privileged runs the
// package manager.
func New(runner, privileged command.Runner, printer *console.Printer, logger *slog.Logger) *Installer {
	return &Installer{
		runner:     runner,
		privileged: privileged,
		printer:    printer,
		logger:     logger,
	}
}

// Ensure reports whether dep.Command is available, installing dep.Packages
// first if it is not. Package failures are reported and skipped.
func (i *Installer) Ensure(ctx context.Context, dep Dependency) bool {
	if i.isAvailable(ctx, dep.Command) {
		i.printer.Messagef("%s is already installed and available.", dep.Command)
		return true
	}

	i.printer.Messagef("%s is not installed. Installing required packages...", dep.Command)
	if res := i.privileged.Run(ctx, "apt-get", "update"); !res.Success() {
		i.warn("package index refresh failed", "command", dep.Command, "stderr", stderrOf(res))
	}

	for _, pkg := range dep.Packages {
		i.printer.Messagef("Installing %s...", pkg)
		res := i.privileged.Run(ctx, "env", "DEBIAN_FRONTEND=noninteractive",
			"apt-get", "install", "-y", pkg)
		if !res.Success() {
			i.printer.Errorf("Failed to install %s. Error output:\n%s", pkg, stderrOf(res))
			i.warn("package install failed", "package", pkg)
			continue
		}
		i.printer.Messagef("%s installed successfully.", pkg)
	}

	if i.isAvailable(ctx, dep.Command) {
		i.printer.Messagef("%s installed successfully.", dep.Command)
		return true
	}
	i.printer.Errorf("Failed to install %s. Please check manually.", dep.Command)
	return false
}

// EnsureAll runs Ensure for each dependency and returns the names of the
// commands that are still missing.
func (i *Installer) EnsureAll(ctx context.Context, deps []Dependency) []string {
	var missing []string
	for _, dep := range deps {
		if !i.Ensure(ctx, dep) {
			missing = append(missing, dep.Command)
		}
	}
	return missing
}

func (i *Installer) isAvailable(ctx context.Context, name string) bool {
	res := i.runner.Run(ctx, "which", name)
	return res != nil && strings.TrimSpace(res.Stdout) != ""
}

func (i *Installer) warn(msg string, args ...any) {
	if i.logger != nil {
		i.logger.Warn(msg, args...)
	}
}

func stderrOf(res *command.Result) string {
	if res == nil {
		return "command could not be executed"
	}
	return strings.TrimSpace(res.Stderr)
}
