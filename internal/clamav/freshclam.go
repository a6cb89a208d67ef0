package clamav

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/cenkalti/backoff"

	"github.com/clean-dependency-project/usbscan/internal/command"
	"github.com/clean-dependency-project/usbscan/internal/console"
)

// mirrorDirective is the freshclam.conf key selecting the update mirror.
const mirrorDirective = "DatabaseMirror"

var errTransientFailure = errors.New("freshclam log file is locked")

// UpdaterConfig holds the paths and mirror used by Updater.
type UpdaterConfig struct {
	ConfigPath string
	LogPath    string
	Mirror     string
}

// Updater refreshes the signature database with freshclam.
type Updater struct {
	runner   command.Runner
	cfg      UpdaterConfig
	contract OutputContract
	printer  *console.Printer
	logger   *slog.Logger
}

// NewUpdater creates an updater. runner should already carry privilege
// escalation.
func NewUpdater(runner command.Runner, cfg UpdaterConfig, printer *console.Printer, logger *slog.Logger) *Updater {
	return &Updater{
		runner:   runner,
		cfg:      cfg,
		contract: DefaultContract,
		printer:  printer,
		logger:   logger,
	}
}

// Update pins the mirror, runs freshclam and reports whether the database was
// refreshed. A stale log lock triggers exactly one retry after the log file
// is removed.
func (u *Updater) Update(ctx context.Context) bool {
	u.printer.Messagef("Setting the ClamAV mirror to the default (%s)...", u.cfg.Mirror)
	if _, err := SetMirror(u.cfg.ConfigPath, u.cfg.Mirror); err != nil {
		// freshclam still works with whatever mirror is configured.
		u.printer.Errorf("Could not update %s: %v", u.cfg.ConfigPath, err)
		u.warn("failed to set mirror", "config", u.cfg.ConfigPath, "error", err)
	}

	u.printer.Message("Updating ClamAV database with freshclam...")

	var last *command.Result
	attempt := func() error {
		last = u.runner.Run(ctx, "freshclam")
		if last != nil && u.contract.IsTransientFailure(last.Stderr) {
			return errTransientFailure
		}
		return nil
	}
	clearLock := func(err error, _ time.Duration) {
		u.printer.Error("Log file is locked or unavailable. Attempting to resolve...")
		u.warn("freshclam transient failure", "error", err, "stderr", strings.TrimSpace(last.Stderr))
		u.runner.Run(ctx, "rm", "-f", u.cfg.LogPath)
		u.printer.Message("Log file removed. Retrying freshclam update...")
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(&backoff.ZeroBackOff{}, 1), ctx)
	retryErr := backoff.RetryNotify(attempt, policy, clearLock)

	switch {
	case last == nil:
		u.printer.Error("freshclam could not be executed.")
		return false
	case last.ExitCode == 0:
		u.printer.Message("ClamAV database successfully updated.")
		return true
	case retryErr != nil:
		u.printer.Errorf("freshclam failed again with message:\n%s", strings.TrimSpace(last.Stderr))
		return false
	default:
		u.printer.Errorf("freshclam failed with message:\n%s", strings.TrimSpace(last.Stderr))
		return false
	}
}

func (u *Updater) warn(msg string, args ...any) {
	if u.logger != nil {
		u.logger.Warn(msg, args...)
	}
}

// SetMirror rewrites the DatabaseMirror lines of a freshclam config in place.
// It reports whether the file content changed.
func SetMirror(path, mirror string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	updated := rewriteMirror(string(data), mirror)
	if updated == string(data) {
		return false, nil
	}
	if err := os.WriteFile(path, []byte(updated), info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return true, nil
}

// rewriteMirror replaces the first DatabaseMirror directive with mirror and
// drops any further ones. Every other line is kept byte for byte.
func rewriteMirror(content, mirror string) string {
	var b strings.Builder
	replaced := false
	for _, line := range strings.SplitAfter(content, "\n") {
		if line == "" {
			continue
		}
		if !isMirrorLine(line) {
			b.WriteString(line)
			continue
		}
		if replaced {
			continue
		}
		replaced = true
		b.WriteString(mirrorDirective + " " + mirror + "\n")
	}
	return b.String()
}

func isMirrorLine(line string) bool {
	fields := strings.Fields(line)
	return len(fields) > 0 && fields[0] == mirrorDirective
}
