// Package clamav drives the ClamAV command-line tools: clamscan for scanning
// the mounted device and freshclam for refreshing signatures.
package clamav

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/clean-dependency-project/usbscan/internal/command"
	"github.com/clean-dependency-project/usbscan/internal/console"
)

// Sentinel errors
var (
	ErrScannerUnavailable   = errors.New("clamscan could not be executed")
	ErrUnknownEngineVersion = errors.New("could not determine ClamAV engine version")
)

// Scanner runs clamscan against a mounted directory.
type Scanner struct {
	runner   command.Runner
	path     string
	contract OutputContract
	printer  *console.Printer
	logger   *slog.Logger
}

// NewScanner creates a scanner for path. runner should already carry any
// privilege escalation.
func NewScanner(runner command.Runner, path string, printer *console.Printer, logger *slog.Logger) *Scanner {
	return &Scanner{
		runner:   runner,
		path:     path,
		contract: DefaultContract,
		printer:  printer,
		logger:   logger,
	}
}

// Scan recursively scans the mount path and prints the filtered output.
// With removeInfected, clamscan deletes what it detects.
func (s *Scanner) Scan(ctx context.Context, removeInfected bool) (Summary, error) {
	res := s.runner.Run(ctx, "clamscan", buildScanArgs(s.path, removeInfected)...)
	if res == nil {
		return Summary{}, ErrScannerUnavailable
	}

	summary := ParseScanOutput(res.Stdout, s.contract)
	summary.ExitCode = res.ExitCode
	if res.ExitCode >= 2 {
		// Partial failures (unreadable files) still produce a usable summary.
		s.printer.Errorf("clamscan exited with status %d:\n%s", res.ExitCode, strings.TrimSpace(res.Stderr))
		if s.logger != nil {
			s.logger.Warn("clamscan reported errors", "exit_code", res.ExitCode, "path", s.path)
		}
	}

	s.report(summary)
	return summary, nil
}

// buildScanArgs constructs arguments for clamscan.
func buildScanArgs(path string, removeInfected bool) []string {
	args := []string{"-r", path}
	if removeInfected {
		args = append(args, "--remove=yes")
	}
	return args
}

func (s *Scanner) report(summary Summary) {
	for _, line := range summary.Lines {
		switch line.Kind {
		case LineRemoved:
			s.printer.Messagef("Removed: %s", line.Text)
		default:
			s.printer.Message(line.Text)
		}
	}

	if len(summary.Removed) > 0 {
		s.printer.Messagef("Total files removed: %d", len(summary.Removed))
		s.printer.Messagef("Files removed: %s", strings.Join(summary.Removed, ", "))
		return
	}
	s.printer.Message("No infected files were removed.")
}

// EngineInfo asks clamscan for its version and signature database date.
func (s *Scanner) EngineInfo(ctx context.Context) (EngineInfo, error) {
	res := s.runner.Run(ctx, "clamscan", "--version")
	if res == nil {
		return EngineInfo{}, ErrScannerUnavailable
	}
	if !res.Success() {
		return EngineInfo{}, fmt.Errorf("clamscan --version exited with status %d: %w", res.ExitCode, ErrUnknownEngineVersion)
	}
	return ParseEngineInfo(res.Stdout)
}

// CheckEngine reports the engine version and warns when it is older than
// minVersion. An empty minVersion only reports.
func (s *Scanner) CheckEngine(ctx context.Context, minVersion string) bool {
	info, err := s.EngineInfo(ctx)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("failed to get ClamAV version", "error", err)
		}
		return false
	}
	s.printer.Messagef("ClamAV engine %s, signatures from %s", info.EngineVersion, info.DatabaseDate)

	if minVersion == "" {
		return true
	}
	constraint, err := semver.NewConstraint(">= " + minVersion)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("invalid minimum engine version", "min_engine_version", minVersion, "error", err)
		}
		return true
	}
	if !constraint.Check(info.EngineVersion) {
		s.printer.Errorf("ClamAV %s is older than the supported minimum %s. Please upgrade.", info.EngineVersion, minVersion)
		return false
	}
	return true
}
