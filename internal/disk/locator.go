// Package disk finds the removable disk to scan and mounts it.
package disk

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/clean-dependency-project/usbscan/internal/command"
	"github.com/clean-dependency-project/usbscan/internal/console"
)

// Sentinel errors
var (
	ErrHardwareInfoUnavailable = errors.New("hwinfo could not be executed")
	ErrNoRemovableDisk         = errors.New("no suitable disk found")
)

// Locator picks the removable disk from hwinfo's short report.
type Locator struct {
	runner  command.Runner
	primary string
	pattern *regexp.Regexp
	printer *console.Printer
	logger  *slog.Logger
}

// NewLocator creates a locator. primary is the system disk that is never
// returned; pattern matches candidate device paths.
func NewLocator(runner command.Runner, primary, pattern string, printer *console.Printer, logger *slog.Logger) (*Locator, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid device pattern %q: %w", pattern, err)
	}
	return &Locator{
		runner:  runner,
		primary: primary,
		pattern: re,
		printer: printer,
		logger:  logger,
	}, nil
}

// Locate returns the first device in hwinfo output order that is not the
// primary disk. With several USB disks attached the first one wins.
func (l *Locator) Locate(ctx context.Context) (string, error) {
	l.printer.Message("Getting hardware info...")
	res := l.runner.Run(ctx, "hwinfo", "--short")
	if res == nil {
		return "", ErrHardwareInfoUnavailable
	}

	device, ok := firstNonPrimary(l.pattern.FindAllString(res.Stdout, -1), l.primary)
	if !ok {
		l.printer.Message("No suitable disk found")
		return "", ErrNoRemovableDisk
	}
	l.printer.Messagef("Found disk: %s", device)
	if l.logger != nil {
		l.logger.Debug("selected disk", "device", device)
	}
	return device, nil
}

func firstNonPrimary(devices []string, primary string) (string, bool) {
	for _, d := range devices {
		if d != primary {
			return d, true
		}
	}
	return "", false
}
