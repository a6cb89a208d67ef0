// Package sample downloads the EICAR antivirus test file onto the mounted
// device so a scan has something to detect.
package sample

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/clean-dependency-project/usbscan/internal/command"
	"github.com/clean-dependency-project/usbscan/internal/console"
)

// Fetcher downloads the test sample with wget.
// wget runs through the privileged runner because the mount point is
// usually only writable by root.
type Fetcher struct {
	runner  command.Runner
	url     string
	dest    string
	printer *console.Printer
	logger  *slog.Logger
}

// NewFetcher creates a fetcher that writes url to dest, replacing any
// existing file.
func NewFetcher(runner command.Runner, url, dest string, printer *console.Printer, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		runner:  runner,
		url:     url,
		dest:    dest,
		printer: printer,
		logger:  logger,
	}
}

// Destination returns the path the sample is written to.
func (f *Fetcher) Destination() string {
	return f.dest
}

// Fetch downloads the sample.
func (f *Fetcher) Fetch(ctx context.Context) error {
	f.printer.Message("Downloading the EICAR test virus...")
	res := f.runner.Run(ctx, "wget", "-O", f.dest, f.url)
	if res == nil {
		return fmt.Errorf("wget could not be executed")
	}
	if !res.Success() {
		if f.logger != nil {
			f.logger.Warn("sample download failed", "url", f.url, "exit_code", res.ExitCode)
		}
		return fmt.Errorf("download of %s failed with status %d: %s", f.url, res.ExitCode, strings.TrimSpace(res.Stderr))
	}
	f.printer.Message("EICAR test virus downloaded.")
	return nil
}
