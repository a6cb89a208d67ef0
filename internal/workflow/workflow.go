package workflow

import (
	"context"
	"log/slog"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/clean-dependency-project/usbscan/internal/console"
)

// Workflow names, also used as log attributes.
const (
	NameUpdate          = "update signatures"
	NameDownloadAndScan = "download test sample and scan"
	NameScan            = "scan usb"
	NameScanAndRemove   = "scan usb and remove infected"
)

// Deps are the components a Runner drives.
type Deps struct {
	Locator DiskLocator
	Mounter DeviceMounter
	Scanner VirusScanner
	Fetcher SampleFetcher
	Updater SignatureUpdater
}

// Runner executes the menu workflows. Failures are printed and logged;
// nothing is returned to the caller so the menu always continues.
type Runner struct {
	deps    Deps
	printer *console.Printer
	logger  *slog.Logger
	title   cases.Caser
}

// New creates a workflow runner.
func New(deps Deps, printer *console.Printer, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{
		deps:    deps,
		printer: printer,
		logger:  logger,
		title:   cases.Title(language.English),
	}
}

// UpdateSignatures refreshes the ClamAV database.
func (r *Runner) UpdateSignatures(ctx context.Context) {
	r.printer.Header(r.title.String(NameUpdate))
	ok := r.deps.Updater.Update(ctx)
	r.logger.Info("workflow finished", "workflow", NameUpdate, "success", ok)
}

// DownloadAndScan places the EICAR sample on the USB disk and scans it.
func (r *Runner) DownloadAndScan(ctx context.Context) {
	r.runDisk(ctx, NameDownloadAndScan, true, false)
}

// Scan scans the USB disk without removing anything.
func (r *Runner) Scan(ctx context.Context) {
	r.runDisk(ctx, NameScan, false, false)
}

// ScanAndRemove scans the USB disk and deletes infected files.
func (r *Runner) ScanAndRemove(ctx context.Context) {
	r.runDisk(ctx, NameScanAndRemove, false, true)
}

// runDisk locates, mounts, optionally seeds, scans and unmounts the disk.
// The device is looked up again on every call.
func (r *Runner) runDisk(ctx context.Context, name string, fetchSample, removeInfected bool) {
	r.printer.Header(r.title.String(name))
	log := r.logger.With("workflow", name)

	device, err := r.deps.Locator.Locate(ctx)
	if err != nil {
		log.Info("no disk to scan", "reason", err)
		r.printer.Message("No disk found to scan. Returning to main menu.")
		return
	}
	log = log.With("device", device)

	if err := r.deps.Mounter.EnsureMountPoint(ctx); err != nil {
		log.Error("failed to prepare mount point", "error", err)
		r.printer.Error(err.Error())
		return
	}
	if err := r.deps.Mounter.Mount(ctx, device); err != nil {
		log.Error("failed to mount device", "error", err)
		r.printer.Error(err.Error())
		return
	}
	defer func() {
		// Unmount even when the scan was interrupted.
		if err := r.deps.Mounter.Unmount(context.WithoutCancel(ctx), device); err != nil {
			log.Error("failed to unmount device", "error", err)
			r.printer.Error(err.Error())
		}
	}()

	if fetchSample {
		if err := r.deps.Fetcher.Fetch(ctx); err != nil {
			log.Warn("failed to fetch test sample", "error", err)
			r.printer.Error(err.Error())
		}
	}

	summary, err := r.deps.Scanner.Scan(ctx, removeInfected)
	if err != nil {
		log.Error("scan failed", "error", err)
		r.printer.Errorf("Exception while running clamscan: %v", err)
		return
	}
	log.Info("scan finished",
		"scanned", summary.ScannedCount,
		"infected", summary.InfectedCount,
		"removed", len(summary.Removed))
}
