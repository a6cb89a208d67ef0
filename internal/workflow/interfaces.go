// Package workflow strings the disk, scan and update components together
// into the actions offered by the menu.
package workflow

import (
	"context"

	"github.com/clean-dependency-project/usbscan/internal/clamav"
)

// DiskLocator finds the device to scan.
type DiskLocator interface {
	Locate(ctx context.Context) (string, error)
}

// DeviceMounter prepares and mounts the device.
type DeviceMounter interface {
	EnsureMountPoint(ctx context.Context) error
	Mount(ctx context.Context, device string) error
	Unmount(ctx context.Context, device string) error
}

// VirusScanner scans the mounted device.
type VirusScanner interface {
	Scan(ctx context.Context, removeInfected bool) (clamav.Summary, error)
}

// SampleFetcher places the test sample on the mounted device.
type SampleFetcher interface {
	Fetch(ctx context.Context) error
}

// SignatureUpdater refreshes the signature database.
type SignatureUpdater interface {
	Update(ctx context.Context) bool
}
