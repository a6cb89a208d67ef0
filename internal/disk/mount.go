package disk

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/clean-dependency-project/usbscan/internal/command"
	"github.com/clean-dependency-project/usbscan/internal/console"
)

// ErrMountTableUnavailable is returned when `mount` cannot be run.
var ErrMountTableUnavailable = errors.New("mount table could not be read")

// Mounter mounts the selected device on a fixed directory.
//
// Mount checks the mount table first and is idempotent; Unmount always
// issues umount against the mount point without checking.
type Mounter struct {
	runner     command.Runner // unprivileged, reads the mount table
	privileged command.Runner
	mountPoint string
	printer    *console.Printer
	logger     *slog.Logger
}

// NewMounter creates a mounter for mountPoint.
func NewMounter(runner, privileged command.Runner, mountPoint string, printer *console.Printer, logger *slog.Logger) *Mounter {
	return &Mounter{
		runner:     runner,
		privileged: privileged,
		mountPoint: mountPoint,
		printer:    printer,
		logger:     logger,
	}
}

// MountPoint returns the directory devices are mounted on.
func (m *Mounter) MountPoint() string {
	return m.mountPoint
}

// EnsureMountPoint creates the mount directory if it does not exist.
// The directory is never removed afterwards.
func (m *Mounter) EnsureMountPoint(ctx context.Context) error {
	info, err := os.Stat(m.mountPoint)
	switch {
	case err == nil && info.IsDir():
		m.printer.Messagef("%s folder already exists.", m.mountPoint)
		return nil
	case err == nil:
		return fmt.Errorf("%s exists and is not a directory", m.mountPoint)
	case !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("failed to stat %s: %w", m.mountPoint, err)
	}

	res := m.privileged.Run(ctx, "mkdir", "-p", m.mountPoint)
	if !res.Success() {
		return fmt.Errorf("failed to create %s: %s", m.mountPoint, stderrOf(res))
	}
	m.printer.Messagef("%s folder created.", m.mountPoint)
	return nil
}

// IsMounted reports whether device appears anywhere in the mount table.
// This is a substring match, so /dev/sdb also matches /dev/sdb1.
func (m *Mounter) IsMounted(ctx context.Context, device string) (bool, error) {
	res := m.runner.Run(ctx, "mount")
	if res == nil {
		return false, ErrMountTableUnavailable
	}
	if strings.Contains(res.Stdout, device) {
		m.printer.Messagef("%s is already mounted.", device)
		return true, nil
	}
	return false, nil
}

// Mount mounts device unless it is already mounted.
func (m *Mounter) Mount(ctx context.Context, device string) error {
	mounted, err := m.IsMounted(ctx, device)
	if err != nil {
		return err
	}
	if mounted {
		return nil
	}

	m.printer.Messagef("Mounting %s to %s...", device, m.mountPoint)
	res := m.privileged.Run(ctx, "mount", device, m.mountPoint)
	if !res.Success() {
		return fmt.Errorf("failed to mount %s: %s", device, stderrOf(res))
	}
	m.printer.Messagef("%s mounted to %s.", device, m.mountPoint)
	return nil
}

// Unmount unmounts the mount point.
func (m *Mounter) Unmount(ctx context.Context, device string) error {
	m.printer.Messagef("Unmounting %s from %s...", device, m.mountPoint)
	res := m.privileged.Run(ctx, "umount", m.mountPoint)
	if !res.Success() {
		return fmt.Errorf("failed to unmount %s: %s", m.mountPoint, stderrOf(res))
	}
	m.printer.Messagef("%s unmounted.", device)
	return nil
}

func stderrOf(res *command.Result) string {
	if res == nil {
		return "command could not be executed"
	}
	return strings.TrimSpace(res.Stderr)
}
