package workflow

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/clean-dependency-project/usbscan/internal/clamav"
	"github.com/clean-dependency-project/usbscan/internal/console"
)

// recorder implements every workflow dependency and logs the steps taken.
type recorder struct {
	steps []string

	device     string
	locateErr  error
	ensureErr  error
	mountErr   error
	unmountErr error
	fetchErr   error
	scanErr    error
	updateOK   bool
}

func (r *recorder) Locate(context.Context) (string, error) {
	r.steps = append(r.steps, "locate")
	return r.device, r.locateErr
}

func (r *recorder) EnsureMountPoint(context.Context) error {
	r.steps = append(r.steps, "ensure")
	return r.ensureErr
}

func (r *recorder) Mount(_ context.Context, device string) error {
	r.steps = append(r.steps, "mount "+device)
	return r.mountErr
}

func (r *recorder) Unmount(_ context.Context, device string) error {
	r.steps = append(r.steps, "unmount "+device)
	return r.unmountErr
}

func (r *recorder) Scan(_ context.Context, remove bool) (clamav.Summary, error) {
	if remove {
		r.steps = append(r.steps, "scan remove")
	} else {
		r.steps = append(r.steps, "scan")
	}
	return clamav.Summary{}, r.scanErr
}

func (r *recorder) Fetch(context.Context) error {
	r.steps = append(r.steps, "fetch")
	return r.fetchErr
}

func (r *recorder) Update(context.Context) bool {
	r.steps = append(r.steps, "update")
	return r.updateOK
}

func newTestRunner(rec *recorder) (*Runner, *bytes.Buffer) {
	var out bytes.Buffer
	deps := Deps{Locator: rec, Mounter: rec, Scanner: rec, Fetcher: rec, Updater: rec}
	return New(deps, console.NewPrinter(&out, console.Styles{}), nil), &out
}

func TestRunner_DiskWorkflows(t *testing.T) {
	tests := []struct {
		name string
		run  func(*Runner, context.Context)
		want []string
	}{
		{
			name: "download and scan",
			run:  (*Runner).DownloadAndScan,
			want: []string{"locate", "ensure", "mount /dev/sdb", "fetch", "scan", "unmount /dev/sdb"},
		},
		{
			name: "scan",
			run:  (*Runner).Scan,
			want: []string{"locate", "ensure", "mount /dev/sdb", "scan", "unmount /dev/sdb"},
		},
		{
			name: "scan and remove",
			run:  (*Runner).ScanAndRemove,
			want: []string{"locate", "ensure", "mount /dev/sdb", "scan remove", "unmount /dev/sdb"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{device: "/dev/sdb"}
			runner, _ := newTestRunner(rec)

			tt.run(runner, context.Background())

			if !reflect.DeepEqual(rec.steps, tt.want) {
				t.Errorf("steps = %v, want %v", rec.steps, tt.want)
			}
		})
	}
}

func TestRunner_LocatesDiskOnEveryRun(t *testing.T) {
	rec := &recorder{device: "/dev/sdb"}
	runner, _ := newTestRunner(rec)

	runner.Scan(context.Background())
	rec.device = "/dev/sdc"
	runner.Scan(context.Background())

	if got := rec.steps[len(rec.steps)-1]; got != "unmount /dev/sdc" {
		t.Errorf("last step = %q, want unmount of the newly located disk", got)
	}
}

func TestRunner_NoDisk(t *testing.T) {
	rec := &recorder{locateErr: errors.New("no suitable disk found")}
	runner, out := newTestRunner(rec)

	runner.ScanAndRemove(context.Background())

	if !reflect.DeepEqual(rec.steps, []string{"locate"}) {
		t.Errorf("steps = %v, want only locate", rec.steps)
	}
	if !strings.Contains(out.String(), "No disk found to scan. Returning to main menu.") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestRunner_MountFailureSkipsScan(t *testing.T) {
	rec := &recorder{device: "/dev/sdb", mountErr: errors.New("failed to mount /dev/sdb: wrong fs type")}
	runner, out := newTestRunner(rec)

	runner.Scan(context.Background())

	want := []string{"locate", "ensure", "mount /dev/sdb"}
	if !reflect.DeepEqual(rec.steps, want) {
		t.Errorf("steps = %v, want %v", rec.steps, want)
	}
	if !strings.Contains(out.String(), "ERROR: failed to mount /dev/sdb") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestRunner_MountPointFailure(t *testing.T) {
	rec := &recorder{device: "/dev/sdb", ensureErr: errors.New("failed to create /mnt/usb")}
	runner, _ := newTestRunner(rec)

	runner.Scan(context.Background())

	if !reflect.DeepEqual(rec.steps, []string{"locate", "ensure"}) {
		t.Errorf("steps = %v", rec.steps)
	}
}

func TestRunner_FetchFailureStillScans(t *testing.T) {
	rec := &recorder{device: "/dev/sdb", fetchErr: errors.New("download failed")}
	runner, _ := newTestRunner(rec)

	runner.DownloadAndScan(context.Background())

	want := []string{"locate", "ensure", "mount /dev/sdb", "fetch", "scan", "unmount /dev/sdb"}
	if !reflect.DeepEqual(rec.steps, want) {
		t.Errorf("steps = %v, want %v", rec.steps, want)
	}
}

func TestRunner_ScanFailureStillUnmounts(t *testing.T) {
	rec := &recorder{device: "/dev/sdb", scanErr: clamav.ErrScannerUnavailable}
	runner, out := newTestRunner(rec)

	runner.Scan(context.Background())

	if last := rec.steps[len(rec.steps)-1]; last != "unmount /dev/sdb" {
		t.Errorf("last step = %q, want unmount", last)
	}
	if !strings.Contains(out.String(), "Exception while running clamscan") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestRunner_UpdateSignatures(t *testing.T) {
	rec := &recorder{updateOK: true}
	runner, out := newTestRunner(rec)

	runner.UpdateSignatures(context.Background())

	if !reflect.DeepEqual(rec.steps, []string{"update"}) {
		t.Errorf("steps = %v", rec.steps)
	}
	if !strings.Contains(out.String(), "[+] Update Signatures") {
		t.Errorf("missing title-cased header:\n%s", out.String())
	}
}
