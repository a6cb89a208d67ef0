package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/clean-dependency-project/usbscan/internal/clamav"
	"github.com/clean-dependency-project/usbscan/internal/command"
	"github.com/clean-dependency-project/usbscan/internal/config"
	"github.com/clean-dependency-project/usbscan/internal/console"
	"github.com/clean-dependency-project/usbscan/internal/disk"
	"github.com/clean-dependency-project/usbscan/internal/installer"
	"github.com/clean-dependency-project/usbscan/internal/menu"
	"github.com/clean-dependency-project/usbscan/internal/sample"
	"github.com/clean-dependency-project/usbscan/internal/workflow"
)

// Components is the wired application.
type Components struct {
	Installer *installer.Installer
	Scanner   *clamav.Scanner
	Workflows *workflow.Runner
	Menu      *menu.Controller
}

// Wire builds every component from cfg. runner executes commands as the
// current user; privileged commands are routed through cfg.Privilege.
func Wire(cfg *config.Config, runner command.Runner, in io.Reader, out io.Writer, log *slog.Logger) (*Components, error) {
	privileged := command.WithPrivilege(runner, cfg.Privilege.Command, cfg.Privilege.Args...)
	printer := console.NewPrinter(out, console.Styles{
		Header:   cfg.Styles.Header,
		Menu:     cfg.Styles.Menu,
		Emphasis: cfg.Styles.Emphasis,
		Prompt:   cfg.Styles.Prompt,
		Error:    cfg.Styles.Error,
	})

	locator, err := disk.NewLocator(privileged, cfg.Disk.PrimaryDevice, cfg.Disk.DevicePattern, printer, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create disk locator: %w", err)
	}
	scanner := clamav.NewScanner(privileged, cfg.Paths.MountPoint, printer, log)

	workflows := workflow.New(workflow.Deps{
		Locator: locator,
		Mounter: disk.NewMounter(runner, privileged, cfg.Paths.MountPoint, printer, log),
		Scanner: scanner,
		Fetcher: sample.NewFetcher(privileged, cfg.Sample.URL, cfg.SamplePath(), printer, log),
		Updater: clamav.NewUpdater(privileged, clamav.UpdaterConfig{
			ConfigPath: cfg.Paths.FreshclamConfig,
			LogPath:    cfg.Paths.FreshclamLog,
			Mirror:     cfg.ClamAV.Mirror,
		}, printer, log),
	}, printer, log)

	return &Components{
		Installer: installer.New(runner, privileged, printer, log),
		Scanner:   scanner,
		Workflows: workflows,
		Menu:      menu.NewController(in, printer, workflows, log),
	}, nil
}
