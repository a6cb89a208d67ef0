// Package cli provides the usbscan command-line application.
// It loads the YAML configuration, sets up logging and hands control to the
// interactive menu.
package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/clean-dependency-project/usbscan/internal/command"
	"github.com/clean-dependency-project/usbscan/internal/config"
	"github.com/clean-dependency-project/usbscan/internal/installer"
	"github.com/clean-dependency-project/usbscan/internal/logger"
)

// Version is the application version, overridden at build time.
var Version = "1.0.0"

// NewApp creates and configures the main CLI application.
func NewApp() *cli.App {
	return NewAppWithRunner(nil)
}

// NewAppWithRunner is NewApp with a custom command runner; nil selects the
// real os/exec runner.
func NewAppWithRunner(runner command.Runner) *cli.App {
	return &cli.App{
		Name:    "usbscan",
		Usage:   "Scan removable USB storage for malware with ClamAV",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   config.DefaultPath,
				Usage:   "path to the YAML configuration file (built-in defaults when missing)",
				EnvVars: []string{"USBSCAN_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				Usage:   "diagnostic log level (debug, info, warn, error)",
				EnvVars: []string{"USBSCAN_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Value:   "text",
				Usage:   "diagnostic log format (text, json)",
				EnvVars: []string{"USBSCAN_LOG_FORMAT"},
			},
			&cli.BoolFlag{
				Name:  "skip-install",
				Usage: "do not check for or install hwinfo and ClamAV",
			},
		},
		Action: func(c *cli.Context) error {
			return runInteractive(c, runner)
		},
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Print the default configuration as YAML",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "out",
						Usage: "write to this file instead of stdout",
					},
				},
				Action: writeDefaultConfig,
			},
		},
	}
}

// runInteractive implements the default action: dependency check, engine
// check, then the menu loop.
func runInteractive(c *cli.Context, runner command.Runner) error {
	log, err := logger.New(c.App.ErrWriter, c.String("log-level"), c.String("log-format"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("invalid logging flags: %v", err), 1)
	}

	cfg, found, err := config.LoadConfigOrDefault(c.String("config"))
	if err != nil {
		log.Error("failed to load config", "error", err)
		return cli.Exit(err.Error(), 1)
	}
	if !found {
		log.Info("config file not found, using defaults", "path", c.String("config"))
	}

	if runner == nil {
		runner = command.NewExecRunner(log)
	}
	app, err := Wire(cfg, runner, c.App.Reader, c.App.Writer, log)
	if err != nil {
		log.Error("failed to initialize", "error", err)
		return cli.Exit(err.Error(), 1)
	}

	ctx := c.Context
	if !c.Bool("skip-install") {
		deps := make([]installer.Dependency, 0, len(cfg.Dependencies))
		for _, d := range cfg.Dependencies {
			deps = append(deps, installer.Dependency{Command: d.Command, Packages: d.Packages})
		}
		if missing := app.Installer.EnsureAll(ctx, deps); len(missing) > 0 {
			log.Warn("some dependencies are unavailable", "missing", missing)
		}
	}
	app.Scanner.CheckEngine(ctx, cfg.ClamAV.MinEngineVersion)

	return app.Menu.Run(ctx)
}

// writeDefaultConfig implements the config command.
func writeDefaultConfig(c *cli.Context) error {
	cfg := config.DefaultConfig()
	if out := c.String("out"); out != "" {
		if err := config.SaveConfig(cfg, out); err != nil {
			return cli.Exit(err.Error(), 1)
		}
		return nil
	}
	data, err := config.Marshal(cfg)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	_, err = c.App.Writer.Write(data)
	return err
}
