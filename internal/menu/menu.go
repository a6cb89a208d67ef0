// Package menu implements the interactive text menu.
package menu

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/clean-dependency-project/usbscan/internal/console"
)

// State is the controller state.
type State int

const (
	// StateMenu shows the menu and waits for a choice.
	StateMenu State = iota
	// StateExited is terminal.
	StateExited
)

// Menu choices.
const (
	ChoiceUpdate          = "1"
	ChoiceDownloadAndScan = "2"
	ChoiceScan            = "3"
	ChoiceScanAndRemove   = "4"
	ChoiceExit            = "5"
)

// Workflows are the actions the menu dispatches to.
type Workflows interface {
	UpdateSignatures(ctx context.Context)
	DownloadAndScan(ctx context.Context)
	Scan(ctx context.Context)
	ScanAndRemove(ctx context.Context)
}

type option struct {
	text  string
	token console.Token
}

var options = []option{
	{"[1] RUN freshclam database update (RECOMMENDED)", console.TokenEmphasis},
	{"[2] Download test VIRUS and run the test SCAN", console.TokenMenu},
	{"[3] Run the scan of USB", console.TokenMenu},
	{"[4] Run the scan of USB and REMOVE INFECTED", console.TokenMenu},
	{"[5] Exit", console.TokenMenu},
}

// Controller runs the menu loop.
type Controller struct {
	in        *bufio.Reader
	printer   *console.Printer
	workflows Workflows
	logger    *slog.Logger
}

// NewController creates a controller reading choices from in.
func NewController(in io.Reader, printer *console.Printer, workflows Workflows, logger *slog.Logger) *Controller {
	return &Controller{
		in:        bufio.NewReader(in),
		printer:   printer,
		workflows: workflows,
		logger:    logger,
	}
}

// Run shows the menu until the user exits, input ends or ctx is cancelled.
// Workflow failures never end the loop.
func (c *Controller) Run(ctx context.Context) error {
	state := StateMenu
	for state != StateExited {
		if err := ctx.Err(); err != nil {
			return err
		}

		c.display()
		choice, err := c.readChoice()
		if err != nil {
			if errors.Is(err, io.EOF) {
				c.printer.Message("Exiting...")
				return nil
			}
			return err
		}
		state = c.Dispatch(ctx, choice)
	}
	return nil
}

// Dispatch runs the workflow for choice and returns the next state.
func (c *Controller) Dispatch(ctx context.Context, choice string) State {
	if c.logger != nil {
		c.logger.Debug("menu choice", "choice", choice)
	}

	switch strings.TrimSpace(choice) {
	case ChoiceUpdate:
		c.workflows.UpdateSignatures(ctx)
	case ChoiceDownloadAndScan:
		c.workflows.DownloadAndScan(ctx)
	case ChoiceScan:
		c.workflows.Scan(ctx)
	case ChoiceScanAndRemove:
		c.workflows.ScanAndRemove(ctx)
	case ChoiceExit:
		c.printer.Message("Exiting...")
		return StateExited
	default:
		c.printer.Message("Invalid option. Please try again.")
	}
	return StateMenu
}

func (c *Controller) display() {
	c.printer.Header("Main Menu:")
	for _, opt := range options {
		c.printer.MenuOption(opt.text, opt.token)
	}
	c.printer.Prompt("[+] Please choose an option: ")
}

// readChoice returns the next input line. A final line without a newline is
// still returned; io.EOF is reported only once input is exhausted.
func (c *Controller) readChoice() (string, error) {
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
