// Package console renders the user-facing lines of the interactive menu.
package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Token names a style slot.
type Token string

// Style tokens understood by Printer.
const (
	TokenPlain    Token = "plain"
	TokenHeader   Token = "header"
	TokenMenu     Token = "menu"
	TokenEmphasis Token = "emphasis"
	TokenPrompt   Token = "prompt"
	TokenError    Token = "error"
)

// messagePrefix marks every status line.
const messagePrefix = "[+] "

// Styles maps each token to a colour. Empty values render unstyled.
type Styles struct {
	Header   string
	Menu     string
	Emphasis string
	Prompt   string
	Error    string
}

// Printer writes styled lines to a terminal or any other writer.
// Colour output is decided by the writer: a non-terminal gets plain text.
type Printer struct {
	out    io.Writer
	styles map[Token]lipgloss.Style
}

// NewPrinter creates a printer bound to w.
func NewPrinter(w io.Writer, styles Styles) *Printer {
	renderer := lipgloss.NewRenderer(w)
	colour := func(c string) lipgloss.Style {
		s := renderer.NewStyle()
		if c == "" {
			return s
		}
		return s.Foreground(lipgloss.Color(c))
	}

	return &Printer{
		out: w,
		styles: map[Token]lipgloss.Style{
			TokenPlain:    renderer.NewStyle(),
			TokenHeader:   colour(styles.Header),
			TokenMenu:     colour(styles.Menu),
			TokenEmphasis: colour(styles.Emphasis),
			TokenPrompt:   colour(styles.Prompt),
			TokenError:    colour(styles.Error),
		},
	}
}

// Message prints a status line with the [+] prefix.
func (p *Printer) Message(msg string) {
	p.line(TokenPlain, messagePrefix+msg)
}

// Messagef formats and prints a status line.
func (p *Printer) Messagef(format string, args ...any) {
	p.Message(fmt.Sprintf(format, args...))
}

// Error prints a failure line.
func (p *Printer) Error(msg string) {
	p.line(TokenError, messagePrefix+"ERROR: "+msg)
}

// Errorf formats and prints a failure line.
func (p *Printer) Errorf(format string, args ...any) {
	p.Error(fmt.Sprintf(format, args...))
}

// Header prints a section heading.
func (p *Printer) Header(msg string) {
	p.line(TokenHeader, messagePrefix+msg)
}

// MenuOption prints one menu entry using the given token.
func (p *Printer) MenuOption(text string, token Token) {
	p.line(token, text)
}

// Prompt prints the input prompt.
func (p *Printer) Prompt(text string) {
	p.line(TokenPrompt, text)
}

func (p *Printer) line(token Token, text string) {
	style, ok := p.styles[token]
	if !ok {
		style = p.styles[TokenPlain]
	}
	// Render line by line; lipgloss pads multi-line blocks to a common width.
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = style.Render(l)
	}
	_, _ = fmt.Fprintln(p.out, strings.Join(lines, "\n"))
}
