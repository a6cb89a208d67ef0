package console

import (
	"bytes"
	"testing"
)

func TestPrinter_PlainWriter(t *testing.T) {
	styles := Styles{Header: "11", Menu: "14", Emphasis: "9", Prompt: "11", Error: "9"}

	tests := []struct {
		name  string
		print func(p *Printer)
		want  string
	}{
		{
			name:  "message",
			print: func(p *Printer) { p.Message("Getting hardware info...") },
			want:  "[+] Getting hardware info...\n",
		},
		{
			name:  "formatted message",
			print: func(p *Printer) { p.Messagef("Found disk: %s", "/dev/sdb") },
			want:  "[+] Found disk: /dev/sdb\n",
		},
		{
			name:  "error",
			print: func(p *Printer) { p.Errorf("freshclam failed with message:\n%s", "boom") },
			want:  "[+] ERROR: freshclam failed with message:\nboom\n",
		},
		{
			name:  "header",
			print: func(p *Printer) { p.Header("Main Menu:") },
			want:  "[+] Main Menu:\n",
		},
		{
			name:  "menu option",
			print: func(p *Printer) { p.MenuOption("[5] Exit", TokenMenu) },
			want:  "[5] Exit\n",
		},
		{
			name:  "unknown token falls back to plain",
			print: func(p *Printer) { p.MenuOption("[1] Update", Token("missing")) },
			want:  "[1] Update\n",
		},
		{
			name:  "prompt",
			print: func(p *Printer) { p.Prompt("[+] Please choose an option: ") },
			want:  "[+] Please choose an option: \n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.print(NewPrinter(&buf, styles))
			if got := buf.String(); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrinter_EmptyStyles(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, Styles{}).Header("Main Menu:")
	if got := buf.String(); got != "[+] Main Menu:\n" {
		t.Errorf("output = %q", got)
	}
}
