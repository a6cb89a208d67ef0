package sample

import (
	"bytes"
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/clean-dependency-project/usbscan/internal/command"
	"github.com/clean-dependency-project/usbscan/internal/console"
)

const eicarURL = "https://secure.eicar.org/eicar.com.txt"

func TestFetcher_Fetch(t *testing.T) {
	tests := []struct {
		name       string
		result     *command.Result
		wantErr    bool
		wantOutput string
	}{
		{
			name:       "download succeeds",
			result:     &command.Result{},
			wantOutput: "[+] EICAR test virus downloaded.\n",
		},
		{
			name:    "server error",
			result:  &command.Result{Stderr: "ERROR 404: Not Found.", ExitCode: 8},
			wantErr: true,
		},
		{
			name:    "wget missing",
			result:  nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			runner := &command.MockRunner{Default: tt.result}
			f := NewFetcher(runner, eicarURL, "/mnt/usb/eicar.com", console.NewPrinter(&out, console.Styles{}), nil)

			err := f.Fetch(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("Fetch() error = %v, wantErr %v", err, tt.wantErr)
			}

			want := [][]string{{"wget", "-O", "/mnt/usb/eicar.com", eicarURL}}
			if !reflect.DeepEqual(runner.Calls, want) {
				t.Errorf("Calls = %v, want %v", runner.Calls, want)
			}
			if tt.wantOutput != "" && !strings.Contains(out.String(), tt.wantOutput) {
				t.Errorf("output %q missing %q", out.String(), tt.wantOutput)
			}
		})
	}
}

func TestFetcher_Destination(t *testing.T) {
	f := NewFetcher(&command.MockRunner{}, eicarURL, "/mnt/usb/eicar.com", nil, nil)
	if f.Destination() != "/mnt/usb/eicar.com" {
		t.Errorf("Destination() = %q", f.Destination())
	}
}
