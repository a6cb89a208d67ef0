package clamav

import (
	"strconv"
	"strings"
)

// OutputContract collects every phrase usbscan matches in clamscan and
// freshclam output. Those tools do not version their human-readable output,
// so a change in wording is handled by publishing a new contract here.
type OutputContract struct {
	Version string

	ScannedFiles  string
	InfectedFiles string
	Found         string
	Removed       string

	// TransientFailures are matched case-insensitively against freshclam stderr.
	TransientFailures []string
}

// DefaultContract matches ClamAV 0.103 through 1.x output.
var DefaultContract = OutputContract{
	Version:       "clamav-1",
	ScannedFiles:  "Scanned files",
	InfectedFiles: "Infected files",
	Found:         "FOUND",
	Removed:       "Removed.",
	TransientFailures: []string{
		"resource temporarily unavailable",
		"problem with internal logger",
	},
}

// IsEchoed reports whether a clamscan line belongs in the progress output.
func (c OutputContract) IsEchoed(line string) bool {
	return strings.Contains(line, c.InfectedFiles) ||
		strings.Contains(line, c.ScannedFiles) ||
		strings.Contains(line, c.Found)
}

// IsRemoved reports whether a clamscan line announces a deleted file.
func (c OutputContract) IsRemoved(line string) bool {
	return strings.Contains(line, c.Removed)
}

// RemovedFile returns the file name of a removal line: everything before the
// first colon.
func (c OutputContract) RemovedFile(line string) string {
	name, _, _ := strings.Cut(line, ":")
	return name
}

// ThreatName extracts the signature name from a FOUND line.
// Format: "/mnt/usb/file: Threat-Name FOUND"
func (c OutputContract) ThreatName(line string) (string, bool) {
	suffix := " " + c.Found
	if !strings.HasSuffix(strings.TrimSpace(line), suffix) {
		return "", false
	}
	idx := strings.LastIndex(line, ": ")
	if idx < 0 {
		return "", false
	}
	name := strings.TrimSuffix(strings.TrimSpace(line[idx+2:]), suffix)
	name = strings.TrimSpace(name)
	return name, name != ""
}

// SummaryCount parses "<key>: <n>" summary lines.
func (c OutputContract) SummaryCount(line, key string) (int, bool) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(line), key+":")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(rest))
	if err != nil {
		return 0, false
	}
	return n, true
}

// IsTransientFailure reports whether freshclam stderr shows a stale log lock.
func (c OutputContract) IsTransientFailure(stderr string) bool {
	lower := strings.ToLower(stderr)
	for _, marker := range c.TransientFailures {
		if strings.Contains(lower, strings.ToLower(marker)) {
			return true
		}
	}
	return false
}
