package clamav

import (
	"bufio"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// LineKind classifies a line of clamscan output.
type LineKind int

const (
	// LineEcho is a FOUND line or a scan summary count.
	LineEcho LineKind = iota
	// LineRemoved announces a deleted file.
	LineRemoved
)

// Line is a clamscan output line worth showing, in order of appearance.
type Line struct {
	Kind LineKind
	Text string // verbatim line, or the file name for LineRemoved
}

// Summary is the outcome of one clamscan run.
type Summary struct {
	ScannedCount  int
	InfectedCount int
	Threats       []string
	Removed       []string
	Lines         []Line
	ExitCode      int
}

// Clean reports whether clamscan found nothing.
// Exit code 0 = clean, 1 = infected, 2+ = error
func (s Summary) Clean() bool {
	return s.ExitCode == 0 && s.InfectedCount == 0
}

// ParseScanOutput walks clamscan stdout line by line.
func ParseScanOutput(output string, contract OutputContract) Summary {
	var summary Summary

	sc := bufio.NewScanner(strings.NewReader(output))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()

		if contract.IsEchoed(line) {
			summary.Lines = append(summary.Lines, Line{Kind: LineEcho, Text: line})

			if n, ok := contract.SummaryCount(line, contract.ScannedFiles); ok {
				summary.ScannedCount = n
			}
			if n, ok := contract.SummaryCount(line, contract.InfectedFiles); ok {
				summary.InfectedCount = n
			}
			if threat, ok := contract.ThreatName(line); ok {
				summary.Threats = append(summary.Threats, threat)
			}
		}

		if contract.IsRemoved(line) {
			name := contract.RemovedFile(line)
			summary.Removed = append(summary.Removed, name)
			summary.Lines = append(summary.Lines, Line{Kind: LineRemoved, Text: name})
		}
	}

	return summary
}

// EngineInfo describes the installed ClamAV engine.
type EngineInfo struct {
	Raw           string
	EngineVersion *semver.Version
	DatabaseDate  string
}

var engineVersionRe = regexp.MustCompile(`ClamAV (\d+\.\d+\.\d+)`)

// ParseEngineInfo parses `clamscan --version` output.
// Example: "ClamAV 1.5.1/27805/Mon Oct 27 09:50:30 2025"
func ParseEngineInfo(output string) (EngineInfo, error) {
	raw := strings.TrimSpace(output)
	info := EngineInfo{Raw: raw, DatabaseDate: extractDatabaseDate(raw)}

	matches := engineVersionRe.FindStringSubmatch(raw)
	if len(matches) < 2 {
		return info, ErrUnknownEngineVersion
	}
	v, err := semver.NewVersion(matches[1])
	if err != nil {
		return info, ErrUnknownEngineVersion
	}
	info.EngineVersion = v
	return info, nil
}

var databaseDateRe = regexp.MustCompile(`ClamAV \d+\.\d+\.\d+/\d+/([A-Za-z]{3} [A-Za-z]{3}\s+\d+\s+\d+:\d+:\d+ \d{4})`)

// extractDatabaseDate parses the virus database date from version string.
func extractDatabaseDate(version string) string {
	matches := databaseDateRe.FindStringSubmatch(version)
	if len(matches) >= 2 {
		return matches[1]
	}
	return "unknown"
}
