// Package config provides configuration management for usbscan.
// It handles the YAML file describing tool paths, privilege escalation,
// ClamAV settings and console styles.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where the configuration is looked up when no flag is given.
const DefaultPath = "/etc/usbscan/usbscan.yaml"

// Sentinel errors for configuration validation
var (
	ErrVersionRequired         = errors.New("version is required")
	ErrMountPointRequired      = errors.New("paths.mount_point is required")
	ErrMountPointNotAbsolute   = errors.New("paths.mount_point must be an absolute path")
	ErrFreshclamConfigRequired = errors.New("paths.freshclam_config is required")
	ErrFreshclamLogRequired    = errors.New("paths.freshclam_log is required")
	ErrPrimaryDeviceRequired   = errors.New("disk.primary_device is required")
	ErrDevicePatternInvalid    = errors.New("disk.device_pattern is not a valid regular expression")
	ErrMirrorRequired          = errors.New("clamav.mirror is required")
	ErrMinEngineVersionInvalid = errors.New("clamav.min_engine_version is not a valid version")
	ErrSampleURLRequired       = errors.New("sample.url is required")
	ErrSampleFileNameInvalid   = errors.New("sample.file_name must be a plain file name")
	ErrDependencyCommand       = errors.New("dependency command is required")
	ErrDependencyPackages      = errors.New("dependency needs at least one package")
)

// Config represents the top-level configuration structure.
type Config struct {
	Version      string          `yaml:"version"`
	Privilege    PrivilegeConfig `yaml:"privilege"`
	Paths        PathsConfig     `yaml:"paths"`
	Disk         DiskConfig      `yaml:"disk"`
	ClamAV       ClamAVConfig    `yaml:"clamav"`
	Sample       SampleConfig    `yaml:"sample"`
	Dependencies []Dependency    `yaml:"dependencies"`
	Styles       StylesConfig    `yaml:"styles"`
}

// PrivilegeConfig controls how privileged commands are elevated.
// An empty Command runs everything directly, which suits a root shell.
type PrivilegeConfig struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
}

// PathsConfig holds the host paths the tool reads, writes or mounts onto.
type PathsConfig struct {
	MountPoint      string `yaml:"mount_point"`
	FreshclamConfig string `yaml:"freshclam_config"`
	FreshclamLog    string `yaml:"freshclam_log"`
}

// DiskConfig drives removable disk selection.
type DiskConfig struct {
	PrimaryDevice string `yaml:"primary_device"`
	DevicePattern string `yaml:"device_pattern"`
}

// ClamAVConfig holds scanner and updater settings.
type ClamAVConfig struct {
	Mirror           string `yaml:"mirror"`
	MinEngineVersion string `yaml:"min_engine_version"` // empty disables the check
}

// SampleConfig describes the EICAR test sample download.
type SampleConfig struct {
	URL      string `yaml:"url"`
	FileName string `yaml:"file_name"`
}

// Dependency is an external command and the packages that provide it.
type Dependency struct {
	Command  string   `yaml:"command"`
	Packages []string `yaml:"packages"`
}

// StylesConfig maps named style tokens to terminal colours.
// Values are anything lipgloss.Color accepts ("11", "#FFAA00").
type StylesConfig struct {
	Header   string `yaml:"header"`
	Menu     string `yaml:"menu"`
	Emphasis string `yaml:"emphasis"`
	Prompt   string `yaml:"prompt"`
	Error    string `yaml:"error"`
}

// SamplePath returns where the test sample is written on the mounted device.
func (c *Config) SamplePath() string {
	return filepath.Join(c.Paths.MountPoint, c.Sample.FileName)
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		Privilege: PrivilegeConfig{
			Command: "sudo",
		},
		Paths: PathsConfig{
			MountPoint:      "/mnt/usb",
			FreshclamConfig: "/etc/clamav/freshclam.conf",
			FreshclamLog:    "/var/log/clamav/freshclam.log",
		},
		Disk: DiskConfig{
			PrimaryDevice: "/dev/sda",
			DevicePattern: `/dev/sd\w`,
		},
		ClamAV: ClamAVConfig{
			Mirror:           "db.us.clamav.net",
			MinEngineVersion: "0.103.0",
		},
		Sample: SampleConfig{
			URL:      "https://secure.eicar.org/eicar.com.txt",
			FileName: "eicar.com",
		},
		Dependencies: []Dependency{
			{Command: "hwinfo", Packages: []string{"hwinfo"}},
			{Command: "clamscan", Packages: []string{"clamav", "clamav-daemon"}},
		},
		Styles: StylesConfig{
			Header:   "11",
			Menu:     "14",
			Emphasis: "9",
			Prompt:   "11",
			Error:    "9",
		},
	}
}

// LoadConfig loads and parses the configuration from a YAML file.
// Keys absent from the file keep their DefaultConfig values.
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", filePath, err)
	}
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", filePath, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

// LoadConfigOrDefault behaves like LoadConfig but falls back to
// DefaultConfig when the file does not exist. The boolean reports whether a
// file was read.
func LoadConfigOrDefault(filePath string) (*Config, bool, error) {
	config, err := LoadConfig(filePath)
	if err == nil {
		return config, true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), false, nil
	}
	return nil, false, err
}

// Validate validates the configuration structure and required fields.
func (c *Config) Validate() error {
	if c.Version == "" {
		return ErrVersionRequired
	}
	if err := c.Paths.Validate(); err != nil {
		return err
	}
	if c.Disk.PrimaryDevice == "" {
		return ErrPrimaryDeviceRequired
	}
	if _, err := regexp.Compile(c.Disk.DevicePattern); err != nil || c.Disk.DevicePattern == "" {
		return ErrDevicePatternInvalid
	}
	if c.ClamAV.Mirror == "" {
		return ErrMirrorRequired
	}
	if c.ClamAV.MinEngineVersion != "" {
		if _, err := semver.NewVersion(c.ClamAV.MinEngineVersion); err != nil {
			return fmt.Errorf("%w: %v", ErrMinEngineVersionInvalid, err)
		}
	}
	if c.Sample.URL == "" {
		return ErrSampleURLRequired
	}
	if c.Sample.FileName == "" || strings.ContainsRune(c.Sample.FileName, '/') {
		return ErrSampleFileNameInvalid
	}
	for i, dep := range c.Dependencies {
		if err := dep.Validate(); err != nil {
			return fmt.Errorf("dependencies[%d]: %w", i, err)
		}
	}
	return nil
}

// Validate validates the path settings.
func (p *PathsConfig) Validate() error {
	if p.MountPoint == "" {
		return ErrMountPointRequired
	}
	if !filepath.IsAbs(p.MountPoint) {
		return ErrMountPointNotAbsolute
	}
	if p.FreshclamConfig == "" {
		return ErrFreshclamConfigRequired
	}
	if p.FreshclamLog == "" {
		return ErrFreshclamLogRequired
	}
	return nil
}

// Validate validates a dependency entry.
func (d *Dependency) Validate() error {
	if strings.TrimSpace(d.Command) == "" {
		return ErrDependencyCommand
	}
	if len(d.Packages) == 0 {
		return ErrDependencyPackages
	}
	return nil
}

// Marshal renders the configuration as YAML.
func Marshal(config *Config) ([]byte, error) {
	data, err := yaml.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// SaveConfig saves the configuration to a YAML file.
func SaveConfig(config *Config, filePath string) error {
	data, err := Marshal(config)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", filePath, err)
	}
	return nil
}
