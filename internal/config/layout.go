package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/amadigan/teardown/internal/cmdline"
)

type Layout struct {
	Sysroot        string          `json:"sysroot,omitempty" yaml:"sysroot,omitempty"`
	Cmdline        string          `json:"cmdline,omitempty" yaml:"cmdline,omitempty"`
	Proc           string          `json:"proc,omitempty" yaml:"proc,omitempty"`
	ScratchDir     string          `json:"scratch-dir,omitempty" yaml:"scratch-dir,omitempty"`
	NetNS          string          `json:"netns,omitempty" yaml:"netns,omitempty"`
	Report         string          `json:"report,omitempty" yaml:"report,omitempty"`
	NetworkManager NetworkManager  `json:"networkmanager" yaml:"networkmanager"`
	RealRoot       RealRoot        `json:"real-root" yaml:"real-root"`
	Multipath      MultipathConfig `json:"multipath" yaml:"multipath"`
	Relabel        RelabelConfig   `json:"relabel" yaml:"relabel"`
	Flags          Flags           `json:"flags" yaml:"flags"`
	Log            LogConfig       `json:"log" yaml:"log"`
}

// NetworkManager locates the NetworkManager binaries and the state the
// initramfs instance leaves behind. Connections and HostnameFile default to
// locations under RunDir.
type NetworkManager struct {
	Binary        string   `json:"binary,omitempty" yaml:"binary,omitempty"`
	Generator     string   `json:"generator,omitempty" yaml:"generator,omitempty"`
	GeneratorArgs []string `json:"generator-args,omitempty" yaml:"generator-args,omitempty"`
	RunDir        string   `json:"run-dir,omitempty" yaml:"run-dir,omitempty"`
	Connections   string   `json:"connections,omitempty" yaml:"connections,omitempty"`
	HostnameFile  string   `json:"hostname-file,omitempty" yaml:"hostname-file,omitempty"`
	HostnameFloor string   `json:"hostname-floor,omitempty" yaml:"hostname-floor,omitempty"`
	StripKeys     []string `json:"strip-keys,omitempty" yaml:"strip-keys,omitempty"`
}

type RealRoot struct {
	Connections []string `json:"connections,omitempty" yaml:"connections,omitempty"`
	Hostname    string   `json:"hostname,omitempty" yaml:"hostname,omitempty"`
}

type MultipathConfig struct {
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
	Target string `json:"target,omitempty" yaml:"target,omitempty"`
	DropIn string `json:"drop-in,omitempty" yaml:"drop-in,omitempty"`
}

type RelabelConfig struct {
	Setfiles string `json:"setfiles,omitempty" yaml:"setfiles,omitempty"`
	Queue    string `json:"queue,omitempty" yaml:"queue,omitempty"`
}

// Flags names the kernel command line arguments that steer persistence.
type Flags struct {
	NoPersist string `json:"no-persist,omitempty" yaml:"no-persist,omitempty"`
	Force     string `json:"force,omitempty" yaml:"force,omitempty"`
}

type LogConfig struct {
	Level   string `json:"level,omitempty" yaml:"level,omitempty"`
	Journal *bool  `json:"journal,omitempty" yaml:"journal,omitempty"`
}

func (l *Layout) SetDefaults() { //nolint:cyclop
	if l.Sysroot == "" {
		l.Sysroot = "/sysroot"
	}

	if l.Cmdline == "" {
		l.Cmdline = cmdline.DefaultPath
	}

	if l.Proc == "" {
		l.Proc = "/proc"
	}

	if l.ScratchDir == "" {
		l.ScratchDir = "/run"
	}

	nm := &l.NetworkManager

	if nm.RunDir == "" {
		nm.RunDir = "/run/NetworkManager"
	}

	if nm.Connections == "" {
		nm.Connections = filepath.Join(nm.RunDir, "system-connections")
	}

	if nm.HostnameFile == "" {
		nm.HostnameFile = filepath.Join(nm.RunDir, "initrd", "hostname")
	}

	if nm.GeneratorArgs == nil {
		nm.GeneratorArgs = []string{"ip=dhcp,dhcp6"}
	}

	if l.RealRoot.Hostname == "" {
		l.RealRoot.Hostname = "etc/hostname"
	}

	if l.Log.Level == "" {
		l.Log.Level = "info"
	}

	if l.Log.Journal == nil {
		journal := true
		l.Log.Journal = &journal
	}
}

// Validate rejects layouts the teardown cannot run with.
func (l *Layout) Validate() error {
	var errs []error

	for name, path := range map[string]string{
		"sysroot":                    l.Sysroot,
		"networkmanager.binary":      l.NetworkManager.Binary,
		"networkmanager.generator":   l.NetworkManager.Generator,
		"networkmanager.connections": l.NetworkManager.Connections,
		"multipath.source":           l.Multipath.Source,
	} {
		if !filepath.IsAbs(path) {
			errs = append(errs, fmt.Errorf("%s must be an absolute path, got %q", name, path))
		}
	}

	if len(l.RealRoot.Connections) == 0 {
		errs = append(errs, errors.New("real-root.connections must name at least one directory"))
	}

	if l.Flags.NoPersist == "" {
		errs = append(errs, errors.New("flags.no-persist must be set"))
	}

	return errors.Join(errs...)
}

var layoutValidator = newFieldValidator(Layout{})
var networkManagerValidator = newFieldValidator(NetworkManager{})
var realRootValidator = newFieldValidator(RealRoot{})
var multipathValidator = newFieldValidator(MultipathConfig{})
var relabelValidator = newFieldValidator(RelabelConfig{})
var flagsValidator = newFieldValidator(Flags{})
var logConfigValidator = newFieldValidator(LogConfig{})

func (l *Layout) UnmarshalJSON(data []byte) error {
	if err := layoutValidator.Validate(data); err != nil {
		return err
	}

	type layout Layout

	//nolint:wrapcheck
	return json.Unmarshal(data, (*layout)(l))
}

func (n *NetworkManager) UnmarshalJSON(data []byte) error {
	if err := networkManagerValidator.Validate(data); err != nil {
		return err
	}

	type networkManager NetworkManager

	//nolint:wrapcheck
	return json.Unmarshal(data, (*networkManager)(n))
}

func (r *RealRoot) UnmarshalJSON(data []byte) error {
	if err := realRootValidator.Validate(data); err != nil {
		return err
	}

	type realRoot RealRoot

	//nolint:wrapcheck
	return json.Unmarshal(data, (*realRoot)(r))
}

func (m *MultipathConfig) UnmarshalJSON(data []byte) error {
	if err := multipathValidator.Validate(data); err != nil {
		return err
	}

	type multipathConfig MultipathConfig

	//nolint:wrapcheck
	return json.Unmarshal(data, (*multipathConfig)(m))
}

func (r *RelabelConfig) UnmarshalJSON(data []byte) error {
	if err := relabelValidator.Validate(data); err != nil {
		return err
	}

	type relabelConfig RelabelConfig

	//nolint:wrapcheck
	return json.Unmarshal(data, (*relabelConfig)(r))
}

func (f *Flags) UnmarshalJSON(data []byte) error {
	if err := flagsValidator.Validate(data); err != nil {
		return err
	}

	type flags Flags

	//nolint:wrapcheck
	return json.Unmarshal(data, (*flags)(f))
}

// UnmarshalJSON also accepts a bare string as the level.
func (l *LogConfig) UnmarshalJSON(data []byte) error {
	var str string

	if err := json.Unmarshal(data, &str); err == nil {
		l.Level = str

		return nil
	}

	if err := logConfigValidator.Validate(data); err != nil {
		return err
	}

	type logConfig LogConfig

	//nolint:wrapcheck
	return json.Unmarshal(data, (*logConfig)(l))
}
