// Package propagate decides which pieces of initramfs configuration are
// carried into the real root and copies them there.
package propagate

import (
	"context"
	"fmt"

	"github.com/amadigan/teardown/internal/applog"
)

var log = applog.New("propagate")

// Decision is the outcome of one propagator for this boot.
type Decision int

// The zero Decision is not a valid outcome.
const (
	// RealRootHasConfig: the real root already has its own configuration.
	RealRootHasConfig Decision = iota + 1
	// NoInitramfsConfig: nothing was produced in the initramfs.
	NoInitramfsConfig
	// DefaultConfig: the initramfs configuration is what NetworkManager
	// would have produced without any user input.
	DefaultConfig
	Propagated
	// Skipped: persistence was disabled on the kernel command line.
	Skipped
	// Forced: propagated without consulting the default detector.
	Forced
)

var decisionNames = []string{
	"real-root-has-config",
	"no-initramfs-config",
	"default-config",
	"propagated",
	"skipped",
	"forced",
}

func (d Decision) String() string {
	if d < RealRootHasConfig || d > Forced {
		return fmt.Sprintf("decision(%d)", int(d))
	}

	return decisionNames[d-1]
}

func (d Decision) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Profile describes one NetworkManager profile carried into the real root.
type Profile struct {
	Path      string `yaml:"path" json:"path"`
	ID        string `yaml:"id,omitempty" json:"id,omitempty"`
	UUID      string `yaml:"uuid,omitempty" json:"uuid,omitempty"`
	Type      string `yaml:"type,omitempty" json:"type,omitempty"`
	Interface string `yaml:"interface,omitempty" json:"interface,omitempty"`
}

// Result is what a propagator did. Copied holds real-root paths, and Labels
// the SELinux labels they ended up with when they could be read back.
type Result struct {
	Decision Decision          `yaml:"decision" json:"decision"`
	Copied   []string          `yaml:"copied,omitempty" json:"copied,omitempty"`
	Hostname string            `yaml:"hostname,omitempty" json:"hostname,omitempty"`
	Profiles []Profile         `yaml:"profiles,omitempty" json:"profiles,omitempty"`
	Labels   map[string]string `yaml:"labels,omitempty" json:"labels,omitempty"`
}

// Labeler applies security labels to real-root paths and returns the labels
// it could read back. Labeling is best effort, so it has no error to report.
type Labeler interface {
	Relabel(ctx context.Context, paths ...string) map[string]string
}
