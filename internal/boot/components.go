package boot

import (
	"context"

	"github.com/Masterminds/semver/v3"
	"github.com/amadigan/teardown/internal/cmdline"
	"github.com/amadigan/teardown/internal/command"
	"github.com/amadigan/teardown/internal/config"
	"github.com/amadigan/teardown/internal/nm"
	"github.com/amadigan/teardown/internal/propagate"
	"github.com/amadigan/teardown/internal/relabel"
)

// Components are the propagators wired to one layout and command line.
type Components struct {
	Relabeler *relabel.Relabeler
	Detector  *nm.Detector
	Hostname  *propagate.Hostname
	Network   *propagate.Network
	Multipath *propagate.Multipath
}

func NewComponents(layout *config.Layout, cl *cmdline.Cmdline, runner command.Runner) *Components {
	nmConf := layout.NetworkManager

	relabeler := relabel.New(layout.Sysroot, layout.Relabel.Setfiles, layout.Relabel.Queue, runner)

	detector := &nm.Detector{
		Generator:  &nm.Generator{Path: nmConf.Generator, Args: nmConf.GeneratorArgs, Runner: runner},
		ScratchDir: layout.ScratchDir,
		StripKeys:  nmConf.StripKeys,
	}

	return &Components{
		Relabeler: relabeler,
		Detector:  detector,
		Hostname: &propagate.Hostname{
			Sysroot: layout.Sysroot,
			Target:  layout.RealRoot.Hostname,
			NMFile:  nmConf.HostnameFile,
			Cmdline: cl,
			Version: func(ctx context.Context) (*semver.Version, error) {
				return nm.InstalledVersion(ctx, runner, nmConf.Binary)
			},
			Floor:   nmConf.HostnameFloor,
			Labeler: relabeler,
		},
		Network: &propagate.Network{
			Sysroot:  layout.Sysroot,
			Source:   nmConf.Connections,
			Targets:  layout.RealRoot.Connections,
			Detector: detector,
			Labeler:  relabeler,
		},
		Multipath: &propagate.Multipath{
			Sysroot: layout.Sysroot,
			Source:  layout.Multipath.Source,
			Target:  layout.Multipath.Target,
			DropIn:  layout.Multipath.DropIn,
			Labeler: relabeler,
		},
	}
}
