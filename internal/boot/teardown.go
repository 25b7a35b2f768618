// Package boot sequences the teardown of initramfs networking and the
// propagation of its configuration into the real root.
package boot

import (
	"context"
	"fmt"
	"os"

	"github.com/amadigan/teardown/internal/applog"
	"github.com/amadigan/teardown/internal/logerr"
	"github.com/amadigan/teardown/internal/netconf"
	"github.com/amadigan/teardown/internal/propagate"
)

var log = applog.New("boot")

type HostnamePropagator interface {
	Propagate(ctx context.Context) (propagate.Result, error)
}

type NetworkPropagator interface {
	Propagate(ctx context.Context, force bool) (propagate.Result, error)
}

type MultipathPropagator interface {
	Propagate(ctx context.Context) (propagate.Result, error)
}

type Teardown struct {
	Netlink  netconf.Netlinker
	ProcRoot string
	// RunDir is the transient NetworkManager state removed once propagation
	// has run, whatever its outcome.
	RunDir string

	Hostname  HostnamePropagator
	Network   NetworkPropagator
	Multipath MultipathPropagator

	// ReportPath, when set, receives the decisions as YAML.
	ReportPath string
}

func NewTeardown(c *Components, nl netconf.Netlinker, procRoot, runDir, reportPath string) *Teardown {
	return &Teardown{
		Netlink:    nl,
		ProcRoot:   procRoot,
		RunDir:     runDir,
		Hostname:   c.Hostname,
		Network:    c.Network,
		Multipath:  c.Multipath,
		ReportPath: reportPath,
	}
}

// Run tears down networking and propagates configuration. The first failing
// step aborts the run and is returned as a *logerr.StepError.
func (t *Teardown) Run(ctx context.Context, opts Options) (*propagate.Report, error) {
	report := &propagate.Report{Persist: !opts.NoPersist}

	if err := logerr.Step("interface teardown", netconf.Teardown(t.Netlink)); err != nil {
		return report, err
	}

	if err := logerr.Step("route flush", netconf.FlushRoutes(t.Netlink, t.ProcRoot)); err != nil {
		return report, err
	}

	if err := t.propagate(ctx, opts, report); err != nil {
		return report, err
	}

	res, err := t.Multipath.Propagate(ctx)
	if err != nil {
		return report, logerr.Step("multipath propagation", err)
	}

	report.Multipath = &res

	if t.ReportPath != "" {
		if err := report.WriteFile(t.ReportPath); err != nil {
			log.Warnf("%v", err)
		}
	}

	return report, nil
}

func (t *Teardown) propagate(ctx context.Context, opts Options, report *propagate.Report) (err error) {
	defer func() {
		if rmErr := t.cleanup(); err == nil {
			err = rmErr
		} else if rmErr != nil {
			log.Errorf("%v", rmErr)
		}
	}()

	if opts.NoPersist {
		log.Info("persistence of initramfs networking disabled on the kernel command line")

		report.Hostname = &propagate.Result{Decision: propagate.Skipped}
		report.Network = &propagate.Result{Decision: propagate.Skipped}

		return nil
	}

	hostname, err := t.Hostname.Propagate(ctx)
	if err != nil {
		return logerr.Step("hostname propagation", err)
	}

	report.Hostname = &hostname

	network, err := t.Network.Propagate(ctx, opts.Force)
	if err != nil {
		return logerr.Step("network propagation", err)
	}

	report.Network = &network

	return nil
}

func (t *Teardown) cleanup() error {
	if t.RunDir == "" {
		return nil
	}

	log.Debugf("removing %s", t.RunDir)

	if err := os.RemoveAll(t.RunDir); err != nil {
		return logerr.Step("cleanup", fmt.Errorf("failed to remove %s: %w", t.RunDir, err))
	}

	return nil
}
