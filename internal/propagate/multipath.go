package propagate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/amadigan/teardown/internal/fsutil"
)

// Multipath carries the multipath configuration generated in the initramfs
// into the real root. Only presence matters; contents are not inspected.
type Multipath struct {
	Sysroot string
	// Source is the initramfs multipath.conf.
	Source string
	// Target and DropIn are relative to Sysroot.
	Target  string
	DropIn  string
	Labeler Labeler
}

func (m *Multipath) Propagate(ctx context.Context) (Result, error) {
	target := "/" + strings.TrimPrefix(m.Target, "/")
	dest := filepath.Join(m.Sysroot, target)

	if fsutil.Exists(dest) {
		log.Debug("multipath is configured in the real root")

		return Result{Decision: RealRootHasConfig}, nil
	}

	if !fsutil.IsFile(m.Source) {
		log.Debug("no initramfs multipath configuration")

		return Result{Decision: NoInitramfsConfig}, nil
	}

	log.Info("propagating automatic multipath configuration")

	if err := fsutil.CopyFile(m.Source, dest); err != nil {
		return Result{}, fmt.Errorf("failed to copy %s: %w", m.Source, err)
	}

	log.Infof("'%s' -> '%s'", m.Source, dest)

	dropIn := "/" + strings.TrimPrefix(m.DropIn, "/")

	if err := os.MkdirAll(filepath.Join(m.Sysroot, dropIn), 0o755); err != nil {
		return Result{}, fmt.Errorf("failed to create %s: %w", dropIn, err)
	}

	labels := m.Labeler.Relabel(ctx, target, dropIn)

	return Result{Decision: Propagated, Copied: []string{target, dropIn}, Labels: labels}, nil
}
