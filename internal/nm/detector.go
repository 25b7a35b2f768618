// Package nm holds the NetworkManager specific pieces of the teardown: the
// version lookup, keyfile parsing and the default configuration detector.
package nm

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/amadigan/teardown/internal/applog"
	"github.com/amadigan/teardown/internal/fsutil"
)

var log = applog.New("nm")

// Detector decides whether the connections the initramfs generated are the
// ones NetworkManager produces when given no networking arguments at all.
type Detector struct {
	Generator *Generator
	// ScratchDir holds the temporary comparison workspace.
	ScratchDir string
	// StripKeys are removed from both sides before comparing.
	StripKeys []string
}

// IsDefault regenerates the zero-argument configuration next to a copy of
// activeDir and compares the two. It never modifies activeDir, and the
// workspace is removed before returning.
func (d *Detector) IsDefault(ctx context.Context, activeDir string) (bool, error) {
	workspace, err := os.MkdirTemp(d.ScratchDir, "initrd-teardown-")
	if err != nil {
		return false, fmt.Errorf("failed to create comparison workspace: %w", err)
	}

	defer func() {
		if err := os.RemoveAll(workspace); err != nil {
			log.Warnf("failed to remove %s: %v", workspace, err)
		}
	}()

	active := filepath.Join(workspace, "active")
	generated := filepath.Join(workspace, "default")

	if err := fsutil.CopyDir(activeDir, active, nil); err != nil {
		return false, fmt.Errorf("failed to copy %s: %w", activeDir, err)
	}

	if err := os.MkdirAll(generated, 0o700); err != nil {
		return false, err
	}

	err = d.Generator.Generate(ctx, generated, filepath.Join(workspace, "initrd"), filepath.Join(workspace, "conf.d"))
	if err != nil {
		return false, err
	}

	keys := d.StripKeys
	if keys == nil {
		keys = VolatileKeys
	}

	for _, dir := range []string{active, generated} {
		if err := StripTree(dir, keys...); err != nil {
			return false, fmt.Errorf("failed to normalize %s: %w", dir, err)
		}
	}

	same, report, err := DiffTrees(active, generated)
	if err != nil {
		return false, err
	}

	if !same {
		log.Debugf("initramfs connections differ from the defaults:\n%s", report)
	}

	return same, nil
}
