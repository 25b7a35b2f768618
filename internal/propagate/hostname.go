package propagate

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/amadigan/teardown/internal/cmdline"
	"github.com/amadigan/teardown/internal/fsutil"
	"github.com/amadigan/teardown/internal/ipargs"
	"github.com/amadigan/teardown/internal/nm"
)

// VersionFunc reports the installed NetworkManager version.
type VersionFunc func(ctx context.Context) (*semver.Version, error)

// Hostname writes the hostname found in the initramfs into the real root.
type Hostname struct {
	Sysroot string
	// Target is the real-root hostname file, relative to Sysroot.
	Target string
	// NMFile is where NetworkManager records the hostname it detected.
	NMFile  string
	Cmdline *cmdline.Cmdline
	Version VersionFunc
	// Floor is the first NetworkManager version that writes NMFile.
	Floor   string
	Labeler Labeler

	modern *bool
}

// fromNM reports whether NetworkManager is new enough to be asked directly.
// The answer is computed once.
func (h *Hostname) fromNM(ctx context.Context) bool {
	if h.modern != nil {
		return *h.modern
	}

	modern := false

	floor := h.Floor
	if floor == "" {
		floor = nm.HostnameFileVersion
	}

	if v, err := h.Version(ctx); err != nil {
		log.Warnf("failed to determine NetworkManager version, parsing ip= arguments: %v", err)
	} else if ok, err := nm.AtLeast(v, floor); err != nil {
		log.Warnf("%v", err)
	} else {
		log.Debugf("NetworkManager %s, hostname file floor %s", v, floor)

		modern = ok
	}

	h.modern = &modern

	return modern
}

// Resolve returns the hostname the initramfs ended up with, or "" if none.
func (h *Hostname) Resolve(ctx context.Context) (string, error) {
	if !h.fromNM(ctx) {
		return ipargs.Hostname(h.Cmdline), nil
	}

	data, err := os.ReadFile(h.NMFile)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	} else if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", h.NMFile, err)
	}

	return strings.TrimSpace(string(data)), nil
}

func (h *Hostname) Propagate(ctx context.Context) (Result, error) {
	target := "/" + strings.TrimPrefix(h.Target, "/")
	dest := filepath.Join(h.Sysroot, target)

	if fsutil.Exists(dest) {
		log.Info("hostname is defined in the real root")
		log.Info("will not attempt to propagate initramfs hostname")

		return Result{Decision: RealRootHasConfig}, nil
	}

	name, err := h.Resolve(ctx)
	if err != nil {
		return Result{}, err
	}

	if name == "" {
		log.Info("no initramfs hostname information to propagate")

		return Result{Decision: NoInitramfsConfig}, nil
	}

	log.Infof("propagating initramfs hostname (%s) to the real root", name)

	if err := os.WriteFile(dest, []byte(name+"\n"), 0o644); err != nil {
		return Result{}, fmt.Errorf("failed to write %s: %w", dest, err)
	}

	labels := h.Labeler.Relabel(ctx, target)

	return Result{Decision: Propagated, Hostname: name, Copied: []string{target}, Labels: labels}, nil
}
