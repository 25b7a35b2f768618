package propagate

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/amadigan/teardown/internal/fsutil"
	"github.com/amadigan/teardown/internal/nm"
	"github.com/google/uuid"
)

// DefaultDetector classifies a profile directory as the zero-input default.
// *nm.Detector satisfies it.
type DefaultDetector interface {
	IsDefault(ctx context.Context, dir string) (bool, error)
}

// Network carries the NetworkManager profiles generated in the initramfs
// into the real root.
type Network struct {
	Sysroot string
	// Source is the initramfs profile directory.
	Source string
	// Targets are real-root directories, relative to Sysroot, any of which
	// being non-empty means the real root configures its own networking.
	// Profiles are copied into the first.
	Targets  []string
	Detector DefaultDetector
	Labeler  Labeler
}

func (n *Network) realRootConfigured() (bool, error) {
	for _, target := range n.Targets {
		has, err := fsutil.HasEntries(filepath.Join(n.Sysroot, target))
		if err != nil || has {
			return has, err
		}
	}

	return false, nil
}

// Propagate copies the initramfs profiles unless the real root has its own,
// there are none, or they are the defaults. force skips the default check.
func (n *Network) Propagate(ctx context.Context, force bool) (Result, error) {
	if len(n.Targets) == 0 {
		return Result{}, fmt.Errorf("no real root network configuration directory configured")
	}

	configured, err := n.realRootConfigured()
	if err != nil {
		return Result{}, err
	}

	if configured {
		log.Info("networking config is defined in the real root")
		log.Info("will not attempt to propagate initramfs networking")

		return Result{Decision: RealRootHasConfig}, nil
	}

	present, err := fsutil.HasEntries(n.Source)
	if err != nil {
		return Result{}, err
	}

	if !present {
		log.Info("no initramfs networking information to propagate")

		return Result{Decision: NoInitramfsConfig}, nil
	}

	decision := Forced

	if force {
		log.Info("propagation of initramfs networking forced on the kernel command line")
	} else {
		isDefault, err := n.Detector.IsDefault(ctx, n.Source)
		if err != nil {
			return Result{}, fmt.Errorf("failed to compare against default networking: %w", err)
		}

		if isDefault {
			log.Info("skipping propagation of default networking configs")

			return Result{Decision: DefaultConfig}, nil
		}

		decision = Propagated
	}

	log.Info("propagating initramfs networking config to the real root")

	return n.copy(ctx, decision)
}

func (n *Network) copy(ctx context.Context, decision Decision) (Result, error) {
	result := Result{Decision: decision}

	target := "/" + strings.TrimPrefix(n.Targets[0], "/")
	dest := filepath.Join(n.Sysroot, target)

	if profiles, err := nm.LoadProfiles(n.Source); err != nil {
		log.Warnf("failed to read profiles in %s: %v", n.Source, err)
	} else {
		for _, p := range profiles {
			log.Debugf("profile %s, type %s, interface %s", p, p.Type, p.Interface)

			result.Profiles = append(result.Profiles, describeProfile(target, p))
		}
	}

	err := fsutil.CopyDir(n.Source, dest, func(src, dst string) {
		log.Infof("'%s' -> '%s'", src, dst)

		result.Copied = append(result.Copied, filepath.Join(target, strings.TrimPrefix(dst, dest)))
	})
	if err != nil {
		return result, fmt.Errorf("failed to copy %s to %s: %w", n.Source, dest, err)
	}

	result.Labels = n.Labeler.Relabel(ctx, target)

	return result, nil
}

func describeProfile(target string, p nm.Profile) Profile {
	desc := Profile{
		Path:      filepath.Join(target, filepath.Base(p.Path)),
		ID:        p.ID,
		Type:      p.Type,
		Interface: p.Interface,
	}

	if p.UUID != uuid.Nil {
		desc.UUID = p.UUID.String()
	}

	return desc
}
