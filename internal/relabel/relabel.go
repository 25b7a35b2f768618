// Package relabel applies SELinux labels to files written into the real root.
package relabel

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/amadigan/teardown/internal/applog"
	"github.com/amadigan/teardown/internal/command"
	"github.com/amadigan/teardown/internal/keyval"
	"github.com/opencontainers/selinux/go-selinux"
	"golang.org/x/sys/unix"
)

var log = applog.New("relabel")

const DefaultPolicy = "targeted"

// Relabeler labels real-root paths immediately with setfiles when it can, and
// otherwise queues tmpfiles.d "Z" entries for systemd-tmpfiles to apply after
// switch-root. It never reports failure to the caller.
type Relabeler struct {
	Sysroot   string
	Setfiles  string
	QueueFile string
	Runner    command.Runner

	// readLabel is replaced in tests.
	readLabel func(path string) (string, error)
}

func New(sysroot, setfiles, queueFile string, runner command.Runner) *Relabeler {
	return &Relabeler{Sysroot: sysroot, Setfiles: setfiles, QueueFile: queueFile, Runner: runner}
}

// Relabel labels each path, given relative to the real root ("/etc/hostname").
// It returns the labels read back after setfiles ran, keyed by the given
// paths, or nil when labeling was queued or SELinux is disabled.
func (r *Relabeler) Relabel(ctx context.Context, paths ...string) map[string]string {
	if len(paths) == 0 {
		return nil
	}

	if r.canRunSetfiles() {
		err := r.setfiles(ctx, paths)
		if err == nil {
			return r.labels(paths)
		}

		log.Warnf("setfiles failed, queueing relabel instead: %v", err)
	}

	if err := r.queue(paths); err != nil {
		log.Warnf("failed to queue relabel of %v: %v", paths, err)
	}

	return nil
}

func (r *Relabeler) canRunSetfiles() bool {
	return r.Setfiles != "" && unix.Access(r.Setfiles, unix.X_OK) == nil
}

// FileContexts returns the file_contexts of the policy the real root is
// configured for.
func (r *Relabeler) FileContexts() (string, error) {
	conf, err := keyval.Load(os.DirFS(r.Sysroot), true, "etc/selinux/config")
	if err != nil {
		return "", err
	}

	policy := conf["SELINUXTYPE"]
	if policy == "" {
		policy = DefaultPolicy
	}

	return filepath.Join(r.Sysroot, "etc/selinux", policy, "contexts/files/file_contexts"), nil
}

func (r *Relabeler) setfiles(ctx context.Context, paths []string) error {
	fc, err := r.FileContexts()
	if err != nil {
		return err
	}

	if _, err := os.Stat(fc); err != nil {
		return fmt.Errorf("no policy to label with: %w", err)
	}

	args := []string{"-DFi0", "-r", r.Sysroot, fc}
	for _, path := range paths {
		args = append(args, filepath.Join(r.Sysroot, path))
	}

	_, err = r.Runner.Output(ctx, r.Setfiles, args...)

	return err
}

func (r *Relabeler) labels(paths []string) map[string]string {
	read := r.readLabel
	if read == nil {
		if !selinux.GetEnabled() {
			return nil
		}

		read = selinux.LfileLabel
	}

	labels := make(map[string]string, len(paths))

	for _, path := range paths {
		full := filepath.Join(r.Sysroot, path)

		label, err := read(full)
		if err != nil {
			log.Warnf("failed to read label of %s: %v", full, err)

			continue
		}

		log.Debugf("%s labeled %s", full, label)

		labels[path] = label
	}

	return labels
}

func (r *Relabeler) queue(paths []string) error {
	if r.QueueFile == "" {
		return errors.New("no relabel queue configured")
	}

	if err := os.MkdirAll(filepath.Dir(r.QueueFile), 0o755); err != nil {
		return err
	}

	f, err := os.OpenFile(r.QueueFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}

	for _, path := range paths {
		if _, err := fmt.Fprintf(f, "Z %s - - -\n", path); err != nil {
			f.Close()

			return err
		}

		log.Debugf("queued relabel of %s", path)
	}

	return f.Close()
}
