// Package fsutil holds the small file operations the propagators share.
package fsutil

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/amadigan/teardown/internal/applog"
)

var log = applog.New("fsutil")

// Exists reports whether anything (file, directory, dangling symlink) is at path.
func Exists(path string) bool {
	_, err := os.Lstat(path)

	return err == nil
}

func IsFile(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.Mode().IsRegular()
}

// HasEntries reports whether dir exists and is non-empty. A missing
// directory is empty.
func HasEntries(dir string) (bool, error) {
	f, err := os.Open(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	} else if err != nil {
		return false, err
	}
	defer f.Close()

	names, err := f.Readdirnames(1)
	if errors.Is(err, io.EOF) {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	return len(names) > 0, nil
}

// CopyFile copies src to dest, replacing dest, and carries over the mode,
// owner and modification time. The parent of dest must exist.
func CopyFile(src, dest string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dest)

		return fmt.Errorf("failed to copy %s to %s: %w", src, dest, err)
	}

	if err := out.Chmod(info.Mode().Perm()); err != nil {
		return err
	}

	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		if err := out.Chown(int(st.Uid), int(st.Gid)); err != nil {
			log.Warnf("failed to set owner of %s: %v", dest, err)
		}
	}

	if err := out.Close(); err != nil {
		return err
	}

	return os.Chtimes(dest, info.ModTime(), info.ModTime())
}

// CopyDir recursively copies the contents of src into dest, creating dest
// if needed. Regular files and directories are copied; symlinks are
// recreated. Each copied file is passed to copied, when set, in
// lexical order.
func CopyDir(src, dest string, copied func(src, dest string)) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dest, info.Mode().Perm()); err != nil {
		return err
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		from := filepath.Join(src, entry.Name())
		to := filepath.Join(dest, entry.Name())

		switch {
		case entry.IsDir():
			if err := CopyDir(from, to, copied); err != nil {
				return err
			}
		case entry.Type()&fs.ModeSymlink != 0:
			target, err := os.Readlink(from)
			if err != nil {
				return err
			}

			os.Remove(to)

			if err := os.Symlink(target, to); err != nil {
				return err
			}
		case entry.Type().IsRegular():
			if err := CopyFile(from, to); err != nil {
				return err
			}
		default:
			log.Debugf("skipping special file %s", from)

			continue
		}

		if copied != nil && !entry.IsDir() {
			copied(from, to)
		}
	}

	return nil
}
