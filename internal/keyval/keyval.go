// Package keyval reads shell-style KEY=VALUE files such as /etc/selinux/config.
package keyval

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/google/shlex"
)

// Load merges the assignments of each file in order, later files winning.
// Values follow shell quoting, so trailing comments are dropped.
// Missing files are skipped when optional is set.
func Load(root fs.FS, optional bool, files ...string) (map[string]string, error) {
	vals := map[string]string{}

	for _, file := range files {
		data, err := fs.ReadFile(root, file)
		if err != nil {
			if optional && errors.Is(err, fs.ErrNotExist) {
				continue
			}

			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}

		for i, line := range strings.Split(string(data), "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
				continue
			}

			key, value, ok := strings.Cut(line, "=")
			if !ok {
				return nil, fmt.Errorf("%s:%d: invalid line: %s", file, i+1, line)
			}

			words, err := shlex.Split(value)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %w", file, i+1, err)
			}

			vals[strings.TrimSpace(key)] = strings.Join(words, " ")
		}
	}

	return vals, nil
}
