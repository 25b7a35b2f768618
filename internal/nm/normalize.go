package nm

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// VolatileKeys are keyfile fields that differ between two generator runs
// for reasons unrelated to what the user asked for: the uuid is random and
// wait-device-timeout only appears when rd.neednet is set.
var VolatileKeys = []string{"uuid", "wait-device-timeout"}

// StripLines removes lines starting with key= from data.
func StripLines(data []byte, keys ...string) []byte {
	lines := strings.SplitAfter(string(data), "\n")

	var b strings.Builder

	for _, line := range lines {
		drop := false

		for _, key := range keys {
			if strings.HasPrefix(line, key+"=") {
				drop = true

				break
			}
		}

		if !drop {
			b.WriteString(line)
		}
	}

	return []byte(b.String())
}

// StripTree rewrites every regular file under root without the given keys.
func StripTree(root string, keys ...string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.Type().IsRegular() {
			return err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		return os.WriteFile(path, StripLines(data, keys...), info.Mode().Perm())
	})
}
