package sysctl

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Path maps a dotted sysctl key onto its file under procRoot.
func Path(procRoot, key string) string {
	return filepath.Join(procRoot, "sys", strings.ReplaceAll(key, ".", "/"))
}

func Set(procRoot, key, value string) error {
	if err := os.WriteFile(Path(procRoot, key), []byte(value), 0o644); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	return nil
}
