package propagate

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Report collects the decisions of one run.
type Report struct {
	Persist   bool    `yaml:"persist"`
	Hostname  *Result `yaml:"hostname,omitempty"`
	Network   *Result `yaml:"network,omitempty"`
	Multipath *Result `yaml:"multipath,omitempty"`
}

func (r *Report) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(r); err != nil {
		return err
	}

	return enc.Close()
}

// WriteFile writes the report to path, creating its directory.
func (r *Report) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := r.Encode(f); err != nil {
		f.Close()

		return fmt.Errorf("failed to write report %s: %w", path, err)
	}

	return f.Close()
}
