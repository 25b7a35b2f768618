// Package config holds the paths and flag names the teardown works with.
// Defaults are embedded; an override file may replace any of them.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/amadigan/teardown/internal/applog"
	"github.com/amadigan/teardown/internal/util"
	"gopkg.in/yaml.v3"
)

const Name = "initrd-teardown"

var log = applog.New("config")

//go:embed teardown.yaml
var defaultConfig []byte

func decodeYAML(data []byte, layout *Layout) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(layout); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	return nil
}

// Default returns the embedded configuration.
func Default() *Layout {
	var layout Layout

	util.Must(decodeYAML(defaultConfig, &layout))

	layout.SetDefaults()

	return &layout
}

// LoadConfig reads the embedded defaults and, when path is set, lays the
// file at path over them. Files ending in .json or .jsonc are read as JSON
// with comments, anything else as YAML.
func LoadConfig(path string) (*Layout, error) {
	var layout Layout

	if err := decodeYAML(defaultConfig, &layout); err != nil {
		return nil, fmt.Errorf("failed to parse default config: %w", err)
	}

	if path != "" {
		log.Debugf("reading configuration from %s", path)

		switch strings.ToLower(filepath.Ext(path)) {
		case ".json", ".jsonc":
			if err := util.ReadJsonConfig(path, &layout); err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", path, err)
			}
		default:
			bs, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", path, err)
			}

			if err := decodeYAML(bs, &layout); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", path, err)
			}
		}
	}

	layout.SetDefaults()

	if err := layout.Validate(); err != nil {
		return &layout, fmt.Errorf("invalid configuration: %w", err)
	}

	return &layout, nil
}
