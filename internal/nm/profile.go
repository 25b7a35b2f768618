package nm

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/coreos/go-systemd/unit"
	"github.com/google/uuid"
)

// Profile is one NetworkManager keyfile.
type Profile struct {
	Path      string
	ID        string
	UUID      uuid.UUID
	Type      string
	Interface string
}

func (p Profile) String() string {
	name := p.ID
	if name == "" {
		name = filepath.Base(p.Path)
	}

	if p.UUID == uuid.Nil {
		return name
	}

	return fmt.Sprintf("%s (%s)", name, p.UUID)
}

// ParseProfile reads the [connection] section of a keyfile. Keyfiles share
// the unit file syntax closely enough for the unit deserializer.
func ParseProfile(path string, data []byte) (Profile, error) {
	p := Profile{Path: path}

	opts, err := unit.Deserialize(bytes.NewReader(data))
	if err != nil {
		return p, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	for _, opt := range opts {
		if opt.Section != "connection" {
			continue
		}

		switch opt.Name {
		case "id":
			p.ID = opt.Value
		case "uuid":
			if id, err := uuid.Parse(opt.Value); err == nil {
				p.UUID = id
			} else {
				log.Warnf("%s: invalid uuid %q", path, opt.Value)
			}
		case "type":
			p.Type = opt.Value
		case "interface-name":
			p.Interface = opt.Value
		}
	}

	return p, nil
}

// LoadProfiles parses every regular file in dir, sorted by name. Files the
// parser rejects are still returned, with only the path set.
func LoadProfiles(dir string) ([]Profile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	profiles := make([]Profile, 0, len(entries))

	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}

		path := filepath.Join(dir, entry.Name())

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}

		p, err := ParseProfile(path, data)
		if err != nil {
			log.Warnf("%v", err)
		}

		profiles = append(profiles, p)
	}

	return profiles, nil
}
