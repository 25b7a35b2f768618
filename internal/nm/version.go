package nm

import (
	"context"
	"fmt"
	"regexp"

	"github.com/Masterminds/semver/v3"
	"github.com/amadigan/teardown/internal/command"
)

// HostnameFileVersion is the first NetworkManager release whose initrd
// generator records the hostname it found in /run/NetworkManager/initrd/hostname.
const HostnameFileVersion = "1.26.0"

// versionRe takes the upstream part of strings like "1.26.0-12.el8_3" or
// "nmcli tool, version 1.30.0"; the distribution release must not be read as
// a semver pre-release, which would sort it below the upstream release.
var versionRe = regexp.MustCompile(`\d+(\.\d+){0,2}`)

func ParseVersion(output string) (*semver.Version, error) {
	match := versionRe.FindString(output)
	if match == "" {
		return nil, fmt.Errorf("no version in %q", output)
	}

	return semver.NewVersion(match)
}

// InstalledVersion asks the NetworkManager binary for its version.
func InstalledVersion(ctx context.Context, runner command.Runner, binary string) (*semver.Version, error) {
	out, err := runner.Output(ctx, binary, "--version")
	if err != nil {
		return nil, err
	}

	return ParseVersion(string(out))
}

// AtLeast reports whether v is at or above floor. A nil version never is.
func AtLeast(v *semver.Version, floor string) (bool, error) {
	floorVersion, err := semver.NewVersion(floor)
	if err != nil {
		return false, fmt.Errorf("invalid version floor %q: %w", floor, err)
	}

	return v != nil && !v.LessThan(floorVersion), nil
}
