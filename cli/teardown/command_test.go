package teardown

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/amadigan/teardown/internal/command"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, cli *Cli, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCommand(cli)

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())

	return out.String(), err
}

func versionRunner(version string) command.Runner {
	return command.Func(func(_ context.Context, name string, args ...string) ([]byte, error) {
		if len(args) == 1 && args[0] == "--version" {
			return []byte(version + "\n"), nil
		}

		return nil, fmt.Errorf("unexpected command %s %v", name, args)
	})
}

func TestHostnameCommand(t *testing.T) {
	cli := &Cli{Runner: versionRunner("1.24.0")}

	out, err := execute(t, cli, "hostname", "--log-level", "error", "--sysroot", t.TempDir(),
		"--cmdline", "ip=10.0.0.5::10.0.0.1:255.255.255.0:host1:eth0:none ip=10.0.0.6::10.0.0.1:255.255.255.0:host2:eth0:none")
	require.NoError(t, err)
	assert.Equal(t, "host2\n", out)
	assert.False(t, cli.Options.NoPersist)
}

func TestIsDefaultCommand(t *testing.T) {
	dir := t.TempDir()
	active := filepath.Join(dir, "connections")
	require.NoError(t, os.MkdirAll(active, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(active, "default_connection.nmconnection"),
		[]byte("[connection]\nid=Wired Connection\nuuid=8a4a1d4c-1a7d-4bd8-a6a2-0e5b8f4f1b5e\n"), 0o600))

	conf := filepath.Join(dir, "teardown.yaml")
	require.NoError(t, os.WriteFile(conf, []byte(fmt.Sprintf("scratch-dir: %s\nnetworkmanager:\n  connections: %s\n", dir, active)), 0o600))

	cli := &Cli{Runner: command.Func(func(_ context.Context, _ string, args ...string) ([]byte, error) {
		return nil, os.WriteFile(filepath.Join(args[1], "default_connection.nmconnection"),
			[]byte("[connection]\nid=Wired Connection\nuuid=0f3e0b52-7f5c-4b8e-9d3c-2d3b1c9c1a77\n"), 0o600)
	})}

	out, err := execute(t, cli, "is-default", "--config", conf, "--cmdline", "rd.neednet=1", "--log-level", "error")
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := execute(t, &Cli{Runner: versionRunner("1.26.0")}, "hostname", "--cmdline", "quiet", "--log-level", "chatty", "--sysroot", t.TempDir())
	assert.ErrorContains(t, err, "invalid log level")
}
