package nm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/amadigan/teardown/internal/command"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultConnection = `[connection]
id=Wired Connection
uuid=%s
type=ethernet
autoconnect-retries=1
multi-connect=3
permissions=
%s
[ethernet]
mac-address-blacklist=

[ipv4]
dhcp-timeout=90
dns-search=
method=auto
required-timeout=20000

[ipv6]
addr-gen-mode=eui64
dhcp-timeout=90
dns-search=
method=auto

[proxy]
`

const staticConnection = `[connection]
id=eth0
uuid=%s
type=ethernet
interface-name=eth0
multi-connect=1
permissions=

[ethernet]
mac-address-blacklist=

[ipv4]
address1=10.0.0.5/24,10.0.0.1
dns-search=
method=manual

[ipv6]
addr-gen-mode=eui64
dns-search=
method=disabled

[proxy]
`

func defaultKeyfile(waitTimeout bool) string {
	extra := ""
	if waitTimeout {
		extra = "wait-device-timeout=60000\n"
	}

	return fmt.Sprintf(defaultConnection, uuid.NewString(), extra)
}

// fakeGenerator writes the DHCP-everywhere keyfile into the -c directory and
// records where the workspace was.
func fakeGenerator(t *testing.T, workspaces *[]string) command.Runner {
	t.Helper()

	return command.Func(func(_ context.Context, name string, args ...string) ([]byte, error) {
		require.Equal(t, "/usr/libexec/nm-initrd-generator", name)
		require.GreaterOrEqual(t, len(args), 8)
		require.Equal(t, "-c", args[0])
		require.Equal(t, "--", args[6])
		require.Equal(t, DefaultGeneratorArgs, args[7:])

		*workspaces = append(*workspaces, filepath.Dir(args[1]))

		return nil, os.WriteFile(filepath.Join(args[1], "default_connection.nmconnection"), []byte(defaultKeyfile(false)), 0o600)
	})
}

func activeDir(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}

	return dir
}

func newDetector(t *testing.T, runner command.Runner) *Detector {
	t.Helper()

	return &Detector{
		Generator:  &Generator{Path: "/usr/libexec/nm-initrd-generator", Args: DefaultGeneratorArgs, Runner: runner},
		ScratchDir: t.TempDir(),
	}
}

func TestDetectorDefaultDespiteVolatileFields(t *testing.T) {
	t.Parallel()

	var workspaces []string
	d := newDetector(t, fakeGenerator(t, &workspaces))

	active := activeDir(t, map[string]string{"default_connection.nmconnection": defaultKeyfile(true)})

	same, err := d.IsDefault(context.Background(), active)
	require.NoError(t, err)
	assert.True(t, same)

	require.Len(t, workspaces, 1)
	assert.NoDirExists(t, workspaces[0])

	content, err := os.ReadFile(filepath.Join(active, "default_connection.nmconnection"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "wait-device-timeout=60000", "active profiles must not be modified")
}

func TestDetectorUserSupplied(t *testing.T) {
	t.Parallel()

	var workspaces []string
	d := newDetector(t, fakeGenerator(t, &workspaces))

	active := activeDir(t, map[string]string{"eth0.nmconnection": fmt.Sprintf(staticConnection, uuid.NewString())})

	same, err := d.IsDefault(context.Background(), active)
	require.NoError(t, err)
	assert.False(t, same)
	assert.NoDirExists(t, workspaces[0])

	active = activeDir(t, map[string]string{
		"default_connection.nmconnection": defaultKeyfile(false),
		"eth0.nmconnection":               fmt.Sprintf(staticConnection, uuid.NewString()),
	})

	same, err = d.IsDefault(context.Background(), active)
	require.NoError(t, err)
	assert.False(t, same)
}

func TestDetectorRemovesWorkspaceOnFailure(t *testing.T) {
	t.Parallel()

	var workspace string

	d := newDetector(t, command.Func(func(_ context.Context, _ string, args ...string) ([]byte, error) {
		workspace = filepath.Dir(args[1])
		return nil, errors.New("generator crashed")
	}))

	_, err := d.IsDefault(context.Background(), activeDir(t, map[string]string{"x.nmconnection": "[connection]\n"}))
	assert.ErrorContains(t, err, "generator crashed")
	assert.NotEmpty(t, workspace)
	assert.NoDirExists(t, workspace)

	entries, err := os.ReadDir(d.ScratchDir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = d.IsDefault(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	entries, err = os.ReadDir(d.ScratchDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStripLines(t *testing.T) {
	t.Parallel()

	in := "[connection]\nid=x\nuuid=abc\nwait-device-timeout=60000\nuuid-like=keep\n[ipv4]\nmethod=auto"
	assert.Equal(t, "[connection]\nid=x\nuuid-like=keep\n[ipv4]\nmethod=auto", string(StripLines([]byte(in), VolatileKeys...)))
}

func TestDiffTrees(t *testing.T) {
	t.Parallel()

	a := activeDir(t, map[string]string{"one": "same\n", "two": "left\n"})
	b := activeDir(t, map[string]string{"one": "same\n", "two": "right\n", "three": "new\n"})

	same, report, err := DiffTrees(a, b)
	require.NoError(t, err)
	assert.False(t, same)
	assert.Contains(t, report, "Only in "+b+": three")
	assert.Contains(t, report, "-left")
	assert.Contains(t, report, "+right")

	same, report, err = DiffTrees(a, a)
	require.NoError(t, err)
	assert.True(t, same)
	assert.Empty(t, report)

	same, _, err = DiffTrees(filepath.Join(a, "missing"), t.TempDir())
	require.NoError(t, err)
	assert.True(t, same)
}

func TestParseProfile(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	p, err := ParseProfile("/run/NetworkManager/system-connections/eth0.nmconnection", []byte(fmt.Sprintf(staticConnection, id)))
	require.NoError(t, err)

	assert.Equal(t, "eth0", p.ID)
	assert.Equal(t, id, p.UUID)
	assert.Equal(t, "ethernet", p.Type)
	assert.Equal(t, "eth0", p.Interface)
	assert.Equal(t, fmt.Sprintf("eth0 (%s)", id), p.String())

	p, err = ParseProfile("/x/bad.nmconnection", []byte("[connection]\nuuid=not-a-uuid\n"))
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, p.UUID)
	assert.Equal(t, "bad.nmconnection", p.String())
}

func TestLoadProfiles(t *testing.T) {
	t.Parallel()

	dir := activeDir(t, map[string]string{
		"b.nmconnection": "[connection]\nid=b\n",
		"a.nmconnection": "[connection]\nid=a\n",
	})
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))

	profiles, err := LoadProfiles(dir)
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "a", profiles[0].ID)
	assert.Equal(t, "b", profiles[1].ID)
}

func TestVersionGate(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		output string
		modern bool
	}{
		{output: "1.24.0", modern: false},
		{output: "1.24.2-1.fc32\n", modern: false},
		{output: "1.26.0", modern: true},
		{output: "1.26.0-12.el8_3\n", modern: true},
		{output: "nmcli tool, version 1.30.0-7", modern: true},
		{output: "1.4", modern: false},
		{output: "2", modern: true},
	} {
		v, err := ParseVersion(tc.output)
		require.NoError(t, err, tc.output)

		ok, err := AtLeast(v, HostnameFileVersion)
		require.NoError(t, err)
		assert.Equal(t, tc.modern, ok, tc.output)
	}

	_, err := ParseVersion("NetworkManager: command not found")
	assert.Error(t, err)

	ok, err := AtLeast(nil, HostnameFileVersion)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = AtLeast(nil, "not.a.version")
	assert.Error(t, err)
}

func TestInstalledVersion(t *testing.T) {
	t.Parallel()

	runner := command.Func(func(_ context.Context, name string, args ...string) ([]byte, error) {
		assert.Equal(t, "/usr/sbin/NetworkManager", name)
		assert.Equal(t, []string{"--version"}, args)
		return []byte("1.26.0-12.el8_3\n"), nil
	})

	v, err := InstalledVersion(context.Background(), runner, "/usr/sbin/NetworkManager")
	require.NoError(t, err)
	assert.Equal(t, "1.26.0", v.String())
}
