package keyval

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Parallel()

	root := fstest.MapFS{
		"etc/selinux/config": {Data: []byte("# managed\nSELINUX=enforcing\n\nSELINUXTYPE=\"targeted\"\n")},
		"etc/override":       {Data: []byte("SELINUXTYPE = mls\n")},
		"etc/broken":         {Data: []byte("SELINUX\n")},
		"etc/commented":      {Data: []byte("SELINUX=permissive # set by installer\nSELINUXTYPE='mls'\nEMPTY=\n")},
		"etc/unbalanced":     {Data: []byte("SELINUXTYPE=\"targeted\n")},
	}

	vals, err := Load(root, false, "etc/selinux/config")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"SELINUX": "enforcing", "SELINUXTYPE": "targeted"}, vals)

	vals, err = Load(root, true, "etc/selinux/config", "etc/missing", "etc/override")
	require.NoError(t, err)
	assert.Equal(t, "mls", vals["SELINUXTYPE"])

	_, err = Load(root, false, "etc/missing")
	assert.Error(t, err)

	_, err = Load(root, false, "etc/broken")
	assert.ErrorContains(t, err, "etc/broken:1")

	vals, err = Load(root, false, "etc/commented")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"SELINUX": "permissive", "SELINUXTYPE": "mls", "EMPTY": ""}, vals)

	_, err = Load(root, false, "etc/unbalanced")
	assert.ErrorContains(t, err, "etc/unbalanced:1")
}
