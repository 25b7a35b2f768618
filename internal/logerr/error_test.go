package logerr

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStep(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Step("route flush", nil))

	err := Step("route flush", fs.ErrPermission)

	var stepErr *StepError
	assert.ErrorAs(t, err, &stepErr)
	assert.Equal(t, "route flush", stepErr.Step)
	assert.ErrorIs(t, err, fs.ErrPermission)
	assert.Equal(t, "route flush: permission denied", err.Error())
	assert.Contains(t, stepErr.Stack, "goroutine")
}
