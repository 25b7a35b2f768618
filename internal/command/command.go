// Package command runs the external helpers the teardown depends on
// (NetworkManager, nm-initrd-generator, setfiles).
package command

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/amadigan/teardown/internal/applog"
)

var log = applog.New("command")

type Runner interface {
	// Output runs name with args and returns its standard output.
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

type ExecRunner struct{}

func (ExecRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Debugf("running %s %s", name, strings.Join(args, " "))

	if err := cmd.Run(); err != nil {
		return stdout.Bytes(), &Error{Name: name, Args: args, Err: err, Stderr: strings.TrimSpace(stderr.String())}
	}

	return stdout.Bytes(), nil
}

type Error struct {
	Name   string
	Args   []string
	Err    error
	Stderr string
}

func (e *Error) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("%s failed: %v", e.Name, e.Err)
	}

	return fmt.Sprintf("%s failed: %v: %s", e.Name, e.Err, e.Stderr)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Func adapts a function to Runner.
type Func func(ctx context.Context, name string, args ...string) ([]byte, error)

func (f Func) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return f(ctx, name, args...)
}
