package boot

import (
	"github.com/amadigan/teardown/internal/cmdline"
	"github.com/amadigan/teardown/internal/config"
)

// Options are the kernel command line switches, read once per run.
type Options struct {
	// NoPersist skips hostname and network propagation.
	NoPersist bool
	// Force propagates initramfs networking even when it is the default.
	Force bool
	Debug bool
}

func ResolveOptions(cl *cmdline.Cmdline, flags config.Flags) Options {
	opts := Options{
		NoPersist: cl.GetArgBool(false, flags.NoPersist),
		Debug:     cl.GetArgBool(false, "rd.debug"),
	}

	if flags.Force != "" {
		opts.Force = cl.GetArgBool(false, flags.Force)
	}

	return opts
}
