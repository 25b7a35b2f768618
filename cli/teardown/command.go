// Package teardown holds the initrd-teardown command line.
package teardown

import (
	"fmt"

	"github.com/amadigan/teardown/internal/applog"
	"github.com/amadigan/teardown/internal/boot"
	"github.com/amadigan/teardown/internal/cmdline"
	"github.com/amadigan/teardown/internal/command"
	"github.com/amadigan/teardown/internal/config"
	"github.com/amadigan/teardown/internal/netconf"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var log = applog.New("initrd-teardown")

type Cli struct {
	ConfigPath string
	Sysroot    string
	Cmdline    string
	LogLevel   string
	Report     string
	NetNS      string

	Config  *config.Layout
	Line    *cmdline.Cmdline
	Options boot.Options
	// Runner runs external helpers; ExecRunner when nil.
	Runner command.Runner
}

func (c *Cli) addFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&c.ConfigPath, "config", "c", "", "configuration override (.yaml, .json or .jsonc)")
	flags.StringVar(&c.Sysroot, "sysroot", "", "mount point of the real root")
	flags.StringVar(&c.Cmdline, "cmdline", "", "kernel command line to use instead of reading it from procfs")
	flags.StringVar(&c.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&c.Report, "report", "", "write the decisions taken to this file as YAML")
	flags.StringVar(&c.NetNS, "netns", "", "network namespace to tear down, by path")
}

func (c *Cli) setup() error {
	layout, err := config.LoadConfig(c.ConfigPath)
	if err != nil {
		return err
	}

	if c.Sysroot != "" {
		layout.Sysroot = c.Sysroot
	}

	if c.Report != "" {
		layout.Report = c.Report
	}

	if c.NetNS != "" {
		layout.NetNS = c.NetNS
	}

	if c.Cmdline != "" {
		c.Line = cmdline.Parse(c.Cmdline)
	} else if c.Line, err = cmdline.Load(layout.Cmdline); err != nil {
		return err
	}

	c.Config = layout
	c.Options = boot.ResolveOptions(c.Line, layout.Flags)

	if c.Runner == nil {
		c.Runner = command.ExecRunner{}
	}

	if err := boot.SetupLogging(layout.Log, c.LogLevel, c.Options.Debug); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	return nil
}

func (c *Cli) components() *boot.Components {
	return boot.NewComponents(c.Config, c.Line, c.Runner)
}

func NewRootCommand(cli *Cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   config.Name,
		Short: "Tear down initramfs networking and persist its configuration into the real root",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return cli.setup()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTeardown(cmd, cli)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	cli.addFlags(cmd.PersistentFlags())

	cmd.AddCommand(NewIsDefaultCommand(cli))
	cmd.AddCommand(NewHostnameCommand(cli))

	return cmd
}

func runTeardown(cmd *cobra.Command, cli *Cli) error {
	handle, err := netconf.OpenHandle(cli.Config.NetNS)
	if err != nil {
		return err
	}
	defer handle.Close()

	layout := cli.Config
	td := boot.NewTeardown(cli.components(), handle, layout.Proc, layout.NetworkManager.RunDir, layout.Report)

	report, err := td.Run(cmd.Context(), cli.Options)
	if err != nil {
		return err
	}

	log.Debugf("hostname: %s, network: %s, multipath: %s", describe(report.Hostname), describe(report.Network), describe(report.Multipath))

	return nil
}
