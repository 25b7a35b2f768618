package nm

import (
	"context"
	"fmt"

	"github.com/amadigan/teardown/internal/command"
)

// DefaultGeneratorArgs is what the initrd generator would see with no user
// supplied networking: DHCP on both address families.
var DefaultGeneratorArgs = []string{"ip=dhcp,dhcp6"}

// Generator drives nm-initrd-generator.
type Generator struct {
	Path   string
	Args   []string
	Runner command.Runner
}

// Generate writes connection profiles for g.Args into connectionsDir. The
// arguments follow "--" so the generator does not consult /proc/cmdline.
func (g *Generator) Generate(ctx context.Context, connectionsDir, initrdDir, runConfigDir string) error {
	args := []string{"-c", connectionsDir, "-i", initrdDir, "-r", runConfigDir, "--"}
	args = append(args, g.Args...)

	if _, err := g.Runner.Output(ctx, g.Path, args...); err != nil {
		return fmt.Errorf("failed to generate default connections: %w", err)
	}

	return nil
}
