package internal

import (
	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:   "install [pkg]",
	Short: "Build a package and symlink its installable apps into the global bin directory",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInstall,
}

func runInstall(cmd *cobra.Command, args []string) error {
	e, err := newEngine()
	if err != nil {
		return err
	}
	c, err := contextForArg(e, pkgArg(args))
	if err != nil {
		return err
	}
	return c.Install()
}
