package internal

import (
	"github.com/spf13/cobra"
)

var distcleanCmd = &cobra.Command{
	Use:   "distclean [pkg]",
	Short: "Remove a package's build outputs, its bin directory, and its global-bin symlinks",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDistclean,
}

func runDistclean(cmd *cobra.Command, args []string) error {
	e, err := newEngine()
	if err != nil {
		return err
	}
	c, err := contextForArg(e, pkgArg(args))
	if err != nil {
		return err
	}
	return c.Distclean()
}
