package internal

import (
	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [pkg]",
	Short: "Remove a package's build outputs",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runClean,
}

func runClean(cmd *cobra.Command, args []string) error {
	e, err := newEngine()
	if err != nil {
		return err
	}
	c, err := contextForArg(e, pkgArg(args))
	if err != nil {
		return err
	}
	return c.Clean()
}
