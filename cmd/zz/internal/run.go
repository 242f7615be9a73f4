package internal

import (
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:                "run <script> [args...]",
	Short:              "Build a runner for the current package and execute a script",
	Args:               cobra.MinimumNArgs(1),
	DisableFlagParsing: true,
	RunE:               runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	e, err := newEngine()
	if err != nil {
		return err
	}
	c, err := contextForArg(e, "")
	if err != nil {
		return err
	}
	return c.Run(args[0], args[1:])
}
