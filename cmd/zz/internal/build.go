package internal

import (
	"github.com/spf13/cobra"
)

var buildRecursive bool

var buildCmd = &cobra.Command{
	Use:   "build [pkg]",
	Short: "Build a package and, with -r, its imports",
	Long:  `Build compiles a package's modules, archives its library, and (recursively, when -r is set) builds its imports first.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().BoolVarP(&buildRecursive, "recursive", "r", false, "build imports before this package")
}

func runBuild(cmd *cobra.Command, args []string) error {
	e, err := newEngine()
	if err != nil {
		return err
	}
	c, err := contextForArg(e, pkgArg(args))
	if err != nil {
		return err
	}
	return c.Build(buildRecursive, true)
}

func pkgArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
