package internal

import (
	"github.com/spf13/cobra"
)

var testCmd = &cobra.Command{
	Use:   "test [name...]",
	Short: "Build and run the current package's tests",
	Long:  `Test builds a test runner for the current package and executes each named test, defaulting to every *_test.* source found under srcdir.`,
	RunE:  runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
	e, err := newEngine()
	if err != nil {
		return err
	}
	c, err := contextForArg(e, "")
	if err != nil {
		return err
	}
	return c.Test(args)
}
