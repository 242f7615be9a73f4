package internal

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/wakarni/zz/internal/engine"
	"github.com/wakarni/zz/internal/env"
	"github.com/wakarni/zz/internal/native"
	"github.com/wakarni/zz/internal/toolchain"
	"github.com/wakarni/zz/internal/workspace"
)

var quiet bool

var rootCmd = &cobra.Command{
	Use:   "zz",
	Short: "zz manages and builds packages of the zz scripting runtime",
	Long:  `zz fetches, builds, and links source packages for a scripting runtime embedded in native executables.`,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "silence informational logging")
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(checkoutCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(distcleanCmd)
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen
// once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		printFatal(err)
		os.Exit(1)
	}
}

// printFatal renders a fatal error as the single-line diagnostic §7
// requires, wrapping it with eris first and rendering the message chain
// without its stack trace so the output stays on one line.
func printFatal(err error) {
	fmt.Fprintln(os.Stderr, eris.ToString(eris.Wrap(err, "zz"), false))
}

// newEngine constructs the build engine against the real workspace rooted
// at $WORKSPACE (or $HOME/zz), wired with the conventional external tool
// names and the built-in native-prerequisite factories.
func newEngine() (*engine.Engine, error) {
	root, err := env.Root()
	if err != nil {
		return nil, err
	}
	layout := workspace.New(root)
	tc := toolchain.Default()
	registry := native.Default()
	log := engine.NewLogger(quiet)
	return engine.New(layout, tc, registry, log), nil
}

// contextForArg resolves the build context either named by pkg (when
// non-empty) or, failing that, by walking up from the current directory to
// the nearest package.lua, per the "current" package sentinel spec.md §4.2
// describes.
func contextForArg(e *engine.Engine, pkg string) (*engine.Context, error) {
	if pkg != "" {
		return e.Context(pkg)
	}
	dir, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return e.ContextFromDir(dir)
}
