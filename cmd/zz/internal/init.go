package internal

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wakarni/zz/internal/descriptor"
)

var initCmd = &cobra.Command{
	Use:   "init <pkg>",
	Short: "Scaffold a new package under the workspace",
	Long:  `Init creates a new source directory under the workspace and writes a minimal package.lua declaring it.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	pkg := args[0]

	e, err := newEngine()
	if err != nil {
		return err
	}
	srcDir := e.Layout.SrcDir(pkg)

	if _, err := os.Stat(filepath.Join(srcDir, descriptor.FileName)); err == nil {
		return fmt.Errorf("%s already exists", filepath.Join(srcDir, descriptor.FileName))
	}

	if err := os.MkdirAll(srcDir, 0o755); err != nil {
		return err
	}

	body := fmt.Sprintf("package = %q\n", pkg)
	if err := os.WriteFile(filepath.Join(srcDir, descriptor.FileName), []byte(body), 0o644); err != nil {
		return err
	}

	fmt.Printf("initialized %s at %s\n", pkg, srcDir)
	return nil
}
