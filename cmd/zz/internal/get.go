package internal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wakarni/zz/internal/descriptor"
	"github.com/wakarni/zz/internal/pkgid"
	"github.com/wakarni/zz/internal/vcs"
)

var getUpdate bool

var getCmd = &cobra.Command{
	Use:   "get <pkg>",
	Short: "Fetch a package's source tree into the workspace",
	Long:  `Get syncs a package's source tree under the workspace from its remote, to be referenced from a package.lua imports table.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

func init() {
	getCmd.Flags().BoolVarP(&getUpdate, "update", "u", false, "update to the latest remote HEAD even if already present")
}

func runGet(cmd *cobra.Command, args []string) error {
	id, err := pkgid.Parse(args[0])
	if err != nil {
		return err
	}

	e, err := newEngine()
	if err != nil {
		return err
	}
	srcDir := e.Layout.SrcDir(id.ID)

	if _, err := os.Stat(filepath.Join(srcDir, descriptor.FileName)); err == nil && !getUpdate {
		fmt.Printf("%s already present at %s\n", id.ID, srcDir)
		return nil
	}

	client := vcs.NewGitVCS()
	ctx := context.Background()
	latest, err := client.Latest(ctx, id.URL)
	if err != nil {
		return fmt.Errorf("get %s: %w", id.ID, err)
	}
	if err := client.Sync(ctx, id.URL, latest, srcDir); err != nil {
		return fmt.Errorf("get %s: %w", id.ID, err)
	}

	fmt.Printf("fetched %s at %s\nadd %q to imports in your package.lua to use it\n", id.ID, srcDir, id.ID)
	return nil
}
