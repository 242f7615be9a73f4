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

var (
	checkoutUpdate bool
	checkoutRef    string
)

var checkoutCmd = &cobra.Command{
	Use:   "checkout <pkg>",
	Short: "Fetch or update a package's source tree",
	Long:  `Checkout syncs a package's source tree under the workspace from its remote, via the VCS front end.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCheckout,
}

func init() {
	checkoutCmd.Flags().BoolVarP(&checkoutUpdate, "update", "u", false, "update an already-checked-out package to the latest remote HEAD")
	checkoutCmd.Flags().StringVarP(&checkoutRef, "ref", "r", "", "checkout a specific branch, tag, or commit")
}

func runCheckout(cmd *cobra.Command, args []string) error {
	id, err := pkgid.Parse(args[0])
	if err != nil {
		return err
	}

	e, err := newEngine()
	if err != nil {
		return err
	}
	srcDir := e.Layout.SrcDir(id.ID)

	_, alreadyPresent := os.Stat(filepath.Join(srcDir, descriptor.FileName))
	if alreadyPresent == nil && !checkoutUpdate && checkoutRef == "" {
		fmt.Printf("%s already checked out at %s\n", id.ID, srcDir)
		return nil
	}

	client := vcs.NewGitVCS()
	ctx := context.Background()

	ref := checkoutRef
	if ref == "" {
		latest, err := client.Latest(ctx, id.URL)
		if err != nil {
			return fmt.Errorf("checkout %s: %w", id.ID, err)
		}
		ref = latest
	}

	if err := client.Sync(ctx, id.URL, ref, srcDir); err != nil {
		return fmt.Errorf("checkout %s: %w", id.ID, err)
	}

	fmt.Printf("checked out %s at %s\n", id.ID, srcDir)
	return nil
}
