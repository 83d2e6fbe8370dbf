package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"sws/internal/paths"
	"sws/internal/snapshot"
)

var snapshotOut string

var snapshotCmd = &cobra.Command{
	Use:   "snapshot [dir]",
	Short: "Archive a project's shadow tree into a zstd-compressed tarball",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _, logger, err := loadProject(args)
		if err != nil {
			return err
		}
		abs, err := paths.Canonicalize(dir)
		if err != nil {
			return err
		}

		ledger, err := openLedger(logger)
		if err != nil {
			return err
		}
		defer func() { _ = ledger.Close() }()

		sess, err := ledger.FindByManifestRoot(abs)
		if err != nil {
			return err
		}

		out := snapshotOut
		if out == "" {
			out = fmt.Sprintf("%s-%s.tar.zst",
				filepath.Base(sess.ShadowRoot), time.Now().UTC().Format("20060102-150405"))
		}
		if err := snapshot.WriteFile(out, sess.ShadowRoot); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	snapshotCmd.Flags().StringVarP(&snapshotOut, "output", "o", "",
		"Output file (default <project>-<timestamp>.tar.zst)")
	rootCmd.AddCommand(snapshotCmd)
}
