package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sws/internal/errors"
	"sws/internal/paths"
	"sws/internal/shadow"
)

var syncCmd = &cobra.Command{
	Use:   "sync [dir]",
	Short: "Re-run a full sync for a recorded shadow workspace",
	Long: `Looks up the project's session in the ledger and re-derives the shadow
tree from the current workspace contents. Safe to run any number of
times; every call is a full overwrite, not an incremental diff.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, cfg, logger, err := loadProject(args)
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
			if errors.HasCode(err, errors.SessionNotFound) {
				return fmt.Errorf("no shadow workspace for %s; run 'sws create' first", abs)
			}
			return err
		}
		if _, err := os.Stat(sess.ShadowRoot); err != nil {
			return fmt.Errorf("shadow tree %s is gone; run 'sws create' again", sess.ShadowRoot)
		}

		ws := shadow.AttachWorkspace(cfg, logger, sess.ID, sess.ManifestRoot, sess.ShadowRoot)
		if err := ws.Resync(); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), sess.ShadowRoot)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
