package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"sws/internal/shadow"
	"sws/internal/store"
)

var createCmd = &cobra.Command{
	Use:   "create [dir]",
	Short: "Create a shadow workspace for a project and run a first sync",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, cfg, logger, err := loadProject(args)
		if err != nil {
			return err
		}

		ws := shadow.NewWorkspace(cfg, logger)
		if err := ws.CreateFromWorkspace(dir); err != nil {
			return err
		}
		if err := ws.Resync(); err != nil {
			ws.Teardown()
			return err
		}

		manifestDir, err := ws.ManifestDir()
		if err != nil {
			return err
		}
		shadowDir, err := ws.ShadowDir()
		if err != nil {
			return err
		}

		ledger, err := openLedger(logger)
		if err != nil {
			return err
		}
		defer func() { _ = ledger.Close() }()
		if err := ledger.Record(&store.Session{
			ID:           ws.SessionID(),
			Project:      filepath.Base(manifestDir),
			ManifestRoot: manifestDir,
			ShadowRoot:   shadowDir,
			CreatedAt:    time.Now().UTC(),
		}); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), shadowDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(createCmd)
}
