package main

import (
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"sws/internal/shadow"
	"sws/internal/store"
)

var watchTeardown bool

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Create a shadow workspace and keep its manifest in sync until interrupted",
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
		if err := ledger.Record(&store.Session{
			ID:           ws.SessionID(),
			Project:      filepath.Base(manifestDir),
			ManifestRoot: manifestDir,
			ShadowRoot:   shadowDir,
			CreatedAt:    time.Now().UTC(),
		}); err != nil {
			_ = ledger.Close()
			return err
		}
		_ = ledger.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := ws.WatchAndSync(ctx); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), shadowDir)

		<-ctx.Done()
		ws.StopWatch()
		if watchTeardown {
			ws.Teardown()
		}
		return nil
	},
}

func init() {
	watchCmd.Flags().BoolVar(&watchTeardown, "teardown", false,
		"Remove the shadow tree when the watch ends")
	rootCmd.AddCommand(watchCmd)
}
