package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var psCmd = &cobra.Command{
	Use:   "ps",
	Short: "List recorded shadow workspace sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, logger, err := loadProject(nil)
		if err != nil {
			return err
		}

		ledger, err := openLedger(logger)
		if err != nil {
			return err
		}
		defer func() { _ = ledger.Close() }()

		sessions, err := ledger.List()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SESSION\tPROJECT\tAGE\tSTATE\tSHADOW ROOT")
		for _, s := range sessions {
			state := "present"
			if _, err := os.Stat(s.ShadowRoot); err != nil {
				state = "gone"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				shortID(s.ID), s.Project, age(s.CreatedAt), state, s.ShadowRoot)
		}
		return w.Flush()
	},
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func age(t time.Time) string {
	d := time.Since(t).Round(time.Second)
	if d < 0 {
		d = 0
	}
	return d.String()
}

func init() {
	rootCmd.AddCommand(psCmd)
}
