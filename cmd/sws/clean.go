package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"sws/internal/logging"
	"sws/internal/paths"
	"sws/internal/shadow"
)

var cleanStray bool

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove shadow trees recorded in the ledger",
	Long: `Removes every shadow tree the ledger knows about and drops its entry.
With --stray, additionally scans the system temp directory for shadow
trees left behind by sessions whose ledger is gone, identified by the
shadow prefix token and their shadow.toml metadata.`,
	Args: cobra.NoArgs,
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

		removed := 0
		for _, s := range sessions {
			// The session owns the temp parent of the shadow root, not
			// the root itself.
			parent := filepath.Dir(s.ShadowRoot)
			if paths.InShadowWorkspace(parent) {
				if err := os.RemoveAll(parent); err != nil {
					logger.Warn("Failed to remove shadow tree", map[string]interface{}{
						"dir":   parent,
						"error": err.Error(),
					})
					continue
				}
			}
			if err := ledger.Delete(s.ID); err != nil {
				return err
			}
			removed++
		}

		stray := 0
		if cleanStray {
			stray, err = removeStrayTrees(logger)
			if err != nil {
				return err
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "removed %d recorded, %d stray\n", removed, stray)
		return nil
	},
}

// removeStrayTrees reaps shadow parents under the system temp directory
// that carry the prefix token and valid metadata but no ledger entry.
func removeStrayTrees(logger *logging.Logger) (int, error) {
	entries, err := os.ReadDir(os.TempDir())
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), paths.ShadowTempToken+"-") {
			continue
		}
		dir := filepath.Join(os.TempDir(), entry.Name())
		if _, err := shadow.ReadMetadata(dir); err != nil {
			// Unrecognized directory that merely resembles ours; leave it.
			logger.Warn("Skipping shadow-like directory without metadata", map[string]interface{}{
				"dir": dir,
			})
			continue
		}
		if err := os.RemoveAll(dir); err != nil {
			logger.Warn("Failed to remove stray shadow tree", map[string]interface{}{
				"dir":   dir,
				"error": err.Error(),
			})
			continue
		}
		removed++
	}
	return removed, nil
}

func init() {
	cleanCmd.Flags().BoolVar(&cleanStray, "stray", false,
		"Also reap unrecorded shadow trees found in the temp directory")
	rootCmd.AddCommand(cleanCmd)
}
