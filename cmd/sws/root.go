package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"sws/internal/config"
	"sws/internal/logging"
	"sws/internal/store"
	"sws/internal/version"
)

// SWSHomeEnvVar overrides the location of the session ledger
const SWSHomeEnvVar = "SWS_HOME"

var rootCmd = &cobra.Command{
	Use:   "sws",
	Short: "SWS - Shadow Workspace Sync",
	Long: `SWS maintains shadow workspaces: private, disposable mirrors of a project
tree that analysis and editor tooling can read and annotate without ever
touching the user's real files. Relative dependency paths in the project
manifest are rewritten so resolution inside the shadow tree still finds
the real packages on disk.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("SWS version {{.Version}}\n")
}

// swsHome returns the directory holding cross-session state (the ledger).
func swsHome() (string, error) {
	if env := os.Getenv(SWSHomeEnvVar); env != "" {
		return env, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".sws"), nil
}

// loadProject resolves the project directory argument and its config.
func loadProject(args []string) (string, *config.Config, *logging.Logger, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", nil, nil, err
	}

	cfg, err := config.LoadConfig(abs)
	if err != nil {
		return "", nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return "", nil, nil, err
	}

	logger := logging.NewLogger(logging.Config{
		Format: logging.Format(cfg.Logging.Format),
		Level:  logging.LogLevel(cfg.Logging.Level),
	})
	return abs, cfg, logger, nil
}

// openLedger opens the session ledger under the SWS home directory.
func openLedger(logger *logging.Logger) (*store.Store, error) {
	home, err := swsHome()
	if err != nil {
		return nil, err
	}
	return store.Open(home, logger)
}
