package cmd

import (
	"github.com/quietdesk/ainotify/internal/config"
	"github.com/quietdesk/ainotify/internal/db"
	"github.com/quietdesk/ainotify/internal/display"
	"github.com/quietdesk/ainotify/internal/export"
	"github.com/spf13/cobra"
)

var exportDir string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all session data to a JSON artifact",
	Long: `Write every session row to a new timestamped JSON artifact.

Each run produces a new file; existing artifacts are never overwritten.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		disp := display.NewStdout()

		cfg, err := config.LoadDefault()
		if err != nil {
			return err
		}

		database, err := db.Open(cfg.Database.Path)
		if err != nil {
			return err
		}
		//nolint:errcheck // Close on command exit
		defer database.Close()

		sessions, err := db.GetAllSessions(database)
		if err != nil {
			return err
		}

		dir := exportDir
		if dir == "" {
			dir = config.ExportDir()
		}

		path, err := export.Write(dir, sessions)
		if err != nil {
			return err
		}

		disp.Successf("Exported %d session(s) to %s", len(sessions), path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportDir, "dir", "", "Export directory (default: config dir exports/)")
}
