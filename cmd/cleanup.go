package cmd

import (
	"bufio"
	"os"
	"strings"
	"time"

	"github.com/quietdesk/ainotify/internal/cleanup"
	"github.com/quietdesk/ainotify/internal/config"
	"github.com/quietdesk/ainotify/internal/db"
	"github.com/quietdesk/ainotify/internal/display"
	"github.com/quietdesk/ainotify/internal/logging"
	"github.com/quietdesk/ainotify/internal/tty"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var (
	cleanupDays     int
	cleanupDryRun   bool
	cleanupNoExport bool
	cleanupForce    bool
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Clean up old session data",
	Long: `Delete session rows older than the retention period, optionally exporting
them to a JSON artifact first.

Examples:
  ai-notify cleanup                # Clean up using configured retention
  ai-notify cleanup --days 7      # Override retention period
  ai-notify cleanup --dry-run     # Show what would be deleted
  ai-notify cleanup --no-export   # Skip the export step
  ai-notify cleanup --force       # Skip the confirmation prompt`,
	RunE: runCleanup,
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
	cleanupCmd.Flags().IntVar(&cleanupDays, "days", 0, "Days of data to retain (default: from config)")
	cleanupCmd.Flags().BoolVar(&cleanupDryRun, "dry-run", false, "Show what would be deleted without deleting")
	cleanupCmd.Flags().BoolVar(&cleanupNoExport, "no-export", false, "Skip exporting data before cleanup")
	cleanupCmd.Flags().BoolVar(&cleanupForce, "force", false, "Skip confirmation prompt")
}

func runCleanup(cmd *cobra.Command, args []string) error {
	disp := display.NewStdout()

	cfg, err := config.LoadDefault()
	if err != nil {
		return err
	}

	retentionDays := cfg.Cleanup.RetentionDays
	if cleanupDays > 0 {
		retentionDays = cleanupDays
	}
	exportBefore := !cleanupNoExport && cfg.Cleanup.ExportBeforeCleanup

	database, err := db.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	//nolint:errcheck // Close on command exit
	defer database.Close()

	if cleanupDryRun {
		cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)
		count, err := db.CountSessionsBefore(database, cutoff)
		if err != nil {
			return err
		}

		disp.Printf("\n%s - no data will be deleted\n\n", disp.Bold("DRY RUN"))
		disp.Printf("Retention period:   %d days\n", retentionDays)
		disp.Printf("Sessions to delete: %d\n", count)
		disp.Printf("Export first:       %v\n", exportBefore)
		return nil
	}

	disp.Printf("\nRetention period: %d days\n", retentionDays)
	disp.Printf("Export first:     %v\n", exportBefore)

	if !cleanupForce {
		if !tty.IsInteractive() {
			return eris.New("--force flag required for cleanup in noninteractive mode")
		}

		disp.Print("\nProceed with cleanup? (yes/no): ")
		reader := bufio.NewReader(os.Stdin)
		response, err := reader.ReadString('\n')
		if err != nil {
			return eris.Wrap(err, "failed to read confirmation")
		}

		response = strings.TrimSpace(strings.ToLower(response))
		if response != "yes" && response != "y" {
			disp.Println("Cleanup cancelled.")
			return nil
		}
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		logger = logging.NewNop()
	}

	stats, err := cleanup.Run(database, cleanup.Options{
		RetentionDays:      retentionDays,
		ExportBeforeDelete: exportBefore,
		ExportDir:          config.ExportDir(),
	}, logger)
	if err != nil {
		return err
	}

	disp.Successf("Cleanup complete")
	disp.Printf("  Sessions deleted:  %d\n", stats.RowsDeleted)
	if exportBefore {
		disp.Printf("  Sessions exported: %d\n", stats.RowsExported)
		if stats.RowsExported > 0 {
			disp.Printf("  Export directory:  %s\n", config.ExportDir())
		}
	}
	disp.Printf("  Space freed:       %d KB\n", stats.SpaceFreedKB)
	return nil
}
