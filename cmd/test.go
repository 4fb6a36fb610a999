package cmd

import (
	"github.com/quietdesk/ainotify/internal/config"
	"github.com/quietdesk/ainotify/internal/display"
	"github.com/quietdesk/ainotify/internal/logging"
	"github.com/quietdesk/ainotify/internal/notify"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Send a test notification",
	RunE: func(cmd *cobra.Command, args []string) error {
		disp := display.NewStdout()

		cfg, err := config.LoadDefault()
		if err != nil {
			return err
		}

		logger, err := logging.New(cfg.Logging)
		if err != nil {
			logger = logging.NewNop()
		}

		disp.Println("Sending test notification...")

		notifier := notify.NewDesktop(cfg.Notification, logger)
		if !notify.JobDone(notifier, "ai-notify-test", 99, notify.FormatDuration(83)) {
			return eris.New("test notification failed (is the notifier binary installed?)")
		}

		disp.Success("Test notification sent")
		disp.Println("\nIf you didn't see a notification, check:")
		disp.Println("  1. System notification permissions")
		disp.Println("  2. Do Not Disturb mode")
		disp.Printf("  3. The log file: %s\n", cfg.Logging.Path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(testCmd)
}
