package cmd

import (
	"os"
	"os/exec"
	"strings"

	"github.com/quietdesk/ainotify/internal/config"
	"github.com/quietdesk/ainotify/internal/display"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage ai-notify configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		disp := display.NewStdout()

		cfg, err := config.LoadDefault()
		if err != nil {
			return err
		}

		disp.Println(disp.Bold("Current configuration:"))
		disp.Printf("  Notification mode:      %s\n", cfg.Notification.Mode)
		disp.Printf("  Notification threshold: %ds\n", cfg.Notification.ThresholdSeconds)
		disp.Printf("  Notification sound:     %s\n", cfg.Notification.Sound)
		disp.Printf("  App bundle:             %s\n", cfg.Notification.AppBundle)
		disp.Printf("  Exclude patterns:       %s\n", formatPatterns(cfg.Notification.ExcludePatterns))
		disp.Printf("  Database path:          %s\n", cfg.Database.Path)
		disp.Printf("  Retention days:         %d\n", cfg.Cleanup.RetentionDays)
		disp.Printf("  Auto-cleanup enabled:   %v\n", cfg.Cleanup.AutoCleanupEnabled)
		disp.Printf("  Export before cleanup:  %v\n", cfg.Cleanup.ExportBeforeCleanup)
		disp.Printf("  Log level:              %s\n", cfg.Logging.Level)
		disp.Printf("  Log path:               %s\n", cfg.Logging.Path)
		disp.Printf("\nConfig file: %s\n", config.Path())

		if _, err := os.Stat(config.Path()); os.IsNotExist(err) {
			disp.Println(disp.Faint("Using default configuration (no config file found)"))
		}
		return nil
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit the configuration file in $EDITOR",
	RunE: func(cmd *cobra.Command, args []string) error {
		disp := display.NewStdout()
		path := config.Path()

		// Seed the file with current (default) values so the user edits a
		// complete document.
		if _, err := os.Stat(path); os.IsNotExist(err) {
			cfg, err := config.LoadDefault()
			if err != nil {
				return err
			}
			if err := cfg.Save(path); err != nil {
				return err
			}
			disp.Printf("Created new config file at %s\n", path)
		}

		editor := os.Getenv("EDITOR")
		if editor == "" {
			editor = "vi"
		}

		editorCmd := exec.Command(editor, path)
		editorCmd.Stdin = os.Stdin
		editorCmd.Stdout = os.Stdout
		editorCmd.Stderr = os.Stderr
		if err := editorCmd.Run(); err != nil {
			return eris.Wrapf(err, "editor %s failed", editor)
		}

		if _, err := config.Load(path); err != nil {
			disp.Warningf("Configuration validation failed: %v", err)
			return nil
		}
		disp.Success("Configuration is valid")
		return nil
	},
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset configuration to defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		disp := display.NewStdout()

		cfg := config.Default()
		if err := cfg.Save(config.Path()); err != nil {
			return err
		}

		disp.Successf("Configuration reset to defaults: %s", config.Path())
		return nil
	},
}

func formatPatterns(patterns []string) string {
	if len(patterns) == 0 {
		return "none"
	}
	return strings.Join(patterns, ", ")
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configResetCmd)
}
