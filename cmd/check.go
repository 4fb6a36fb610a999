package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/quietdesk/ainotify/internal/codexcfg"
	"github.com/quietdesk/ainotify/internal/display"
	"github.com/quietdesk/ainotify/internal/hooks"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check Claude Code hooks and Codex CLI notify integration",
	RunE: func(cmd *cobra.Command, args []string) error {
		disp := display.NewStdout()

		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}

		claudeReport := hooks.InspectClaudeHooks(filepath.Join(home, ".claude"), cwd)
		codexReport := codexcfg.Inspect(filepath.Join(home, ".codex"))

		disp.Println(disp.Bold("Integration status:"))

		disp.Printf("Claude Code hooks: %s\n", statusLabel(disp, claudeReport.Status))
		if claudeReport.Path != "" {
			disp.Printf("  Config: %s\n", claudeReport.Path)
		}
		if len(claudeReport.MissingEvents) > 0 {
			disp.Printf("  Missing events: %s\n", strings.Join(claudeReport.MissingEvents, ", "))
		}
		for path, parseErr := range claudeReport.Errors {
			disp.Printf("  Error in %s: %s\n", path, parseErr)
		}

		disp.Printf("Codex CLI notify:  %s\n", statusLabel(disp, codexReport.Status))
		if codexReport.Path != "" {
			disp.Printf("  Config: %s\n", codexReport.Path)
		}
		if codexReport.Notify != nil {
			disp.Printf("  notify: %v\n", codexReport.Notify)
		}
		if codexReport.Err != "" {
			disp.Printf("  Error: %s\n", codexReport.Err)
		}
		return nil
	},
}

func statusLabel(disp display.Printer, status string) string {
	switch status {
	case "ok":
		return disp.Bold("OK")
	case "partial":
		return "PARTIAL"
	case "error":
		return "ERROR"
	default:
		return "MISSING"
	}
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
