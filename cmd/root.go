package cmd

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ai-notify",
	Short: "Desktop notifications for coding-assistant CLI sessions",
	Long: `ai-notify tracks Claude Code and Codex CLI sessions and sends desktop
notifications when long-running jobs finish or need your attention.

Each lifecycle event (prompt submitted, waiting for input, stopped) is
delivered by the CLI's hook mechanism as a separate short-lived invocation;
session state lives in a local SQLite database.

Examples:
  ai-notify link claude        # Install Claude Code hooks
  ai-notify link codex         # Point Codex CLI notify at ai-notify
  ai-notify check              # Show integration status
  ai-notify config show        # Show current configuration
  ai-notify cleanup --dry-run  # Preview retention cleanup
  ai-notify test               # Send a test notification`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, eris.ToString(err, true))
		os.Exit(1)
	}
}
