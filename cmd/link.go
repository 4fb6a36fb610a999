package cmd

import (
	"os"
	"path/filepath"

	"github.com/quietdesk/ainotify/internal/codexcfg"
	"github.com/quietdesk/ainotify/internal/display"
	"github.com/quietdesk/ainotify/internal/hooks"
	"github.com/spf13/cobra"
)

var (
	linkClaudePath   string
	linkClaudeForce  bool
	linkClaudeDryRun bool
	linkCodexPath    string
	linkCodexProfile string
)

var linkCmd = &cobra.Command{
	Use:   "link",
	Short: "Link ai-notify to supported CLIs",
}

var linkClaudeCmd = &cobra.Command{
	Use:   "claude",
	Short: "Install ai-notify hooks for Claude Code",
	RunE: func(cmd *cobra.Command, args []string) error {
		disp := display.NewStdout()

		path := linkClaudePath
		if path == "" {
			path = defaultClaudeHooksPath()
		}

		update, err := hooks.EnsureClaudeHooks(path, linkClaudeForce, linkClaudeDryRun)
		if err != nil {
			return err
		}

		if update.Changed {
			if linkClaudeDryRun {
				disp.Printf("Would update hooks in %s\n", update.Path)
			} else {
				disp.Successf("Updated hooks in %s", update.Path)
			}
		} else {
			disp.Printf("Hooks already set in %s\n", update.Path)
		}

		if len(update.Skipped) > 0 {
			disp.Println("Skipped existing hooks (use --force to overwrite):")
			for event, command := range update.Skipped {
				disp.Printf("  - %s: %s\n", event, command)
			}
		}
		return nil
	},
}

var linkCodexCmd = &cobra.Command{
	Use:   "codex",
	Short: "Point Codex CLI notify at ai-notify",
	RunE: func(cmd *cobra.Command, args []string) error {
		disp := display.NewStdout()

		path := linkCodexPath
		if path == "" {
			path = defaultCodexConfigPath()
		}

		update, err := codexcfg.SetNotify(path, codexcfg.NotifyCommand, linkCodexProfile)
		if err != nil {
			return err
		}

		target := "root config"
		if update.Profile != "" {
			target = "profile '" + update.Profile + "'"
		}

		if update.Changed {
			disp.Successf("Updated %s notify in %s", target, update.Path)
		} else {
			disp.Printf("%s notify already set in %s\n", target, update.Path)
		}
		return nil
	},
}

func defaultClaudeHooksPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".claude", "hooks", "hooks.json")
	}
	return filepath.Join(home, ".claude", "hooks", "hooks.json")
}

func defaultCodexConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".codex", "config.toml")
	}
	return filepath.Join(home, ".codex", "config.toml")
}

func init() {
	rootCmd.AddCommand(linkCmd)
	linkCmd.AddCommand(linkClaudeCmd)
	linkCmd.AddCommand(linkCodexCmd)

	linkClaudeCmd.Flags().StringVar(&linkClaudePath, "path", "", "Path to Claude Code hooks.json (default: ~/.claude/hooks/hooks.json)")
	linkClaudeCmd.Flags().BoolVar(&linkClaudeForce, "force", false, "Overwrite existing hook commands")
	linkClaudeCmd.Flags().BoolVar(&linkClaudeDryRun, "dry-run", false, "Show changes without writing")

	linkCodexCmd.Flags().StringVar(&linkCodexPath, "path", "", "Path to Codex CLI config.toml (default: ~/.codex/config.toml)")
	linkCodexCmd.Flags().StringVar(&linkCodexProfile, "profile", "", "Codex profile name (e.g. quiet)")
}
