package cmd

import (
	"io"
	"os"
	"strings"

	"github.com/quietdesk/ainotify/internal/event"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var codexUseStdin bool

var codexCmd = &cobra.Command{
	Use:   "codex [payload]",
	Short: "Handle a Codex CLI notify payload",
	Long: `Handle a Codex CLI notify payload, sending a notification when an agent
turn completes.

Codex passes the payload as a command-line argument; --stdin reads it from
stdin instead. Installed by "ai-notify link codex".`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var payload string
		if codexUseStdin {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return eris.Wrap(err, "failed to read payload from stdin")
			}
			payload = string(data)
		} else if len(args) > 0 {
			payload = args[0]
		}

		if strings.TrimSpace(payload) == "" {
			return eris.New("missing JSON payload (use --stdin or pass as argument)")
		}

		handler, closeHandler, err := newEventHandler(false)
		if err != nil {
			return err
		}
		defer closeHandler()

		decoded, err := event.DecodeCodex(strings.NewReader(payload))
		if err != nil {
			return err
		}
		return handler.HandleCodexNotify(decoded)
	},
}

func init() {
	rootCmd.AddCommand(codexCmd)
	codexCmd.Flags().BoolVar(&codexUseStdin, "stdin", false, "Read JSON payload from stdin")
}
