package cmd

import (
	"os"

	"github.com/quietdesk/ainotify/internal/event"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event handlers for Claude Code hooks",
	Long: `Event handlers invoked by Claude Code hooks. Each handler reads a JSON
payload from stdin, performs one session store operation, and exits.

These commands are installed by "ai-notify link claude" and are not meant to
be run by hand.`,
}

var eventUserPromptSubmitCmd = &cobra.Command{
	Use:   "user-prompt-submit",
	Short: "Handle the UserPromptSubmit event",
	RunE: func(cmd *cobra.Command, args []string) error {
		handler, closeHandler, err := newEventHandler(true)
		if err != nil {
			return err
		}
		defer closeHandler()

		payload, err := event.DecodeUserPromptSubmit(os.Stdin)
		if err != nil {
			return err
		}
		return handler.HandleUserPromptSubmit(payload)
	},
}

var eventStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Handle the Stop event",
	RunE: func(cmd *cobra.Command, args []string) error {
		handler, closeHandler, err := newEventHandler(true)
		if err != nil {
			return err
		}
		defer closeHandler()

		payload, err := event.DecodeStop(os.Stdin)
		if err != nil {
			return err
		}
		return handler.HandleStop(payload)
	},
}

var eventNotificationCmd = &cobra.Command{
	Use:   "notification",
	Short: "Handle the Notification event",
	RunE: func(cmd *cobra.Command, args []string) error {
		handler, closeHandler, err := newEventHandler(true)
		if err != nil {
			return err
		}
		defer closeHandler()

		payload, err := event.DecodeNotification(os.Stdin)
		if err != nil {
			return err
		}
		return handler.HandleNotification(payload)
	},
}

var eventPermissionRequestCmd = &cobra.Command{
	Use:   "permission-request",
	Short: "Handle the PermissionRequest event",
	RunE: func(cmd *cobra.Command, args []string) error {
		handler, closeHandler, err := newEventHandler(true)
		if err != nil {
			return err
		}
		defer closeHandler()

		payload, err := event.DecodePermissionRequest(os.Stdin)
		if err != nil {
			return err
		}
		return handler.HandlePermissionRequest(payload)
	},
}

var eventAskUserQuestionCmd = &cobra.Command{
	Use:   "ask-user-question",
	Short: "Handle the PreToolUse/AskUserQuestion event",
	RunE: func(cmd *cobra.Command, args []string) error {
		handler, closeHandler, err := newEventHandler(true)
		if err != nil {
			return err
		}
		defer closeHandler()

		payload, err := event.DecodeAskUserQuestion(os.Stdin)
		if err != nil {
			return err
		}
		return handler.HandleAskUserQuestion(payload)
	},
}

func init() {
	rootCmd.AddCommand(eventCmd)
	eventCmd.AddCommand(eventUserPromptSubmitCmd)
	eventCmd.AddCommand(eventStopCmd)
	eventCmd.AddCommand(eventNotificationCmd)
	eventCmd.AddCommand(eventPermissionRequestCmd)
	eventCmd.AddCommand(eventAskUserQuestionCmd)
}
