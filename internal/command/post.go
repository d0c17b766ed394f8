package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// NewPostCmd creates the post command for one-shot sends without the TUI.
func NewPostCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post <message>...",
		Short: "Send a message to the team or a peer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			to, _ := cmd.Flags().GetString("to")

			config, err := loadConfig()
			if err != nil {
				return err
			}
			client, err := newClient(config)
			if err != nil {
				return err
			}

			content := strings.TrimSpace(strings.Join(args, " "))
			if content == "" {
				return fmt.Errorf("message cannot be empty")
			}
			var recipient *string
			if to != "" {
				recipient = &to
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			confirmed, err := client.SendMessage(ctx, content, recipient)
			if err != nil {
				return fmt.Errorf("send: %w", err)
			}

			target := "team"
			if recipient != nil {
				target = *recipient
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sent %s → %s\n", confirmed.ID, target)
			return nil
		},
	}

	cmd.Flags().String("to", "", "peer user id for a direct message (default: team)")
	return cmd
}
