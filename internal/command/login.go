package command

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/trousseauhq/trousseau/internal/api"
	"github.com/trousseauhq/trousseau/internal/core"
)

// NewLoginCmd creates the login command, which stores the workspace
// connection settings after verifying them with one directory call.
func NewLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login <backend-url>",
		Short: "Configure the workspace connection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, _ := cmd.Flags().GetString("token")
			workspace, _ := cmd.Flags().GetString("workspace")
			userID, _ := cmd.Flags().GetString("user")
			username, _ := cmd.Flags().GetString("name")
			feedURL, _ := cmd.Flags().GetString("feed")

			baseURL, err := api.NormalizeBaseURL(args[0])
			if err != nil {
				return err
			}
			if userID == "" {
				return fmt.Errorf("--user is required")
			}

			client, err := api.NewClient(baseURL, token)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if _, err := client.Conversations(ctx); err != nil {
				return fmt.Errorf("could not reach workspace: %w", err)
			}

			config := core.Config{
				BackendURL:  baseURL,
				Token:       token,
				WorkspaceID: workspace,
				UserID:      userID,
				Username:    username,
				FeedURL:     feedURL,
			}
			if err := core.WriteConfig(config); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "logged in to %s\n", baseURL)
			return nil
		},
	}

	cmd.Flags().String("token", "", "session token issued by the workspace")
	cmd.Flags().String("workspace", "", "workspace id")
	cmd.Flags().String("user", "", "your user id")
	cmd.Flags().String("name", "", "your display name")
	cmd.Flags().String("feed", "", "realtime feed URL (optional; polling covers without it)")
	return cmd
}
