package command

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/trousseauhq/trousseau/internal/chat"
	"github.com/trousseauhq/trousseau/internal/chatsync"
	"github.com/trousseauhq/trousseau/internal/feed"
)

// NewChatCmd creates the chat command.
func NewChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Interactive team chat",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			noNotify, _ := cmd.Flags().GetBool("no-notify")
			logger := newLogger(cmd)

			config, err := loadConfig()
			if err != nil {
				return err
			}
			client, err := newClient(config)
			if err != nil {
				return err
			}

			profiles := chatsync.NewProfileCache(client)
			directory := chatsync.NewDirectory(client, config.UserID)
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			if err := directory.Refresh(ctx); err != nil {
				// Not fatal: the background refresh keeps retrying and
				// the screen surfaces the failure as a banner.
				logger.Printf("initial directory refresh failed: %v", err)
			} else {
				profiles.PutAll(directory.Members())
			}
			cancel()

			// The feed is best effort; without it the polling reconciler
			// still bounds staleness to one interval.
			var feedSource chatsync.Feed
			if config.FeedURL != "" {
				conn, err := feed.Dial(config.FeedURL, AppName+"-"+config.UserID, logger)
				if err != nil {
					logger.Printf("feed unavailable, polling only: %v", err)
				} else {
					feedSource = conn
					defer conn.Close()
				}
			}

			session := chatsync.NewSession(chatsync.SessionOptions{
				Backend:     client,
				Feed:        feedSource,
				Profiles:    profiles,
				WorkspaceID: config.WorkspaceID,
				SelfID:      config.UserID,
				Logger:      logger,
			})

			workspaceName := config.WorkspaceID
			if workspaceName == "" {
				workspaceName = "workspace"
			}

			return chat.Run(chat.Options{
				Session:       session,
				Directory:     directory,
				Profiles:      profiles,
				WorkspaceName: workspaceName,
				Username:      config.Username,
				SelfID:        config.UserID,
				Notify:        !noNotify,
			})
		},
	}

	cmd.Flags().Bool("no-notify", false, "disable OS notifications for direct messages")
	return cmd
}
