package command

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// NewWhoCmd creates the who command.
func NewWhoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "who",
		Short: "List workspace members",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig()
			if err != nil {
				return err
			}
			client, err := newClient(config)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			members, err := client.MemberDirectory(ctx)
			if err != nil {
				return fmt.Errorf("member directory: %w", err)
			}

			out := cmd.OutOrStdout()
			for _, member := range members {
				marker := " "
				if member.UserID == config.UserID {
					marker = "*"
				}
				name := member.Name
				if name == "" {
					name = member.UserID
				}
				if member.Handle != "" {
					fmt.Fprintf(out, "%s %s (@%s) %s\n", marker, name, member.Handle, member.UserID)
				} else {
					fmt.Fprintf(out, "%s %s %s\n", marker, name, member.UserID)
				}
			}
			return nil
		},
	}
}
