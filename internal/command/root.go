package command

import (
	"os"

	"github.com/spf13/cobra"
)

const AppName = "trousseau"

// Version is overwritten at build time using -ldflags.
var Version = "dev"

func NewRootCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           AppName,
		Short:         "Trousseau - team chat for your wedding workspace",
		Long:          "Trousseau is a terminal client for the team chat of a wedding-planning workspace.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.Version = version
	cmd.SetVersionTemplate(AppName + " version {{.Version}}\n")
	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	cmd.PersistentFlags().Bool("debug", false, "write a debug log to /tmp/trousseau-debug.log")

	cmd.AddCommand(
		NewLoginCmd(),
		NewChatCmd(),
		NewPostCmd(),
		NewWhoCmd(),
	)

	return cmd
}

// Execute runs the CLI.
func Execute() error {
	return NewRootCmd(Version).Execute()
}
