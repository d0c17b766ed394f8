package command

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/trousseauhq/trousseau/internal/api"
	"github.com/trousseauhq/trousseau/internal/core"
)

// loadConfig reads the stored workspace settings with env overrides applied.
func loadConfig() (*core.Config, error) {
	config, err := core.ReadConfig()
	if err != nil {
		return nil, err
	}
	if config == nil {
		config = &core.Config{}
	}
	config.ApplyEnv()
	if config.BackendURL == "" {
		return nil, fmt.Errorf("no workspace configured; run `%s login <backend-url>` first", AppName)
	}
	if config.UserID == "" {
		return nil, fmt.Errorf("config is missing a user id; re-run `%s login`", AppName)
	}
	return config, nil
}

func newClient(config *core.Config) (*api.Client, error) {
	return api.NewClient(config.BackendURL, config.Token)
}

// newLogger returns a file-backed logger when --debug is set. The TUI owns
// the terminal, so debug output can never go to stdout or stderr.
func newLogger(cmd *cobra.Command) *log.Logger {
	debug, _ := cmd.Flags().GetBool("debug")
	if !debug {
		return log.New(io.Discard, "", 0)
	}
	f, err := os.OpenFile("/tmp/trousseau-debug.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return log.New(io.Discard, "", 0)
	}
	return log.New(f, "", log.Ltime|log.Lmicroseconds)
}
