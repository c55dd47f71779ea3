// Package command implements the chatctl CLI: a terminal client for the chat
// server built on the transport, cache, and renderer in internal/client.
package command

import (
	"errors"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/bledchat/server/internal/client"
)

const AppName = "chatctl"

// Version is overwritten at build time using -ldflags.
var Version = "dev"

// Execute runs the root command.
func Execute() error {
	return NewRootCmd(Version).Execute()
}

func NewRootCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           AppName,
		Short:         "chatctl - terminal client for the chat server",
		Long:          "chatctl talks to a chat server over its JSON API. Message bodies are encrypted client-side with your password; the server only ever stores the blobs.",
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

	cmd.PersistentFlags().String("server", envOr("CHAT_SERVER", "http://localhost:8080"), "server base URL")
	cmd.PersistentFlags().String("user", envOr("CHAT_USER", ""), "username")
	cmd.PersistentFlags().String("key", envOr("CHAT_KEY", ""), "password / cipher key material")
	cmd.PersistentFlags().String("room", envOr("CHAT_ROOM", "general"), "room name")

	cmd.AddCommand(
		NewSignupCmd(),
		NewLoginCmd(),
		NewSendCmd(),
		NewHistoryCmd(),
		NewWatchCmd(),
		NewPresenceCmd(),
		NewFetchCmd(),
	)

	return cmd
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// transportFrom builds the HTTP client from the --server flag.
func transportFrom(cmd *cobra.Command) *client.Client {
	server, _ := cmd.Flags().GetString("server")
	return client.New(server)
}

// sessionFrom builds a full session; user and key are required because every
// send path encrypts.
func sessionFrom(cmd *cobra.Command) (*client.Session, error) {
	user, _ := cmd.Flags().GetString("user")
	key, _ := cmd.Flags().GetString("key")
	room, _ := cmd.Flags().GetString("room")
	if user == "" || key == "" {
		return nil, errors.New("--user and --key are required (or set CHAT_USER / CHAT_KEY)")
	}
	log := zerolog.New(cmd.ErrOrStderr()).With().Timestamp().Logger()
	return client.NewSession(transportFrom(cmd), user, key, room, log), nil
}
