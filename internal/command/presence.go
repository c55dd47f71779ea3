package command

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewPresenceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presence",
		Short: "Show who is currently subscribed",
		RunE: func(cmd *cobra.Command, args []string) error {
			count, users, err := transportFrom(cmd).Presence(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d online\n", count)
			for _, u := range users {
				fmt.Fprintf(out, "  %s\n", u)
			}
			return nil
		},
	}
}
