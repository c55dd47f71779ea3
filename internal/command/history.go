package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bledchat/server/internal/client"
)

func NewHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Fetch and decrypt recent messages in the current room",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := sessionFrom(cmd)
			if err != nil {
				return err
			}
			msgs, err := sess.Transport.History(cmd.Context(), sess.Room(), limit)
			if err != nil {
				return err
			}
			if !sess.Cache.Replace(sess.Room(), msgs) {
				return fmt.Errorf("could not load history for %s", sess.Room())
			}

			r := client.NewRenderer(sess.KeyMaterial)
			fmt.Fprint(cmd.OutOrStdout(), r.History(sess.Room(), sess.Cache.Messages(sess.Room())))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "max messages to fetch (0 means server default)")
	return cmd
}
