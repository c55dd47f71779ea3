package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bledchat/server/internal/client"
)

func NewSendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send <text...>",
		Short: "Encrypt and send a message to the current room",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := sessionFrom(cmd)
			if err != nil {
				return err
			}
			text := strings.Join(args, " ")

			m := sess.Send(cmd.Context(), text)
			sess.Flush()

			r := client.NewRenderer(sess.KeyMaterial)
			for _, e := range sess.Cache.Messages(sess.Room()) {
				if e.Msg.ID != m.ID {
					continue
				}
				fmt.Fprintln(cmd.OutOrStdout(), r.Line(e))
				if e.Delivery == client.DeliveryFailed {
					return errors.New("message was not delivered")
				}
				return nil
			}
			return nil
		},
	}
}
