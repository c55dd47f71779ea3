package command

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bledchat/server/internal/client"
)

func NewWatchCmd() *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow the current room, printing messages as they arrive",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := sessionFrom(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			api := transportFrom(cmd)
			if err := api.Subscribe(ctx, sess.Username, sess.Room()); err != nil {
				return err
			}
			defer func() {
				unsubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
				defer cancel()
				_ = api.Unsubscribe(unsubCtx, sess.Username)
			}()

			r := client.NewRenderer(sess.KeyMaterial)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, r.RoomHeader(sess.Room()))

			printed := map[string]bool{}
			tick := time.NewTicker(interval)
			defer tick.Stop()
			for {
				// Fetch errors keep the cached view; the next tick retries.
				if err := sess.Refresh(ctx); err == nil {
					for _, e := range sess.Cache.Messages(sess.Room()) {
						if printed[e.Msg.ID] {
							continue
						}
						printed[e.Msg.ID] = true
						fmt.Fprintln(out, r.Line(e))
					}
				}
				select {
				case <-ctx.Done():
					return nil
				case <-tick.C:
				}
			}
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 2*time.Second, "poll interval")
	return cmd
}
