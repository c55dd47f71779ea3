package command

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func NewFetchCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "fetch <file-id>",
		Short: "Download a shared file by its id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, contentType, err := transportFrom(cmd).Download(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if output == "" {
				output = args[0]
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes, %s)\n", output, len(data), contentType)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "destination path (defaults to the file id)")
	return cmd
}
