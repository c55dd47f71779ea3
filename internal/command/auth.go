package command

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func credentials(cmd *cobra.Command) (string, string, error) {
	user, _ := cmd.Flags().GetString("user")
	key, _ := cmd.Flags().GetString("key")
	if user == "" || key == "" {
		return "", "", errors.New("--user and --key are required")
	}
	return user, key, nil
}

func NewSignupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signup",
		Short: "Register an account on the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, key, err := credentials(cmd)
			if err != nil {
				return err
			}
			if err := transportFrom(cmd).Signup(cmd.Context(), user, key); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "account %s created\n", user)
			return nil
		},
	}
}

func NewLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Verify credentials against the server",
		Long:  "Verifies the username/password pair. The password stays local afterwards: it is the key material for message encryption, never a session token.",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, key, err := credentials(cmd)
			if err != nil {
				return err
			}
			if err := transportFrom(cmd).Login(cmd.Context(), user, key); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s\n", user)
			return nil
		},
	}
}
