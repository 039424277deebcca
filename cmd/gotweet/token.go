package main

import (
	"github.com/spf13/cobra"
)

func newTokenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage the stored X refresh token",
	}

	cmd.AddCommand(newTokenSetCommand())
	cmd.AddCommand(newTokenClearCommand())

	return cmd
}

func newTokenSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <refresh-token>",
		Short: "Store the OAuth2 refresh token obtained from the authorization flow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer closeApp(application)

			if err := application.TokenStore().Save(cmd.Context(), args[0]); err != nil {
				return err
			}

			application.Logger().Info("Refresh token stored")

			return nil
		},
	}
}

func newTokenClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the stored refresh token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer closeApp(application)

			if err := application.TokenStore().Delete(cmd.Context()); err != nil {
				return err
			}

			application.Logger().Info("Refresh token cleared")

			return nil
		},
	}
}
