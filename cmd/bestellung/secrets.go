package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/etc-team/bestellung/pkg/credentials"
)

func totpSecretCmd() *cobra.Command {
	var issuer, account string

	cmd := &cobra.Command{
		Use:   "totp-secret",
		Short: "Generate a TOTP secret for ETC_2FA_SECRET",
		Long: `Generate a new base32 TOTP secret and its otpauth:// URL. Put the secret in
ETC_2FA_SECRET and add the URL to an authenticator app.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := credentials.GenerateSecondFactor(issuer, account)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ETC_2FA_SECRET=%s\n", key.Secret())
			fmt.Fprintf(out, "%s\n", key.URL())
			return nil
		},
	}

	cmd.Flags().StringVar(&issuer, "issuer", "Bestellung", "Issuer shown in the authenticator app.")
	cmd.Flags().StringVar(&account, "account", "ETC-Team", "Account name shown in the authenticator app.")
	return cmd
}

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password",
		Short: "Read a password from stdin and print a bcrypt hash for ETC_LOGIN_PASSWORD_BCRYPT",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scanner := bufio.NewScanner(cmd.InOrStdin())
			if !scanner.Scan() {
				if err := scanner.Err(); err != nil {
					return err
				}
				return errors.New("no password on stdin")
			}
			hash, err := credentials.HashPassword(strings.TrimRight(scanner.Text(), "\r"))
			if err != nil {
				return err
			}
			// Single quotes keep godotenv from expanding the $ signs.
			fmt.Fprintf(cmd.OutOrStdout(), "ETC_LOGIN_PASSWORD_BCRYPT='%s'\n", hash)
			return nil
		},
	}
}
