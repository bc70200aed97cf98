// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cyberfolio/internal/auth"
)

// qrSize is the pixel size of the enrollment QR code.
const qrSize = 256

var hashSecretCmd = &cobra.Command{
	Use:   "hash-secret <secret>",
	Short: "Prints a bcrypt hash for ADMIN_SECRET_HASH",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := auth.HashSecret(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

var (
	totpAccount string
	totpQRPath  string
)

var totpCmd = &cobra.Command{
	Use:   "totp",
	Short: "Generates a TOTP secret for ADMIN_TOTP_SECRET",
	Long: `The totp command generates a new TOTP secret for the admin login and prints
it with its otpauth:// URL. With --qr the URL is also written as a PNG QR code
for authenticator apps.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := auth.GenerateTOTP(totpAccount)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "ADMIN_TOTP_SECRET=%s\n", e.Secret)
		fmt.Fprintf(out, "URL: %s\n", e.URL)

		if totpQRPath == "" {
			return nil
		}
		png, err := e.QRCode(qrSize)
		if err != nil {
			return err
		}
		if err := os.WriteFile(totpQRPath, png, 0o600); err != nil {
			return fmt.Errorf("write qr code: %w", err)
		}
		fmt.Fprintf(out, "QR code written to %s\n", totpQRPath)
		return nil
	},
}

func init() {
	totpCmd.Flags().StringVar(&totpAccount, "account", "admin", "account name shown in the authenticator app")
	totpCmd.Flags().StringVar(&totpQRPath, "qr", "", "write the enrollment QR code PNG to this file")
}
