package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Adda-Baaj/chargily-pay/internal/config"
	"github.com/Adda-Baaj/chargily-pay/pkg/webhook"
)

func (c *cli) webhookCmd() *cobra.Command {
	var (
		file      string
		secret    string
		signature string
	)

	cmd := &cobra.Command{
		Use:   "webhook",
		Short: "Sign or verify webhook payloads",
	}
	cmd.PersistentFlags().StringVar(&file, "file", "-", "payload file, - for stdin")
	cmd.PersistentFlags().StringVar(&secret, "secret", "", "secret key (default: chargily_secret_key from config)")

	sign := &cobra.Command{
		Use:   "sign",
		Short: "Print the signature header value for a payload",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			payload, key, err := loadPayload(cmd.InOrStdin(), file, secret)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(c.out, webhook.Sign(payload, key))
			return err
		},
	}

	verify := &cobra.Command{
		Use:   "verify",
		Short: "Check a payload against a signature",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			payload, key, err := loadPayload(cmd.InOrStdin(), file, secret)
			if err != nil {
				return err
			}
			if err := webhook.VerifySignature(payload, signature, key); err != nil {
				return err
			}
			_, err = fmt.Fprintln(c.out, "signature valid")
			return err
		},
	}
	verify.Flags().StringVar(&signature, "signature", "", "value of the signature header")

	cmd.AddCommand(sign, verify)
	return cmd
}

// loadPayload reads the exact payload bytes and resolves the secret key.
func loadPayload(stdin io.Reader, file, secret string) ([]byte, string, error) {
	var (
		payload []byte
		err     error
	)
	if file == "" || file == "-" {
		payload, err = io.ReadAll(stdin)
	} else {
		payload, err = os.ReadFile(file)
	}
	if err != nil {
		return nil, "", fmt.Errorf("read payload: %w", err)
	}

	if secret != "" {
		return payload, secret, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, "", fmt.Errorf("load config: %w", err)
	}
	if err := cfg.RequireSecretKey(); err != nil {
		return nil, "", err
	}
	return payload, cfg.ChargilySecretKey, nil
}
