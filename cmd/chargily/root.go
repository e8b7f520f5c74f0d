package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Adda-Baaj/chargily-pay/internal/config"
	"github.com/Adda-Baaj/chargily-pay/pkg/chargily"
)

// cli carries flags shared by every command.
type cli struct {
	out     io.Writer
	mode    string
	baseURL string
	perPage int
	page    int
}

func newRootCmd(out io.Writer) *cobra.Command {
	c := &cli{out: out}

	root := &cobra.Command{
		Use:           "chargily",
		Short:         "Chargily Pay account tool",
		Long:          "Query and manage a Chargily Pay account and sign or verify webhook payloads.\nThe secret key is read from CHARGILY_SECRET_KEY or configs/.env.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&c.mode, "mode", "", "test or live (default: chargily_mode from config)")
	root.PersistentFlags().StringVar(&c.baseURL, "base-url", "", "override the API base URL")

	root.AddCommand(
		c.balanceCmd(),
		c.customersCmd(),
		c.productsCmd(),
		c.pricesCmd(),
		c.checkoutsCmd(),
		c.paymentLinksCmd(),
		c.webhookCmd(),
	)
	return root
}

// client builds an API client from config, applying flag overrides.
func (c *cli) client() (*chargily.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.RequireSecretKey(); err != nil {
		return nil, err
	}

	modeName := cfg.ChargilyMode
	if c.mode != "" {
		modeName = c.mode
	}
	mode, err := chargily.ParseMode(modeName)
	if err != nil {
		return nil, err
	}

	opts := []chargily.Option{chargily.WithMode(mode), chargily.WithTimeout(cfg.HTTPTimeout)}
	baseURL := cfg.ChargilyBaseURL
	if c.baseURL != "" {
		baseURL = c.baseURL
	}
	if baseURL != "" {
		opts = append(opts, chargily.WithBaseURL(baseURL))
	}
	return chargily.New(cfg.ChargilySecretKey, opts...)
}

// addPaging registers --per-page and --page on list commands.
func (c *cli) addPaging(cmd *cobra.Command) {
	cmd.Flags().IntVar(&c.perPage, "per-page", 0, "items per page (1-50)")
	cmd.Flags().IntVar(&c.page, "page", 0, "page number")
}

func (c *cli) listParams() *chargily.ListParams {
	if c.perPage == 0 && c.page == 0 {
		return nil
	}
	return &chargily.ListParams{PerPage: c.perPage, Page: c.page}
}

func (c *cli) print(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
