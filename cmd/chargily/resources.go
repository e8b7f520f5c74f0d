package main

import (
	"github.com/spf13/cobra"

	"github.com/Adda-Baaj/chargily-pay/pkg/chargily"
)

func (c *cli) balanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show wallet balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cl, err := c.client()
			if err != nil {
				return err
			}
			bal, err := cl.Balance.Get(cmd.Context())
			if err != nil {
				return err
			}
			return c.print(bal)
		},
	}
}

func (c *cli) customersCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "customers", Short: "Manage customers"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List customers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cl, err := c.client()
			if err != nil {
				return err
			}
			page, err := cl.Customers.List(cmd.Context(), c.listParams())
			if err != nil {
				return err
			}
			return c.print(page)
		},
	}
	c.addPaging(list)

	get := &cobra.Command{
		Use:   "get ID",
		Short: "Show a customer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := c.client()
			if err != nil {
				return err
			}
			cust, err := cl.Customers.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return c.print(cust)
		},
	}

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a customer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := c.client()
			if err != nil {
				return err
			}
			res, err := cl.Customers.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return c.print(res)
		},
	}

	cmd.AddCommand(list, get, del)
	return cmd
}

func (c *cli) productsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "products", Short: "Browse products"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cl, err := c.client()
			if err != nil {
				return err
			}
			page, err := cl.Products.List(cmd.Context(), c.listParams())
			if err != nil {
				return err
			}
			return c.print(page)
		},
	}
	c.addPaging(list)

	get := &cobra.Command{
		Use:   "get ID",
		Short: "Show a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := c.client()
			if err != nil {
				return err
			}
			p, err := cl.Products.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return c.print(p)
		},
	}

	cmd.AddCommand(list, get)
	return cmd
}

func (c *cli) pricesCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "prices", Short: "Browse prices"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List prices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cl, err := c.client()
			if err != nil {
				return err
			}
			page, err := cl.Prices.List(cmd.Context(), c.listParams())
			if err != nil {
				return err
			}
			return c.print(page)
		},
	}
	c.addPaging(list)

	cmd.AddCommand(list)
	return cmd
}

func (c *cli) checkoutsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "checkouts", Short: "Manage checkouts"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List checkouts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cl, err := c.client()
			if err != nil {
				return err
			}
			page, err := cl.Checkouts.List(cmd.Context(), c.listParams())
			if err != nil {
				return err
			}
			return c.print(page)
		},
	}
	c.addPaging(list)

	get := &cobra.Command{
		Use:   "get ID",
		Short: "Show a checkout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := c.client()
			if err != nil {
				return err
			}
			chk, err := cl.Checkouts.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return c.print(chk)
		},
	}

	expire := &cobra.Command{
		Use:   "expire ID",
		Short: "Expire a pending checkout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := c.client()
			if err != nil {
				return err
			}
			chk, err := cl.Checkouts.Expire(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return c.print(chk)
		},
	}

	var params chargily.CheckoutParams
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a checkout for an amount",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cl, err := c.client()
			if err != nil {
				return err
			}
			chk, err := cl.Checkouts.Create(cmd.Context(), params)
			if err != nil {
				return err
			}
			return c.print(chk)
		},
	}
	create.Flags().Int64Var(&params.Amount, "amount", 0, "amount in the currency's main unit")
	create.Flags().StringVar(&params.Currency, "currency", "dzd", "ISO currency code")
	create.Flags().StringVar(&params.SuccessURL, "success-url", "", "redirect after a successful payment")
	create.Flags().StringVar(&params.FailureURL, "failure-url", "", "redirect after a failed payment")
	create.Flags().StringVar(&params.WebhookEndpoint, "webhook-endpoint", "", "override the account webhook URL")
	create.Flags().StringVar(&params.PaymentMethod, "payment-method", "", "edahabia or cib")
	create.Flags().StringVar(&params.Locale, "locale", "", "ar, en or fr")
	create.Flags().StringVar(&params.Description, "description", "", "checkout description")
	_ = create.MarkFlagRequired("amount")
	_ = create.MarkFlagRequired("success-url")

	cmd.AddCommand(list, get, expire, create)
	return cmd
}

func (c *cli) paymentLinksCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "payment-links", Short: "Browse payment links"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List payment links",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cl, err := c.client()
			if err != nil {
				return err
			}
			page, err := cl.PaymentLinks.List(cmd.Context(), c.listParams())
			if err != nil {
				return err
			}
			return c.print(page)
		},
	}
	c.addPaging(list)

	get := &cobra.Command{
		Use:   "get ID",
		Short: "Show a payment link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := c.client()
			if err != nil {
				return err
			}
			link, err := cl.PaymentLinks.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return c.print(link)
		},
	}

	cmd.AddCommand(list, get)
	return cmd
}
