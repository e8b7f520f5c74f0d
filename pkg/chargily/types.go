package chargily

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// FlexBool decodes booleans the API sends either as JSON booleans or as the
// strings "true"/"false" (webhook events do the latter).
type FlexBool bool

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*b = false
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*b = false
			return nil
		}
		v, err := strconv.ParseBool(s)
		if err != nil {
			return fmt.Errorf("livemode: %w", err)
		}
		*b = FlexBool(v)
		return nil
	}
	var v bool
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*b = FlexBool(v)
	return nil
}

// Metadata is free-form data attached to most resources.
type Metadata map[string]any

// Address is a postal address.
type Address struct {
	Country string `json:"country,omitempty" validate:"omitempty,len=2"`
	State   string `json:"state,omitempty"`
	Address string `json:"address,omitempty"`
}

// Deleted is returned by delete endpoints.
type Deleted struct {
	ID       string   `json:"id"`
	Entity   string   `json:"entity"`
	Livemode FlexBool `json:"livemode"`
	Deleted  bool     `json:"deleted"`
}

// Balance lists the account's wallets.
type Balance struct {
	Entity   string   `json:"entity"`
	Livemode FlexBool `json:"livemode"`
	Wallets  []Wallet `json:"wallets"`
}

// Wallet holds the funds for one currency.
type Wallet struct {
	Currency       string  `json:"currency"`
	Balance        float64 `json:"balance"`
	ReadyForPayout float64 `json:"ready_for_payout"`
	OnHold         float64 `json:"on_hold"`
}

// Customer is a payer record.
type Customer struct {
	ID        string   `json:"id"`
	Entity    string   `json:"entity"`
	Livemode  FlexBool `json:"livemode"`
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone"`
	Address   *Address `json:"address"`
	Metadata  Metadata `json:"metadata"`
	CreatedAt int64    `json:"created_at"`
	UpdatedAt int64    `json:"updated_at"`
}

// Product is something sold through prices.
type Product struct {
	ID          string   `json:"id"`
	Entity      string   `json:"entity"`
	Livemode    FlexBool `json:"livemode"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
	Metadata    Metadata `json:"metadata"`
	CreatedAt   int64    `json:"created_at"`
	UpdatedAt   int64    `json:"updated_at"`
}

// Price is an amount in a currency attached to a product.
type Price struct {
	ID        string   `json:"id"`
	Entity    string   `json:"entity"`
	Livemode  FlexBool `json:"livemode"`
	Amount    int64    `json:"amount"`
	Currency  string   `json:"currency"`
	ProductID string   `json:"product_id"`
	Metadata  Metadata `json:"metadata"`
	CreatedAt int64    `json:"created_at"`
	UpdatedAt int64    `json:"updated_at"`
}

// LineItem is a price with a quantity, as listed under a checkout or payment link.
type LineItem struct {
	Price
	Quantity           int  `json:"quantity"`
	AdjustableQuantity bool `json:"adjustable_quantity,omitempty"`
}

// CheckoutStatus is the lifecycle state of a checkout.
type CheckoutStatus string

const (
	CheckoutPending    CheckoutStatus = "pending"
	CheckoutProcessing CheckoutStatus = "processing"
	CheckoutPaid       CheckoutStatus = "paid"
	CheckoutFailed     CheckoutStatus = "failed"
	CheckoutCanceled   CheckoutStatus = "canceled"
	CheckoutExpired    CheckoutStatus = "expired"
)

// Final reports whether no further transition is expected.
func (s CheckoutStatus) Final() bool {
	switch s {
	case CheckoutPaid, CheckoutFailed, CheckoutCanceled, CheckoutExpired:
		return true
	default:
		return false
	}
}

// Checkout is a hosted payment session.
type Checkout struct {
	ID                        string         `json:"id"`
	Entity                    string         `json:"entity"`
	Livemode                  FlexBool       `json:"livemode"`
	Amount                    int64          `json:"amount"`
	Currency                  string         `json:"currency"`
	Fees                      int64          `json:"fees"`
	FeesOnMerchant            int64          `json:"fees_on_merchant"`
	FeesOnCustomer            int64          `json:"fees_on_customer"`
	PassFeesToCustomer        *bool          `json:"pass_fees_to_customer"`
	ChargilyPayFeesAllocation string         `json:"chargily_pay_fees_allocation"`
	Status                    CheckoutStatus `json:"status"`
	Locale                    string         `json:"locale"`
	Description               string         `json:"description"`
	SuccessURL                string         `json:"success_url"`
	FailureURL                string         `json:"failure_url"`
	WebhookEndpoint           string         `json:"webhook_endpoint"`
	PaymentMethod             string         `json:"payment_method"`
	InvoiceID                 string         `json:"invoice_id"`
	CustomerID                string         `json:"customer_id"`
	PaymentLinkID             string         `json:"payment_link_id"`
	ShippingAddress           string         `json:"shipping_address"`
	CollectShippingAddress    FlexBool       `json:"collect_shipping_address"`
	Discount                  *Discount      `json:"discount"`
	AmountWithoutDiscount     *int64         `json:"amount_without_discount"`
	CheckoutURL               string         `json:"checkout_url"`
	Metadata                  Metadata       `json:"metadata"`
	CreatedAt                 int64          `json:"created_at"`
	UpdatedAt                 int64          `json:"updated_at"`
}

// Discount describes a discount applied to a checkout.
type Discount struct {
	Type  string  `json:"type"`
	Value float64 `json:"value"`
}

// PaymentLink is a reusable hosted payment page.
type PaymentLink struct {
	ID                     string   `json:"id"`
	Entity                 string   `json:"entity"`
	Livemode               FlexBool `json:"livemode"`
	Name                   string   `json:"name"`
	Active                 FlexBool `json:"active"`
	AfterCompletionMessage string   `json:"after_completion_message"`
	Locale                 string   `json:"locale"`
	PassFeesToCustomer     FlexBool `json:"pass_fees_to_customer"`
	CollectShippingAddress FlexBool `json:"collect_shipping_address"`
	URL                    string   `json:"url"`
	Metadata               Metadata `json:"metadata"`
	CreatedAt              int64    `json:"created_at"`
	UpdatedAt              int64    `json:"updated_at"`
}
