package chargily

import (
	"context"
	"errors"
	"net/http"
)

// CheckoutItem references a price and a quantity.
type CheckoutItem struct {
	Price    string `json:"price" validate:"required"`
	Quantity int    `json:"quantity" validate:"gt=0"`
}

// CheckoutParams creates a checkout from either Items or Amount+Currency.
type CheckoutParams struct {
	Items                     []CheckoutItem `json:"items,omitempty" validate:"omitempty,dive"`
	Amount                    int64          `json:"amount,omitempty" validate:"omitempty,gt=0"`
	Currency                  string         `json:"currency,omitempty" validate:"required_with=Amount,omitempty,len=3,lowercase"`
	PaymentMethod             string         `json:"payment_method,omitempty" validate:"omitempty,oneof=edahabia cib"`
	SuccessURL                string         `json:"success_url" validate:"required,url"`
	FailureURL                string         `json:"failure_url,omitempty" validate:"omitempty,url"`
	WebhookEndpoint           string         `json:"webhook_endpoint,omitempty" validate:"omitempty,url"`
	Description               string         `json:"description,omitempty"`
	Locale                    string         `json:"locale,omitempty" validate:"omitempty,oneof=ar en fr"`
	CustomerID                string         `json:"customer_id,omitempty"`
	ShippingAddress           string         `json:"shipping_address,omitempty"`
	CollectShippingAddress    bool           `json:"collect_shipping_address,omitempty"`
	PercentageDiscount        float64        `json:"percentage_discount,omitempty" validate:"omitempty,gt=0,lte=100,excluded_with=AmountDiscount"`
	AmountDiscount            int64          `json:"amount_discount,omitempty" validate:"omitempty,gt=0"`
	PassFeesToCustomer        *bool          `json:"pass_fees_to_customer,omitempty"`
	ChargilyPayFeesAllocation string         `json:"chargily_pay_fees_allocation,omitempty" validate:"omitempty,oneof=customer merchant split"`
	Metadata                  Metadata       `json:"metadata,omitempty"`
}

var (
	errCheckoutNoTotal = errors.New("checkout needs items or an amount")
	errCheckoutBoth    = errors.New("checkout takes items or an amount, not both")
)

// CheckoutService manages checkouts.
type CheckoutService struct {
	client *Client
}

func (s *CheckoutService) Create(ctx context.Context, params CheckoutParams) (*Checkout, error) {
	switch {
	case len(params.Items) == 0 && params.Amount == 0:
		return nil, &ValidationError{Err: errCheckoutNoTotal}
	case len(params.Items) > 0 && params.Amount != 0:
		return nil, &ValidationError{Err: errCheckoutBoth}
	}
	if err := s.client.check(params); err != nil {
		return nil, err
	}
	var out Checkout
	if err := s.client.call(ctx, http.MethodPost, "/checkouts", nil, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *CheckoutService) Get(ctx context.Context, id string) (*Checkout, error) {
	path, err := resourcePath("checkouts", id)
	if err != nil {
		return nil, err
	}
	var out Checkout
	if err := s.client.call(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *CheckoutService) List(ctx context.Context, params *ListParams) (*Page[Checkout], error) {
	return list[Checkout](ctx, s.client, "/checkouts", params)
}

// Items lists the line items of a checkout.
func (s *CheckoutService) Items(ctx context.Context, id string, params *ListParams) (*Page[LineItem], error) {
	path, err := resourcePath("checkouts", id, "items")
	if err != nil {
		return nil, err
	}
	return list[LineItem](ctx, s.client, path, params)
}

// Expire closes a pending checkout so it can no longer be paid.
func (s *CheckoutService) Expire(ctx context.Context, id string) (*Checkout, error) {
	path, err := resourcePath("checkouts", id, "expire")
	if err != nil {
		return nil, err
	}
	var out Checkout
	if err := s.client.call(ctx, http.MethodPost, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
