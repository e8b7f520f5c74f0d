package chargily

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// PaymentLinkItem references a price on a payment link.
type PaymentLinkItem struct {
	Price              string `json:"price" validate:"required"`
	Quantity           int    `json:"quantity" validate:"gt=0"`
	AdjustableQuantity bool   `json:"adjustable_quantity,omitempty"`
}

// PaymentLinkParams creates or updates a payment link. Name and Items are
// required on create.
type PaymentLinkParams struct {
	Name                   string            `json:"name,omitempty" validate:"omitempty,max=191"`
	Items                  []PaymentLinkItem `json:"items,omitempty" validate:"omitempty,dive"`
	AfterCompletionMessage string            `json:"after_completion_message,omitempty"`
	Locale                 string            `json:"locale,omitempty" validate:"omitempty,oneof=ar en fr"`
	PassFeesToCustomer     *bool             `json:"pass_fees_to_customer,omitempty"`
	CollectShippingAddress *bool             `json:"collect_shipping_address,omitempty"`
	Active                 *bool             `json:"active,omitempty"`
	Metadata               Metadata          `json:"metadata,omitempty"`
}

// PaymentLinkService manages payment links.
type PaymentLinkService struct {
	client *Client
}

func (s *PaymentLinkService) Create(ctx context.Context, params PaymentLinkParams) (*PaymentLink, error) {
	if strings.TrimSpace(params.Name) == "" {
		return nil, &ValidationError{Err: errors.New("payment link name is required")}
	}
	if len(params.Items) == 0 {
		return nil, &ValidationError{Err: errors.New("payment link needs at least one item")}
	}
	if err := s.client.check(params); err != nil {
		return nil, err
	}
	var out PaymentLink
	if err := s.client.call(ctx, http.MethodPost, "/payment-links", nil, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *PaymentLinkService) Get(ctx context.Context, id string) (*PaymentLink, error) {
	path, err := resourcePath("payment-links", id)
	if err != nil {
		return nil, err
	}
	var out PaymentLink
	if err := s.client.call(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *PaymentLinkService) Update(ctx context.Context, id string, params PaymentLinkParams) (*PaymentLink, error) {
	path, err := resourcePath("payment-links", id)
	if err != nil {
		return nil, err
	}
	if err := s.client.check(params); err != nil {
		return nil, err
	}
	var out PaymentLink
	if err := s.client.call(ctx, http.MethodPost, path, nil, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *PaymentLinkService) List(ctx context.Context, params *ListParams) (*Page[PaymentLink], error) {
	return list[PaymentLink](ctx, s.client, "/payment-links", params)
}

// Items lists the prices offered by a payment link.
func (s *PaymentLinkService) Items(ctx context.Context, id string, params *ListParams) (*Page[LineItem], error) {
	path, err := resourcePath("payment-links", id, "items")
	if err != nil {
		return nil, err
	}
	return list[LineItem](ctx, s.client, path, params)
}
