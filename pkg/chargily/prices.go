package chargily

import (
	"context"
	"net/http"
)

// PriceParams creates a price.
type PriceParams struct {
	Amount    int64    `json:"amount" validate:"required,gt=0"`
	Currency  string   `json:"currency" validate:"required,len=3,lowercase"`
	ProductID string   `json:"product_id" validate:"required"`
	Metadata  Metadata `json:"metadata,omitempty"`
}

// PriceUpdateParams updates a price. Only metadata is mutable.
type PriceUpdateParams struct {
	Metadata Metadata `json:"metadata" validate:"required"`
}

// PriceService manages prices.
type PriceService struct {
	client *Client
}

func (s *PriceService) Create(ctx context.Context, params PriceParams) (*Price, error) {
	if err := s.client.check(params); err != nil {
		return nil, err
	}
	var out Price
	if err := s.client.call(ctx, http.MethodPost, "/prices", nil, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *PriceService) Get(ctx context.Context, id string) (*Price, error) {
	path, err := resourcePath("prices", id)
	if err != nil {
		return nil, err
	}
	var out Price
	if err := s.client.call(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *PriceService) Update(ctx context.Context, id string, params PriceUpdateParams) (*Price, error) {
	path, err := resourcePath("prices", id)
	if err != nil {
		return nil, err
	}
	if err := s.client.check(params); err != nil {
		return nil, err
	}
	var out Price
	if err := s.client.call(ctx, http.MethodPost, path, nil, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *PriceService) List(ctx context.Context, params *ListParams) (*Page[Price], error) {
	return list[Price](ctx, s.client, "/prices", params)
}
