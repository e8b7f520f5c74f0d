package chargily

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// ProductParams creates or updates a product. Name is required on create.
type ProductParams struct {
	Name        string   `json:"name,omitempty" validate:"omitempty,max=191"`
	Description string   `json:"description,omitempty"`
	Images      []string `json:"images,omitempty" validate:"omitempty,max=8,dive,url"`
	Metadata    Metadata `json:"metadata,omitempty"`
}

// ProductService manages products.
type ProductService struct {
	client *Client
}

func (s *ProductService) Create(ctx context.Context, params ProductParams) (*Product, error) {
	if strings.TrimSpace(params.Name) == "" {
		return nil, &ValidationError{Err: errors.New("product name is required")}
	}
	if err := s.client.check(params); err != nil {
		return nil, err
	}
	var out Product
	if err := s.client.call(ctx, http.MethodPost, "/products", nil, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*Product, error) {
	path, err := resourcePath("products", id)
	if err != nil {
		return nil, err
	}
	var out Product
	if err := s.client.call(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ProductService) Update(ctx context.Context, id string, params ProductParams) (*Product, error) {
	path, err := resourcePath("products", id)
	if err != nil {
		return nil, err
	}
	if err := s.client.check(params); err != nil {
		return nil, err
	}
	var out Product
	if err := s.client.call(ctx, http.MethodPost, path, nil, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) (*Deleted, error) {
	path, err := resourcePath("products", id)
	if err != nil {
		return nil, err
	}
	var out Deleted
	if err := s.client.call(ctx, http.MethodDelete, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ProductService) List(ctx context.Context, params *ListParams) (*Page[Product], error) {
	return list[Product](ctx, s.client, "/products", params)
}

// Prices lists the prices attached to a product.
func (s *ProductService) Prices(ctx context.Context, id string, params *ListParams) (*Page[Price], error) {
	path, err := resourcePath("products", id, "prices")
	if err != nil {
		return nil, err
	}
	return list[Price](ctx, s.client, path, params)
}
