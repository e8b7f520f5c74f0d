package chargily

import (
	"context"
	"net/http"
)

// CustomerParams creates or updates a customer. Zero fields are omitted.
type CustomerParams struct {
	Name     string   `json:"name,omitempty" validate:"omitempty,max=191"`
	Email    string   `json:"email,omitempty" validate:"omitempty,email"`
	Phone    string   `json:"phone,omitempty" validate:"omitempty,max=32"`
	Address  *Address `json:"address,omitempty"`
	Metadata Metadata `json:"metadata,omitempty"`
}

// CustomerService manages customers.
type CustomerService struct {
	client *Client
}

func (s *CustomerService) Create(ctx context.Context, params CustomerParams) (*Customer, error) {
	if err := s.client.check(params); err != nil {
		return nil, err
	}
	var out Customer
	if err := s.client.call(ctx, http.MethodPost, "/customers", nil, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *CustomerService) Get(ctx context.Context, id string) (*Customer, error) {
	path, err := resourcePath("customers", id)
	if err != nil {
		return nil, err
	}
	var out Customer
	if err := s.client.call(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *CustomerService) Update(ctx context.Context, id string, params CustomerParams) (*Customer, error) {
	path, err := resourcePath("customers", id)
	if err != nil {
		return nil, err
	}
	if err := s.client.check(params); err != nil {
		return nil, err
	}
	var out Customer
	if err := s.client.call(ctx, http.MethodPost, path, nil, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *CustomerService) Delete(ctx context.Context, id string) (*Deleted, error) {
	path, err := resourcePath("customers", id)
	if err != nil {
		return nil, err
	}
	var out Deleted
	if err := s.client.call(ctx, http.MethodDelete, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns one page of customers; nil params use the API defaults.
func (s *CustomerService) List(ctx context.Context, params *ListParams) (*Page[Customer], error) {
	return list[Customer](ctx, s.client, "/customers", params)
}
