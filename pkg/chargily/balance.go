package chargily

import (
	"context"
	"net/http"
)

// BalanceService reads wallet balances.
type BalanceService struct {
	client *Client
}

// Get returns the balance of every wallet on the account.
func (s *BalanceService) Get(ctx context.Context) (*Balance, error) {
	var out Balance
	if err := s.client.call(ctx, http.MethodGet, "/balance", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
