package chargily

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// ListParams controls pagination of list endpoints.
type ListParams struct {
	PerPage int `validate:"omitempty,min=1,max=50"`
	Page    int `validate:"omitempty,min=1"`
}

func (p *ListParams) values() url.Values {
	if p == nil {
		return nil
	}
	v := url.Values{}
	if p.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(p.PerPage))
	}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if len(v) == 0 {
		return nil
	}
	return v
}

// Page is the envelope every list endpoint returns.
type Page[T any] struct {
	Livemode     FlexBool `json:"livemode"`
	CurrentPage  int      `json:"current_page"`
	Data         []T      `json:"data"`
	FirstPageURL string   `json:"first_page_url"`
	LastPage     int      `json:"last_page"`
	LastPageURL  string   `json:"last_page_url"`
	NextPageURL  *string  `json:"next_page_url"`
	Path         string   `json:"path"`
	PerPage      int      `json:"per_page"`
	PrevPageURL  *string  `json:"prev_page_url"`
	Total        int      `json:"total"`
}

// HasMore reports whether a further page exists.
func (p *Page[T]) HasMore() bool {
	return p != nil && p.NextPageURL != nil && *p.NextPageURL != ""
}

// NextParams returns params for the following page, keeping the page size.
func (p *Page[T]) NextParams() *ListParams {
	if !p.HasMore() {
		return nil
	}
	return &ListParams{PerPage: p.PerPage, Page: p.CurrentPage + 1}
}

func list[T any](ctx context.Context, c *Client, path string, params *ListParams) (*Page[T], error) {
	if params != nil {
		if err := c.check(params); err != nil {
			return nil, err
		}
	}
	var page Page[T]
	if err := c.call(ctx, http.MethodGet, path, params.values(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}
