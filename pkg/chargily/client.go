// Package chargily is a typed client for the Chargily Pay v2 REST API.
//
// A Client is bound to one account secret key and one mode (test or live).
// Requests are authenticated with the secret key as a bearer token, request
// bodies are encoded as JSON and non-2xx responses surface as *APIError.
package chargily

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Adda-Baaj/chargily-pay/pkg/httpclient"
)

// Mode selects the API environment.
type Mode string

const (
	ModeTest Mode = "test"
	ModeLive Mode = "live"

	TestBaseURL = "https://pay.chargily.net/test/api/v2"
	LiveBaseURL = "https://pay.chargily.net/api/v2"

	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "chargily-pay-go/1.0"
)

// ErrMissingSecretKey is returned by New when no secret key is supplied.
var ErrMissingSecretKey = errors.New("chargily: secret key is required")

// ParseMode maps a config string onto a Mode. Empty input selects test mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeTest:
		return ModeTest, nil
	case ModeLive:
		return ModeLive, nil
	default:
		return "", fmt.Errorf("chargily: unknown mode %q", s)
	}
}

// BaseURL returns the API root for the mode.
func (m Mode) BaseURL() string {
	if m == ModeLive {
		return LiveBaseURL
	}
	return TestBaseURL
}

// Client dispatches requests against the gateway API. It is safe for
// concurrent use once constructed.
type Client struct {
	http      httpclient.Client
	baseURL   string
	secretKey string
	mode      Mode
	userAgent string
	timeout   time.Duration
	validate  *validator.Validate

	Balance      *BalanceService
	Customers    *CustomerService
	Products     *ProductService
	Prices       *PriceService
	Checkouts    *CheckoutService
	PaymentLinks *PaymentLinkService
}

// Option configures a Client.
type Option func(*Client)

// WithMode selects test or live mode. It only changes the base URL when
// WithBaseURL was not given.
func WithMode(m Mode) Option {
	return func(c *Client) { c.mode = m }
}

// WithBaseURL overrides the API root, mainly for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(strings.TrimSpace(u), "/") }
}

// WithTimeout sets the per-request timeout of the default transport.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient replaces the transport.
func WithHTTPClient(hc httpclient.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.userAgent = ua
		}
	}
}

// New builds a Client for the given secret key.
func New(secretKey string, opts ...Option) (*Client, error) {
	secretKey = strings.TrimSpace(secretKey)
	if secretKey == "" {
		return nil, ErrMissingSecretKey
	}

	c := &Client{
		secretKey: secretKey,
		mode:      ModeTest,
		userAgent: defaultUserAgent,
		timeout:   defaultTimeout,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.mode != ModeTest && c.mode != ModeLive {
		return nil, fmt.Errorf("chargily: unknown mode %q", c.mode)
	}
	if c.baseURL == "" {
		c.baseURL = c.mode.BaseURL()
	}
	if c.http == nil {
		c.http = httpclient.NewRestyClient(c.timeout)
	}

	c.Balance = &BalanceService{client: c}
	c.Customers = &CustomerService{client: c}
	c.Products = &ProductService{client: c}
	c.Prices = &PriceService{client: c}
	c.Checkouts = &CheckoutService{client: c}
	c.PaymentLinks = &PaymentLinkService{client: c}
	return c, nil
}

// Mode reports the mode the client was built for.
func (c *Client) Mode() Mode { return c.mode }

// BaseURL reports the API root requests are sent to.
func (c *Client) BaseURL() string { return c.baseURL }

// WebhookSecret returns the key webhook deliveries for this account are signed with.
func (c *Client) WebhookSecret() string { return c.secretKey }

// call sends one request and decodes a 2xx JSON response into out (if non-nil).
func (c *Client) call(ctx context.Context, method, path string, query url.Values, body, out any) error {
	if ctx == nil {
		ctx = context.Background()
	}

	req := httpclient.Request{
		Method: method,
		URL:    c.baseURL + path,
		Query:  query,
		Headers: map[string]string{
			"Authorization": "Bearer " + c.secretKey,
			"Accept":        "application/json",
			"User-Agent":    c.userAgent,
		},
	}
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		req.Body = raw
		req.Headers["Content-Type"] = "application/json"
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	status := resp.StatusCode()
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return newAPIError(method, path, status, resp.Body())
	}

	if out == nil || len(resp.Body()) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

// check runs struct-tag validation on request params.
func (c *Client) check(params any) error {
	if err := c.validate.Struct(params); err != nil {
		return &ValidationError{Err: err}
	}
	return nil
}

func resourcePath(collection, id string, rest ...string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", &ValidationError{Err: fmt.Errorf("%s id is required", strings.TrimSuffix(collection, "s"))}
	}
	parts := append([]string{"", collection, url.PathEscape(id)}, rest...)
	return strings.Join(parts, "/"), nil
}
