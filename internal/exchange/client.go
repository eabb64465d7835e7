package exchange

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"TradeConsole/internal/model"
)

// DefaultBaseURL is the Coinbase Exchange REST endpoint.
const DefaultBaseURL = "https://api.exchange.coinbase.com"

// Client implements Exchange against the Coinbase Exchange REST API.
type Client struct {
	BaseURL string
	Client  *http.Client

	now func() time.Time
}

// NewClient creates a client with optional proxy support.
func NewClient(baseURL, proxyURL string, timeout time.Duration) *Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: timeout, Transport: transport},
		now:     time.Now,
	}
}

func (c *Client) Name() string { return "coinbase" }

func (c *Client) Accounts(ctx context.Context, cred model.APICredential) ([]Account, error) {
	var accounts []Account
	if err := c.signed(ctx, cred, http.MethodGet, "/accounts", nil, &accounts); err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

// ProductStats is unauthenticated.
func (c *Client) ProductStats(ctx context.Context, productID string) (Stats, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/products/"+productID+"/stats", nil)
	if err != nil {
		return Stats{}, err
	}
	var stats Stats
	if err := c.do(req, &stats); err != nil {
		return Stats{}, fmt.Errorf("product stats %s: %w", productID, err)
	}
	return stats, nil
}

func (c *Client) PlaceOrder(ctx context.Context, cred model.APICredential, order Order) (OrderAck, error) {
	body, err := json.Marshal(order)
	if err != nil {
		return OrderAck{}, fmt.Errorf("encode order: %w", err)
	}
	var ack OrderAck
	if err := c.signed(ctx, cred, http.MethodPost, "/orders", body, &ack); err != nil {
		return OrderAck{}, fmt.Errorf("place order: %w", err)
	}
	return ack, nil
}

func (c *Client) signed(ctx context.Context, cred model.APICredential, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	ts := c.now().Unix()
	req.Header.Set("CB-ACCESS-KEY", cred.APIKey)
	req.Header.Set("CB-ACCESS-SIGN", Sign(cred.APISecret, ts, method, path, body))
	req.Header.Set("CB-ACCESS-TIMESTAMP", strconv.FormatInt(ts, 10))
	req.Header.Set("CB-ACCESS-PASSPHRASE", cred.Passphrase)
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeAPIError prefers the "message" field of the reply, then the status text.
func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var body struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &body) == nil && body.Message != "" {
		apiErr.Message = body.Message
	} else {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
