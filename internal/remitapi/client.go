// Package remitapi is the read-only client for the remote catalog service.
//
// The service exposes exactly two endpoints, both plain GETs returning JSON
// arrays: the mobile-wallet providers and the previously used recipients.
// There is no pagination, no auth and no write path.
package remitapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"remitconnect/internal/core"
)

const defaultTimeout = 10 * time.Second

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported base URL scheme %q", u.Scheme)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// MobileWallets fetches the wallet provider catalog.
func (c *Client) MobileWallets(ctx context.Context) ([]core.MobileWallet, error) {
	var wallets []core.MobileWallet
	if err := c.getJSON(ctx, "wallets", &wallets); err != nil {
		return nil, fmt.Errorf("fetch mobile wallets: %w", err)
	}
	return wallets, nil
}

// PreviousRecipients fetches the recipients the user has sent to before.
func (c *Client) PreviousRecipients(ctx context.Context) ([]core.Recipient, error) {
	var recipients []core.Recipient
	if err := c.getJSON(ctx, "recipients", &recipients); err != nil {
		return nil, fmt.Errorf("fetch recipients: %w", err)
	}
	return recipients, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
