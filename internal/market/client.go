// Package market looks up current listing data from the Steam Community
// Market.
package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hcsdev/hcs-manager/internal/common"
	"github.com/hcsdev/hcs-manager/internal/service"
)

const defaultBaseURL = "https://steamcommunity.com"

// imageCDN hosts economy images referenced by icon paths in render responses.
const imageCDN = "https://steamcommunity-a.akamaihd.net/economy/image/"

var listingPattern = regexp.MustCompile(`listings/(\d+)/([^?]+)`)

// Client fetches listing names, prices and images from the public market
// endpoints. Lookups are retried with backoff; a 429 waits out the full
// maximum delay before the next attempt.
type Client struct {
	httpClient *http.Client
	baseURL    string
	retryOpts  common.RetryOptions
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different host. Used in tests.
func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(base, "/") }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a market client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    defaultBaseURL,
		retryOpts: common.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: time.Second,
			MaxDelay:     10 * time.Second,
			Multiplier:   2.0,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ParseListingURL extracts the app id and market hash name from a market
// listing URL.
func ParseListingURL(listingURL string) (appID, hashName string, err error) {
	match := listingPattern.FindStringSubmatch(listingURL)
	if match == nil {
		return "", "", fmt.Errorf("%w: expected a steamcommunity.com/market/listings URL", common.ErrInvalidLink)
	}
	hashName, err = url.PathUnescape(match[2])
	if err != nil {
		return "", "", fmt.Errorf("%w: malformed listing name", common.ErrInvalidLink)
	}
	return match[1], hashName, nil
}

type priceOverview struct {
	Success     bool   `json:"success"`
	LowestPrice string `json:"lowest_price"`
	MedianPrice string `json:"median_price"`
	Volume      string `json:"volume"`
}

type renderResponse struct {
	Assets map[string]map[string]map[string]renderAsset `json:"assets"`
}

type renderAsset struct {
	MarketName   string `json:"market_name"`
	Name         string `json:"name"`
	IconURL      string `json:"icon_url"`
	IconURLLarge string `json:"icon_url_large"`
}

// Lookup fetches the listing's canonical name, image and price summary.
func (c *Client) Lookup(ctx context.Context, listingURL string) (*service.Quote, error) {
	appID, hashName, err := ParseListingURL(listingURL)
	if err != nil {
		return nil, err
	}

	quote := &service.Quote{}

	renderURL := fmt.Sprintf("%s/market/listings/%s/%s/render?count=1&currency=1&format=json",
		c.baseURL, appID, url.PathEscape(hashName))
	var render renderResponse
	if err := c.getJSON(ctx, renderURL, &render); err != nil {
		return nil, err
	}
	if byContext, ok := render.Assets[appID]; ok {
		for _, assets := range byContext {
			for _, asset := range assets {
				quote.Name = asset.MarketName
				if quote.Name == "" {
					quote.Name = asset.Name
				}
				if icon := asset.IconURLLarge; icon != "" {
					quote.ImageURL = imageCDN + icon
				} else if icon := asset.IconURL; icon != "" {
					quote.ImageURL = imageCDN + icon
				}
				break
			}
			break
		}
	}

	priceURL := fmt.Sprintf("%s/market/priceoverview/?appid=%s&market_hash_name=%s&currency=3",
		c.baseURL, appID, url.QueryEscape(hashName))
	var overview priceOverview
	if err := c.getJSON(ctx, priceURL, &overview); err != nil {
		return nil, err
	}
	if !overview.Success {
		return nil, fmt.Errorf("%w: no price data for %q", common.ErrLookupFailed, hashName)
	}

	quote.Volume = overview.Volume
	if quote.LowestPrice, err = parsePrice(overview.LowestPrice); err != nil {
		return nil, err
	}
	if overview.MedianPrice != "" {
		if quote.MedianPrice, err = parsePrice(overview.MedianPrice); err != nil {
			return nil, err
		}
	}
	if quote.Name == "" {
		quote.Name = hashName
	}
	return quote, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return &common.RetryableError{Err: fmt.Errorf("failed to create request: %w", err)}
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("market request failed: %w", err)
		}
		defer func() { _ = resp.Body.Close() }()

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			return common.ErrRateLimit
		case resp.StatusCode >= 500:
			return fmt.Errorf("market returned status %d", resp.StatusCode)
		case resp.StatusCode != http.StatusOK:
			return &common.RetryableError{
				Err: fmt.Errorf("%w: market returned status %d", common.ErrLookupFailed, resp.StatusCode),
			}
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}
		if err := json.Unmarshal(body, out); err != nil {
			return &common.RetryableError{
				Err: fmt.Errorf("%w: malformed response: %v", common.ErrLookupFailed, err),
			}
		}
		return nil
	}

	if err := common.WithRetry(ctx, operation, c.retryOpts); err != nil {
		if errors.Is(err, common.ErrLookupFailed) {
			return err
		}
		return fmt.Errorf("%w: %v", common.ErrLookupFailed, err)
	}
	return nil
}

var priceCleaner = regexp.MustCompile(`[^0-9.,]`)

// parsePrice turns a localized price string like "12,34€", "$1,234.56" or
// "1.234,56€" into a decimal. When both separators appear, the rightmost one
// is the decimal separator and the other marks thousands; a lone comma is the
// decimal separator, and repeated same-kind separators mark thousands.
func parsePrice(s string) (decimal.Decimal, error) {
	cleaned := priceCleaner.ReplaceAllString(s, "")
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("%w: unparseable price %q", common.ErrLookupFailed, s)
	}
	dot := strings.LastIndex(cleaned, ".")
	comma := strings.LastIndex(cleaned, ",")
	switch {
	case dot >= 0 && comma >= 0 && comma > dot:
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	case dot >= 0 && comma >= 0:
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	case comma >= 0 && strings.Count(cleaned, ",") > 1:
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	case comma >= 0:
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	case strings.Count(cleaned, ".") > 1:
		cleaned = strings.ReplaceAll(cleaned, ".", "")
	}
	price, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: unparseable price %q", common.ErrLookupFailed, s)
	}
	return price, nil
}
