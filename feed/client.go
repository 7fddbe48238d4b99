// Package feed talks to the market price API and fans quotes out to
// consumers. It never mutates ledger state: trades read the latest quote,
// the poller only refreshes display and pricing data.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultBaseURL is the public CoinCap-compatible endpoint.
const DefaultBaseURL = "https://api.coincap.io/v2"

// Asset is one market listing as reported by the price API.
type Asset struct {
	ID               string
	Symbol           string
	Name             string
	PriceUSD         float64
	MarketCapUSD     float64
	ChangePercent24h float64
}

// PricePoint is one sample of an asset's price history.
type PricePoint struct {
	PriceUSD float64
	Time     time.Time
}

// Client is a thin REST client for the price API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a client for the given base URL. An empty baseURL selects
// the public endpoint.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// API responses arrive wrapped in a {data, timestamp} envelope with numeric
// fields encoded as strings.

type apiAsset struct {
	ID               string `json:"id"`
	Symbol           string `json:"symbol"`
	Name             string `json:"name"`
	PriceUSD         string `json:"priceUsd"`
	MarketCapUSD     string `json:"marketCapUsd"`
	ChangePercent24h string `json:"changePercent24Hr"`
}

type assetResponse struct {
	Data      apiAsset `json:"data"`
	Timestamp int64    `json:"timestamp"`
}

type assetsResponse struct {
	Data      []apiAsset `json:"data"`
	Timestamp int64      `json:"timestamp"`
}

type apiPricePoint struct {
	PriceUSD string `json:"priceUsd"`
	Time     int64  `json:"time"` // unix milliseconds
}

type historyResponse struct {
	Data      []apiPricePoint `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

// Asset fetches the current market data for a single asset.
func (c *Client) Asset(ctx context.Context, assetID string) (Asset, error) {
	if assetID == "" {
		return Asset{}, fmt.Errorf("asset: id is required")
	}

	var resp assetResponse
	if err := c.get(ctx, "/assets/"+url.PathEscape(assetID), nil, &resp); err != nil {
		return Asset{}, fmt.Errorf("asset %q: %w", assetID, err)
	}
	return toAsset(resp.Data)
}

// Assets fetches the market listing, at most limit entries (0 = API default).
func (c *Client) Assets(ctx context.Context, limit int) ([]Asset, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var resp assetsResponse
	if err := c.get(ctx, "/assets", q, &resp); err != nil {
		return nil, fmt.Errorf("assets: %w", err)
	}

	out := make([]Asset, 0, len(resp.Data))
	for _, a := range resp.Data {
		asset, err := toAsset(a)
		if err != nil {
			return nil, fmt.Errorf("assets: %w", err)
		}
		out = append(out, asset)
	}
	return out, nil
}

// History fetches the asset's price history at the given interval
// (e.g. "m1", "h1", "d1").
func (c *Client) History(ctx context.Context, assetID, interval string) ([]PricePoint, error) {
	if assetID == "" {
		return nil, fmt.Errorf("history: asset id is required")
	}
	if interval == "" {
		interval = "d1"
	}

	q := url.Values{}
	q.Set("interval", interval)

	var resp historyResponse
	if err := c.get(ctx, "/assets/"+url.PathEscape(assetID)+"/history", q, &resp); err != nil {
		return nil, fmt.Errorf("history %q: %w", assetID, err)
	}

	out := make([]PricePoint, 0, len(resp.Data))
	for _, p := range resp.Data {
		price, err := strconv.ParseFloat(p.PriceUSD, 64)
		if err != nil {
			return nil, fmt.Errorf("history %q: bad price %q: %w", assetID, p.PriceUSD, err)
		}
		out = append(out, PricePoint{
			PriceUSD: price,
			Time:     time.UnixMilli(p.Time).UTC(),
		})
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func toAsset(a apiAsset) (Asset, error) {
	price, err := strconv.ParseFloat(a.PriceUSD, 64)
	if err != nil {
		return Asset{}, fmt.Errorf("bad priceUsd %q: %w", a.PriceUSD, err)
	}

	// Market cap and change are display-only; a missing or malformed value
	// is not worth failing the whole quote over.
	marketCap, _ := strconv.ParseFloat(a.MarketCapUSD, 64)
	change, _ := strconv.ParseFloat(a.ChangePercent24h, 64)

	return Asset{
		ID:               a.ID,
		Symbol:           a.Symbol,
		Name:             a.Name,
		PriceUSD:         price,
		MarketCapUSD:     marketCap,
		ChangePercent24h: change,
	}, nil
}
