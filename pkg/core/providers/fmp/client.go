// Package fmp implements the analyst-estimates provider against the
// Financial Modeling Prep REST API.
package fmp

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"dcf_valuation/pkg/core/numeric"
	"dcf_valuation/pkg/core/utils"
	"dcf_valuation/pkg/models"
)

const defaultBaseURL = "https://financialmodelingprep.com"

// Client is a thin Financial Modeling Prep REST client.
type Client struct {
	http   *resty.Client
	apiKey string
}

// NewClient builds a client with the given credentials and per-request
// timeout.
func NewClient(apiKey string, timeout time.Duration) *Client {
	http := resty.New()
	http.SetBaseURL(defaultBaseURL)
	http.SetTimeout(timeout)
	return &Client{http: http, apiKey: apiKey}
}

// SetBaseURL points the client at a different host. Used by tests.
func (c *Client) SetBaseURL(url string) {
	c.http.SetBaseURL(url)
}

// AnalystEstimates fetches the forward-looking analyst revenue estimates
// for a ticker, ordered as the API returns them (nearest year first).
func (c *Client) AnalystEstimates(ctx context.Context, ticker string) ([]models.AnalystEstimate, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("FMP API key not configured")
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("apikey", c.apiKey).
		Get("/api/v3/analyst-estimates/" + ticker)
	if err != nil {
		return nil, fmt.Errorf("fmp analyst estimates %s: %w", ticker, err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("fmp analyst estimates %s: status %d", ticker, resp.StatusCode())
	}

	var raw []map[string]any
	if err := utils.DecodeLenient(resp.Body(), &raw); err != nil {
		return nil, fmt.Errorf("fmp analyst estimates %s: %w", ticker, err)
	}

	estimates := make([]models.AnalystEstimate, 0, len(raw))
	for _, entry := range raw {
		estimates = append(estimates, models.AnalystEstimate{
			EstimatedRevenueAvg: numeric.SafeFloat(entry["estimatedRevenueAvg"], 0),
			Year:                int(numeric.SafeFloat(entry["year"], 0)),
		})
	}
	return estimates, nil
}
