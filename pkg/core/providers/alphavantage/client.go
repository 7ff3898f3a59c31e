// Package alphavantage implements the fundamental-data provider against
// the Alpha Vantage REST API. All fundamentals come from four functions of
// the /query endpoint: OVERVIEW, INCOME_STATEMENT, BALANCE_SHEET and
// CASH_FLOW. Statement responses carry an annualReports array ordered
// newest first; the client passes the raw records through untyped so the
// numeric safety layer decides how to read each field.
package alphavantage

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"dcf_valuation/pkg/core/utils"
	"dcf_valuation/pkg/models"
)

const defaultBaseURL = "https://www.alphavantage.co"

// Client is a thin Alpha Vantage REST client.
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

// CompanyOverview fetches the OVERVIEW record for a ticker.
func (c *Client) CompanyOverview(ctx context.Context, ticker string) (models.Record, error) {
	return c.query(ctx, "OVERVIEW", ticker)
}

// IncomeStatementsAnnual fetches the annual income statements, newest first.
func (c *Client) IncomeStatementsAnnual(ctx context.Context, ticker string) ([]models.Record, error) {
	return c.annualReports(ctx, "INCOME_STATEMENT", ticker)
}

// BalanceSheetsAnnual fetches the annual balance sheets, newest first.
func (c *Client) BalanceSheetsAnnual(ctx context.Context, ticker string) ([]models.Record, error) {
	return c.annualReports(ctx, "BALANCE_SHEET", ticker)
}

// CashFlowsAnnual fetches the annual cash-flow statements, newest first.
func (c *Client) CashFlowsAnnual(ctx context.Context, ticker string) ([]models.Record, error) {
	return c.annualReports(ctx, "CASH_FLOW", ticker)
}

func (c *Client) query(ctx context.Context, function, ticker string) (models.Record, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("alpha vantage API key not configured")
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"function": function,
			"symbol":   ticker,
			"apikey":   c.apiKey,
		}).
		Get("/query")
	if err != nil {
		return nil, fmt.Errorf("alpha vantage %s %s: %w", function, ticker, err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("alpha vantage %s %s: status %d", function, ticker, resp.StatusCode())
	}

	var payload map[string]any
	if err := utils.DecodeLenient(resp.Body(), &payload); err != nil {
		return nil, fmt.Errorf("alpha vantage %s %s: %w", function, ticker, err)
	}

	// API-level failures come back as 200 with a message body.
	for _, key := range []string{"Error Message", "Information", "Note"} {
		if msg, ok := payload[key].(string); ok && msg != "" {
			return nil, fmt.Errorf("alpha vantage %s %s: %s", function, ticker, msg)
		}
	}
	return models.Record(payload), nil
}

func (c *Client) annualReports(ctx context.Context, function, ticker string) ([]models.Record, error) {
	payload, err := c.query(ctx, function, ticker)
	if err != nil {
		return nil, err
	}

	raw, ok := payload["annualReports"].([]any)
	if !ok {
		return nil, fmt.Errorf("alpha vantage %s %s: missing annualReports", function, ticker)
	}

	reports := make([]models.Record, 0, len(raw))
	for _, entry := range raw {
		if record, ok := entry.(map[string]any); ok {
			reports = append(reports, models.Record(record))
		}
	}
	return reports, nil
}
