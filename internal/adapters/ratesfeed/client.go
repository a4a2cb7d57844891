package ratesfeed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/zakat_nisab_service/internal/apperrors"
	"github.com/SscSPs/zakat_nisab_service/internal/models"
	"github.com/tidwall/gjson"
)

// Client fetches exchange rate tables from a fixed, ordered list of
// providers. The first provider that answers with a usable table wins; the
// static last-resort table lives in the conversion service, not here.
type Client struct {
	providerURLs []string
	httpClient   *http.Client
	logger       *slog.Logger
}

// NewClient creates a new rates feed client.
func NewClient(providerURLs []string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		providerURLs: providerURLs,
		httpClient:   &http.Client{Timeout: timeout},
		logger:       logger,
	}
}

// FetchRates fetches all rates against the base currency, trying each
// provider in its fixed order.
func (c *Client) FetchRates(ctx context.Context, base models.CurrencyCode) (*models.RateTable, error) {
	var lastErr error
	for _, providerURL := range c.providerURLs {
		table, err := c.fetchFromProvider(ctx, providerURL, base)
		if err != nil {
			lastErr = err
			c.logger.Warn("rates provider failed, trying next",
				slog.String("provider", providerURL),
				slog.String("error", err.Error()),
			)
			continue
		}
		return table, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("%w: no rate providers configured", apperrors.ErrRateUnavailable)
	}
	return nil, lastErr
}

func (c *Client) fetchFromProvider(ctx context.Context, providerURL string, base models.CurrencyCode) (*models.RateTable, error) {
	url := fmt.Sprintf("%s?base=%s", providerURL, base)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create rates request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFetchFailed, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: rates provider returned status %d: %s", apperrors.ErrFetchFailed, resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFetchFailed, err)
	}

	return parseRateTable(body, base, providerURL)
}

// parseRateTable handles the two payload dialects the configured providers
// speak: {"base": "...", "rates": {...}} and
// {"base_code": "...", "conversion_rates": {...}}.
func parseRateTable(body []byte, base models.CurrencyCode, source string) (*models.RateTable, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: rates provider returned invalid JSON", apperrors.ErrMalformedResponse)
	}

	root := gjson.ParseBytes(body)
	rates := root.Get("rates")
	if !rates.Exists() {
		rates = root.Get("conversion_rates")
	}
	if !rates.Exists() || !rates.IsObject() {
		return nil, fmt.Errorf("%w: rates provider response has no rates object", apperrors.ErrMalformedResponse)
	}

	table := &models.RateTable{
		Base:   base,
		Date:   time.Now(),
		Rates:  make(map[models.CurrencyCode]float64),
		Source: source,
	}

	if b := root.Get("base"); b.Exists() {
		if code, err := models.ParseCurrencyCode(b.String()); err == nil {
			table.Base = code
		}
	} else if b := root.Get("base_code"); b.Exists() {
		if code, err := models.ParseCurrencyCode(b.String()); err == nil {
			table.Base = code
		}
	}
	if table.Base != base {
		return nil, fmt.Errorf("%w: rates provider answered for base %s, wanted %s", apperrors.ErrMalformedResponse, table.Base, base)
	}

	if d := root.Get("date"); d.Exists() {
		if parsed, err := time.Parse("2006-01-02", d.String()); err == nil {
			table.Date = parsed
		}
	}

	rates.ForEach(func(key, value gjson.Result) bool {
		code, err := models.ParseCurrencyCode(key.String())
		if err != nil {
			return true
		}
		table.Rates[code] = value.Float()
		return true
	})

	if len(table.Rates) == 0 {
		return nil, fmt.Errorf("%w: rates provider returned an empty rates object", apperrors.ErrMalformedResponse)
	}
	return table, nil
}
