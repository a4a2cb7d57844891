package metalsfeed

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"context"

	"github.com/SscSPs/zakat_nisab_service/internal/apperrors"
	"github.com/SscSPs/zakat_nisab_service/internal/models"
	"github.com/tidwall/gjson"
)

// Client fetches gold/silver per-gram quotes over HTTP. Third-party metal
// feeds are loosely shaped, so the payload is picked apart with gjson
// instead of a rigid struct decode.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new metals feed client. The request deadline comes
// from the caller's context; the http.Client timeout is a backstop.
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// FetchMetalPrices fetches the latest quote for a currency.
func (c *Client) FetchMetalPrices(ctx context.Context, currency models.CurrencyCode) (*models.MetalPriceQuote, error) {
	url := fmt.Sprintf("%s?currency=%s&unit=g", c.baseURL, currency)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create metals request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFetchFailed, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: metals feed has no data for %s", apperrors.ErrNotFound, currency)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: metals feed returned status %d: %s", apperrors.ErrFetchFailed, resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFetchFailed, err)
	}

	return c.parseQuote(body, currency)
}

// parseQuote extracts a quote from the feed payload. Shape errors are
// reported as ErrMalformedResponse so the orchestrator can log them
// distinctly while retrying them like network errors.
func (c *Client) parseQuote(body []byte, currency models.CurrencyCode) (*models.MetalPriceQuote, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: metals feed returned invalid JSON", apperrors.ErrMalformedResponse)
	}

	root := gjson.ParseBytes(body)
	gold := root.Get("metals.gold")
	silver := root.Get("metals.silver")
	if !gold.Exists() || !silver.Exists() {
		return nil, fmt.Errorf("%w: metals feed response missing metals.gold/metals.silver", apperrors.ErrMalformedResponse)
	}

	quote := &models.MetalPriceQuote{
		Gold:      gold.Float(),
		Silver:    silver.Float(),
		Currency:  currency,
		GoldUSD:   root.Get("metals.gold_usd").Float(),
		SilverUSD: root.Get("metals.silver_usd").Float(),
		IsCache:   root.Get("cached").Bool(),
		Source:    "metals-feed",
		Timestamp: time.Now(),
	}

	if ts := root.Get("timestamps.metal"); ts.Exists() {
		if parsed, err := time.Parse(time.RFC3339, ts.String()); err == nil {
			quote.Timestamp = parsed
		}
	}
	if cur := root.Get("currency"); cur.Exists() {
		if code, err := models.ParseCurrencyCode(cur.String()); err == nil && code != currency {
			// Currency mismatch from the feed: keep the feed's own word for
			// what the numbers denominate, the normalizer will convert.
			c.logger.Warn("metals feed answered in a different currency than requested",
				slog.String("requested", currency.String()),
				slog.String("received", code.String()),
			)
			quote.Currency = code
		}
	}

	return quote, nil
}
