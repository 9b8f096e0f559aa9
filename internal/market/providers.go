package market

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-resty/resty/v2"
	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/quote"
	"go.uber.org/zap"
)

// Quoter resolves a provider-specific identifier to a spot price.
// Implementations must treat any missing or malformed response field
// as an error; the coordinator absorbs these per trade.
type Quoter interface {
	LookupPrice(ctx context.Context, providerID string) (float64, error)
}

// TwelveDataClient quotes forex and commodity symbols via the Twelve
// Data price endpoint.
type TwelveDataClient struct {
	client *resty.Client
	apiKey string
	logger *zap.Logger
}

var _ Quoter = (*TwelveDataClient)(nil)

// NewTwelveDataClient creates a Twelve Data quote client.
func NewTwelveDataClient(baseURL, apiKey string, logger *zap.Logger) *TwelveDataClient {
	return &TwelveDataClient{
		client: resty.New().SetBaseURL(baseURL),
		apiKey: apiKey,
		logger: logger.Named("twelvedata"),
	}
}

type twelveDataPriceResponse struct {
	Price string `json:"price"`
}

// LookupPrice fetches the latest price for a symbol such as "XAU/USD".
func (c *TwelveDataClient) LookupPrice(ctx context.Context, providerID string) (float64, error) {
	if c.apiKey == "" {
		return 0, fmt.Errorf("twelve data api key not configured")
	}

	var result twelveDataPriceResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("symbol", providerID).
		SetQueryParam("apikey", c.apiKey).
		SetResult(&result).
		Get("/price")
	if err != nil {
		return 0, fmt.Errorf("twelve data request for %s failed: %w", providerID, err)
	}
	if resp.IsError() {
		return 0, fmt.Errorf("twelve data request for %s failed with status %s", providerID, resp.Status())
	}
	if result.Price == "" {
		// Error payloads come back 200 with a message body and no price field.
		return 0, fmt.Errorf("twelve data response for %s carries no price", providerID)
	}

	price, err := strconv.ParseFloat(result.Price, 64)
	if err != nil {
		return 0, fmt.Errorf("twelve data price for %s is not numeric: %w", providerID, err)
	}
	return price, nil
}

// CoinGeckoClient quotes crypto assets via the CoinGecko simple-price
// endpoint. No API key required.
type CoinGeckoClient struct {
	client *resty.Client
	logger *zap.Logger
}

var _ Quoter = (*CoinGeckoClient)(nil)

// NewCoinGeckoClient creates a CoinGecko quote client.
func NewCoinGeckoClient(baseURL string, logger *zap.Logger) *CoinGeckoClient {
	return &CoinGeckoClient{
		client: resty.New().SetBaseURL(baseURL),
		logger: logger.Named("coingecko"),
	}
}

// LookupPrice fetches the USD spot price for a coin id such as
// "bitcoin".
func (c *CoinGeckoClient) LookupPrice(ctx context.Context, providerID string) (float64, error) {
	var result map[string]map[string]float64
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("ids", providerID).
		SetQueryParam("vs_currencies", "usd").
		SetResult(&result).
		Get("/api/v3/simple/price")
	if err != nil {
		return 0, fmt.Errorf("coingecko request for %s failed: %w", providerID, err)
	}
	if resp.IsError() {
		return 0, fmt.Errorf("coingecko request for %s failed with status %s", providerID, resp.Status())
	}

	price, ok := result[providerID]["usd"]
	if !ok {
		return 0, fmt.Errorf("coingecko response carries no usd price for %s", providerID)
	}
	return price, nil
}

// YahooClient quotes equities and indices. The lookup function is a
// field so tests can substitute the package-level finance-go call.
type YahooClient struct {
	logger   *zap.Logger
	getQuote func(symbol string) (*finance.Quote, error)
}

var _ Quoter = (*YahooClient)(nil)

// NewYahooClient creates a Yahoo Finance quote client.
func NewYahooClient(logger *zap.Logger) *YahooClient {
	return &YahooClient{
		logger:   logger.Named("yahoo"),
		getQuote: quote.Get,
	}
}

// LookupPrice fetches the regular-market price for a ticker such as
// "^NDX" or "AMZN".
func (c *YahooClient) LookupPrice(ctx context.Context, providerID string) (float64, error) {
	q, err := c.getQuote(providerID)
	if err != nil {
		return 0, fmt.Errorf("yahoo quote for %s failed: %w", providerID, err)
	}
	if q == nil || q.RegularMarketPrice == 0 {
		return 0, fmt.Errorf("yahoo quote for %s carries no market price", providerID)
	}
	return q.RegularMarketPrice, nil
}
