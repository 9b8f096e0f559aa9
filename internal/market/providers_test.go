package market

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	finance "github.com/piquette/finance-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTwelveDataClient_LookupPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/price", r.URL.Path)
		assert.Equal(t, "XAU/USD", r.URL.Query().Get("symbol"))
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"price": "2034.56"}`))
	}))
	defer srv.Close()

	c := NewTwelveDataClient(srv.URL, "test-key", zap.NewNop())
	price, err := c.LookupPrice(context.Background(), "XAU/USD")
	require.NoError(t, err)
	assert.Equal(t, 2034.56, price)
}

func TestTwelveDataClient_ErrorPayloadWithoutPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Twelve Data reports errors as 200 with a message body.
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code": 404, "message": "symbol not found", "status": "error"}`))
	}))
	defer srv.Close()

	c := NewTwelveDataClient(srv.URL, "test-key", zap.NewNop())
	_, err := c.LookupPrice(context.Background(), "NOPE/USD")
	assert.Error(t, err)
}

func TestTwelveDataClient_MissingApiKey(t *testing.T) {
	c := NewTwelveDataClient("http://unused", "", zap.NewNop())
	_, err := c.LookupPrice(context.Background(), "XAU/USD")
	assert.Error(t, err)
}

func TestCoinGeckoClient_LookupPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/simple/price", r.URL.Path)
		assert.Equal(t, "bitcoin", r.URL.Query().Get("ids"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"bitcoin": {"usd": 64123.5}}`))
	}))
	defer srv.Close()

	c := NewCoinGeckoClient(srv.URL, zap.NewNop())
	price, err := c.LookupPrice(context.Background(), "bitcoin")
	require.NoError(t, err)
	assert.Equal(t, 64123.5, price)
}

func TestCoinGeckoClient_MissingCoin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewCoinGeckoClient(srv.URL, zap.NewNop())
	_, err := c.LookupPrice(context.Background(), "not-a-coin")
	assert.Error(t, err)
}

func TestCoinGeckoClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewCoinGeckoClient(srv.URL, zap.NewNop())
	_, err := c.LookupPrice(context.Background(), "bitcoin")
	assert.Error(t, err)
}

func TestYahooClient_LookupPrice(t *testing.T) {
	c := NewYahooClient(zap.NewNop())
	c.getQuote = func(symbol string) (*finance.Quote, error) {
		assert.Equal(t, "^NDX", symbol)
		return &finance.Quote{RegularMarketPrice: 18321.7}, nil
	}

	price, err := c.LookupPrice(context.Background(), "^NDX")
	require.NoError(t, err)
	assert.Equal(t, 18321.7, price)
}

func TestYahooClient_Failure(t *testing.T) {
	c := NewYahooClient(zap.NewNop())
	c.getQuote = func(symbol string) (*finance.Quote, error) {
		return nil, errors.New("upstream down")
	}
	_, err := c.LookupPrice(context.Background(), "^NDX")
	assert.Error(t, err)

	c.getQuote = func(symbol string) (*finance.Quote, error) {
		return &finance.Quote{}, nil // no market price in the payload
	}
	_, err = c.LookupPrice(context.Background(), "^NDX")
	assert.Error(t, err)
}
