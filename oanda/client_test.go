package oanda

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradeplan/market"
)

func testClient(url string) *Client {
	return &Client{
		baseURL:    url,
		token:      "test-token",
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func TestNewClient(t *testing.T) {
	t.Run("practice mode", func(t *testing.T) {
		client := NewClient("test-token", true)
		assert.Equal(t, PracticeURL, client.baseURL)
		assert.Equal(t, "test-token", client.token)
		assert.NotNil(t, client.httpClient)
	})

	t.Run("live mode", func(t *testing.T) {
		client := NewClient("test-token", false)
		assert.Equal(t, LiveURL, client.baseURL)
	})
}

func TestGetCandles_Success(t *testing.T) {
	mockResponse := candlesResponse{
		Instrument:  "EUR_USD",
		Granularity: "M5",
		Candles: []apiCandle{
			{
				Complete: true,
				Volume:   100,
				Time:     "2024-01-01T10:00:00.000000000Z",
				Mid:      candleData{O: "1.0850", H: "1.0860", L: "1.0840", C: "1.0855"},
			},
			{
				Complete: true,
				Volume:   150,
				Time:     "2024-01-01T10:05:00.000000000Z",
				Mid:      candleData{O: "1.0855", H: "1.0870", L: "1.0850", C: "1.0865"},
			},
			{
				Complete: false,
				Volume:   12,
				Time:     "2024-01-01T10:10:00.000000000Z",
				Mid:      candleData{O: "1.0865", H: "1.0866", L: "1.0861", C: "1.0862"},
			},
		},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/instruments/EUR_USD/candles", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "M", r.URL.Query().Get("price"))
		assert.Equal(t, "M5", r.URL.Query().Get("granularity"))
		assert.Equal(t, "3", r.URL.Query().Get("count"))

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(mockResponse)
	}))
	defer server.Close()

	client := testClient(server.URL)

	candles, err := client.GetCandles(context.Background(), CandlesRequest{
		Instrument:  market.EURUSD,
		Granularity: M5,
		Count:       3,
	})
	require.NoError(t, err)
	require.Len(t, candles, 2)

	assert.Equal(t, 1.0850, candles[0].Open)
	assert.Equal(t, 1.0860, candles[0].High)
	assert.Equal(t, 1.0840, candles[0].Low)
	assert.Equal(t, 1.0855, candles[0].Close)
	assert.Equal(t, 100.0, candles[0].Volume)
	assert.Equal(t, 1.0865, candles[1].Close)

	candles, err = client.GetCandles(context.Background(), CandlesRequest{
		Instrument:        market.EURUSD,
		Granularity:       M5,
		Count:             3,
		IncludeIncomplete: true,
	})
	require.NoError(t, err)
	require.Len(t, candles, 3)
	assert.Equal(t, 1.0862, candles[2].Close)
}

func TestGetCandles_GoldName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/instruments/XAU_USD/candles", r.URL.Path)
		assert.Equal(t, "M1", r.URL.Query().Get("granularity"))
		assert.Equal(t, "100", r.URL.Query().Get("count"))
		json.NewEncoder(w).Encode(candlesResponse{})
	}))
	defer server.Close()

	candles, err := testClient(server.URL).GetCandles(context.Background(), CandlesRequest{Instrument: market.XAUUSD})
	require.NoError(t, err)
	assert.Empty(t, candles)
}

func TestGetCandles_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"errorMessage":"Insufficient authorization"}`))
	}))
	defer server.Close()

	_, err := testClient(server.URL).GetCandles(context.Background(), CandlesRequest{Instrument: market.EURUSD})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
	assert.Contains(t, err.Error(), "Insufficient authorization")
}

func TestGetCandles_BadPrice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(candlesResponse{Candles: []apiCandle{{
			Complete: true,
			Time:     "2024-01-01T10:00:00Z",
			Mid:      candleData{O: "x", H: "1", L: "1", C: "1"},
		}}})
	}))
	defer server.Close()

	_, err := testClient(server.URL).GetCandles(context.Background(), CandlesRequest{Instrument: market.EURUSD})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse price")
}

func TestGetCandles_Validation(t *testing.T) {
	c := testClient("http://127.0.0.1:0")

	_, err := c.GetCandles(context.Background(), CandlesRequest{Instrument: "USD/JPY"})
	assert.ErrorContains(t, err, "unknown instrument")

	_, err = c.GetCandles(context.Background(), CandlesRequest{Instrument: market.EURUSD, Count: 6000})
	assert.ErrorContains(t, err, "count")
}
