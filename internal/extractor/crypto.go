package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"MarketHarvester/internal/model"
)

// trackedAssets is the fixed set of tickers harvested from the exchange,
// all quoted against IDR.
var trackedAssets = []struct {
	Pair, Code, Name string
}{
	{"btc_idr", "BTC", "Bitcoin"},
	{"eth_idr", "ETH", "Ethereum"},
	{"usdt_idr", "USDT", "Tether"},
}

// CryptoExtractor pulls spot tickers from the exchange summary API. It
// does not use the browser and runs independently of the stock/gold cycle.
type CryptoExtractor struct {
	URL        string
	SourceName string
	client     *resty.Client
}

// NewCryptoExtractor creates an extractor with its own HTTP client.
func NewCryptoExtractor(url, sourceName string, timeout time.Duration) *CryptoExtractor {
	client := resty.New()
	client.SetTimeout(timeout)
	return &CryptoExtractor{URL: url, SourceName: sourceName, client: client}
}

// summariesResponse matches the exchange's summaries endpoint. Numeric
// fields arrive as strings.
type summariesResponse struct {
	Tickers map[string]tickerEntry `json:"tickers"`
}

type tickerEntry struct {
	Last   string `json:"last"`
	High   string `json:"high"`
	Low    string `json:"low"`
	VolIDR string `json:"vol_idr"`
}

// Extract fetches the ticker summaries and maps the tracked assets.
func (e *CryptoExtractor) Extract(ctx context.Context) (*model.CryptoSnapshot, error) {
	resp, err := e.client.R().SetContext(ctx).Get(e.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch crypto summaries: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("fetch crypto summaries: status %d", resp.StatusCode())
	}
	var summaries summariesResponse
	if err := json.Unmarshal(resp.Body(), &summaries); err != nil {
		return nil, fmt.Errorf("decode crypto summaries: %w", err)
	}

	records := make([]model.CryptoRecord, 0, len(trackedAssets))
	for _, asset := range trackedAssets {
		ticker, ok := summaries.Tickers[asset.Pair]
		if !ok {
			continue
		}
		records = append(records, model.CryptoRecord{
			Code:   asset.Code,
			Name:   asset.Name,
			Price:  parseTickerInt(ticker.Last),
			High:   parseTickerInt(ticker.High),
			Low:    parseTickerInt(ticker.Low),
			VolIDR: parseTickerFloat(ticker.VolIDR),
		})
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("crypto summaries: %w", ErrEmptyResult)
	}
	return &model.CryptoSnapshot{
		LastUpdate: time.Now().UTC(),
		Source:     e.SourceName,
		Data:       records,
	}, nil
}

// parseTickerInt truncates toward zero; IDR quotes carry no meaningful
// sub-rupiah precision.
func parseTickerInt(s string) int64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int64(v)
}

func parseTickerFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
