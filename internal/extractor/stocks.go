package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"MarketHarvester/internal/fetcher"
	"MarketHarvester/internal/model"
)

// StockExtractor scrapes the trading-summary endpoint through a rendered
// browser page. The endpoint serves plain JSON, but browsers wrap it in
// viewer markup, hence the parse fallbacks.
type StockExtractor struct {
	URL        string
	UserAgents []string
	Timeout    time.Duration
	WaitDelay  time.Duration
}

// summaryPayload matches the endpoint's response. The upstream source has
// been seen serving both "data"/"stockCode" and "Data"/"StockCode" casing;
// encoding/json matches field names case-insensitively, so one tag set
// covers both conventions.
type summaryPayload struct {
	Data []summaryItem `json:"data"`
}

type summaryItem struct {
	StockCode string  `json:"stockCode"`
	StockName string  `json:"stockName"`
	Previous  float64 `json:"previous"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Change    float64 `json:"change"`
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// Extract fetches and parses the trading summary into a stock snapshot.
// It reads the rendered page's body text, so when the browser serves the
// JSON bare the payload parses directly; the viewer-markup fallbacks only
// engage when the text view still carries wrapping.
func (e *StockExtractor) Extract(ctx context.Context, sess fetcher.Session) (*model.StockSnapshot, error) {
	body, err := sess.FetchText(ctx, e.URL, fetcher.Options{
		UserAgent: pickUserAgent(e.UserAgents),
		Timeout:   e.Timeout,
		WaitDelay: e.WaitDelay,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch trading summary: %w", err)
	}

	payload, err := parseSummary(body)
	if err != nil {
		return nil, err
	}

	stocks := make([]model.StockRecord, 0, len(payload.Data))
	for _, item := range payload.Data {
		stocks = append(stocks, model.StockRecord{
			Code:      item.StockCode,
			Name:      item.StockName,
			Previous:  item.Previous,
			High:      item.High,
			Low:       item.Low,
			Last:      item.Close,
			Change:    item.Change,
			ChangePct: changePct(item.Change, item.Previous),
		})
	}
	if len(stocks) == 0 {
		return nil, fmt.Errorf("trading summary: %w", ErrEmptyResult)
	}
	return &model.StockSnapshot{
		LastUpdate: time.Now().UTC(),
		TotalItems: len(stocks),
		Stocks:     stocks,
	}, nil
}

// parseSummary tries the trimmed body first, then the content of a <pre>
// element, then the body with all tags stripped.
func parseSummary(body string) (*summaryPayload, error) {
	candidates := []string{strings.TrimSpace(body)}
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(body)); err == nil {
		if pre := strings.TrimSpace(doc.Find("pre").First().Text()); pre != "" {
			candidates = append(candidates, pre)
		}
	}
	candidates = append(candidates, strings.TrimSpace(tagPattern.ReplaceAllString(body, "")))

	for _, c := range candidates {
		if !strings.HasPrefix(c, "{") {
			continue
		}
		var payload summaryPayload
		if err := json.Unmarshal([]byte(c), &payload); err != nil {
			continue
		}
		if payload.Data != nil {
			return &payload, nil
		}
	}
	return nil, fmt.Errorf("trading summary: no parseable JSON with a data array")
}

// changePct derives the percent change rounded to two decimals, defined as
// 0 when there is no previous close to compare against.
func changePct(change, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return math.Round(change/previous*100*100) / 100
}
