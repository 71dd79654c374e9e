package extractor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"MarketHarvester/internal/classifier"
	"MarketHarvester/internal/fetcher"
	"MarketHarvester/internal/model"
)

// GoldExtractor scrapes the gold price page, classifying every table it
// finds into spot/Antam/UBS categories.
type GoldExtractor struct {
	URL                string
	SourceName         string
	UserAgents         []string
	Timeout            time.Duration
	WaitDelay          time.Duration
	BlockedURLPatterns []string
}

// Extract fetches the page and accumulates classified rows. At least one
// spot or Antam row is required to commit a new snapshot.
func (e *GoldExtractor) Extract(ctx context.Context, sess fetcher.Session) (*model.GoldSnapshot, error) {
	html, err := sess.FetchHTML(ctx, e.URL, fetcher.Options{
		UserAgent:          pickUserAgent(e.UserAgents),
		Timeout:            e.Timeout,
		WaitDelay:          e.WaitDelay,
		BlockedURLPatterns: e.BlockedURLPatterns,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch gold page: %w", err)
	}

	tables, err := parseTables(html)
	if err != nil {
		return nil, fmt.Errorf("parse gold page: %w", err)
	}

	var data model.GoldData
	for _, t := range tables {
		switch classifier.Classify(t) {
		case classifier.Spot:
			data.Spot = append(data.Spot, classifier.SpotRows(t)...)
		case classifier.UBS:
			data.UBS = append(data.UBS, classifier.WeightedRows(t)...)
		case classifier.Antam:
			data.Antam = append(data.Antam, classifier.WeightedRows(t)...)
		}
	}
	data.Antam = classifier.DedupeSort(data.Antam)
	data.UBS = classifier.DedupeSort(data.UBS)

	if len(data.Spot) == 0 && len(data.Antam) == 0 {
		return nil, fmt.Errorf("gold page: %w", ErrEmptyResult)
	}
	return &model.GoldSnapshot{
		LastUpdate: time.Now().UTC(),
		Source:     e.SourceName,
		Data:       data,
	}, nil
}

// parseTables flattens every table on the page into the classifier's
// neutral representation: full text, rows of cell strings, and the text of
// the nearest preceding siblings.
func parseTables(html string) ([]classifier.Table, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	var tables []classifier.Table
	doc.Find("table").Each(func(_ int, sel *goquery.Selection) {
		t := classifier.Table{Text: sel.Text()}
		sel.Find("tr").Each(func(_ int, row *goquery.Selection) {
			var cells []string
			row.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, strings.TrimSpace(cell.Text()))
			})
			if len(cells) > 0 {
				t.Rows = append(t.Rows, cells)
			}
		})
		prev := sel.PrevAll()
		limit := prev.Length()
		if limit > 8 {
			limit = 8
		}
		for i := 0; i < limit; i++ {
			t.PrecedingText = append(t.PrecedingText, strings.TrimSpace(prev.Eq(i).Text()))
		}
		tables = append(tables, t)
	})
	return tables, nil
}
