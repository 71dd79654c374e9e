package extractor

import (
	"context"
	"errors"
	"testing"

	"MarketHarvester/internal/fetcher"
)

const goldURL = "https://example.test/gold"

const goldPage = `<html><body>
<h2>Spot Harga Emas</h2>
<table>
<tr><th>Satuan</th><th>USD</th><th>Kurs</th></tr>
<tr><td>1 Ounce (oz)</td><td>1.900,50</td><td>29.000.000</td></tr>
<tr><td>1 Gram</td><td>61,10</td><td>950.000</td></tr>
</table>
<h2>Harga Emas Antam</h2>
<table>
<tr><th>Berat</th><th>Harga</th></tr>
<tr><td>0,5</td><td>620.000</td></tr>
<tr><td>1</td><td>1.150.000</td></tr>
<tr><td>1</td><td>9.999.999</td></tr>
</table>
<h2>Harga Emas UBS</h2>
<table>
<tr><th>Berat</th><th>Harga</th></tr>
<tr><td>0.25</td><td>310.000</td></tr>
<tr><td>1</td><td>1.100.000</td></tr>
</table>
</body></html>`

func goldSession(body string) *fetcher.MockSession {
	return &fetcher.MockSession{Pages: map[string]string{goldURL: body}}
}

func TestGoldExtract_FullPage(t *testing.T) {
	e := &GoldExtractor{URL: goldURL, SourceName: "test-source"}
	snap, err := e.Extract(context.Background(), goldSession(goldPage))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Source != "test-source" {
		t.Errorf("Source = %q", snap.Source)
	}

	if len(snap.Data.Spot) != 2 {
		t.Fatalf("expected 2 spot rows, got %d: %+v", len(snap.Data.Spot), snap.Data.Spot)
	}
	if snap.Data.Spot[0].Unit != "1 Ounce (oz)" || snap.Data.Spot[0].USD != 1900.5 || snap.Data.Spot[0].IDR != 29000000 {
		t.Errorf("unexpected spot row: %+v", snap.Data.Spot[0])
	}

	// Duplicate weight 1 collapses to the first occurrence, sorted ascending.
	if len(snap.Data.Antam) != 2 {
		t.Fatalf("expected 2 antam rows, got %d: %+v", len(snap.Data.Antam), snap.Data.Antam)
	}
	if snap.Data.Antam[0].Weight != 0.5 || snap.Data.Antam[1].Weight != 1 || snap.Data.Antam[1].Price != 1150000 {
		t.Errorf("unexpected antam rows: %+v", snap.Data.Antam)
	}

	if len(snap.Data.UBS) != 2 {
		t.Fatalf("expected 2 ubs rows, got %d: %+v", len(snap.Data.UBS), snap.Data.UBS)
	}
	if snap.Data.UBS[0].Weight != 0.25 || snap.Data.UBS[0].Price != 310000 {
		t.Errorf("unexpected ubs rows: %+v", snap.Data.UBS)
	}
}

func TestGoldExtract_NoUsableRowsIsWarning(t *testing.T) {
	e := &GoldExtractor{URL: goldURL}
	_, err := e.Extract(context.Background(), goldSession(`<html><body><p>maintenance</p></body></html>`))
	if !errors.Is(err, ErrEmptyResult) {
		t.Fatalf("expected ErrEmptyResult, got %v", err)
	}
}

func TestGoldExtract_FetchError(t *testing.T) {
	sess := &fetcher.MockSession{FetchErr: fetcher.ErrNavigation}
	e := &GoldExtractor{URL: goldURL}
	if _, err := e.Extract(context.Background(), sess); !errors.Is(err, fetcher.ErrNavigation) {
		t.Fatalf("expected navigation error to propagate, got %v", err)
	}
}

func TestParseTables_SiblingContext(t *testing.T) {
	html := `<html><body>
<p>intro</p>
<h3>Harga UBS</h3>
<table><tr><td>1</td><td>1.100.000</td></tr></table>
</body></html>`
	tables, err := parseTables(html)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tables) != 1 {
		t.Fatalf("expected 1 table, got %d", len(tables))
	}
	found := false
	for _, s := range tables[0].PrecedingText {
		if s == "Harga UBS" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected preceding sibling text to include the UBS header, got %v", tables[0].PrecedingText)
	}
}
