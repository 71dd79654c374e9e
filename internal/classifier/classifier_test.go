package classifier

import (
	"testing"

	"MarketHarvester/internal/model"
)

func TestClassify_SpotMarkers(t *testing.T) {
	for _, text := range []string{
		"Spot Harga Emas hari ini",
		"Harga per Ounce (oz) dan Gram",
	} {
		if got := Classify(Table{Text: text}); got != Spot {
			t.Errorf("Classify(%q) = %v, want SPOT", text, got)
		}
	}
}

func TestClassify_UBSFingerprints(t *testing.T) {
	tests := []struct {
		name string
		tbl  Table
	}{
		{"fractional 0.1", Table{Text: "0.1\n1.050.000"}},
		{"fractional 0.25", Table{Text: "0.25\n2.600.000"}},
		{"solitary 3 line", Table{Text: "1\n2\n3\n5"}},
		{"solitary 4 line", Table{Text: "2\n 4 \n5"}},
		{"ubs sibling header", Table{Text: "1\n1.100.000", PrecedingText: []string{"Harga Emas UBS"}}},
		{"ubs sibling case-insensitive", Table{Text: "1\n1.100.000", PrecedingText: []string{"", "harga ubs hari ini"}}},
	}
	for _, tt := range tests {
		if got := Classify(tt.tbl); got != UBS {
			t.Errorf("%s: Classify = %v, want UBS", tt.name, got)
		}
	}
}

func TestClassify_SiblingLookbackLimit(t *testing.T) {
	// The "ubs" mention sits past the eight-sibling window and must be ignored.
	siblings := make([]string, 10)
	siblings[9] = "UBS"
	tbl := Table{Text: "1\n1.100.000", PrecedingText: siblings}
	if got := Classify(tbl); got != Antam {
		t.Errorf("Classify = %v, want ANTAM when ubs mention is out of range", got)
	}
}

func TestClassify_DefaultAntamAndUnknown(t *testing.T) {
	if got := Classify(Table{Text: "1\n1.100.000"}); got != Antam {
		t.Errorf("Classify = %v, want ANTAM", got)
	}
	if got := Classify(Table{}); got != Unknown {
		t.Errorf("Classify = %v, want UNKNOWN for empty table", got)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	tbl := Table{
		Text:          "0.5\n1\n2\n5\n10",
		Rows:          [][]string{{"0,5", "620.000"}, {"1", "1.150.000"}},
		PrecedingText: []string{"Harga Emas Antam"},
	}
	first := Classify(tbl)
	for i := 0; i < 10; i++ {
		if got := Classify(tbl); got != first {
			t.Fatalf("classification changed across calls: %v then %v", first, got)
		}
	}
}

func TestSpotRows(t *testing.T) {
	tbl := Table{
		Text: "Ounce (oz)",
		Rows: [][]string{
			{"Satuan", "USD", "Kurs"},
			{"1 Ounce", "1.900,50", "29.000.000"},
			{"1 Gram", "61,10 (+0,5%)", "950.000"},
			{"short", "row"},
		},
	}
	rows := SpotRows(tbl)
	if len(rows) != 2 {
		t.Fatalf("expected 2 spot rows, got %d", len(rows))
	}
	if rows[0].Unit != "1 Ounce" || rows[0].USD != 1900.5 || rows[0].IDR != 29000000 {
		t.Errorf("unexpected first spot row: %+v", rows[0])
	}
	if rows[1].USD != 61.1 || rows[1].IDR != 950000 {
		t.Errorf("unexpected second spot row: %+v", rows[1])
	}
}

func TestWeightedRows_ThirdCellFallback(t *testing.T) {
	tbl := Table{
		Rows: [][]string{
			{"Berat", "Harga", "Harga/gr"},  // header, non-numeric first cell
			{"0,5", "620.000", "1.240.000"}, // price in second cell
			{"1", "1", "1.150.000"},         // layout variant: price in third cell
			{"2", "500"},                    // noise row, no third cell to fall back to
			{"5", "5.600.000"},
		},
	}
	rows := WeightedRows(tbl)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d: %+v", len(rows), rows)
	}
	if rows[0].Weight != 0.5 || rows[0].Price != 620000 {
		t.Errorf("unexpected row 0: %+v", rows[0])
	}
	if rows[1].Weight != 1 || rows[1].Price != 1150000 {
		t.Errorf("expected third-cell price for row 1, got %+v", rows[1])
	}
	if rows[2].Weight != 5 || rows[2].Price != 5600000 {
		t.Errorf("unexpected row 2: %+v", rows[2])
	}
}

func TestDedupeSort(t *testing.T) {
	in := []model.WeightedRecord{
		{Weight: 5, Price: 5600000},
		{Weight: 1, Price: 1150000},
		{Weight: 5, Price: 9999999}, // duplicate, first occurrence wins
		{Weight: 0.5, Price: 620000},
		{Weight: 1, Price: 8888888},
	}
	out := DedupeSort(in)
	if len(out) != 3 {
		t.Fatalf("expected 3 distinct weights, got %d", len(out))
	}
	wantWeights := []float64{0.5, 1, 5}
	for i, w := range wantWeights {
		if out[i].Weight != w {
			t.Errorf("out[%d].Weight = %v, want %v", i, out[i].Weight, w)
		}
	}
	if out[2].Price != 5600000 {
		t.Errorf("duplicate resolution: expected first occurrence price 5600000, got %v", out[2].Price)
	}
	if out[1].Price != 1150000 {
		t.Errorf("duplicate resolution: expected first occurrence price 1150000, got %v", out[1].Price)
	}
}
