package classifier

import (
	"regexp"
	"sort"
	"strings"

	"MarketHarvester/internal/model"
	"MarketHarvester/internal/normalizer"
)

// Category labels an unlabeled gold price table.
type Category string

const (
	Spot    Category = "SPOT"
	UBS     Category = "UBS"
	Antam   Category = "ANTAM"
	Unknown Category = "UNKNOWN"
)

// Table is a neutral representation of one HTML table: its full text
// content, its rows as cell strings, and the text of up to eight preceding
// sibling elements (closest first). Keeping this free of any DOM type makes
// classification testable without a live page.
type Table struct {
	Text          string
	Rows          [][]string
	PrecedingText []string
}

// siblingLookback bounds how far back the UBS header search goes.
const siblingLookback = 8

// noiseThreshold is below any plausible bar price in IDR; rows at or under
// it are header/index rows misread as data.
const noiseThreshold = 1000.0

var weightPattern = regexp.MustCompile(`^[0-9.,]+$`)

// Classify assigns a table to a category. First match wins: spot markers,
// then UBS weight fingerprints or a "ubs" mention in a preceding header,
// otherwise Antam. An empty table is Unknown.
func Classify(t Table) Category {
	if strings.TrimSpace(t.Text) == "" && len(t.Rows) == 0 {
		return Unknown
	}
	if strings.Contains(t.Text, "Spot Harga Emas") || strings.Contains(t.Text, "Ounce (oz)") {
		return Spot
	}
	if hasUBSFingerprint(t.Text) || siblingMentionsUBS(t.PrecedingText) {
		return UBS
	}
	return Antam
}

// hasUBSFingerprint looks for weight values only the UBS table carries:
// the fractional 0.1 / 0.25 gram bars, or a solitary "3" or "4" line.
func hasUBSFingerprint(text string) bool {
	if strings.Contains(text, "0.1") || strings.Contains(text, "0.25") {
		return true
	}
	for _, line := range strings.Split(text, "\n") {
		switch strings.TrimSpace(line) {
		case "3", "4":
			return true
		}
	}
	return false
}

func siblingMentionsUBS(siblings []string) bool {
	n := len(siblings)
	if n > siblingLookback {
		n = siblingLookback
	}
	for _, s := range siblings[:n] {
		if strings.Contains(strings.ToLower(s), "ubs") {
			return true
		}
	}
	return false
}

// SpotRows extracts spot quotes: rows with at least three cells whose first
// cell names a unit (gram, ounce or kilogram).
func SpotRows(t Table) []model.SpotRecord {
	var out []model.SpotRecord
	for _, cells := range t.Rows {
		if len(cells) < 3 {
			continue
		}
		unit := strings.TrimSpace(cells[0])
		if !mentionsUnit(unit) {
			continue
		}
		out = append(out, model.SpotRecord{
			Unit: unit,
			USD:  normalizer.ParsePrice(cells[1]),
			IDR:  normalizer.ParsePrice(cells[2]),
		})
	}
	return out
}

func mentionsUnit(s string) bool {
	l := strings.ToLower(s)
	return strings.Contains(l, "gram") || strings.Contains(l, "ounce") || strings.Contains(l, "kilogram")
}

// WeightedRows extracts Antam/UBS bar quotes: rows with at least two cells
// whose first cell is purely numeric. Some layouts push the price into a
// third column, so an implausibly small second-column value falls through
// to the third cell. Rows whose resolved price is still noise are dropped.
func WeightedRows(t Table) []model.WeightedRecord {
	var out []model.WeightedRecord
	for _, cells := range t.Rows {
		if len(cells) < 2 {
			continue
		}
		first := strings.TrimSpace(cells[0])
		if first == "" || !weightPattern.MatchString(first) {
			continue
		}
		price := normalizer.ParsePrice(cells[1])
		if price < noiseThreshold && len(cells) >= 3 {
			price = normalizer.ParsePrice(cells[2])
		}
		if price <= noiseThreshold {
			continue
		}
		out = append(out, model.WeightedRecord{
			Weight: normalizer.ParseWeight(first),
			Price:  price,
		})
	}
	return out
}

// DedupeSort drops duplicate weights, keeping the first occurrence, and
// sorts ascending by weight.
func DedupeSort(rows []model.WeightedRecord) []model.WeightedRecord {
	if len(rows) == 0 {
		return rows
	}
	seen := make(map[float64]bool, len(rows))
	out := make([]model.WeightedRecord, 0, len(rows))
	for _, r := range rows {
		if seen[r.Weight] {
			continue
		}
		seen[r.Weight] = true
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Weight < out[j].Weight })
	return out
}
