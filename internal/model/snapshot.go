package model

import "time"

// StockRecord is the normalized shape of one trading-summary row.
type StockRecord struct {
	Code      string  `json:"Code"`
	Name      string  `json:"Name"`
	Previous  float64 `json:"Previous"`
	High      float64 `json:"High"`
	Low       float64 `json:"Low"`
	Last      float64 `json:"Last"`
	Change    float64 `json:"Change"`
	ChangePct float64 `json:"ChangePct"`
}

// StockSnapshot is the latest successfully extracted stock record set.
// It is replaced wholesale on the next successful run; a failed run leaves
// the previous snapshot intact.
type StockSnapshot struct {
	LastUpdate time.Time     `json:"LastUpdate"`
	TotalItems int           `json:"TotalItems"`
	Stocks     []StockRecord `json:"Stocks"`
}

// SpotRecord is one spot gold quote (per unit, in USD and IDR).
type SpotRecord struct {
	Unit string  `json:"Unit"`
	USD  float64 `json:"USD"`
	IDR  float64 `json:"IDR"`
}

// WeightedRecord is one bar-price quote keyed by weight in grams.
// Weights are unique within a category and sorted ascending.
type WeightedRecord struct {
	Weight float64 `json:"Weight"`
	Price  float64 `json:"Price"`
}

// GoldData groups the three gold categories found on the price page.
type GoldData struct {
	Spot  []SpotRecord     `json:"Spot"`
	Antam []WeightedRecord `json:"Antam"`
	UBS   []WeightedRecord `json:"UBS"`
}

// GoldSnapshot is the latest successfully extracted gold record set.
type GoldSnapshot struct {
	LastUpdate time.Time `json:"LastUpdate"`
	Source     string    `json:"Source"`
	Data       GoldData  `json:"Data"`
}

// CryptoRecord is one spot ticker for a tracked asset, quoted in IDR.
type CryptoRecord struct {
	Code   string  `json:"Code"`
	Name   string  `json:"Name"`
	Price  int64   `json:"Price"`
	High   int64   `json:"High"`
	Low    int64   `json:"Low"`
	VolIDR float64 `json:"Vol_IDR"`
}

// CryptoSnapshot is the latest successfully extracted crypto record set.
type CryptoSnapshot struct {
	LastUpdate time.Time      `json:"LastUpdate"`
	Source     string         `json:"Source"`
	Data       []CryptoRecord `json:"Data"`
}

// CombinedSnapshot merges the three per-source snapshots. Sources that have
// never been populated are null.
type CombinedSnapshot struct {
	Stocks     *StockSnapshot  `json:"stocks"`
	Gold       *GoldSnapshot   `json:"gold"`
	Crypto     *CryptoSnapshot `json:"crypto"`
	ServerTime time.Time       `json:"server_time"`
}
