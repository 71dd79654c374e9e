package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"MarketHarvester/internal/model"
)

const (
	stockFile  = "idx_data.json"
	goldFile   = "gold_data.json"
	cryptoFile = "crypto_data.json"
	mergedFile = "all_data.json"
)

// Store persists one JSON slot per source under a single directory. Slots
// are replaced wholesale via a temp-file rename, never partially written,
// so a crash mid-write leaves the previous snapshot readable.
type Store struct {
	dir string
	mu  sync.Mutex
}

// New creates the data directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) WriteStocks(snap *model.StockSnapshot) error { return s.writeJSON(stockFile, snap) }
func (s *Store) WriteGold(snap *model.GoldSnapshot) error    { return s.writeJSON(goldFile, snap) }
func (s *Store) WriteCrypto(snap *model.CryptoSnapshot) error {
	return s.writeJSON(cryptoFile, snap)
}
func (s *Store) WriteMerged(c *model.CombinedSnapshot) error { return s.writeJSON(mergedFile, c) }

// ReadStocks returns the stored stock snapshot, or nil if never written.
func (s *Store) ReadStocks() (*model.StockSnapshot, error) {
	var snap model.StockSnapshot
	ok, err := s.readJSON(stockFile, &snap)
	if err != nil || !ok {
		return nil, err
	}
	return &snap, nil
}

// ReadGold returns the stored gold snapshot, or nil if never written.
func (s *Store) ReadGold() (*model.GoldSnapshot, error) {
	var snap model.GoldSnapshot
	ok, err := s.readJSON(goldFile, &snap)
	if err != nil || !ok {
		return nil, err
	}
	return &snap, nil
}

// ReadCrypto returns the stored crypto snapshot, or nil if never written.
func (s *Store) ReadCrypto() (*model.CryptoSnapshot, error) {
	var snap model.CryptoSnapshot
	ok, err := s.readJSON(cryptoFile, &snap)
	if err != nil || !ok {
		return nil, err
	}
	return &snap, nil
}

// Merge combines the three slots into one snapshot, tolerating missing
// slots as nulls, stamped with the current server time.
func (s *Store) Merge() (*model.CombinedSnapshot, error) {
	stocks, err := s.ReadStocks()
	if err != nil {
		return nil, err
	}
	gold, err := s.ReadGold()
	if err != nil {
		return nil, err
	}
	crypto, err := s.ReadCrypto()
	if err != nil {
		return nil, err
	}
	return &model.CombinedSnapshot{
		Stocks:     stocks,
		Gold:       gold,
		Crypto:     crypto,
		ServerTime: time.Now().UTC(),
	}, nil
}

func (s *Store) writeJSON(name string, v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	final := filepath.Join(s.dir, name)
	tmp := final + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, final); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}

func (s *Store) readJSON(name string, v interface{}) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("parse %s: %w", name, err)
	}
	return true, nil
}
