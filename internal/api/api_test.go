package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"MarketHarvester/internal/fetcher"
	"MarketHarvester/internal/model"
	"MarketHarvester/internal/orchestrator"
	"MarketHarvester/internal/store"
)

type stubStocks struct{ snap *model.StockSnapshot }

func (s *stubStocks) Extract(_ context.Context, _ fetcher.Session) (*model.StockSnapshot, error) {
	return s.snap, nil
}

type stubGold struct{ snap *model.GoldSnapshot }

func (s *stubGold) Extract(_ context.Context, _ fetcher.Session) (*model.GoldSnapshot, error) {
	return s.snap, nil
}

type stubCrypto struct{ snap *model.CryptoSnapshot }

func (s *stubCrypto) Extract(_ context.Context) (*model.CryptoSnapshot, error) {
	return s.snap, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *orchestrator.Orchestrator) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	st, err := store.New(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	orch := orchestrator.New(
		&fetcher.MockLauncher{},
		&stubStocks{snap: &model.StockSnapshot{TotalItems: 1, Stocks: []model.StockRecord{{Code: "BBCA"}}}},
		&stubGold{snap: &model.GoldSnapshot{Data: model.GoldData{Antam: []model.WeightedRecord{{Weight: 1, Price: 1150000}}}}},
		&stubCrypto{snap: &model.CryptoSnapshot{Data: []model.CryptoRecord{{Code: "BTC"}}}},
		st,
	)
	// Pinned to a Monday mid-session so unforced triggers pass the gate.
	orch.Now = func() time.Time { return time.Date(2026, 8, 31, 10, 0, 0, 0, time.Local) }
	r := gin.New()
	NewHandler(st, orch, "topsecret").SetupRoutes(r)
	return r, orch
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestDataEndpoints_InitializingBeforeFirstFetch(t *testing.T) {
	r, _ := newTestRouter(t)
	for _, path := range []string{"/api/stocks-data", "/api/gold-data", "/api/crypto-data"} {
		w := get(r, path)
		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("%s: status = %d, want 503", path, w.Code)
		}
		if !strings.Contains(w.Body.String(), "Data initializing") {
			t.Errorf("%s: body = %s", path, w.Body.String())
		}
	}
}

func TestAllData_AlwaysOK(t *testing.T) {
	r, _ := newTestRouter(t)
	w := get(r, "/api/all-data")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var merged model.CombinedSnapshot
	if err := json.Unmarshal(w.Body.Bytes(), &merged); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if merged.Stocks != nil || merged.Gold != nil || merged.Crypto != nil {
		t.Errorf("expected null slots before first fetch: %+v", merged)
	}
}

func TestTriggerFetch_Unauthorized(t *testing.T) {
	r, _ := newTestRouter(t)
	for _, path := range []string{"/api/trigger-fetch", "/api/trigger-fetch?key=wrong"} {
		w := get(r, path)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s: status = %d, want 401", path, w.Code)
		}
		if !strings.Contains(w.Body.String(), "Unauthorized") {
			t.Errorf("%s: body = %s", path, w.Body.String())
		}
	}
}

func TestTriggerFetch_BadTarget(t *testing.T) {
	r, _ := newTestRouter(t)
	w := get(r, "/api/trigger-fetch?key=topsecret&target=bonds")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestTriggerFetch_RunsAndServesData(t *testing.T) {
	r, _ := newTestRouter(t)

	w := get(r, "/api/trigger-fetch?key=topsecret")
	if w.Code != http.StatusOK {
		t.Fatalf("trigger status = %d, body %s", w.Code, w.Body.String())
	}
	var rep model.RunReport
	if err := json.Unmarshal(w.Body.Bytes(), &rep); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	for _, src := range []model.Source{model.SourceStocks, model.SourceGold, model.SourceCrypto} {
		if rep.Results[src].Status != model.StatusSuccess {
			t.Errorf("%s status = %s", src, rep.Results[src].Status)
		}
	}

	w = get(r, "/api/stocks-data")
	if w.Code != http.StatusOK {
		t.Fatalf("stocks-data after trigger: status = %d", w.Code)
	}
	var snap model.StockSnapshot
	if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.TotalItems != 1 || len(snap.Stocks) != 1 || snap.Stocks[0].Code != "BBCA" {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
}

func TestTriggerFetch_UnforcedObeysTradingHours(t *testing.T) {
	r, orch := newTestRouter(t)
	orch.Now = func() time.Time { return time.Date(2026, 9, 5, 10, 0, 0, 0, time.Local) } // Saturday

	w := get(r, "/api/trigger-fetch?key=topsecret")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var rep model.RunReport
	if err := json.Unmarshal(w.Body.Bytes(), &rep); err != nil {
		t.Fatal(err)
	}
	if rep.Results[model.SourceStocks].Status != model.StatusSkipped {
		t.Errorf("stocks status = %s, want skipped", rep.Results[model.SourceStocks].Status)
	}
	if rep.Results[model.SourceGold].Status != model.StatusSkipped {
		t.Errorf("gold status = %s, want skipped", rep.Results[model.SourceGold].Status)
	}

	// force=true bypasses the gate on the same Saturday.
	w = get(r, "/api/trigger-fetch?key=topsecret&force=true")
	if w.Code != http.StatusOK {
		t.Fatalf("forced status = %d", w.Code)
	}
	rep = model.RunReport{}
	if err := json.Unmarshal(w.Body.Bytes(), &rep); err != nil {
		t.Fatal(err)
	}
	if rep.Results[model.SourceStocks].Status != model.StatusSuccess {
		t.Errorf("forced stocks status = %s, want success", rep.Results[model.SourceStocks].Status)
	}
}

func TestTriggerFetch_TargetStocksOnly(t *testing.T) {
	r, _ := newTestRouter(t)
	w := get(r, "/api/trigger-fetch?key=topsecret&target=stocks")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var rep model.RunReport
	if err := json.Unmarshal(w.Body.Bytes(), &rep); err != nil {
		t.Fatal(err)
	}
	if len(rep.Results) != 1 {
		t.Errorf("results = %v, want stocks only", rep.Results)
	}
	if rep.Results[model.SourceStocks].Status != model.StatusSuccess {
		t.Errorf("stocks status = %s", rep.Results[model.SourceStocks].Status)
	}
}

func TestIndexPage(t *testing.T) {
	r, _ := newTestRouter(t)
	w := get(r, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "/api/all-data") {
		t.Error("index page should list the endpoints")
	}
}
