package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"MarketHarvester/internal/extractor"
	"MarketHarvester/internal/fetcher"
	"MarketHarvester/internal/model"
	"MarketHarvester/internal/store"
)

// StockSource, GoldSource and CryptoSource are the extractor contracts the
// orchestrator drives. Stocks and gold share one browser session; crypto
// needs none.
type StockSource interface {
	Extract(ctx context.Context, sess fetcher.Session) (*model.StockSnapshot, error)
}

type GoldSource interface {
	Extract(ctx context.Context, sess fetcher.Session) (*model.GoldSnapshot, error)
}

type CryptoSource interface {
	Extract(ctx context.Context) (*model.CryptoSnapshot, error)
}

// Targets selects which sources a run should fetch.
type Targets struct {
	Stocks bool
	Gold   bool
	Crypto bool
}

// ParseTarget maps the CLI/scheduler target names onto source selections.
func ParseTarget(name string) (Targets, error) {
	switch name {
	case "stocks":
		return Targets{Stocks: true}, nil
	case "gold_crypto":
		return Targets{Gold: true, Crypto: true}, nil
	case "", "all":
		return Targets{Stocks: true, Gold: true, Crypto: true}, nil
	}
	return Targets{}, fmt.Errorf("unknown target %q", name)
}

// Options control one run.
type Options struct {
	Force   bool
	Targets Targets
}

// Orchestrator coordinates a full fetch cycle: the trading-hours gate, the
// run lock, one shared browser session for the stock and gold pages run
// sequentially, and the independent concurrent crypto fetch. Extractor
// failures are converted into per-source statuses and never escape.
type Orchestrator struct {
	Launcher fetcher.Launcher
	Stocks   StockSource
	Gold     GoldSource
	Crypto   CryptoSource
	Store    *store.Store
	Lock     *RunLock
	Now      func() time.Time // injectable clock
}

// New creates an orchestrator with its own run lock and the real clock.
func New(launcher fetcher.Launcher, stocks StockSource, gold GoldSource, crypto CryptoSource, st *store.Store) *Orchestrator {
	return &Orchestrator{
		Launcher: launcher,
		Stocks:   stocks,
		Gold:     gold,
		Crypto:   crypto,
		Store:    st,
		Lock:     &RunLock{},
		Now:      time.Now,
	}
}

type cryptoOutcome struct {
	snap *model.CryptoSnapshot
	err  error
}

// Run executes one fetch cycle and returns its report.
func (o *Orchestrator) Run(ctx context.Context, opts Options) *model.RunReport {
	start := o.Now()
	rep := &model.RunReport{
		ID:        uuid.NewString(),
		Timestamp: start,
		Results:   make(map[model.Source]model.SourceResult),
	}

	needBrowser := opts.Targets.Stocks || opts.Targets.Gold

	// The gate only covers the browser-based sources; crypto trades
	// around the clock and is fetched regardless.
	if needBrowser && !IsRunAllowed(start, opts.Force) {
		log.Printf("[INFO] run %s: outside trading window, skipping browser sources", rep.ID)
		o.markBrowserSources(rep, opts.Targets, model.SourceResult{
			Status: model.StatusSkipped,
			Detail: "outside trading hours",
		})
		needBrowser = false
	}

	if needBrowser && !o.Lock.TryAcquire() {
		// Fail the whole trigger fast with no side effects at all.
		log.Printf("[INFO] run %s: another fetch cycle in progress", rep.ID)
		busy := model.SourceResult{Status: model.StatusBusy, Detail: "another fetch cycle in progress"}
		o.markBrowserSources(rep, opts.Targets, busy)
		if opts.Targets.Crypto {
			rep.Results[model.SourceCrypto] = busy
		}
		rep.DurationSeconds = o.Now().Sub(start).Seconds()
		return rep
	}

	var cryptoCh chan cryptoOutcome
	if opts.Targets.Crypto {
		cryptoCh = make(chan cryptoOutcome, 1)
		go func() {
			snap, err := o.Crypto.Extract(ctx)
			cryptoCh <- cryptoOutcome{snap: snap, err: err}
		}()
	}

	if needBrowser {
		func() {
			defer o.Lock.Release()
			o.runBrowserSources(ctx, opts.Targets, rep)
		}()
	}

	if cryptoCh != nil {
		out := <-cryptoCh
		rep.Results[model.SourceCrypto] = o.commitCrypto(out)
	}

	o.refreshMerged(rep.ID)

	rep.DurationSeconds = o.Now().Sub(start).Seconds()
	log.Printf("[INFO] run %s finished in %.2fs", rep.ID, rep.DurationSeconds)
	return rep
}

// runBrowserSources launches one browser session and drives the stock and
// gold extractors through it sequentially. The two pages share one browser
// process to keep resource usage down. A launch failure is fatal for both
// sources but for nothing else.
func (o *Orchestrator) runBrowserSources(ctx context.Context, targets Targets, rep *model.RunReport) {
	sess, err := o.Launcher.Launch(ctx)
	if err != nil {
		log.Printf("[ERROR] browser launch: %v", err)
		o.markBrowserSources(rep, targets, model.SourceResult{
			Status: model.StatusFatal,
			Detail: fmt.Sprintf("browser launch: %v", err),
		})
		return
	}
	defer func() {
		if err := sess.Close(); err != nil {
			log.Printf("[WARN] close browser session: %v", err)
		}
	}()

	if targets.Stocks {
		snap, err := o.Stocks.Extract(ctx, sess)
		rep.Results[model.SourceStocks] = o.commitStocks(snap, err)
	}
	if targets.Gold {
		snap, err := o.Gold.Extract(ctx, sess)
		rep.Results[model.SourceGold] = o.commitGold(snap, err)
	}
}

func (o *Orchestrator) commitStocks(snap *model.StockSnapshot, err error) model.SourceResult {
	if err != nil {
		return failureResult(model.SourceStocks, err)
	}
	if err := o.Store.WriteStocks(snap); err != nil {
		log.Printf("[ERROR] write stock snapshot: %v", err)
		return model.SourceResult{Status: model.StatusError, Detail: fmt.Sprintf("write snapshot: %v", err)}
	}
	log.Printf("[INFO] stocks: %d records", snap.TotalItems)
	return model.SourceResult{Status: model.StatusSuccess, Count: snap.TotalItems}
}

func (o *Orchestrator) commitGold(snap *model.GoldSnapshot, err error) model.SourceResult {
	if err != nil {
		return failureResult(model.SourceGold, err)
	}
	if err := o.Store.WriteGold(snap); err != nil {
		log.Printf("[ERROR] write gold snapshot: %v", err)
		return model.SourceResult{Status: model.StatusError, Detail: fmt.Sprintf("write snapshot: %v", err)}
	}
	count := len(snap.Data.Spot) + len(snap.Data.Antam) + len(snap.Data.UBS)
	log.Printf("[INFO] gold: %d records", count)
	return model.SourceResult{Status: model.StatusSuccess, Count: count}
}

func (o *Orchestrator) commitCrypto(out cryptoOutcome) model.SourceResult {
	if out.err != nil {
		return failureResult(model.SourceCrypto, out.err)
	}
	if err := o.Store.WriteCrypto(out.snap); err != nil {
		log.Printf("[ERROR] write crypto snapshot: %v", err)
		return model.SourceResult{Status: model.StatusError, Detail: fmt.Sprintf("write snapshot: %v", err)}
	}
	log.Printf("[INFO] crypto: %d records", len(out.snap.Data))
	return model.SourceResult{Status: model.StatusSuccess, Count: len(out.snap.Data)}
}

// refreshMerged rewrites the combined file from the last-known-good
// per-source slots. Merge failures are logged, not reported: stale merged
// data is still served from the per-source slots on read.
func (o *Orchestrator) refreshMerged(runID string) {
	merged, err := o.Store.Merge()
	if err != nil {
		log.Printf("[ERROR] run %s: merge snapshots: %v", runID, err)
		return
	}
	if err := o.Store.WriteMerged(merged); err != nil {
		log.Printf("[ERROR] run %s: write merged snapshot: %v", runID, err)
	}
}

func (o *Orchestrator) markBrowserSources(rep *model.RunReport, targets Targets, res model.SourceResult) {
	if targets.Stocks {
		rep.Results[model.SourceStocks] = res
	}
	if targets.Gold {
		rep.Results[model.SourceGold] = res
	}
}

// failureResult converts an extractor error into a per-source status. An
// empty result is a soft failure: the previous snapshot stays in place.
func failureResult(source model.Source, err error) model.SourceResult {
	if errors.Is(err, extractor.ErrEmptyResult) {
		log.Printf("[WARN] %s: %v, keeping previous snapshot", source, err)
		return model.SourceResult{Status: model.StatusWarning, Detail: err.Error()}
	}
	log.Printf("[ERROR] %s: %v", source, err)
	return model.SourceResult{Status: model.StatusError, Detail: err.Error()}
}
