package scheduler

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/robfig/cron/v3"

	"MarketHarvester/internal/notifier"
	"MarketHarvester/internal/orchestrator"
)

// Scheduler drives the recurring fetch cycle through a cron table. Each
// tick waits a random jitter before fetching so the sources never see
// requests at exact clock boundaries.
type Scheduler struct {
	Cron          *cron.Cron
	Orchestrator  *orchestrator.Orchestrator
	Notifier      *notifier.TelegramNotifier
	JitterSeconds int
	Ctx           context.Context
}

// NewScheduler creates a scheduler around the given orchestrator.
func NewScheduler(ctx context.Context, orch *orchestrator.Orchestrator, tn *notifier.TelegramNotifier, jitterSeconds int) *Scheduler {
	return &Scheduler{
		Cron:          cron.New(cron.WithSeconds()),
		Orchestrator:  orch,
		Notifier:      tn,
		JitterSeconds: jitterSeconds,
		Ctx:           ctx,
	}
}

// Register adds the fetch task under the given cron expression.
func (s *Scheduler) Register(fetchCron string) error {
	if _, err := s.Cron.AddFunc(fetchCron, s.fetchTask); err != nil {
		return fmt.Errorf("register fetch task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

func (s *Scheduler) fetchTask() {
	if s.JitterSeconds > 0 {
		delay := time.Duration(rand.Intn(s.JitterSeconds)) * time.Second
		log.Printf("[INFO] scheduled fetch in %v", delay)
		select {
		case <-s.Ctx.Done():
			return
		case <-time.After(delay):
		}
	}

	rep := s.Orchestrator.Run(s.Ctx, orchestrator.Options{
		Targets: orchestrator.Targets{Stocks: true, Gold: true, Crypto: true},
	})
	if rep.HasFailure() {
		s.trySend(notifier.FormatRunReport(rep))
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
