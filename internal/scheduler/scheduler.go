package scheduler

import (
	"context"
	"fmt"
	"log"

	"StockPulse/internal/ingest"

	"github.com/robfig/cron/v3"
)

// Scheduler runs periodic watchlist ingestion.
type Scheduler struct {
	Cron      *cron.Cron
	Pipeline  *ingest.Pipeline
	Watchlist []string
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, pipeline *ingest.Pipeline, watchlist []string) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Pipeline:  pipeline,
		Watchlist: watchlist,
		Ctx:       ctx,
	}
}

// Register registers the watchlist ingestion task.
func (s *Scheduler) Register(ingestCron string) error {
	if _, err := s.Cron.AddFunc(ingestCron, s.ingestTask); err != nil {
		return fmt.Errorf("register ingest task: %w", err)
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

// RunNow executes the ingestion task immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.ingestTask()
}

func (s *Scheduler) ingestTask() {
	log.Printf("[INFO] running scheduled ingestion for %d symbols", len(s.Watchlist))
	for _, symbol := range s.Watchlist {
		if err := s.Ctx.Err(); err != nil {
			log.Printf("[WARN] scheduled ingestion interrupted: %v", err)
			return
		}
		summary, err := s.Pipeline.Ingest(s.Ctx, symbol)
		if err != nil {
			log.Printf("[ERROR] scheduled ingest %s: %v", symbol, err)
			continue
		}
		log.Printf("[INFO] scheduled ingest %s: status=%s new=%d duplicates=%d",
			symbol, summary.Status, summary.NewArticles, summary.Duplicates)
	}
}
