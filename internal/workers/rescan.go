package workers

import (
	"context"
	"log"
	"time"

	"reel-radar/internal/config"
	"reel-radar/internal/scraper"
	"reel-radar/internal/services"
)

// RescanWorker periodically re-runs the pipeline over the active tracked
// accounts so the stored scans stay fresh without manual triggering.
type RescanWorker struct {
	scans    *services.ScanService
	accounts *services.AccountsService
	cfg      *config.Config

	interval   time.Duration
	windowDays int
	ticker     *time.Ticker
	stopChan   chan bool
}

// NewRescanWorker creates a new rescan worker
func NewRescanWorker(scans *services.ScanService, accounts *services.AccountsService, cfg *config.Config, interval time.Duration, windowDays int) *RescanWorker {
	if windowDays < 1 {
		windowDays = 3
	}
	return &RescanWorker{
		scans:      scans,
		accounts:   accounts,
		cfg:        cfg,
		interval:   interval,
		windowDays: windowDays,
		stopChan:   make(chan bool),
	}
}

// Start begins the periodic rescan process
func (w *RescanWorker) Start(ctx context.Context) {
	w.ticker = time.NewTicker(w.interval)

	log.Printf("🔄 Starting rescan worker (every %v, trailing %d-day window)", w.interval, w.windowDays)

	go func() {
		for {
			select {
			case <-ctx.Done():
				log.Printf("🛑 Rescan worker stopping due to context cancellation")
				return
			case <-w.stopChan:
				log.Printf("🛑 Rescan worker stopping")
				return
			case <-w.ticker.C:
				if err := w.runOnce(ctx); err != nil {
					log.Printf("❌ Error in periodic rescan: %v", err)
				}
			}
		}
	}()
}

// Stop stops the worker
func (w *RescanWorker) Stop() {
	if w.ticker != nil {
		w.ticker.Stop()
	}
	close(w.stopChan)
}

// runOnce scans all active tracked accounts over the trailing window.
func (w *RescanWorker) runOnce(ctx context.Context) error {
	accounts, err := w.accounts.ListActive()
	if err != nil {
		return err
	}
	if len(accounts) == 0 {
		log.Printf("📭 No active tracked accounts, skipping rescan")
		return nil
	}

	usernames := make([]string, len(accounts))
	for i, account := range accounts {
		usernames[i] = account.Username
	}

	end := time.Now()
	start := end.AddDate(0, 0, -w.windowDays)

	log.Printf("🔍 Rescanning %d tracked accounts (%s to %s)",
		len(usernames), start.Format("2006-01-02"), end.Format("2006-01-02"))

	result, err := w.scans.RunScan(ctx, services.ScanRequest{
		Usernames:  usernames,
		StartDate:  start,
		EndDate:    end,
		Kind:       scraper.KindReel,
		Policy:     scraper.WindowHybrid,
		Thresholds: w.cfg.Thresholds,
	})
	if err != nil {
		return err
	}

	log.Printf("✅ Rescan complete: %d viral of %d fetched", len(result.Viral), len(result.All))
	return nil
}
