package worker

import (
	"context"
	"log"
	"sync"
	"time"

	"reel-radar/internal/config"
	"reel-radar/internal/services"
	"reel-radar/internal/workers"
)

// WorkerService manages background workers for the application
type WorkerService struct {
	rescanWorker *workers.RescanWorker
	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	running      bool
	mu           sync.RWMutex
}

// NewWorkerService creates a new worker service
func NewWorkerService(scans *services.ScanService, accounts *services.AccountsService, cfg *config.Config, rescanInterval time.Duration) *WorkerService {
	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerService{
		rescanWorker: workers.NewRescanWorker(scans, accounts, cfg, rescanInterval, 3),
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Start starts all background workers
func (ws *WorkerService) Start() error {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if ws.running {
		return nil // Already running
	}

	log.Println("Starting background workers...")

	ws.wg.Add(1)
	go func() {
		defer ws.wg.Done()
		ws.rescanWorker.Start(ws.ctx)
		<-ws.ctx.Done()
	}()

	ws.running = true
	log.Println("Background workers started successfully")

	return nil
}

// Stop stops all background workers
func (ws *WorkerService) Stop() {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if !ws.running {
		return // Not running
	}

	log.Println("Stopping background workers...")

	ws.rescanWorker.Stop()
	ws.cancel()
	ws.wg.Wait()

	ws.running = false
	log.Println("Background workers stopped")
}

// IsRunning reports whether the workers are active
func (ws *WorkerService) IsRunning() bool {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return ws.running
}
