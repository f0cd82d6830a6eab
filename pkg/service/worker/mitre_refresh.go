package worker

import (
	"context"
	"time"

	"github.com/secmon-lab/themis/pkg/service/mitre"
	"github.com/secmon-lab/themis/pkg/utils/logging"
)

// MitreRefreshWorker keeps the in-process MITRE ATT&CK technique cache warm
// so the techniques endpoint rarely has to fetch inline.
//
// Architecture assumptions:
// - Single server instance (no distributed locking)
// - The fetch itself degrades to sample data on feed failure, so a refresh
//   cycle only fails on programming errors
type MitreRefreshWorker struct {
	service  mitre.Service
	cache    *mitre.Cache
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewMitreRefreshWorker creates a worker refreshing the technique cache
func NewMitreRefreshWorker(service mitre.Service, cache *mitre.Cache, interval time.Duration) *MitreRefreshWorker {
	return &MitreRefreshWorker{
		service:  service,
		cache:    cache,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background refresh loop. The initial fetch also runs in
// the background so server startup is not blocked.
func (w *MitreRefreshWorker) Start(ctx context.Context) error {
	logging.Default().Info("MITRE technique refresh worker starting",
		"interval", w.interval.String())

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for completion
func (w *MitreRefreshWorker) Stop() {
	logging.Default().Info("MITRE technique refresh worker stopping")
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("MITRE technique refresh worker stopped")
}

func (w *MitreRefreshWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	if err := w.refresh(ctx); err != nil {
		logging.Default().Error("Initial MITRE technique refresh failed (will retry next interval)",
			"error", err.Error())
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.refresh(ctx); err != nil {
				logging.Default().Error("MITRE technique refresh failed (will retry next interval)",
					"error", err.Error())
			}

		case <-w.stopCh:
			logging.Default().Info("MITRE technique refresh worker received stop signal")
			return

		case <-ctx.Done():
			logging.Default().Info("MITRE technique refresh worker context cancelled")
			return
		}
	}
}

func (w *MitreRefreshWorker) refresh(ctx context.Context) error {
	startTime := time.Now()

	result, err := w.service.FetchTechniques(ctx)
	if err != nil {
		return err
	}
	w.cache.Set(result)

	logging.Default().Info("MITRE technique refresh completed",
		"count", len(result.Techniques),
		"source", result.Source,
		"duration", time.Since(startTime).String())

	return nil
}
