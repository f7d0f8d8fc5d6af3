// Package poller drives the ingestion pipeline: one poll cycle at a
// time, fetch a batch of refs from the feed and push each through the
// pipeline.
package poller

import (
	"context"
	"time"

	"github.com/nullsec-systems/hotzone/internal/logging"
	"github.com/nullsec-systems/hotzone/internal/metrics"
	"github.com/nullsec-systems/hotzone/internal/models"
)

// Feed pulls batches of kill refs.
type Feed interface {
	Fetch(ctx context.Context) ([]models.KillRef, error)
}

// Pipeline processes one ref.
type Pipeline interface {
	Process(ctx context.Context, ref models.KillRef) error
}

// Poller runs the poll loop.
type Poller struct {
	feed     Feed
	pipeline Pipeline
	interval time.Duration
	logger   *logging.Logger
}

// New creates a poller. A zero interval defaults to 30 seconds.
func New(feed Feed, pipeline Pipeline, interval time.Duration, logger *logging.Logger) *Poller {
	if interval == 0 {
		interval = 30 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Poller{
		feed:     feed,
		pipeline: pipeline,
		interval: interval,
		logger:   logger,
	}
}

// Run polls until ctx is cancelled. Cancellation is checked at cycle
// boundaries only; an in-flight resolve or store write is never
// interrupted mid-ref.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.InfoContext(ctx, "poller started", "interval", p.interval.String())

	// Run immediately on start
	p.cycle(ctx)

	for {
		select {
		case <-ctx.Done():
			p.logger.InfoContext(ctx, "poller stopped")
			return
		case <-ticker.C:
			p.cycle(ctx)
		}
	}
}

// cycle runs one fetch-and-process pass. A fetch failure skips the whole
// cycle with no retry; a per-ref failure skips that ref only.
func (p *Poller) cycle(ctx context.Context) {
	start := time.Now()
	defer func() {
		metrics.CycleDuration.Observe(time.Since(start).Seconds())
	}()

	refs, err := p.feed.Fetch(ctx)
	if err != nil {
		metrics.FetchErrors.Inc()
		p.logger.WarnContext(ctx, "feed fetch failed, skipping cycle", "error", err)
		return
	}
	if len(refs) == 0 {
		return
	}

	p.logger.DebugContext(ctx, "processing feed batch", "refs", len(refs))

	for _, ref := range refs {
		if err := p.pipeline.Process(ctx, ref); err != nil {
			p.logger.ErrorContext(ctx, "ref processing failed", "kill_id", ref.KillID, "error", err)
		}
	}
}
