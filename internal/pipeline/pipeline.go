// Package pipeline processes one kill ref end to end: dedup, resolve,
// normalize, store, detect, alert. Drops are counted and logged here at
// the pipeline boundary; inner packages return typed errors and stay
// silent.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/nullsec-systems/hotzone/internal/alert"
	"github.com/nullsec-systems/hotzone/internal/detector"
	"github.com/nullsec-systems/hotzone/internal/logging"
	"github.com/nullsec-systems/hotzone/internal/metrics"
	"github.com/nullsec-systems/hotzone/internal/models"
	"github.com/nullsec-systems/hotzone/internal/normalizer"
	"github.com/nullsec-systems/hotzone/internal/universe"
)

// Deduper is the bounded membership cache over kill IDs.
type Deduper interface {
	Seen(id int64) bool
	Mark(id int64)
}

// Resolver fetches full killmail detail for a ref.
type Resolver interface {
	Resolve(ctx context.Context, killID int64, hash string) (*models.RawKillmail, error)
}

// Store is the write side of the kill store used by the pipeline.
type Store interface {
	PutKill(ctx context.Context, kill *models.Kill) error
	PutHotspot(ctx context.Context, h *models.Hotspot) error
}

// Detector observes stored kills and raises hotspots.
type Detector interface {
	Observe(kill *models.Kill) *models.Hotspot
}

// Pipeline owns the per-ref processing chain.
type Pipeline struct {
	dedup    Deduper
	resolver Resolver
	store    Store
	detector Detector
	universe *universe.Map
	channel  alert.Channel
	logger   *logging.Logger
}

// New wires the pipeline stages together.
func New(dedup Deduper, resolver Resolver, store Store, det Detector, uni *universe.Map, channel alert.Channel, logger *logging.Logger) *Pipeline {
	if channel == nil {
		channel = alert.NopChannel{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Pipeline{
		dedup:    dedup,
		resolver: resolver,
		store:    store,
		detector: det,
		universe: uni,
		channel:  channel,
		logger:   logger,
	}
}

// Process runs one ref through the chain. Duplicate, unresolvable, and
// malformed refs are dropped with a nil return; only store failures
// surface as errors, since nothing downstream can proceed without the
// store.
func (p *Pipeline) Process(ctx context.Context, ref models.KillRef) error {
	if p.dedup.Seen(ref.KillID) {
		metrics.RefsDropped.WithLabelValues("duplicate").Inc()
		return nil
	}
	// Marked before resolution: a ref that fails to resolve is not
	// retried on the next poll (at-most-once processing).
	p.dedup.Mark(ref.KillID)

	raw, err := p.resolver.Resolve(ctx, ref.KillID, ref.Hash)
	if err != nil {
		metrics.RefsDropped.WithLabelValues("resolve_error").Inc()
		p.logger.WarnContext(ctx, "killmail resolve failed", "kill_id", ref.KillID, "error", err)
		return nil
	}
	if raw == nil {
		metrics.RefsDropped.WithLabelValues("not_found").Inc()
		p.logger.DebugContext(ctx, "killmail not found", "kill_id", ref.KillID)
		return nil
	}

	kill, err := normalizer.Normalize(raw, p.universe.Current())
	if err != nil {
		switch {
		case errors.Is(err, normalizer.ErrUnmappedSystem):
			metrics.RefsDropped.WithLabelValues("unmapped_system").Inc()
		case errors.Is(err, normalizer.ErrMissingField):
			metrics.RefsDropped.WithLabelValues("malformed").Inc()
		default:
			metrics.RefsDropped.WithLabelValues("normalize_error").Inc()
		}
		p.logger.DebugContext(ctx, "killmail discarded", "kill_id", ref.KillID, "error", err)
		return nil
	}

	if err := p.store.PutKill(ctx, kill); err != nil {
		return fmt.Errorf("store kill %d: %w", kill.KillID, err)
	}
	metrics.KillsProcessed.Inc()

	hotspot := p.detector.Observe(kill)
	if hotspot == nil {
		return nil
	}

	metrics.HotspotsDetected.Inc()
	p.logger.InfoContext(ctx, "hotspot detected",
		"system_id", hotspot.SystemID,
		"region_id", hotspot.RegionID,
		"kill_count", hotspot.KillCount,
	)

	if err := p.store.PutHotspot(ctx, hotspot); err != nil {
		return fmt.Errorf("store hotspot %s: %w", hotspot.ID, err)
	}

	if err := p.channel.Send(ctx, hotspot); err != nil {
		// Alert delivery is best effort and never fails the pipeline.
		metrics.AlertFailures.Inc()
		p.logger.WarnContext(ctx, "alert delivery failed", "channel", p.channel.Type(), "error", err)
	}

	return nil
}

var _ Detector = (*detector.Detector)(nil)
