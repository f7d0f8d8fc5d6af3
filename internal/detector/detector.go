// Package detector watches per-system kill rates and raises hotspots on
// threshold crossings. Windows are ephemeral, in-process state; they are
// not persisted and are lost on restart.
package detector

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nullsec-systems/hotzone/internal/models"
)

// Config tunes the detection window.
type Config struct {
	// Window is the trailing duration considered for a spike.
	Window time.Duration
	// Threshold is the minimum number of kills inside the window.
	Threshold int
	// Capacity bounds each system's timestamp ring. Entries past
	// capacity are dropped even if still inside the window, which can
	// undercount during extreme bursts.
	Capacity int
}

// DefaultConfig returns the standard detection parameters.
func DefaultConfig() Config {
	return Config{
		Window:    5 * time.Minute,
		Threshold: 5,
		Capacity:  100,
	}
}

// ring is a fixed-capacity buffer of observation timestamps.
type ring struct {
	buf  []time.Time
	head int
	size int
}

func (r *ring) add(t time.Time) {
	if r.size < len(r.buf) {
		r.buf[(r.head+r.size)%len(r.buf)] = t
		r.size++
		return
	}
	r.buf[r.head] = t
	r.head = (r.head + 1) % len(r.buf)
}

func (r *ring) countSince(cutoff time.Time) int {
	n := 0
	for i := 0; i < r.size; i++ {
		if !r.buf[(r.head+i)%len(r.buf)].Before(cutoff) {
			n++
		}
	}
	return n
}

// Detector tracks per-system sliding windows. Rings are created lazily
// on first observation. Safe for concurrent use.
type Detector struct {
	mu      sync.Mutex
	cfg     Config
	windows map[int64]*ring
	now     func() time.Time
}

// New creates a detector. Zero config fields fall back to defaults.
func New(cfg Config) *Detector {
	def := DefaultConfig()
	if cfg.Window == 0 {
		cfg.Window = def.Window
	}
	if cfg.Threshold == 0 {
		cfg.Threshold = def.Threshold
	}
	if cfg.Capacity == 0 {
		cfg.Capacity = def.Capacity
	}
	return &Detector{
		cfg:     cfg,
		windows: make(map[int64]*ring),
		now:     time.Now,
	}
}

// Observe records a kill against its system's window and returns a
// Hotspot when the count of observations inside the window reaches the
// threshold. The check runs on every observation, so a sustained burst
// emits one hotspot per qualifying kill rather than one per episode.
func (d *Detector) Observe(kill *models.Kill) *models.Hotspot {
	d.mu.Lock()
	defer d.mu.Unlock()

	w, ok := d.windows[kill.SystemID]
	if !ok {
		w = &ring{buf: make([]time.Time, d.cfg.Capacity)}
		d.windows[kill.SystemID] = w
	}

	// Ages are measured from detection time, not kill time; a backlog of
	// old kills arriving at once still counts as current activity.
	now := d.now()
	w.add(now)

	count := w.countSince(now.Add(-d.cfg.Window))
	if count < d.cfg.Threshold {
		return nil
	}

	return &models.Hotspot{
		ID:            uuid.New().String(),
		SystemID:      kill.SystemID,
		RegionID:      kill.RegionID,
		KillCount:     count,
		WindowSeconds: int(d.cfg.Window.Seconds()),
		DetectedAt:    now.UTC(),
		ShipTypeID:    kill.ShipTypeID,
		Value:         kill.Value,
	}
}

// Systems returns the number of systems with live windows.
func (d *Detector) Systems() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.windows)
}
