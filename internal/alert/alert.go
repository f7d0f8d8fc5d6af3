// Package alert delivers hotspot notifications to an external channel.
// Delivery is fire-and-forget: failures are reported to the caller for
// logging and counting but never block or fail the pipeline.
package alert

import (
	"context"
	"fmt"

	"github.com/nullsec-systems/hotzone/internal/models"
)

// Channel is a notification delivery target.
type Channel interface {
	Send(ctx context.Context, h *models.Hotspot) error
	Type() string
}

// FormatMessage renders the human-readable alert text for a hotspot.
func FormatMessage(h *models.Hotspot) string {
	return fmt.Sprintf(
		"Hotspot: %d kills in system %d (region %d) within %ds. Latest loss: ship type %d worth %.0f ISK.",
		h.KillCount, h.SystemID, h.RegionID, h.WindowSeconds, h.ShipTypeID, h.Value,
	)
}

// NopChannel discards alerts. Used when no channel is configured.
type NopChannel struct{}

func (NopChannel) Send(context.Context, *models.Hotspot) error { return nil }

func (NopChannel) Type() string { return "nop" }
