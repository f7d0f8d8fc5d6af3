package alert

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/nullsec-systems/hotzone/internal/models"
)

// DefaultSubject is the NATS subject hotspot alerts are published to.
const DefaultSubject = "hotzone.alerts.hotspot"

// NATSChannel publishes hotspot notifications to a NATS subject for
// downstream notifiers (Discord relay, report publishers).
type NATSChannel struct {
	conn    *nats.Conn
	subject string
}

// NewNATSChannel creates a NATS notification channel. An empty subject
// falls back to DefaultSubject.
func NewNATSChannel(conn *nats.Conn, subject string) *NATSChannel {
	if subject == "" {
		subject = DefaultSubject
	}
	return &NATSChannel{conn: conn, subject: subject}
}

func (n *NATSChannel) Type() string {
	return "nats"
}

// Send publishes the hotspot as JSON. Publishing is asynchronous on the
// NATS client side; an error here means the message never left the
// process.
func (n *NATSChannel) Send(_ context.Context, h *models.Hotspot) error {
	payload := struct {
		Text string `json:"text"`
		*models.Hotspot
	}{
		Text:    FormatMessage(h),
		Hotspot: h,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal alert payload: %w", err)
	}

	if err := n.conn.Publish(n.subject, data); err != nil {
		return fmt.Errorf("publish alert: %w", err)
	}

	return nil
}
