// Package delivery dispatches sent invoices to their recipients.
package delivery

import (
	"context"

	"go.uber.org/zap"

	"github.com/jmuseri/facturapp/internal/models"
)

// Delivery channels.
const (
	ChannelEmail    = "email"
	ChannelWhatsapp = "whatsapp"
)

// Channels returns the channels selected on inv.
func Channels(inv models.Invoice) []string {
	var out []string
	if inv.SendByEmail {
		out = append(out, ChannelEmail)
	}
	if inv.SendByWhatsapp {
		out = append(out, ChannelWhatsapp)
	}
	return out
}

// Deliverer hands an invoice to an outbound channel after it was marked sent.
type Deliverer interface {
	Deliver(ctx context.Context, inv models.Invoice, client models.Client, channel string) error
}

// LogDeliverer records deliveries in the log instead of contacting anyone.
type LogDeliverer struct {
	log *zap.Logger
}

func NewLogDeliverer(log *zap.Logger) *LogDeliverer {
	return &LogDeliverer{log: log.Named("delivery")}
}

func (d *LogDeliverer) Deliver(ctx context.Context, inv models.Invoice, client models.Client, channel string) error {
	to := client.Email
	if channel == ChannelWhatsapp {
		to = client.Phone
	}
	d.log.Info("invoice delivered",
		zap.String("number", inv.Number),
		zap.String("channel", channel),
		zap.String("to", to),
		zap.String("total", inv.TotalAmount.StringFixed(2)),
	)
	return nil
}
