package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jmuseri/facturapp/internal/billing"
	"github.com/jmuseri/facturapp/internal/delivery"
	"github.com/jmuseri/facturapp/internal/logger"
	"github.com/jmuseri/facturapp/internal/metrics"
	"github.com/jmuseri/facturapp/internal/models"
	"github.com/jmuseri/facturapp/internal/repository"
)

type InvoiceService struct {
	invoices      repository.InvoiceRepository
	clients       repository.ClientRepository
	notifications *NotificationService
	deliverer     delivery.Deliverer
	metrics       *metrics.Metrics
	now           Clock
}

func NewInvoiceService(
	invoices repository.InvoiceRepository,
	clients repository.ClientRepository,
	notifications *NotificationService,
	deliverer delivery.Deliverer,
	m *metrics.Metrics,
) *InvoiceService {
	return &InvoiceService{
		invoices:      invoices,
		clients:       clients,
		notifications: notifications,
		deliverer:     deliverer,
		metrics:       m,
		now:           utcNow,
	}
}

// List returns the invoices matching f, newest first, with totals derived
// from their items.
func (s *InvoiceService) List(ctx context.Context, f repository.InvoiceFilter) ([]models.Invoice, error) {
	invoices, err := s.invoices.List(ctx, f)
	if err != nil {
		return nil, err
	}
	for i := range invoices {
		invoices[i] = billing.Recompute(invoices[i])
	}
	return invoices, nil
}

func (s *InvoiceService) Get(ctx context.Context, id uint) (models.Invoice, error) {
	inv, err := s.invoices.Get(ctx, id)
	if err != nil {
		return inv, err
	}
	return billing.Recompute(inv), nil
}

// Create stores a new PENDING invoice numbered after every invoice ever issued.
func (s *InvoiceService) Create(ctx context.Context, d billing.InvoiceDraft) (models.Invoice, error) {
	v := d.Validate()
	client, err := resolveClient(ctx, s.clients, d.ClientID, "client_id", v)
	if err != nil {
		return models.Invoice{}, err
	}
	if err := invalid(v); err != nil {
		s.metrics.InvoiceRejected("create", "validation_failed")
		return models.Invoice{}, err
	}
	d.ClientName = client.Name

	inv, err := s.invoices.Create(ctx, func(maxID uint) (models.Invoice, error) {
		return billing.CreateInvoice(d, maxID)
	})
	if err != nil {
		return inv, fmt.Errorf("create invoice: %w", err)
	}
	s.metrics.InvoiceCreated()
	logger.FromContext(ctx).Info("invoice created", zap.String("number", inv.Number), zap.Uint("client_id", inv.ClientID))
	return inv, nil
}

// Update edits a PENDING invoice. A changed client refreshes the name snapshot.
func (s *InvoiceService) Update(ctx context.Context, id uint, d billing.InvoiceDraft) (models.Invoice, error) {
	inv, err := s.invoices.Get(ctx, id)
	if err != nil {
		return inv, err
	}
	v := d.Validate()
	d.ClientName = inv.ClientName
	if d.ClientID != inv.ClientID {
		client, err := resolveClient(ctx, s.clients, d.ClientID, "client_id", v)
		if err != nil {
			return inv, err
		}
		d.ClientName = client.Name
	}
	if inv.IsPending() {
		if err := invalid(v); err != nil {
			return inv, err
		}
	}
	updated, err := billing.UpdateInvoice(inv, d)
	if err != nil {
		s.reject("update", err)
		return inv, err
	}
	if err := s.invoices.Save(ctx, &updated); err != nil {
		return inv, fmt.Errorf("update invoice %d: %w", id, err)
	}
	return updated, nil
}

// Send marks the invoice SENT and hands it to the deliverer on each selected
// channel. Delivery problems are logged; the invoice stays SENT.
func (s *InvoiceService) Send(ctx context.Context, id uint) (models.Invoice, error) {
	inv, err := s.invoices.Get(ctx, id)
	if err != nil {
		return inv, err
	}
	sent, err := billing.SendInvoice(billing.Recompute(inv), s.now())
	if err != nil {
		s.reject("send", err)
		return inv, err
	}
	if err := s.invoices.Save(ctx, &sent); err != nil {
		return inv, fmt.Errorf("send invoice %d: %w", id, err)
	}

	log := logger.FromContext(ctx)
	client, err := s.clients.Get(ctx, sent.ClientID)
	if err != nil {
		log.Warn("invoice client missing", zap.String("number", sent.Number), zap.Error(err))
	}
	for _, ch := range delivery.Channels(sent) {
		if err := s.deliverer.Deliver(ctx, sent, client, ch); err != nil {
			log.Error("invoice delivery failed", zap.String("number", sent.Number), zap.String("channel", ch), zap.Error(err))
			continue
		}
		s.metrics.InvoiceSent(ch)
	}
	s.notifications.Notify(ctx, models.NotificationInfo, "Factura Enviada",
		fmt.Sprintf("La factura %s fue enviada exitosamente a %s.", sent.Number, sent.ClientName))
	return sent, nil
}

// Delete removes a PENDING invoice. Its number is never reused.
func (s *InvoiceService) Delete(ctx context.Context, id uint) error {
	inv, err := s.invoices.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := billing.CheckDeletable(inv); err != nil {
		s.reject("delete", err)
		return err
	}
	return s.invoices.Delete(ctx, id)
}

func (s *InvoiceService) reject(op string, err error) {
	reason := "other"
	switch {
	case errors.Is(err, billing.ErrInvalidState):
		reason = "invalid_state"
	case errors.Is(err, billing.ErrValidation):
		reason = "validation_failed"
	}
	s.metrics.InvoiceRejected(op, reason)
}
