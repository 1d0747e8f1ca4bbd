package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/jmuseri/facturapp/auth"
	"github.com/jmuseri/facturapp/httpx"
	"github.com/jmuseri/facturapp/i18n"
	"github.com/jmuseri/facturapp/internal/billing"
	"github.com/jmuseri/facturapp/internal/logger"
	"github.com/jmuseri/facturapp/internal/models"
	"github.com/jmuseri/facturapp/internal/report"
	"github.com/jmuseri/facturapp/internal/repository"
	"github.com/jmuseri/facturapp/internal/services"
	"github.com/jmuseri/facturapp/validation"
)

type InvoiceHandler struct {
	invoices *services.InvoiceService
	clients  *services.ClientService
	accounts *services.AccountService
}

func NewInvoiceHandler(invoices *services.InvoiceService, clients *services.ClientService, accounts *services.AccountService) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices, clients: clients, accounts: accounts}
}

// filter reads ?client_id=&status=&from=&to=&q= into a repository filter.
func filter(r *http.Request) (repository.InvoiceFilter, error) {
	q := r.URL.Query()
	v := make(validation.Violations)
	f := repository.InvoiceFilter{Search: strings.TrimSpace(q.Get("q"))}
	if s := q.Get("client_id"); s != "" {
		id, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			v.Add("client_id", validation.CodeInvalidNumber)
		}
		f.ClientID = uint(id)
	}
	if s := q.Get("status"); s != "" {
		switch st := models.InvoiceStatus(strings.ToUpper(s)); st {
		case models.InvoiceStatusPending, models.InvoiceStatusSent:
			f.Status = st
		default:
			v.Add("status", validation.CodeInvalidChoice)
		}
	}
	if s := q.Get("from"); s != "" {
		f.From = validation.Date("from", s, v)
	}
	if s := q.Get("to"); s != "" {
		f.To = validation.Date("to", s, v)
	}
	if !v.Empty() {
		return f, &billing.ValidationError{Violations: v}
	}
	return f, nil
}

// List returns the invoices matching the query filters, newest first.
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	f, err := filter(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	invoices, err := h.invoices.List(r.Context(), f)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if invoices == nil {
		invoices = []models.Invoice{}
	}
	httpx.JSON(w, http.StatusOK, invoices)
}

func (h *InvoiceHandler) decodeDraft(r *http.Request) (billing.InvoiceDraft, error) {
	var in invoiceRequest
	if err := httpx.Decode(r, &in); err != nil {
		return billing.InvoiceDraft{}, err
	}
	d, parsed := in.draft()
	return d, parseFailure(parsed, d.Validate())
}

func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	d, err := h.decodeDraft(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	inv, err := h.invoices.Create(r.Context(), d)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, inv)
}

func (h *InvoiceHandler) View(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	inv, err := h.invoices.Get(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

func (h *InvoiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	d, err := h.decodeDraft(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	inv, err := h.invoices.Update(r.Context(), id, d)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

func (h *InvoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if err := h.invoices.Delete(r.Context(), id); err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.NoContent(w)
}

// Send marks a pending invoice as sent. A second send answers 409.
func (h *InvoiceHandler) Send(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	inv, err := h.invoices.Send(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

func (h *InvoiceHandler) PDF(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	ctx := r.Context()
	inv, err := h.invoices.Get(ctx, id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	client, err := h.clients.Get(ctx, inv.ClientID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		httpx.Error(w, r, err)
		return
	}
	userID, _ := auth.UserIDFromContext(ctx)
	user, err := h.accounts.Me(ctx, userID)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	doc, err := report.InvoicePDF(inv, client, report.IssuerOf(user), i18n.LangFromContext(ctx))
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="`+inv.Number+`.pdf"`)
	if _, err := w.Write(doc); err != nil {
		logger.FromContext(ctx).Warn("write pdf", zap.Error(err))
	}
}

// Export writes the filtered invoice list as a spreadsheet.
func (h *InvoiceHandler) Export(w http.ResponseWriter, r *http.Request) {
	f, err := filter(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	invoices, err := h.invoices.List(r.Context(), f)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="facturas.xlsx"`)
	if err := report.WriteInvoicesXLSX(w, invoices, i18n.LangFromContext(r.Context())); err != nil {
		logger.FromContext(r.Context()).Error("export invoices", zap.Error(err))
	}
}

type previewResponse struct {
	Items        []decimal.Decimal `json:"items"`
	Total        decimal.Decimal   `json:"total"`
	TotalDisplay string            `json:"total_display"`
}

// Preview computes live totals; unreadable numbers count as zero.
func (h *InvoiceHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var in previewRequest
	if err := httpx.Decode(r, &in); err != nil {
		httpx.Error(w, r, err)
		return
	}
	totals, total := billing.Preview(in.raw())
	httpx.JSON(w, http.StatusOK, previewResponse{
		Items:        totals,
		Total:        total,
		TotalDisplay: billing.FormatAmount(total, i18n.LangFromContext(r.Context())),
	})
}
