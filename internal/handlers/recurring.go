package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/jmuseri/facturapp/httpx"
	"github.com/jmuseri/facturapp/internal/billing"
	"github.com/jmuseri/facturapp/internal/models"
	"github.com/jmuseri/facturapp/internal/services"
	"github.com/jmuseri/facturapp/validation"
)

type RecurringHandler struct {
	recurring *services.RecurringService
}

func NewRecurringHandler(recurring *services.RecurringService) *RecurringHandler {
	return &RecurringHandler{recurring: recurring}
}

// queryLimit reads a non-negative ?name= value, def when absent.
func queryLimit(r *http.Request, name string, def int) (int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &billing.ValidationError{Violations: validation.Violations{name: validation.CodeInvalidNumber}}
	}
	if n < 0 {
		return 0, &billing.ValidationError{Violations: validation.Violations{name: validation.CodeOutOfRange}}
	}
	return n, nil
}

func (h *RecurringHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.recurring.List(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if list == nil {
		list = []models.RecurringSchedule{}
	}
	httpx.JSON(w, http.StatusOK, list)
}

// Upcoming returns the next active schedules, ?limit= defaulting to three.
func (h *RecurringHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r, "limit", services.DefaultUpcomingLimit)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	list, err := h.recurring.Upcoming(r.Context(), limit)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func decodeSchedule(r *http.Request) (billing.ScheduleDraft, error) {
	var in scheduleRequest
	if err := httpx.Decode(r, &in); err != nil {
		return billing.ScheduleDraft{}, err
	}
	d, parsed := in.draft()
	return d, parseFailure(parsed, d.Validate())
}

func (h *RecurringHandler) Create(w http.ResponseWriter, r *http.Request) {
	d, err := decodeSchedule(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	s, err := h.recurring.Create(r.Context(), d)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, s)
}

func (h *RecurringHandler) View(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	s, err := h.recurring.Get(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, s)
}

func (h *RecurringHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	d, err := decodeSchedule(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	s, err := h.recurring.Update(r.Context(), id, d)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, s)
}

func (h *RecurringHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if err := h.recurring.Delete(r.Context(), id); err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.NoContent(w)
}

// Toggle sets {"active": bool}, or flips the flag when the body is empty.
func (h *RecurringHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	var in struct {
		Active *bool `json:"active"`
	}
	if err := httpx.Decode(r, &in); err != nil && !errors.Is(err, io.EOF) {
		httpx.Error(w, r, err)
		return
	}
	s, err := h.recurring.Toggle(r.Context(), id, in.Active)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, s)
}

// Reschedule changes only the start date and the frequency.
func (h *RecurringHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	var in struct {
		StartDate string `json:"start_date"`
		Frequency string `json:"frequency"`
	}
	if err := httpx.Decode(r, &in); err != nil {
		httpx.Error(w, r, err)
		return
	}
	s, err := h.recurring.Reschedule(r.Context(), id, in.StartDate, in.Frequency)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, s)
}
