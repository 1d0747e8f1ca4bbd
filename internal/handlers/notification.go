package handlers

import (
	"net/http"

	"github.com/jmuseri/facturapp/httpx"
	"github.com/jmuseri/facturapp/internal/models"
	"github.com/jmuseri/facturapp/internal/services"
)

type NotificationHandler struct {
	notifications *services.NotificationService
}

func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r, "limit", services.DefaultNotificationLimit)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	list, err := h.notifications.List(r.Context(), limit)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if list == nil {
		list = []models.Notification{}
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *NotificationHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	n, err := h.notifications.Toggle(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, n)
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	n, err := h.notifications.MarkAllRead(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]int64{"updated": n})
}

func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if err := h.notifications.Delete(r.Context(), id); err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.NoContent(w)
}
