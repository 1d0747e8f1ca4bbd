package handlers

import (
	"net/http"

	"github.com/jmuseri/facturapp/auth"
	"github.com/jmuseri/facturapp/httpx"
	"github.com/jmuseri/facturapp/internal/services"
)

type DashboardHandler struct {
	dashboard *services.DashboardService
}

func NewDashboardHandler(dashboard *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Show returns the summary of the signed-in user. ?recent=, ?notifications=
// and ?upcoming= resize the sections.
func (h *DashboardHandler) Show(w http.ResponseWriter, r *http.Request) {
	limits := services.DefaultDashboardLimits
	var err error
	for _, p := range []struct {
		name string
		dst  *int
	}{
		{"recent", &limits.Recent},
		{"notifications", &limits.Notifications},
		{"upcoming", &limits.Upcoming},
	} {
		if *p.dst, err = queryLimit(r, p.name, *p.dst); err != nil {
			httpx.Error(w, r, err)
			return
		}
	}
	userID, _ := auth.UserIDFromContext(r.Context())
	d, err := h.dashboard.Summary(r.Context(), userID, limits)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, d)
}
