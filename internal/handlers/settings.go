package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/jmuseri/facturapp/auth"
	"github.com/jmuseri/facturapp/httpx"
	"github.com/jmuseri/facturapp/internal/models"
	"github.com/jmuseri/facturapp/internal/services"
)

// SettingsHandler edits the account of the signed-in user.
type SettingsHandler struct {
	accounts *services.AccountService
}

func NewSettingsHandler(accounts *services.AccountService) *SettingsHandler {
	return &SettingsHandler{accounts: accounts}
}

func (h *SettingsHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	var in services.ProfileInput
	if err := httpx.Decode(r, &in); err != nil {
		httpx.Error(w, r, err)
		return
	}
	u, err := h.accounts.UpdateProfile(r.Context(), userID, in)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, u)
}

func (h *SettingsHandler) UpdateFiscal(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	var in services.FiscalInput
	if err := httpx.Decode(r, &in); err != nil {
		httpx.Error(w, r, err)
		return
	}
	u, err := h.accounts.UpdateFiscal(r.Context(), userID, in)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, u)
}

func (h *SettingsHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	var in services.PasswordChange
	if err := httpx.Decode(r, &in); err != nil {
		httpx.Error(w, r, err)
		return
	}
	if err := h.accounts.ChangePassword(r.Context(), userID, in); err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.NoContent(w)
}

type planView struct {
	ID               uint            `json:"id"`
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	MonthlyPrice     decimal.Decimal `json:"monthly_price"`
	AnnualPrice      decimal.Decimal `json:"annual_price"`
	InvoicesPerMonth int             `json:"invoices_per_month"`
	Features         []string        `json:"features"`
}

func viewPlan(p models.Plan) planView {
	features := p.FeatureList()
	if features == nil {
		features = []string{}
	}
	return planView{
		ID:               p.ID,
		Name:             p.Name,
		Description:      p.Description,
		MonthlyPrice:     p.MonthlyPrice,
		AnnualPrice:      p.AnnualPrice,
		InvoicesPerMonth: p.InvoicesPerMonth,
		Features:         features,
	}
}

func (h *SettingsHandler) Plans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.accounts.Plans(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	out := make([]planView, len(plans))
	for i, p := range plans {
		out[i] = viewPlan(p)
	}
	httpx.JSON(w, http.StatusOK, out)
}
