package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/jmuseri/facturapp/auth"
	"github.com/jmuseri/facturapp/httpx"
	"github.com/jmuseri/facturapp/internal/logger"
	"github.com/jmuseri/facturapp/internal/models"
	"github.com/jmuseri/facturapp/internal/services"
)

type AuthHandler struct {
	accounts *services.AccountService
	sessions *auth.Sessions
}

func NewAuthHandler(accounts *services.AccountService, sessions *auth.Sessions) *AuthHandler {
	return &AuthHandler{accounts: accounts, sessions: sessions}
}

type sessionResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      models.User `json:"user"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// startSession issues a token for u, sets the cookie and writes the session.
func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, status int, u models.User) {
	tok, exp, err := h.sessions.Issue(u.ID)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	h.sessions.SetCookie(w, tok, exp)
	httpx.JSON(w, status, sessionResponse{Token: tok, ExpiresAt: exp, User: u})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := httpx.Decode(r, &in); err != nil {
		httpx.Error(w, r, err)
		return
	}
	u, err := h.accounts.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		logger.FromContext(r.Context()).Info("login rejected", zap.String("email", in.Email))
		httpx.Error(w, r, err)
		return
	}
	h.startSession(w, r, http.StatusOK, u)
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in services.Registration
	if err := httpx.Decode(r, &in); err != nil {
		httpx.Error(w, r, err)
		return
	}
	u, err := h.accounts.Register(r.Context(), in)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	h.startSession(w, r, http.StatusCreated, u)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.ClearCookie(w)
	httpx.NoContent(w)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	u, err := h.accounts.Me(r.Context(), userID)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, u)
}
