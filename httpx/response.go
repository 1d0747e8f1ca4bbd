// Package httpx writes JSON responses and maps domain errors to HTTP statuses.
package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/jmuseri/facturapp/i18n"
	"github.com/jmuseri/facturapp/internal/billing"
	"github.com/jmuseri/facturapp/internal/logger"
	"github.com/jmuseri/facturapp/internal/repository"
	"github.com/jmuseri/facturapp/internal/services"
)

// MaxBodyBytes bounds decoded request bodies.
const MaxBodyBytes = 1 << 20

type ErrorResponse struct {
	Error    string            `json:"error"`
	Message  string            `json:"message,omitempty"`
	Details  any               `json:"details,omitempty"`
	Messages map[string]string `json:"messages,omitempty"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	var body []byte
	var err error
	if payload != nil {
		body, err = json.Marshal(payload)
		if err != nil {
			// best-effort error response; avoid writing partial JSON
			http.Error(w, `{"error":"encode_error"}`, http.StatusInternalServerError)
			return
		}
	} else {
		body = []byte("null")
	}
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// JSONError writes an error body carrying code and its translated message.
func JSONError(w http.ResponseWriter, status int, code, message string) {
	JSON(w, status, ErrorResponse{Error: code, Message: message})
}

// NoContent writes a 204.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// ErrBadRequest marks malformed input that never reached validation.
var ErrBadRequest = errors.New("bad request")

// Decode reads a JSON body into dst, rejecting unknown fields.
func Decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return nil
}

// PathID parses the {id} path value.
func PathID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: invalid id %q", ErrBadRequest, r.PathValue("id"))
	}
	return uint(id), nil
}

// Error writes err with the status its type calls for. Validation errors
// carry the per-field codes and their translations in the request language.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	lang := i18n.LangFromContext(r.Context())

	var verr *billing.ValidationError
	var serr *billing.InvalidStateError
	switch {
	case errors.As(err, &verr):
		JSON(w, http.StatusBadRequest, ErrorResponse{
			Error:    verr.Code(),
			Message:  i18n.T(lang, verr.Code()),
			Details:  verr.Violations,
			Messages: i18n.TranslateAll(lang, verr.Violations),
		})
	case errors.As(err, &serr):
		JSON(w, http.StatusConflict, ErrorResponse{
			Error:   serr.Code(),
			Message: i18n.T(lang, serr.Code()),
			Details: map[string]any{"entity": serr.Entity, "id": serr.ID, "state": serr.State, "operation": serr.Op},
		})
	case errors.Is(err, repository.ErrNotFound):
		JSONError(w, http.StatusNotFound, "not_found", i18n.T(lang, "not_found"))
	case errors.Is(err, services.ErrInvalidCredentials):
		JSONError(w, http.StatusUnauthorized, "invalid_credentials", i18n.T(lang, "invalid_credentials"))
	case errors.Is(err, ErrBadRequest):
		JSONError(w, http.StatusBadRequest, "bad_request", i18n.T(lang, "bad_request"))
	default:
		logger.FromContext(r.Context()).Error("request failed", zap.Error(err))
		JSONError(w, http.StatusInternalServerError, "internal_error", i18n.T(lang, "internal_error"))
	}
}
