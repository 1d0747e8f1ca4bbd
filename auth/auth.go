// Package auth issues and checks session tokens. A token is an HS256 JWT
// carrying the user id, sent as an HttpOnly cookie or an Authorization
// Bearer header.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jmuseri/facturapp/internal/config"
)

const issuer = "facturapp"

type ctxKey string

const userIDCtxKey = ctxKey("userID")

// Token errors.
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// UserVerifier is an optional callback to validate that a session's user still exists.
// If nil, no extra verification is performed.
type UserVerifier func(ctx context.Context, uid uint) bool

// Sessions signs tokens and guards routes.
type Sessions struct {
	secret   []byte
	ttl      time.Duration
	cookie   string
	secure   bool
	verifier UserVerifier
	now      func() time.Time
}

func NewSessions(cfg config.AuthConfig) *Sessions {
	cookie := cfg.CookieName
	if cookie == "" {
		cookie = "session"
	}
	return &Sessions{
		secret: []byte(cfg.Secret),
		ttl:    cfg.TokenTTL,
		cookie: cookie,
		secure: cfg.SecureCookie,
		now:    time.Now,
	}
}

// SetUserVerifier configures the verifier used by RequireAuth.
func (s *Sessions) SetUserVerifier(v UserVerifier) { s.verifier = v }

// Issue returns a signed token for userID and its expiry.
func (s *Sessions) Issue(userID uint) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.ttl)
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   strconv.FormatUint(uint64(userID), 10),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, exp, nil
}

// Parse validates a token and returns the user id it was issued for.
func (s *Sessions) Parse(token string) (uint, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrExpiredToken
		}
		return 0, ErrInvalidToken
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidToken
	}
	return uint(id), nil
}

// SetCookie stores token in the session cookie.
func (s *Sessions) SetCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  expires,
	})
}

// ClearCookie deletes the session cookie.
func (s *Sessions) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: s.cookie, Value: "", Path: "/", Expires: time.Unix(0, 0), MaxAge: -1, HttpOnly: true, SameSite: http.SameSiteLaxMode})
}

// token returns the Bearer token if present, else the cookie value.
func (s *Sessions) token(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if tok, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(tok)
		}
	}
	if c, err := r.Cookie(s.cookie); err == nil {
		return c.Value
	}
	return ""
}

// FromRequest returns the user id of a valid token carried by r.
func (s *Sessions) FromRequest(r *http.Request) (uint, bool) {
	tok := s.token(r)
	if tok == "" {
		return 0, false
	}
	uid, err := s.Parse(tok)
	return uid, err == nil
}

// WithUserID stores user id in context.
func WithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, userIDCtxKey, userID)
}

// UserIDFromContext extracts user id.
func UserIDFromContext(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(userIDCtxKey).(uint)
	return id, ok
}

// Middleware attaches user id to request context if present.
func (s *Sessions) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if uid, ok := s.FromRequest(r); ok {
			r = r.WithContext(WithUserID(r.Context(), uid))
		}
		next.ServeHTTP(w, r)
	})
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
}

// RequireAuth returns 401 JSON unless Middleware found a valid session.
func (s *Sessions) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, ok := UserIDFromContext(r.Context())
		if !ok {
			unauthorized(w)
			return
		}
		if s.verifier != nil && !s.verifier(r.Context(), uid) {
			// Session refers to a deleted user.
			s.ClearCookie(w)
			unauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}
