package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jmuseri/facturapp/i18n"
)

func TestPrefs(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		cookie     string
		accept     string
		want       string
		wantCookie bool
	}{
		{"default", "/", "", "", "es", false},
		{"header", "/", "", "en-US,en;q=0.9", "en", false},
		{"cookie beats header", "/", "es", "en", "es", false},
		{"query beats cookie", "/?lang=en", "es", "", "en", true},
		{"unsupported query ignored", "/?lang=fr", "", "", "es", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := Prefs(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = i18n.LangFromContext(r.Context())
			}))
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "lang", Value: tt.cookie})
			}
			if tt.accept != "" {
				req.Header.Set("Accept-Language", tt.accept)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantCookie, len(rec.Result().Cookies()) == 1)
		})
	}
}
