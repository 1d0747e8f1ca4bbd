// Package middleware holds request preference handling shared by every route.
package middleware

import (
	"net/http"

	"github.com/jmuseri/facturapp/i18n"
)

const (
	langCookie = "lang"
	cookieAge  = 86400 * 30
)

// Prefs resolves the response language (query > cookie > Accept-Language)
// and stores it in the request context. A language chosen through the query
// is persisted in a cookie for ~30 days.
func Prefs(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := ""
		if c, err := r.Cookie(langCookie); err == nil {
			lang = c.Value
		}
		if ql := r.URL.Query().Get("lang"); i18n.Supported(ql) {
			lang = ql
			http.SetCookie(w, &http.Cookie{Name: langCookie, Value: lang, Path: "/", MaxAge: cookieAge})
		}
		if !i18n.Supported(lang) {
			lang = i18n.DetectLanguage(r.Header.Get("Accept-Language"))
		}
		next.ServeHTTP(w, r.WithContext(i18n.WithLang(r.Context(), lang)))
	})
}
