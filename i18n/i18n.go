// Package i18n translates violation and error codes for API responses.
package i18n

import (
	"context"
	"strings"

	"golang.org/x/text/language"
)

// DefaultLang is used when no supported language is requested.
const DefaultLang = "es"

var supported = []language.Tag{language.Spanish, language.English}

var matcher = language.NewMatcher(supported)

var catalog = map[string]map[string]string{
	"es": {
		"required":                  "Requerido",
		"must_be_positive":          "Debe ser mayor a cero",
		"must_not_be_negative":      "No puede ser negativo",
		"out_of_range":              "Fuera de rango",
		"invalid_number":            "Número inválido",
		"invalid_email":             "Email inválido",
		"invalid_cuit":              "CUIT inválido (formato: XX-XXXXXXXX-X)",
		"invalid_phone":             "Teléfono inválido",
		"invalid_date":              "Fecha inválida",
		"invalid_choice":            "Opción inválida",
		"min_one_item":              "Debe haber al menos un ítem",
		"delivery_channel_required": "Seleccioná al menos un medio de envío",
		"not_found":                 "No encontrado",
		"mismatch":                  "No coincide",
		"invalid":                   "Valor inválido",
		"validation_failed":         "Revisá los campos marcados",
		"invalid_state":             "La operación no está permitida en el estado actual",
		"unauthorized":              "No autorizado",
		"invalid_credentials":       "Credenciales inválidas",
		"too_short":                 "Debe tener al menos 8 caracteres",
		"already_exists":            "Ya existe",
		"bad_request":               "Solicitud inválida",
		"internal_error":            "Error interno",
	},
	"en": {
		"required":                  "Required",
		"must_be_positive":          "Must be greater than zero",
		"must_not_be_negative":      "Must not be negative",
		"out_of_range":              "Out of range",
		"invalid_number":            "Invalid number",
		"invalid_email":             "Invalid email",
		"invalid_cuit":              "Invalid CUIT (format: XX-XXXXXXXX-X)",
		"invalid_phone":             "Invalid phone number",
		"invalid_date":              "Invalid date",
		"invalid_choice":            "Invalid choice",
		"min_one_item":              "At least one item is required",
		"delivery_channel_required": "Select at least one delivery channel",
		"not_found":                 "Not found",
		"mismatch":                  "Does not match",
		"invalid":                   "Invalid value",
		"validation_failed":         "Please check the highlighted fields",
		"invalid_state":             "Operation not allowed in the current state",
		"unauthorized":              "Unauthorized",
		"invalid_credentials":       "Invalid credentials",
		"too_short":                 "Must be at least 8 characters long",
		"already_exists":            "Already exists",
		"bad_request":               "Malformed request",
		"internal_error":            "Internal error",
	},
}

// T translates code into lang, falling back to DefaultLang and then to the code itself.
func T(lang, code string) string {
	if m, ok := catalog[strings.ToLower(lang)]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if s, ok := catalog[DefaultLang][code]; ok {
		return s
	}
	return code
}

// TranslateAll translates every value of a field->code map.
func TranslateAll(lang string, codes map[string]string) map[string]string {
	out := make(map[string]string, len(codes))
	for field, code := range codes {
		out[field] = T(lang, code)
	}
	return out
}

// DetectLanguage picks a supported language from an Accept-Language header.
func DetectLanguage(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return DefaultLang
	}
	tag, _, conf := matcher.Match(tags...)
	if conf == language.No {
		return DefaultLang
	}
	base, _ := tag.Base()
	return base.String()
}

// Supported reports whether lang has a catalog.
func Supported(lang string) bool {
	_, ok := catalog[strings.ToLower(lang)]
	return ok
}

type langKey struct{}

// WithLang stores the request language in ctx.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, langKey{}, lang)
}

// LangFromContext returns the request language, DefaultLang if unset.
func LangFromContext(ctx context.Context) string {
	if lang, ok := ctx.Value(langKey{}).(string); ok && lang != "" {
		return lang
	}
	return DefaultLang
}
