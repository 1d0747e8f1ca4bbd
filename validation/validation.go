// Package validation collects per-field violations for form and JSON input.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/ttacon/libphonenumber"
)

// DateLayout is the calendar date format accepted from clients.
const DateLayout = "2006-01-02"

// Violation codes. They double as i18n keys.
const (
	CodeRequired       = "required"
	CodeMustBePositive = "must_be_positive"
	CodeNegative       = "must_not_be_negative"
	CodeOutOfRange     = "out_of_range"
	CodeInvalidNumber  = "invalid_number"
	CodeInvalidEmail   = "invalid_email"
	CodeInvalidCUIT    = "invalid_cuit"
	CodeInvalidPhone   = "invalid_phone"
	CodeInvalidDate    = "invalid_date"
	CodeInvalidChoice  = "invalid_choice"
	CodeMinItems       = "min_one_item"
	CodeDeliveryFlags  = "delivery_channel_required"
	CodeNotFound       = "not_found"
	CodeMismatch       = "mismatch"
	CodeInvalid        = "invalid"
	CodeTooShort       = "too_short"
	CodeTaken          = "already_exists"
)

// Violations maps a field name to a violation code.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Add records code for field unless the field already has a violation.
func (v Violations) Add(field, code string) {
	if _, ok := v[field]; !ok {
		v[field] = code
	}
}

// Merge copies other into v, keeping existing entries.
func (v Violations) Merge(other Violations) {
	for f, c := range other {
		v.Add(f, c)
	}
}

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, CodeRequired)
	}
}

// Positive requires val > 0.
func Positive(field string, val decimal.Decimal, v Violations) {
	if !val.IsPositive() {
		v.Add(field, CodeMustBePositive)
	}
}

// NonNegative requires val >= 0.
func NonNegative(field string, val decimal.Decimal, v Violations) {
	if val.IsNegative() {
		v.Add(field, CodeNegative)
	}
}

// Decimal parses a user-entered number. Empty or malformed text is a violation.
func Decimal(field, value string, v Violations) decimal.Decimal {
	s := strings.TrimSpace(value)
	if s == "" {
		v.Add(field, CodeRequired)
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		v.Add(field, CodeInvalidNumber)
		return decimal.Zero
	}
	return d
}

// Date parses a YYYY-MM-DD date in UTC.
func Date(field, value string, v Violations) time.Time {
	s := strings.TrimSpace(value)
	if s == "" {
		v.Add(field, CodeRequired)
		return time.Time{}
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		v.Add(field, CodeInvalidDate)
		return time.Time{}
	}
	return t
}

var cuitPattern = regexp.MustCompile(`^\d{2}-\d{8}-\d$`)

// IsValidCUIT reports whether s has the NN-NNNNNNNN-N shape.
func IsValidCUIT(s string) bool {
	return cuitPattern.MatchString(s)
}

// CUIT validates an Argentine tax identifier.
func CUIT(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, CodeRequired)
		return
	}
	if !IsValidCUIT(value) {
		v.Add(field, CodeInvalidCUIT)
	}
}

// DefaultRegion is used for phone numbers without a country prefix.
const DefaultRegion = "AR"

// Phone validates a phone number for DefaultRegion.
func Phone(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, CodeRequired)
		return
	}
	num, err := libphonenumber.Parse(value, DefaultRegion)
	if err != nil || !libphonenumber.IsValidNumber(num) {
		v.Add(field, CodeInvalidPhone)
	}
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Struct runs the `validate` struct tags of s and records failures in v,
// keyed by the JSON field name.
func Struct(s any, v Violations) {
	err := structValidator().Struct(s)
	if err == nil {
		return
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		v.Add("_", CodeInvalid)
		return
	}
	for _, fe := range verrs {
		v.Add(fe.Field(), tagCode(fe.Tag()))
	}
}

func tagCode(tag string) string {
	switch tag {
	case "required":
		return CodeRequired
	case "email":
		return CodeInvalidEmail
	case "gt", "gte", "min":
		return CodeMustBePositive
	case "oneof":
		return CodeInvalidChoice
	default:
		return CodeInvalid
	}
}
