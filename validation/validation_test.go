package validation

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestViolations_AddKeepsFirst(t *testing.T) {
	v := make(Violations)
	v.Add("email", CodeRequired)
	v.Add("email", CodeInvalidEmail)
	v.Merge(Violations{"email": CodeTaken, "name": CodeRequired})

	assert.Equal(t, Violations{"email": CodeRequired, "name": CodeRequired}, v)
	assert.False(t, v.Empty())
}

func TestDecimalAndSign(t *testing.T) {
	v := make(Violations)

	assert.Equal(t, "12.5", Decimal("q", " 12.5 ", v).String())
	Decimal("empty", " ", v)
	Decimal("bad", "1,5", v)
	Positive("zero", decimal.Zero, v)
	NonNegative("neg", decimal.NewFromInt(-1), v)
	NonNegative("ok", decimal.Zero, v)

	assert.Equal(t, Violations{
		"empty": CodeRequired,
		"bad":   CodeInvalidNumber,
		"zero":  CodeMustBePositive,
		"neg":   CodeNegative,
	}, v)
}

func TestDate(t *testing.T) {
	v := make(Violations)

	assert.Equal(t, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC), Date("a", "2025-02-28", v))
	assert.True(t, Date("b", "2025-02-30", v).IsZero())
	assert.True(t, Date("c", "", v).IsZero())
	Date("d", "28/02/2025", v)

	assert.Equal(t, Violations{"b": CodeInvalidDate, "c": CodeRequired, "d": CodeInvalidDate}, v)
}

func TestCUIT(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"20-12345678-9", ""},
		{"30-71234567-1", ""},
		{"", CodeRequired},
		{"20123456789", CodeInvalidCUIT},
		{"20-1234567-9", CodeInvalidCUIT},
		{"AB-12345678-9", CodeInvalidCUIT},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v := make(Violations)
			CUIT("cuit", tt.in, v)
			assert.Equal(t, tt.want, v["cuit"])
		})
	}
}

func TestPhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"+54 11 4321-5678", ""},
		{"", CodeRequired},
		{"123", CodeInvalidPhone},
		{"not a phone", CodeInvalidPhone},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v := make(Violations)
			Phone("phone", tt.in, v)
			assert.Equal(t, tt.want, v["phone"])
		})
	}
}

func TestStruct(t *testing.T) {
	type form struct {
		Name   string `json:"name" validate:"required"`
		Email  string `json:"email" validate:"required,email"`
		Amount int    `json:"amount" validate:"gt=0"`
		Kind   string `json:"kind" validate:"oneof=A B"`
		Hidden string `json:"-" validate:"required"`
	}
	v := make(Violations)

	Struct(form{Email: "nope", Kind: "C", Hidden: "x"}, v)

	assert.Equal(t, Violations{
		"name":   CodeRequired,
		"email":  CodeInvalidEmail,
		"amount": CodeMustBePositive,
		"kind":   CodeInvalidChoice,
	}, v)

	ok := make(Violations)
	Struct(form{Name: "a", Email: "a@b.co", Amount: 1, Kind: "B", Hidden: "x"}, ok)
	assert.True(t, ok.Empty())
}
