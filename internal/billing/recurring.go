package billing

import (
	"cmp"
	"fmt"
	"iter"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jmuseri/facturapp/internal/models"
	"github.com/jmuseri/facturapp/validation"
)

// Frequencies lists the recognized schedule frequencies.
var Frequencies = []models.Frequency{
	models.FrequencyMonthly,
	models.FrequencyBiweekly,
	models.FrequencyQuarterly,
}

// ParseFrequency accepts a frequency name in any letter case.
func ParseFrequency(s string) (models.Frequency, bool) {
	f := models.Frequency(strings.ToUpper(strings.TrimSpace(s)))
	if slices.Contains(Frequencies, f) {
		return f, true
	}
	return "", false
}

// NextOccurrence returns the date one period after date. Monthly and
// quarterly periods clamp to the last day of a shorter target month.
func NextOccurrence(date time.Time, f models.Frequency) (time.Time, error) {
	switch f {
	case models.FrequencyMonthly:
		return addMonths(date, 1), nil
	case models.FrequencyQuarterly:
		return addMonths(date, 3), nil
	case models.FrequencyBiweekly:
		return date.AddDate(0, 0, 14), nil
	default:
		return time.Time{}, fmt.Errorf("unknown frequency %q", f)
	}
}

func addMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, -1).Day()
	return time.Date(first.Year(), first.Month(), min(d, last), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func compareNext(a, b models.RecurringSchedule) int {
	if c := a.NextDate.Compare(b.NextDate); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// Upcoming yields the active schedules ordered by NextDate (then ID), at most
// limit of them. The sequence is recomputed from schedules on every range.
func Upcoming(schedules []models.RecurringSchedule, limit int) iter.Seq[models.RecurringSchedule] {
	return func(yield func(models.RecurringSchedule) bool) {
		if limit <= 0 {
			return
		}
		active := make([]models.RecurringSchedule, 0, len(schedules))
		for _, s := range schedules {
			if s.Active {
				active = append(active, s)
			}
		}
		slices.SortStableFunc(active, compareNext)
		for i, s := range active {
			if i == limit || !yield(s) {
				return
			}
		}
	}
}

// Toggle sets the active flag. NextDate is left as is.
func Toggle(s models.RecurringSchedule, active bool) models.RecurringSchedule {
	s.Active = active
	return s
}

// Reschedule sets a new start date (YYYY-MM-DD) and frequency. When either
// differs from the current value, NextDate restarts at the new start date.
func Reschedule(s models.RecurringSchedule, newStart, newFrequency string) (models.RecurringSchedule, error) {
	v := make(validation.Violations)
	start := validation.Date("start_date", newStart, v)
	freq := frequency("frequency", newFrequency, v)
	if err := invalid(v); err != nil {
		return s, err
	}
	if !sameDay(start, s.StartDate) || freq != s.Frequency {
		s.NextDate = start
	}
	s.StartDate = start
	s.Frequency = freq
	return s, nil
}

// Advance rolls NextDate forward by one period.
func Advance(s models.RecurringSchedule) (models.RecurringSchedule, error) {
	next, err := NextOccurrence(s.NextDate, s.Frequency)
	if err != nil {
		return s, err
	}
	s.NextDate = next
	return s, nil
}

func frequency(field, value string, v validation.Violations) models.Frequency {
	if strings.TrimSpace(value) == "" {
		v.Add(field, validation.CodeRequired)
		return ""
	}
	f, ok := ParseFrequency(value)
	if !ok {
		v.Add(field, validation.CodeInvalidChoice)
	}
	return f
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// ScheduleDraft is a submitted recurring schedule. StartDate and Frequency
// hold the raw text entered by the user.
type ScheduleDraft struct {
	Description    string
	ClientID       uint
	ClientName     string
	Concept        string
	Amount         decimal.Decimal
	Frequency      string
	StartDate      string
	SendByEmail    bool
	SendByWhatsapp bool
}

// Validate returns every violation of d.
func (d ScheduleDraft) Validate() validation.Violations {
	v := make(validation.Violations)
	validation.Required("description", d.Description, v)
	if d.ClientID == 0 {
		v.Add("client_id", validation.CodeRequired)
	}
	validation.Required("concept", d.Concept, v)
	validation.Positive("amount", d.Amount, v)
	frequency("frequency", d.Frequency, v)
	validation.Date("start_date", d.StartDate, v)
	if !d.SendByEmail && !d.SendByWhatsapp {
		v.Add("send_by", validation.CodeDeliveryFlags)
	}
	return v
}

// NewSchedule builds an active schedule whose first occurrence is its start date.
func NewSchedule(d ScheduleDraft) (models.RecurringSchedule, error) {
	if err := invalid(d.Validate()); err != nil {
		return models.RecurringSchedule{}, err
	}
	start, _ := time.Parse(validation.DateLayout, strings.TrimSpace(d.StartDate))
	freq, _ := ParseFrequency(d.Frequency)
	return models.RecurringSchedule{
		Description:    strings.TrimSpace(d.Description),
		ClientID:       d.ClientID,
		ClientName:     d.ClientName,
		Concept:        strings.TrimSpace(d.Concept),
		Amount:         d.Amount,
		Frequency:      freq,
		StartDate:      start,
		NextDate:       start,
		Active:         true,
		SendByEmail:    d.SendByEmail,
		SendByWhatsapp: d.SendByWhatsapp,
	}, nil
}

// EditSchedule applies d to s. NextDate follows the Reschedule rule; the
// active flag is not changed by an edit.
func EditSchedule(s models.RecurringSchedule, d ScheduleDraft) (models.RecurringSchedule, error) {
	if err := invalid(d.Validate()); err != nil {
		return s, err
	}
	out, err := Reschedule(s, d.StartDate, d.Frequency)
	if err != nil {
		return s, err
	}
	out.Description = strings.TrimSpace(d.Description)
	out.ClientID = d.ClientID
	out.ClientName = d.ClientName
	out.Concept = strings.TrimSpace(d.Concept)
	out.Amount = d.Amount
	out.SendByEmail = d.SendByEmail
	out.SendByWhatsapp = d.SendByWhatsapp
	return out, nil
}
